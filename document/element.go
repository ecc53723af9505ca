package document

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/ByLCY/dotmatrix/dsl"
)

// element 是 DSL 命令与 XML 元素的共同中间形式，builder 只认识它。
type element struct {
	name     string
	attrs    map[string]string
	text     string
	children []*element
}

func fromCommand(cmd *dsl.Command) *element {
	el := &element{
		name:  strings.ToLower(cmd.Name),
		attrs: cmd.Attrs(),
		text:  cmd.Body.Text(),
	}
	for _, child := range cmd.Body.Commands() {
		el.children = append(el.children, fromCommand(child))
	}
	return el
}

func fromXML(el *etree.Element) *element {
	out := &element{
		name:  strings.ToLower(el.Tag),
		attrs: make(map[string]string, len(el.Attr)),
		text:  strings.TrimSpace(el.Text()),
	}
	for _, a := range el.Attr {
		out.attrs[strings.ToLower(a.Key)] = a.Value
	}
	for _, child := range el.ChildElements() {
		out.children = append(out.children, fromXML(child))
	}
	return out
}

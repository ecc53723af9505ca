// Package document resolves .dmx (DSL) and XML sources into a static
// layout.Node tree ready for layout.Render.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/ByLCY/dotmatrix/dsl"
	"github.com/ByLCY/dotmatrix/layout"
)

// ErrEmptyDocument 表示文档中没有任何可布局的节点。
var ErrEmptyDocument = errors.New("document has no layout nodes")

// Options 控制文档解析。
type Options struct {
	// DPI 用于把 mm/in/pt 等物理长度换算为点，<=0 时使用 layout.DefaultDPI。
	DPI int
	// Data 为 ${} 绑定、if 与 each 的数据源，通常来自 JSON。
	Data any
}

// PageSpec 为文档内声明的页面设置，覆盖配置文件中的同名项。
type PageSpec struct {
	Preset    string `json:"preset,omitempty"`
	Landscape *bool  `json:"landscape,omitempty"`
	Margin    string `json:"margin,omitempty"`
	Width     string `json:"width,omitempty"`
	Height    string `json:"height,omitempty"`
}

// Document 为解析结果。
type Document struct {
	Name string            `json:"name"`
	Meta map[string]string `json:"meta,omitempty"`
	Page *PageSpec         `json:"page,omitempty"`
	Root layout.Node       `json:"root"`
}

// Load 按扩展名选择解析器：.xml 使用 XML，其余按 DSL 处理。
func Load(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", path, err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return ParseXML(f, opts)
	}
	return ParseDSL(f, opts)
}

// ParseDSL parses a .dmx source and resolves it.
func ParseDSL(r io.Reader, opts Options) (*Document, error) {
	f, err := dsl.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromDSL(f, opts)
}

// FromDSL resolves an already parsed DSL file.
func FromDSL(f *dsl.File, opts Options) (*Document, error) {
	out := &Document{Name: f.Name, Meta: map[string]string{}}
	var body []*element
	for _, sec := range f.Sections {
		switch {
		case sec.Meta != nil:
			for _, e := range sec.Meta.Entries {
				out.Meta[e.Key] = e.Value.Text()
			}
		case sec.Page != nil:
			out.Page = pageSpec(sec.Page.Attrs())
			for _, cmd := range sec.Page.Body.Commands() {
				body = append(body, fromCommand(cmd))
			}
		case sec.Node != nil:
			body = append(body, fromCommand(sec.Node))
		}
	}
	return out.resolve(body, opts)
}

// ParseXML parses the XML form: <doc name="..."><meta>...</meta><page preset="a4">...</page></doc>.
func ParseXML(r io.Reader, opts Options) (*Document, error) {
	x := etree.NewDocument()
	if _, err := x.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse xml: %w", err)
	}
	root := x.Root()
	if root == nil {
		return nil, fmt.Errorf("parse xml: %w", ErrEmptyDocument)
	}
	out := &Document{Name: root.SelectAttrValue("name", ""), Meta: map[string]string{}}
	var body []*element
	for _, child := range root.ChildElements() {
		switch strings.ToLower(child.Tag) {
		case "meta":
			for _, m := range child.ChildElements() {
				out.Meta[m.Tag] = strings.TrimSpace(m.Text())
			}
		case "page":
			el := fromXML(child)
			out.Page = pageSpec(el.attrs)
			body = append(body, el.children...)
		default:
			body = append(body, fromXML(child))
		}
	}
	return out.resolve(body, opts)
}

// resolve 构建节点树；多个顶层节点包裹在一个纵向 Stack 中。
func (d *Document) resolve(body []*element, opts Options) (*Document, error) {
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = layout.DefaultDPI
	}
	b := &builder{dpi: dpi}
	nodes := b.children(body, opts.Data)
	switch len(nodes) {
	case 0:
		return nil, ErrEmptyDocument
	case 1:
		d.Root = nodes[0]
	default:
		d.Root = layout.NewStack(nodes...)
	}
	return d, nil
}

func pageSpec(attrs map[string]string) *PageSpec {
	p := &PageSpec{
		Preset: attrs["preset"],
		Margin: attrs["margin"],
		Width:  attrs["width"],
		Height: attrs["height"],
	}
	if v, ok := attrs["landscape"]; ok {
		p.Landscape = layout.Bool(parseBool(v))
	} else if v, ok := attrs["portrait"]; ok {
		p.Landscape = layout.Bool(!parseBool(v))
	} else if v, ok := attrs["orientation"]; ok {
		p.Landscape = layout.Bool(strings.EqualFold(v, "landscape"))
	}
	return p
}

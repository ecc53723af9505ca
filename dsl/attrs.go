package dsl

import "strings"

// 不带取值时视为 true 的开关，例如 `text wrap bold { ... }`。
var switches = map[string]bool{
	"wrap":          true,
	"bold":          true,
	"italic":        true,
	"underline":     true,
	"condensed":     true,
	"proportional":  true,
	"double-width":  true,
	"double-height": true,
	"flex":          true,
	"landscape":     true,
	"portrait":      true,
}

// 按 CSS 顺序接受 1-4 个取值的属性。
var boxKeys = map[string]bool{
	"padding": true,
	"margin":  true,
}

// Attrs 把命令参数与块内的 `key: value` 条目合并为属性表，键一律小写。
//
// `if` 的全部参数构成条件 "test"；`each` 的参数形如 `<path> as <name>`，
// 得到 "items" 与 "as"；其余命令为 `key value` 序列，开关可省略取值，
// 首个独立的字符串参数记为 "content"。
func (c *Command) Attrs() map[string]string {
	name := strings.ToLower(c.Name)
	var attrs map[string]string
	switch name {
	case "if":
		attrs = map[string]string{"test": JoinRaw(c.Args)}
	case "each":
		attrs = eachAttrs(c.Args)
	default:
		attrs = pairs(c.Args)
	}
	if c.Body != nil {
		for _, st := range c.Body.Statements {
			if st.Entry != nil {
				attrs[strings.ToLower(st.Entry.Key)] = st.Entry.Value.Text()
			}
		}
	}
	return attrs
}

// Attrs returns the page arguments plus "preset".
func (p *Page) Attrs() map[string]string {
	attrs := pairs(p.Args)
	attrs["preset"] = p.Preset
	return attrs
}

func eachAttrs(args []*Arg) map[string]string {
	for i, a := range args {
		if a.isWord("as") && i+1 < len(args) {
			return map[string]string{"items": JoinRaw(args[:i]), "as": args[i+1].Text()}
		}
	}
	return map[string]string{"items": JoinRaw(args)}
}

func pairs(args []*Arg) map[string]string {
	attrs := map[string]string{}
	for i := 0; i < len(args); {
		a := args[i]
		if a.Word == nil {
			if _, ok := attrs["content"]; !ok && a.Str != nil {
				attrs["content"] = string(*a.Str)
			}
			i++
			continue
		}
		key := strings.ToLower(*a.Word)
		i++
		if switches[key] {
			attrs[key] = "true"
			if i < len(args) && (args[i].isWord("true") || args[i].isWord("false")) {
				attrs[key] = *args[i].Word
				i++
			}
			continue
		}
		var vals []string
		for i < len(args) && (len(vals) == 0 || boxKeys[key] && len(vals) < 4) {
			v, n := value(args[i:])
			if len(vals) > 0 && !numeric(v) {
				break
			}
			vals = append(vals, v)
			i += n
		}
		if len(vals) == 0 {
			attrs[key] = "true"
			continue
		}
		attrs[key] = strings.Join(vals, " ")
	}
	return attrs
}

// value 读取一个取值；负号与其后的数字合并。
func value(args []*Arg) (string, int) {
	if a := args[0]; a.Punct != nil && *a.Punct == "-" && len(args) > 1 && args[1].Number != nil {
		return "-" + *args[1].Number, 2
	}
	return args[0].Text(), 1
}

func numeric(v string) bool {
	if v == "auto" {
		return true
	}
	if v == "" {
		return false
	}
	c := v[0]
	return c == '-' || c == '.' || (c >= '0' && c <= '9')
}

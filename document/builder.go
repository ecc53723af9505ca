package document

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/dotmatrix/binding"
	"github.com/ByLCY/dotmatrix/layout"
)

// builder 把中间元素树转换为静态的 layout.Node 树：替换 ${} 绑定、展开 if/each，
// 并按 DPI 把物理长度换算为点。格式错误的属性值按默认值处理，不报错。
type builder struct {
	dpi int
}

// nodes 构建一个元素；if/each 可能产生零个或多个节点，未知命令被忽略。
func (b *builder) nodes(el *element, data any) []layout.Node {
	switch el.name {
	case "if":
		if !binding.Truthy(data, el.attrs["test"]) {
			return nil
		}
		return b.children(el.children, data)
	case "each":
		var out []layout.Node
		b.each(el, data, func(scope any) {
			out = append(out, b.children(el.children, scope)...)
		})
		return out
	}

	attrs := interpolateAttrs(el.attrs, data)
	var n layout.Node
	switch el.name {
	case "stack", "column", "col", "box":
		s := &layout.Stack{StyleProps: b.style(attrs), Direction: layout.ParseDirection(attrs["direction"])}
		s.Children = b.children(el.children, data)
		n = s
	case "row":
		s := &layout.Stack{StyleProps: b.style(attrs), Direction: layout.DirectionRow}
		s.Children = b.children(el.children, data)
		n = s
	case "absolute":
		st := b.style(attrs)
		st.Position = layout.PositionAbsolute
		s := &layout.Stack{StyleProps: st, Direction: layout.ParseDirection(attrs["direction"])}
		s.Children = b.children(el.children, data)
		n = s
	case "flex":
		f := &layout.Flex{
			StyleProps: b.style(attrs),
			Direction:  layout.ParseDirection(attrs["direction"]),
			Justify:    layout.ParseJustify(attrs["justify"]),
			Wrap:       parseBool(attrs["wrap"]),
			RowGap:     b.dots(attrs["row-gap"]),
		}
		f.Children = b.children(el.children, data)
		n = f
	case "grid", "table":
		g := &layout.Grid{
			StyleProps: b.style(attrs),
			Columns:    b.columns(attrs["columns"]),
			ColumnGap:  b.dots(attrs["column-gap"]),
			RowGap:     b.dots(attrs["row-gap"]),
		}
		g.Rows = b.rows(el.children, data)
		n = g
	case "text", "t":
		content := el.text
		if content == "" {
			content = attrs["content"]
		}
		n = &layout.Text{
			StyleProps: b.style(attrs),
			Content:    binding.Interpolate(content, data),
			Wrap:       parseBool(attrs["wrap"]),
			Overflow:   layout.ParseOverflow(attrs["overflow"]),
		}
	case "line", "hr", "rule":
		l := &layout.Line{
			StyleProps: b.style(attrs),
			Direction:  layout.ParseLineDirection(attrs["direction"]),
			Length:     b.size(attrs["length"]),
		}
		if c := attrs["char"]; c != "" {
			l.Char, _ = utf8.DecodeRuneInString(c)
		}
		n = l
	case "spacer", "space":
		n = &layout.Spacer{
			StyleProps: b.style(attrs),
			Size:       b.dots(attrs["size"]),
			Flex:       parseBool(attrs["flex"]),
		}
	default:
		return nil
	}
	return []layout.Node{n}
}

func (b *builder) children(els []*element, data any) []layout.Node {
	var out []layout.Node
	for _, c := range els {
		out = append(out, b.nodes(c, data)...)
	}
	return out
}

// each 对列表中的每一项以 `as` 名称（默认 it）绑定新作用域，并额外绑定 index。
func (b *builder) each(el *element, data any, fn func(scope any)) {
	name := el.attrs["as"]
	if name == "" {
		name = "it"
	}
	for i, item := range binding.Items(data, el.attrs["items"]) {
		scope := binding.With(data, name, item)
		scope = binding.With(scope, "index", i)
		fn(scope)
	}
}

// rows 收集网格行；行可以由 if/each 生成。
func (b *builder) rows(els []*element, data any) []layout.GridRow {
	var out []layout.GridRow
	for _, el := range els {
		switch el.name {
		case "row", "tr":
			out = append(out, layout.GridRow{Cells: b.children(el.children, data)})
		case "if":
			if binding.Truthy(data, el.attrs["test"]) {
				out = append(out, b.rows(el.children, data)...)
			}
		case "each":
			b.each(el, data, func(scope any) {
				out = append(out, b.rows(el.children, scope)...)
			})
		}
	}
	return out
}

// columns 解析 "120 fill 20%:right auto" 形式的列定义，冒号后为列对齐。
func (b *builder) columns(spec string) []layout.GridColumn {
	var cols []layout.GridColumn
	for _, f := range strings.Fields(strings.ReplaceAll(spec, ",", " ")) {
		width, align, _ := strings.Cut(f, ":")
		cols = append(cols, layout.GridColumn{Width: b.size(width), Align: layout.ParseAlign(align)})
	}
	return cols
}

func (b *builder) style(attrs map[string]string) layout.StyleProps {
	st := layout.StyleProps{
		Width:    b.size(attrs["width"]),
		Height:   b.size(attrs["height"]),
		Padding:  b.edges(attrs["padding"]),
		Margin:   b.margins(attrs["margin"]),
		Position: layout.ParsePosition(attrs["position"]),
		Align:    layout.ParseAlign(attrs["align"]),
		VAlign:   layout.ParseVAlign(attrs["valign"]),
		Gap:      b.dots(attrs["gap"]),
	}
	if v, ok := attrs["x"]; ok {
		st.PosX = layout.Int(b.signedDots(v))
	}
	if v, ok := attrs["y"]; ok {
		st.PosY = layout.Int(b.signedDots(v))
	}

	t := &st.Text
	if v, err := strconv.Atoi(strings.TrimSpace(attrs["cpi"])); err == nil && v > 0 {
		t.CPI = v
	}
	if v := attrs["typeface"]; v != "" {
		t.Typeface = v
	} else if v := attrs["font"]; v != "" {
		t.Typeface = v
	}
	t.LineSpacing = b.dots(attrs["line-spacing"])
	t.Bold = optBool(attrs, "bold")
	t.Italic = optBool(attrs, "italic")
	t.Underline = optBool(attrs, "underline")
	t.DoubleWidth = optBool(attrs, "double-width")
	t.DoubleHeight = optBool(attrs, "double-height")
	t.Condensed = optBool(attrs, "condensed")
	t.Proportional = optBool(attrs, "proportional")
	return st
}

// size 解析宽高：auto/fill/N% 交给 layout.ParseSize，其余按长度换算为点。
func (b *builder) size(v string) layout.Size {
	v = strings.TrimSpace(v)
	switch {
	case v == "", v == "auto", v == "fill", strings.HasSuffix(v, "%"):
		return layout.ParseSize(v)
	}
	l, ok := layout.ParseLength(v)
	if !ok || l.Value < 0 {
		return layout.Auto()
	}
	return layout.Dots(l.Dots(b.dpi))
}

func (b *builder) dots(v string) int {
	l, ok := layout.ParseLength(v)
	if !ok {
		return 0
	}
	return l.Dots(b.dpi)
}

func (b *builder) signedDots(v string) int {
	v = strings.TrimSpace(v)
	if rest, ok := strings.CutPrefix(v, "-"); ok {
		return -b.dots(rest)
	}
	return b.dots(v)
}

func (b *builder) edges(v string) layout.Edges {
	vals := expandTRBL(strings.Fields(v))
	if vals == nil {
		return layout.Edges{}
	}
	return layout.EdgeTRBL(b.dots(vals[0]), b.dots(vals[1]), b.dots(vals[2]), b.dots(vals[3]))
}

func (b *builder) margins(v string) layout.MarginEdges {
	vals := expandTRBL(strings.Fields(v))
	if vals == nil {
		return layout.MarginEdges{}
	}
	side := func(s string) layout.Margin {
		if s == "auto" {
			return layout.Margin{Auto: true}
		}
		return layout.Margin{Dots: b.dots(s)}
	}
	return layout.MarginEdges{Top: side(vals[0]), Right: side(vals[1]), Bottom: side(vals[2]), Left: side(vals[3])}
}

// expandTRBL 按 CSS 简写规则把 1-4 个值展开为上右下左。
func expandTRBL(vals []string) []string {
	switch len(vals) {
	case 0:
		return nil
	case 1:
		return []string{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		return []string{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		return []string{vals[0], vals[1], vals[2], vals[1]}
	default:
		return vals[:4]
	}
}

func interpolateAttrs(attrs map[string]string, data any) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = binding.Interpolate(v, data)
	}
	return out
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// optBool 未声明的开关返回 nil，表示继承父节点。
func optBool(attrs map[string]string, key string) *bool {
	v, ok := attrs[key]
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return layout.Bool(b)
}

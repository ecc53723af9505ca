package layout

// 布局阶段：自顶向下为每个节点确定 border-box。子节点先得到相对父节点的偏移，
// 最后由 finalize 一次遍历换算成绝对坐标并放置绝对定位节点。

// AbsoluteOrigin 决定绝对定位坐标 (PosX, PosY) 的参照原点。
type AbsoluteOrigin uint8

const (
	// AbsoluteOriginPage 以页面内容区原点为参照。
	AbsoluteOriginPage AbsoluteOrigin = iota
	// AbsoluteOriginAncestor 以最近的 relative/absolute 祖先的 border-box 为参照，不存在时回落到页面原点。
	AbsoluteOriginAncestor
)

func ParseAbsoluteOrigin(s string) AbsoluteOrigin {
	if s == "ancestor" {
		return AbsoluteOriginAncestor
	}
	return AbsoluteOriginPage
}

func (o AbsoluteOrigin) String() string {
	if o == AbsoluteOriginAncestor {
		return "ancestor"
	}
	return "page"
}

// LayoutOption configures Layout.
type LayoutOption func(*layouter)

// WithMetrics sets the metrics used for wrapping and truncating text.
func WithMetrics(m Metrics) LayoutOption {
	return func(l *layouter) {
		if m != nil {
			l.metrics = m
		}
	}
}

// WithAbsoluteOrigin selects the reference point of absolute coordinates.
func WithAbsoluteOrigin(o AbsoluteOrigin) LayoutOption {
	return func(l *layouter) { l.origin = o }
}

type layouter struct {
	metrics Metrics
	origin  AbsoluteOrigin
	pageW   int
	pageH   int
}

// Layout assigns final boxes to a measured tree. availableHeight <= 0 means
// the document height is unbounded (continuous paper); pagination happens later.
func Layout(m *MeasuredNode, availableWidth, availableHeight, originX, originY int, opts ...LayoutOption) *LayoutResult {
	l := &layouter{
		metrics: DefaultMetrics{},
		pageW:   max(availableWidth, 0),
		pageH:   max(availableHeight, 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	if m == nil {
		return nil
	}
	root := l.layoutRoot(m)
	l.finalize(root, originX, originY, originX, originY)
	return root
}

// layoutRoot 将根节点视为页面内容区中的纵向流子节点。
func (l *layouter) layoutRoot(m *MeasuredNode) *LayoutResult {
	w := l.columnChildWidth(m, l.pageW, AlignStart)
	h := -1
	if l.pageH > 0 {
		switch m.Height.Unit {
		case SizePercent:
			h = percentOf(l.pageH, m.Height.Percent)
		case SizeFill:
			h = max(l.pageH-m.Margin.Vertical(), 0)
		}
	}
	if m.Height.Unit == SizeDots {
		h = m.Height.Dots
	}
	r := l.layoutBox(m, w, h)
	r.Absolute = m.absolute()
	r.relX = crossOffset(w, l.pageW, l.pageW, m.Margin.Left, m.Margin.Right, AlignStart)
	r.relY = m.Margin.Top.dots()
	return r
}

// layoutBox 以给定的 border-box 宽度与高度（-1 表示由内容决定）排版节点。
func (l *layouter) layoutBox(m *MeasuredNode, w, h int) *LayoutResult {
	w = max(w, 0)
	r := &LayoutResult{Measured: m, Kind: m.Kind, Width: w}
	pad := m.Padding
	cw := max(w-pad.Horizontal(), 0)
	ch := -1
	if h >= 0 {
		ch = max(h-pad.Vertical(), 0)
	}

	var contentH int
	switch n := m.Node.(type) {
	case *Stack:
		if n.direction() == DirectionRow {
			contentH = l.layoutRow(r, JustifyStart, false, 0, cw, ch)
		} else {
			contentH = l.layoutColumn(r, JustifyStart, cw, ch)
		}
	case *Flex:
		if n.direction() == DirectionRow {
			rowGap := n.RowGap
			if rowGap == 0 {
				rowGap = n.Gap
			}
			contentH = l.layoutRow(r, n.Justify, n.Wrap, nonNeg(rowGap), cw, ch)
		} else {
			contentH = l.layoutColumn(r, n.Justify, cw, ch)
		}
	case *Grid:
		contentH = l.layoutGrid(r, n, cw)
	case *Text:
		r.Lines = layoutText(n, m.Text, cw, n.Align, l.metrics)
		for i := range r.Lines {
			r.Lines[i].OffsetX += pad.Left
			r.Lines[i].OffsetY += pad.Top
		}
		contentH = len(r.Lines) * l.metrics.LineHeight(m.Text)
	case *Line:
		contentH = l.layoutRule(r, n, cw, ch)
	case *Spacer:
		contentH = 0
	}

	if h >= 0 {
		r.Height = h
	} else {
		r.Height = contentH + pad.Vertical()
	}
	return r
}

func (l *layouter) layoutRule(r *LayoutResult, n *Line, cw, ch int) int {
	m := r.Measured
	rule := &Rule{OffsetX: m.Padding.Left, OffsetY: m.Padding.Top}
	if n.Direction == LineVertical {
		length := ch
		if length < 0 {
			length = max(m.PreferredHeight-m.Padding.Vertical(), 0)
		}
		rule.Length, rule.Thickness = length, cw
		r.Rule = rule
		return length
	}
	lh := l.metrics.LineHeight(m.Text)
	rule.Length, rule.Thickness = cw, lh
	r.Rule = rule
	return lh
}

// columnChildWidth 解析纵向流（以及根节点、网格单元格）中子节点的宽度。
// auto 容器在 start/stretch 对齐下撑满，声明了行内对齐的文本同样撑满，其余情况收缩到首选宽度。
func (l *layouter) columnChildWidth(c *MeasuredNode, cw int, align Align) int {
	avail := max(cw-c.Margin.Horizontal(), 0)
	switch c.Width.Unit {
	case SizeDots:
		return c.Width.Dots
	case SizePercent:
		return percentOf(cw, c.Width.Percent)
	case SizeFill:
		return avail
	}
	if c.Kind == KindSpacer {
		return 0
	}
	if align == AlignStretch {
		return avail
	}
	// 自身声明了对齐的文本占满整行，行内对齐才有意义
	if c.Kind == KindText && c.Node.Style().Align != AlignStart {
		return avail
	}
	if c.container() && align == AlignStart && !c.Margin.Left.Auto && !c.Margin.Right.Auto {
		return avail
	}
	return min(c.PreferredWidth, avail)
}

// absoluteBox 绝对定位节点以页面内容区作为可用空间，auto 尺寸收缩到首选值。
func (l *layouter) absoluteBox(c *MeasuredNode) *LayoutResult {
	avail := max(l.pageW-c.Margin.Horizontal(), 0)
	var w int
	switch c.Width.Unit {
	case SizeDots:
		w = c.Width.Dots
	case SizePercent:
		w = percentOf(l.pageW, c.Width.Percent)
	case SizeFill:
		w = avail
	default:
		w = min(c.PreferredWidth, avail)
	}
	h := -1
	switch c.Height.Unit {
	case SizeDots:
		h = c.Height.Dots
	case SizePercent:
		if l.pageH > 0 {
			h = percentOf(l.pageH, c.Height.Percent)
		}
	}
	r := l.layoutBox(c, w, h)
	r.Absolute = true
	return r
}

// finalize 将相对偏移换算为绝对坐标。绝对定位节点直接使用参照原点加 (PosX, PosY)，
// 不叠加任何祖先的内边距或外边距。
func (l *layouter) finalize(r *LayoutResult, px, py, ax, ay int) {
	if r.Absolute {
		st := r.Measured.Node.Style()
		r.X, r.Y = ax+deref(st.PosX), ay+deref(st.PosY)
	} else {
		r.X, r.Y = px+r.relX, py+r.relY
	}
	if l.origin == AbsoluteOriginAncestor && r.Measured.positioned() {
		ax, ay = r.X, r.Y
	}
	for _, c := range r.Children {
		l.finalize(c, r.X, r.Y, ax, ay)
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

package layout

// Stack 与 Flex 的流式布局。纵向流的主轴为 y，横向流的主轴为 x。

// layoutColumn 排列纵向流子节点，返回内容高度。
func (l *layouter) layoutColumn(r *LayoutResult, justify Justify, cw, ch int) int {
	m := r.Measured
	st := m.Node.Style()
	gap := nonNeg(st.Gap)
	kids := m.Children
	r.Children = make([]*LayoutResult, len(kids))

	var flow []int
	for i, c := range kids {
		if c.absolute() {
			r.Children[i] = l.absoluteBox(c)
			continue
		}
		flow = append(flow, i)
	}
	if len(flow) == 0 {
		return 0
	}

	widths := make([]int, len(kids))
	var fills []int
	fixed := gap * (len(flow) - 1)
	for _, i := range flow {
		c := kids[i]
		widths[i] = l.columnChildWidth(c, cw, st.Align)
		if ch >= 0 && mainFill(c, c.Height) {
			fills = append(fills, i)
			fixed += c.Margin.Vertical()
			continue
		}
		r.Children[i] = l.layoutBox(c, widths[i], columnChildHeight(c, ch))
		fixed += r.Children[i].Height + c.Margin.Vertical()
	}
	for k, part := range splitEven(ch-fixed, len(fills)) {
		i := fills[k]
		r.Children[i] = l.layoutBox(kids[i], widths[i], part)
	}

	items := make([]mainItem, len(flow))
	ref := 0
	for k, i := range flow {
		c := kids[i]
		items[k] = mainItem{size: r.Children[i].Height, lead: c.Margin.Top, tail: c.Margin.Bottom}
		if c.Kind != KindSpacer {
			ref = max(ref, widths[i]+c.Margin.Horizontal())
		}
	}
	starts, used := placeMain(items, ch, gap, justify, ch >= 0)
	for k, i := range flow {
		c := kids[i]
		res := r.Children[i]
		res.relY = m.Padding.Top + starts[k]
		res.relX = m.Padding.Left + crossOffset(widths[i], cw, ref, c.Margin.Left, c.Margin.Right, st.Align)
	}
	return used
}

// columnChildHeight 解析纵向流子节点主轴高度；-1 表示由内容决定。
func columnChildHeight(c *MeasuredNode, ch int) int {
	switch c.Height.Unit {
	case SizeDots:
		return c.Height.Dots
	case SizePercent:
		if ch >= 0 {
			return percentOf(ch, c.Height.Percent)
		}
		return -1
	}
	if c.Kind == KindSpacer {
		return c.PreferredHeight
	}
	return -1
}

// mainFill 判断子节点在主轴上是否为 fill（弹性 Spacer 视同 fill）。
func mainFill(c *MeasuredNode, s Size) bool {
	if s.Unit == SizeFill {
		return true
	}
	if sp, ok := c.Node.(*Spacer); ok && sp.Flex && s.IsAuto() {
		return true
	}
	return false
}

// rowChildWidth 解析横向流子节点主轴宽度（fill 由调用方分配）。
func rowChildWidth(c *MeasuredNode, cw int) int {
	switch c.Width.Unit {
	case SizeDots:
		return c.Width.Dots
	case SizePercent:
		return percentOf(cw, c.Width.Percent)
	}
	if c.Kind == KindSpacer {
		return c.PreferredWidth
	}
	return min(c.PreferredWidth, max(cw-c.Margin.Horizontal(), 0))
}

// layoutRow 排列横向流子节点，返回内容高度。wrap 时按行贪心装箱。
func (l *layouter) layoutRow(r *LayoutResult, justify Justify, wrap bool, rowGap, cw, ch int) int {
	m := r.Measured
	st := m.Node.Style()
	gap := nonNeg(st.Gap)
	kids := m.Children
	r.Children = make([]*LayoutResult, len(kids))

	var flow []int
	for i, c := range kids {
		if c.absolute() {
			r.Children[i] = l.absoluteBox(c)
			continue
		}
		flow = append(flow, i)
	}
	if len(flow) == 0 {
		return 0
	}

	basis := make([]int, len(kids))
	for _, i := range flow {
		basis[i] = rowChildWidth(kids[i], cw)
	}

	lines := [][]int{flow}
	if wrap {
		lines = packLines(kids, flow, basis, cw, gap)
	}

	y := 0
	for n, line := range lines {
		if n > 0 {
			y += rowGap
		}
		y += l.layoutRowLine(r, line, basis, justify, gap, cw, ch, y)
	}
	return y
}

// packLines 贪心装箱：累计外宽加间距不超过 cw 时放入当前行，否则另起一行。
func packLines(kids []*MeasuredNode, flow, basis []int, cw, gap int) [][]int {
	var lines [][]int
	var cur []int
	used := 0
	for _, i := range flow {
		outer := basis[i] + kids[i].Margin.Horizontal()
		if len(cur) > 0 && used+gap+outer > cw {
			lines = append(lines, cur)
			cur, used = nil, 0
		}
		if len(cur) > 0 {
			used += gap
		}
		cur = append(cur, i)
		used += outer
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// layoutRowLine 排列一行子节点，返回该行高度。交叉轴参照高度为本行子节点的最大外高，
// 而不是容器自身的高度。
func (l *layouter) layoutRowLine(r *LayoutResult, line, basis []int, justify Justify, gap, cw, ch, y int) int {
	m := r.Measured
	st := m.Node.Style()
	kids := m.Children

	widths := make([]int, len(kids))
	var fills []int
	rest := cw - gap*(len(line)-1)
	for _, i := range line {
		c := kids[i]
		rest -= c.Margin.Horizontal()
		if mainFill(c, c.Width) {
			fills = append(fills, i)
			continue
		}
		widths[i] = basis[i]
		rest -= basis[i]
	}
	for k, part := range splitEven(rest, len(fills)) {
		widths[fills[k]] = part
	}

	ref := 0
	var stretched []int
	for _, i := range line {
		c := kids[i]
		h, s := rowChildHeight(c, ch, st.VAlign)
		if s {
			stretched = append(stretched, i)
		}
		// 拉伸的容器也先按内容排一遍，行高参考值取解析宽度下的实际高度
		res := l.layoutBox(c, widths[i], h)
		r.Children[i] = res
		ref = max(ref, res.Height+c.Margin.Vertical())
	}
	for _, i := range stretched {
		c := kids[i]
		target := max(ref-c.Margin.Vertical(), 0)
		if c.container() {
			r.Children[i] = l.layoutBox(c, widths[i], target)
			continue
		}
		stretchLeaf(r.Children[i], target)
	}

	items := make([]mainItem, len(line))
	for k, i := range line {
		items[k] = mainItem{size: widths[i], lead: kids[i].Margin.Left, tail: kids[i].Margin.Right}
	}
	starts, _ := placeMain(items, cw, gap, justify, true)
	mode := vAlignMode(st.VAlign)
	for k, i := range line {
		c := kids[i]
		res := r.Children[i]
		res.relX = m.Padding.Left + starts[k]
		res.relY = m.Padding.Top + y + crossOffset(res.Height, ref, ref, c.Margin.Top, c.Margin.Bottom, mode)
	}
	return ref
}

// rowChildHeight 返回横向流子节点的交叉轴高度（-1 表示由内容决定）以及是否需要拉伸到行高。
func rowChildHeight(c *MeasuredNode, ch int, valign VAlign) (int, bool) {
	switch c.Height.Unit {
	case SizeDots:
		return c.Height.Dots, false
	case SizePercent:
		if ch >= 0 {
			return percentOf(ch, c.Height.Percent), false
		}
		return -1, false
	case SizeFill:
		return -1, true
	}
	if valign == VAlignStretch {
		return -1, true
	}
	if c.Kind == KindSpacer {
		return 0, false
	}
	return -1, false
}

// stretchLeaf 拉伸叶子节点的高度；文本行保持顶部对齐，竖线随之加长。
func stretchLeaf(res *LayoutResult, target int) {
	if target <= res.Height {
		return
	}
	res.Height = target
	if res.Rule != nil && res.Measured.Node.(*Line).Direction == LineVertical {
		res.Rule.Length = max(target-res.Measured.Padding.Vertical(), 0)
	}
}

package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedMetrics 每个字符 10 点、行高 20 点，便于手算期望坐标。
type fixedMetrics struct{}

func (fixedMetrics) CharWidth(r rune, _ TextContext) int {
	if r == '\n' {
		return 0
	}
	return 10
}

func (fixedMetrics) LineHeight(TextContext) int { return 20 }

func layoutTree(t *testing.T, n Node, w, h int, opts ...LayoutOption) *LayoutResult {
	t.Helper()
	require.NoError(t, Validate(n))
	m := Measure(n, DefaultTextContext(DefaultDPI), fixedMetrics{})
	return Layout(m, w, h, 0, 0, append([]LayoutOption{WithMetrics(fixedMetrics{})}, opts...)...)
}

func box(w, h int) *Stack {
	return &Stack{StyleProps: StyleProps{Width: Dots(w), Height: Dots(h)}}
}

func xs(rs []*LayoutResult) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.X
	}
	return out
}

func ys(rs []*LayoutResult) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Y
	}
	return out
}

func TestPercentOfPercent(t *testing.T) {
	inner := &Stack{StyleProps: StyleProps{Width: Percent(50)}}
	root := &Stack{StyleProps: StyleProps{Width: Percent(80)}, Children: []Node{inner}}

	r := layoutTree(t, root, 1000, 0)
	assert.Equal(t, 800, r.Width)
	assert.Equal(t, 400, r.Children[0].Width)
}

func TestPercentFloors(t *testing.T) {
	root := NewStack(&Stack{StyleProps: StyleProps{Width: Percent(33.3)}})
	r := layoutTree(t, root, 100, 0)
	assert.Equal(t, 33, r.Children[0].Width)
}

func TestAutoMarginsCenterChild(t *testing.T) {
	child := &Stack{StyleProps: StyleProps{Width: Dots(600), Margin: MarginAutoX(0)}}
	r := layoutTree(t, NewStack(child), 1000, 0)

	assert.Equal(t, 1000, r.Width)
	assert.Equal(t, 200, r.Children[0].X)
	assert.Equal(t, 600, r.Children[0].Width)
}

func TestNestedPaddingAccumulates(t *testing.T) {
	text := NewText("x")
	inner := &Stack{StyleProps: StyleProps{Padding: EdgeAll(10)}, Children: []Node{text}}
	mid := &Stack{StyleProps: StyleProps{Padding: EdgeAll(20)}, Children: []Node{inner}}
	root := &Stack{StyleProps: StyleProps{Padding: EdgeAll(30)}, Children: []Node{mid}}

	r := layoutTree(t, root, 1000, 0)
	leaf := r.Children[0].Children[0].Children[0]
	assert.Equal(t, 60, leaf.X)
	assert.Equal(t, 60, leaf.Y)
	// 20 行高 + 三层上下内边距
	assert.Equal(t, 20+2*(10+20+30), r.Height)
}

func TestRowCrossAxisCenter(t *testing.T) {
	row := &Stack{
		StyleProps: StyleProps{VAlign: VAlignCenter},
		Direction:  DirectionRow,
		Children:   []Node{box(50, 80), box(50, 140), box(50, 80)},
	}
	r := layoutTree(t, row, 1000, 0)

	assert.Equal(t, []int{0, 50, 100}, xs(r.Children))
	assert.Equal(t, []int{30, 0, 30}, ys(r.Children))
	assert.Equal(t, 140, r.Height)
}

func TestRowCrossAxisBottomAndStretch(t *testing.T) {
	row := &Stack{
		StyleProps: StyleProps{VAlign: VAlignBottom},
		Direction:  DirectionRow,
		Children:   []Node{box(50, 30), box(50, 90)},
	}
	r := layoutTree(t, row, 1000, 0)
	assert.Equal(t, []int{60, 0}, ys(r.Children))

	row = &Stack{
		StyleProps: StyleProps{VAlign: VAlignStretch},
		Direction:  DirectionRow,
		Children:   []Node{NewStack(NewText("a")), box(50, 90)},
	}
	r = layoutTree(t, row, 1000, 0)
	assert.Equal(t, 90, r.Children[0].Height)
	assert.Equal(t, 0, r.Children[0].Y)
}

// 拉伸的容器按解析宽度下折行后的实际高度参与行高计算，后续兄弟节点不会与之重叠。
func TestStretchedContainerUsesWrappedHeight(t *testing.T) {
	wrapped := &Stack{
		StyleProps: StyleProps{Width: Dots(50)},
		Children:   []Node{&Text{Content: "aaaa bbbb", Wrap: true}},
	}
	row := &Stack{
		StyleProps: StyleProps{VAlign: VAlignStretch},
		Direction:  DirectionRow,
		Children:   []Node{wrapped, NewText("x")},
	}
	r := layoutTree(t, NewStack(row, NewText("next")), 100, 0)

	got := r.Children[0]
	assert.Equal(t, 40, got.Height)
	assert.Equal(t, 40, got.Children[0].Height)
	assert.Equal(t, 40, got.Children[0].Children[0].Height)
	assert.Equal(t, 40, got.Children[1].Height)
	assert.Equal(t, 40, r.Children[1].Y)

	g := &Grid{
		StyleProps: StyleProps{VAlign: VAlignStretch},
		Columns:    []GridColumn{{Width: Dots(50)}, {Width: Dots(50)}},
		Rows: []GridRow{{Cells: []Node{
			&Stack{Children: []Node{&Text{Content: "aaaa bbbb", Wrap: true}}},
			NewText("x"),
		}}},
	}
	r = layoutTree(t, NewStack(g, NewText("next")), 100, 0)
	assert.Equal(t, 40, r.Children[0].Height)
	assert.Equal(t, []int{40, 40}, []int{r.Children[0].Children[0].Height, r.Children[0].Children[1].Height})
	assert.Equal(t, 40, r.Children[1].Y)
}

// 网格单元格的百分比高度没有确定的参照高度，与 auto 相同。
func TestGridCellPercentHeightIsAuto(t *testing.T) {
	cell := NewText("a")
	cell.Height = Percent(50)
	g := &Grid{
		Columns: []GridColumn{{Width: Dots(50)}, {Width: Dots(50)}},
		Rows:    []GridRow{{Cells: []Node{cell, NewText("b\nc")}}},
	}
	r := layoutTree(t, g, 100, 0)
	assert.Equal(t, 20, r.Children[0].Height)
	assert.Equal(t, 40, r.Height)
}

func TestColumnAlignAgainstWidestChild(t *testing.T) {
	root := &Stack{
		StyleProps: StyleProps{Align: AlignCenter},
		Children:   []Node{NewText("ab"), NewText("abcdef")},
	}
	r := layoutTree(t, root, 100, 0)
	assert.Equal(t, []int{20, 0}, xs(r.Children))

	root.Align = AlignEnd
	r = layoutTree(t, root, 100, 0)
	assert.Equal(t, []int{40, 0}, xs(r.Children))
}

func TestTextOwnAlignSpansRow(t *testing.T) {
	text := NewText("ab")
	text.Align = AlignCenter
	r := layoutTree(t, NewStack(text), 100, 0)

	leaf := r.Children[0]
	assert.Equal(t, 100, leaf.Width)
	require.Len(t, leaf.Lines, 1)
	assert.Equal(t, 40, leaf.Lines[0].OffsetX)
}

func TestAbsoluteIgnoresAncestors(t *testing.T) {
	abs := NewText("abs")
	abs.Position = PositionAbsolute
	abs.PosX, abs.PosY = Int(100), Int(7)

	inner := &Stack{
		StyleProps: StyleProps{Padding: EdgeAll(25), Margin: MarginAll(15), Position: PositionRelative},
		Children:   []Node{abs, NewText("b")},
	}
	root := &Stack{StyleProps: StyleProps{Padding: EdgeAll(40)}, Children: []Node{NewText("a"), inner}}

	r := layoutTree(t, root, 1000, 0)
	in := r.Children[1]
	assert.Equal(t, 55, in.X)
	assert.Equal(t, 75, in.Y)

	a := in.Children[0]
	assert.True(t, a.Absolute)
	assert.Equal(t, 100, a.X)
	assert.Equal(t, 7, a.Y)
	assert.Equal(t, 30, a.Width)

	// 绝对定位子节点不占正常流空间
	b := in.Children[1]
	assert.Equal(t, 80, b.X)
	assert.Equal(t, 100, b.Y)
	assert.Equal(t, 20+2*25, in.Height)

	r = layoutTree(t, root, 1000, 0, WithAbsoluteOrigin(AbsoluteOriginAncestor))
	a = r.Children[1].Children[0]
	assert.Equal(t, 155, a.X)
	assert.Equal(t, 82, a.Y)
}

// 同一个绝对定位节点，无论前面有多少正常流内容，坐标都不变。
func TestAbsolutePositionIndependentOfPrecedingFlow(t *testing.T) {
	place := func(preceding int) (int, int) {
		abs := NewText("abs")
		abs.Position = PositionAbsolute
		abs.PosX, abs.PosY = Int(30), Int(45)

		var kids []Node
		for range preceding {
			kids = append(kids, NewText("flow"))
		}
		kids = append(kids, abs, NewText("tail"))
		root := &Stack{StyleProps: StyleProps{Padding: EdgeAll(5)}, Children: kids}

		r := layoutTree(t, root, 200, 0)
		a := r.Children[preceding]
		require.True(t, a.Absolute)
		return a.X, a.Y
	}

	x0, y0 := place(0)
	assert.Equal(t, 30, x0)
	assert.Equal(t, 45, y0)
	for _, n := range []int{1, 3, 12} {
		x, y := place(n)
		assert.Equal(t, x0, x, "preceding=%d", n)
		assert.Equal(t, y0, y, "preceding=%d", n)
	}
}

func TestGridColumnsAndGap(t *testing.T) {
	cols := []GridColumn{{Width: Dots(100)}, {Width: Dots(100)}, {Width: Dots(100), Align: AlignEnd}}
	g := &Grid{
		Columns:   cols,
		ColumnGap: 50,
		RowGap:    4,
		Rows: []GridRow{
			{Cells: []Node{NewText("a"), NewText("b"), NewText("c")}},
			{Cells: []Node{NewText("d"), nil, NewText("e\nf")}},
		},
	}
	r := layoutTree(t, g, 1000, 0)

	require.Len(t, r.Children, 5)
	// 第三列起点为 300，单元格右对齐后落在 390
	assert.Equal(t, []int{0, 150, 390, 0, 390}, xs(r.Children))
	assert.Equal(t, []int{0, 0, 0, 24, 24}, ys(r.Children))
	assert.Equal(t, 20+4+40, r.Height)
}

func TestGridFillAndPercentColumns(t *testing.T) {
	g := &Grid{
		StyleProps: StyleProps{Gap: 10},
		Columns:    []GridColumn{{Width: Dots(120)}, {Width: Fill()}, {Width: Percent(20)}},
		Rows:       []GridRow{{Cells: []Node{NewText("a"), NewText("b"), NewText("c")}}},
	}
	m := Measure(g, DefaultTextContext(DefaultDPI), fixedMetrics{})
	widths := resolveColumnWidths(gridColumns(g), m.Cells, 500, 10)
	assert.Equal(t, []int{120, 260, 100}, widths)

	r := layoutTree(t, g, 500, 0)
	assert.Equal(t, []int{0, 130, 400}, xs(r.Children))
}

func TestFillSplitsRemainder(t *testing.T) {
	fill := func() Node { return &Stack{StyleProps: StyleProps{Width: Fill()}} }
	row := NewRow(fill(), fill(), fill())
	r := layoutTree(t, row, 100, 0)

	assert.Equal(t, []int{0, 34, 67}, xs(r.Children))
	assert.Equal(t, 34, r.Children[0].Width)
	assert.Equal(t, 33, r.Children[2].Width)

	col := &Stack{
		StyleProps: StyleProps{Height: Dots(100)},
		Children: []Node{
			NewText("a"),
			&Stack{StyleProps: StyleProps{Height: Fill()}},
			&Stack{StyleProps: StyleProps{Height: Fill()}},
		},
	}
	r = layoutTree(t, col, 100, 0)
	assert.Equal(t, []int{0, 20, 60}, ys(r.Children))
	assert.Equal(t, 40, r.Children[2].Height)
}

func TestFlexSpacerFills(t *testing.T) {
	row := NewRow(NewText("ab"), &Spacer{Flex: true}, NewText("cd"))
	r := layoutTree(t, row, 100, 0)
	assert.Equal(t, []int{0, 20, 80}, xs(r.Children))
	assert.Equal(t, 60, r.Children[1].Width)
}

func TestFlexJustify(t *testing.T) {
	kids := func() []Node { return []Node{box(20, 10), box(20, 10), box(20, 10)} }
	tests := []struct {
		justify Justify
		want    []int
	}{
		{JustifyStart, []int{0, 20, 40}},
		{JustifyEnd, []int{40, 60, 80}},
		{JustifyCenter, []int{20, 40, 60}},
		{JustifySpaceBetween, []int{0, 40, 80}},
		{JustifySpaceAround, []int{7, 40, 73}},
		{JustifySpaceEvenly, []int{10, 40, 70}},
	}
	for _, tt := range tests {
		t.Run(tt.justify.String(), func(t *testing.T) {
			r := layoutTree(t, NewFlex(tt.justify, kids()...), 100, 0)
			assert.Equal(t, tt.want, xs(r.Children))
		})
	}
}

func TestFlexOverflowFallsBackToStart(t *testing.T) {
	r := layoutTree(t, NewFlex(JustifyCenter, box(80, 10), box(80, 10)), 100, 0)
	assert.Equal(t, []int{0, 80}, xs(r.Children))
}

func TestFlexWrap(t *testing.T) {
	f := &Flex{
		StyleProps: StyleProps{Gap: 10},
		Wrap:       true,
		RowGap:     5,
		Children:   []Node{box(40, 20), box(40, 20), box(40, 20), box(40, 30)},
	}
	r := layoutTree(t, f, 100, 0)

	assert.Equal(t, []int{0, 50, 0, 50}, xs(r.Children))
	assert.Equal(t, []int{0, 0, 25, 25}, ys(r.Children))
	assert.Equal(t, 20+5+30, r.Height)
}

func TestSpacerAndRules(t *testing.T) {
	col := NewStack(NewText("a"), NewSpacer(30), &Line{}, NewText("b"))
	r := layoutTree(t, col, 100, 0)

	assert.Equal(t, []int{0, 20, 50, 70}, ys(r.Children))
	rule := r.Children[2].Rule
	require.NotNil(t, rule)
	assert.Equal(t, 100, rule.Length)
	assert.Equal(t, 20, rule.Thickness)

	row := NewRow(NewText("ab"), &Line{Direction: LineVertical}, NewText("cd\nef"))
	r = layoutTree(t, row, 100, 0)
	assert.Equal(t, []int{0, 20, 30}, xs(r.Children))
	v := r.Children[1]
	assert.Equal(t, 40, v.Height)
	assert.Equal(t, 40, v.Rule.Length)
	assert.Equal(t, 10, v.Rule.Thickness)
}

func TestLayoutIsIdempotent(t *testing.T) {
	root := &Flex{
		StyleProps: StyleProps{Padding: EdgeAll(3), Gap: 7},
		Justify:    JustifySpaceEvenly,
		Wrap:       true,
		Children:   []Node{NewText("alpha"), NewText("beta gamma"), box(33, 17), &Line{}},
	}
	m := Measure(root, DefaultTextContext(DefaultDPI), fixedMetrics{})
	a := Layout(m, 137, 0, 0, 0, WithMetrics(fixedMetrics{}))
	b := Layout(m, 137, 0, 0, 0, WithMetrics(fixedMetrics{}))
	if diff := cmp.Diff(a, b, cmp.AllowUnexported(LayoutResult{}), cmp.Comparer(func(x, y *MeasuredNode) bool { return x == y })); diff != "" {
		t.Fatalf("layout differs between runs (-first +second):\n%s", diff)
	}
}

func TestLayoutOrigin(t *testing.T) {
	m := Measure(NewStack(NewText("a")), DefaultTextContext(DefaultDPI), fixedMetrics{})
	r := Layout(m, 100, 0, 12, 34, WithMetrics(fixedMetrics{}))
	assert.Equal(t, 12, r.Children[0].X)
	assert.Equal(t, 34, r.Children[0].Y)

	assert.Nil(t, Layout(nil, 100, 0, 0, 0))
}

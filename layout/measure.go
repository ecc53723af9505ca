package layout

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// MeasuredNode 为测量阶段的产物：源节点、解析后的文本上下文、规范化后的盒模型参数
// 以及自底向上计算出的首选尺寸。创建后不再修改。
type MeasuredNode struct {
	Node            Node              `json:"-"`
	Kind            Kind              `json:"kind"`
	Text            TextContext       `json:"text"`
	Width           Size              `json:"width"`
	Height          Size              `json:"height"`
	Padding         Edges             `json:"padding"`
	Margin          MarginEdges       `json:"margin"`
	PreferredWidth  int               `json:"preferredWidth"`
	PreferredHeight int               `json:"preferredHeight"`
	Children        []*MeasuredNode   `json:"children,omitempty"`
	Cells           [][]*MeasuredNode `json:"cells,omitempty"`
}

func (m *MeasuredNode) outerWidth() int  { return m.PreferredWidth + m.Margin.Horizontal() }
func (m *MeasuredNode) outerHeight() int { return m.PreferredHeight + m.Margin.Vertical() }

func (m *MeasuredNode) absolute() bool {
	return m.Node.Style().Position == PositionAbsolute
}

func (m *MeasuredNode) positioned() bool {
	return m.Node.Style().Position != PositionStatic
}

func (m *MeasuredNode) container() bool {
	switch m.Kind {
	case KindStack, KindFlex, KindGrid:
		return true
	default:
		return false
	}
}

// Measure computes preferred sizes bottom-up. ctx is the inherited text
// context of the root's parent; the node's own attributes are applied on top.
func Measure(node Node, ctx TextContext, metrics Metrics) *MeasuredNode {
	if metrics == nil {
		metrics = DefaultMetrics{}
	}
	ms := &measurer{metrics: metrics}
	return ms.measure(node, ctx, false)
}

// MeasureParallel is Measure with the root's direct children (or grid rows)
// measured concurrently, at most workers at a time (workers <= 0 means no
// limit). Metrics must be safe for concurrent use. The result is identical
// to Measure.
func MeasureParallel(node Node, ctx TextContext, metrics Metrics, workers int) *MeasuredNode {
	if metrics == nil {
		metrics = DefaultMetrics{}
	}
	ms := &measurer{metrics: metrics, workers: workers}
	return ms.measure(node, ctx, true)
}

type measurer struct {
	metrics Metrics
	workers int
}

func (ms *measurer) measure(node Node, parent TextContext, concurrent bool) *MeasuredNode {
	st := node.Style()
	mn := &MeasuredNode{
		Node:    node,
		Kind:    node.Kind(),
		Text:    parent.With(st.Text),
		Width:   st.Width,
		Height:  st.Height,
		Padding: st.Padding.clamp(),
		Margin:  st.Margin.clamp(),
	}

	var w, h int
	switch n := node.(type) {
	case *Stack:
		mn.Children = ms.measureAll(n.Children, mn.Text, concurrent)
		w, h = flowContentSize(mn.Children, n.direction(), nonNeg(st.Gap))
	case *Flex:
		// 换行时无法在测量阶段确定折行位置，这里返回不换行的总和作为上界，真正的折行在布局阶段完成。
		mn.Children = ms.measureAll(n.Children, mn.Text, concurrent)
		w, h = flowContentSize(mn.Children, n.direction(), nonNeg(st.Gap))
	case *Grid:
		mn.Cells = ms.measureCells(n, mn.Text, concurrent)
		w, h = gridContentSize(n, mn.Cells)
	case *Text:
		w, h = ms.textSize(n.Content, mn.Text)
	case *Line:
		w, h = ms.lineSize(n, mn)
	case *Spacer:
		s := nonNeg(n.Size)
		mn.PreferredWidth, mn.PreferredHeight = s, s
		ms.applyExplicit(mn)
		return mn
	}

	mn.PreferredWidth = w + mn.Padding.Horizontal()
	mn.PreferredHeight = h + mn.Padding.Vertical()
	ms.applyExplicit(mn)
	return mn
}

// applyExplicit 显式点数直接覆盖计算值（border-box，已包含内边距）。
func (ms *measurer) applyExplicit(mn *MeasuredNode) {
	if mn.Width.Unit == SizeDots {
		mn.PreferredWidth = mn.Width.Dots
	}
	if mn.Height.Unit == SizeDots {
		mn.PreferredHeight = mn.Height.Dots
	}
}

func (ms *measurer) measureAll(nodes []Node, ctx TextContext, concurrent bool) []*MeasuredNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*MeasuredNode, len(nodes))
	if !concurrent || len(nodes) < 2 {
		for i, c := range nodes {
			out[i] = ms.measure(c, ctx, false)
		}
		return out
	}
	ms.fanOut(len(nodes), func(i int) {
		out[i] = ms.measure(nodes[i], ctx, false)
	})
	return out
}

// fanOut 用至多 workers 个协程执行 fn(0..n-1)。
// 工作协程中的 panic 会被收集，并在调用方协程重新抛出，与顺序测量的表现一致。
func (ms *measurer) fanOut(n int, fn func(i int)) {
	var g errgroup.Group
	if ms.workers > 0 {
		g.SetLimit(ms.workers)
	}
	for i := range n {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("measure worker %d: %v", i, p)
				}
			}()
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(err)
	}
}

func (ms *measurer) measureCells(g *Grid, ctx TextContext, concurrent bool) [][]*MeasuredNode {
	cols := len(gridColumns(g))
	cells := make([][]*MeasuredNode, len(g.Rows))
	measureRow := func(i int) {
		row := g.Rows[i].Cells
		out := make([]*MeasuredNode, cols)
		for c := 0; c < cols && c < len(row); c++ {
			if row[c] != nil {
				out[c] = ms.measure(row[c], ctx, false)
			}
		}
		cells[i] = out
	}
	if !concurrent || len(g.Rows) < 2 {
		for i := range g.Rows {
			measureRow(i)
		}
		return cells
	}
	ms.fanOut(len(g.Rows), measureRow)
	return cells
}

func (ms *measurer) textSize(content string, ctx TextContext) (int, int) {
	lines := strings.Split(content, "\n")
	w := 0
	for _, l := range lines {
		if lw := TextWidth(l, ctx, ms.metrics); lw > w {
			w = lw
		}
	}
	return w, len(lines) * ms.metrics.LineHeight(ctx)
}

// lineSize 计算分隔线的首选尺寸；Length 作为主方向的宽/高参与后续解析，auto 视为 fill。
func (ms *measurer) lineSize(l *Line, mn *MeasuredNode) (int, int) {
	spec := l.Length
	if spec.IsAuto() {
		spec = Fill()
	}
	length := 0
	if spec.Unit == SizeDots {
		length = spec.Dots
	}
	if l.Direction == LineVertical {
		if mn.Height.IsAuto() {
			mn.Height = spec
		}
		return ms.metrics.CharWidth(l.char(), mn.Text), length
	}
	if mn.Width.IsAuto() {
		mn.Width = spec
	}
	return length, ms.metrics.LineHeight(mn.Text)
}

// flowContentSize 返回 Stack/Flex 的内容尺寸（不含内边距）。
// 绝对定位子节点不参与；Spacer 只贡献主轴方向。
func flowContentSize(children []*MeasuredNode, dir Direction, gap int) (int, int) {
	mainSum, crossMax, n := 0, 0, 0
	for _, c := range children {
		if c.absolute() {
			continue
		}
		n++
		if dir == DirectionRow {
			mainSum += c.outerWidth()
			if c.Kind != KindSpacer {
				crossMax = max(crossMax, c.outerHeight())
			}
		} else {
			mainSum += c.outerHeight()
			if c.Kind != KindSpacer {
				crossMax = max(crossMax, c.outerWidth())
			}
		}
	}
	if n > 1 {
		mainSum += gap * (n - 1)
	}
	if dir == DirectionRow {
		return mainSum, crossMax
	}
	return crossMax, mainSum
}

func gridContentSize(g *Grid, cells [][]*MeasuredNode) (int, int) {
	cols := gridColumns(g)
	colGap, rowGap := gridGaps(g)
	w := 0
	for c, col := range cols {
		w += preferredColumnWidth(col, c, cells)
	}
	if len(cols) > 1 {
		w += colGap * (len(cols) - 1)
	}
	h := 0
	for _, row := range cells {
		rh := 0
		for _, cell := range row {
			if cell != nil {
				rh = max(rh, cell.outerHeight())
			}
		}
		h += rh
	}
	if len(cells) > 1 {
		h += rowGap * (len(cells) - 1)
	}
	return w, h
}

// preferredColumnWidth: 固定点数列取其值，其余取该列单元格最大外宽。
func preferredColumnWidth(col GridColumn, c int, cells [][]*MeasuredNode) int {
	if col.Width.Unit == SizeDots {
		return col.Width.Dots
	}
	w := 0
	for _, row := range cells {
		if c < len(row) && row[c] != nil {
			w = max(w, row[c].outerWidth())
		}
	}
	return w
}

// gridColumns 返回有效列定义；未声明列时按最长行推断为 auto 列。
func gridColumns(g *Grid) []GridColumn {
	if len(g.Columns) > 0 {
		return g.Columns
	}
	n := 0
	for _, r := range g.Rows {
		n = max(n, len(r.Cells))
	}
	return make([]GridColumn, n)
}

// gridGaps 未设置 ColumnGap/RowGap 时回落到通用 Gap。
func gridGaps(g *Grid) (int, int) {
	colGap, rowGap := g.ColumnGap, g.RowGap
	if colGap == 0 {
		colGap = g.Gap
	}
	if rowGap == 0 {
		rowGap = g.Gap
	}
	return nonNeg(colGap), nonNeg(rowGap)
}

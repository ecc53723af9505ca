package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(order, y, h int) PositionedItem {
	return PositionedItem{
		Order:   order,
		Y:       y,
		Height:  h,
		Payload: Payload{Kind: ItemText, Text: &TextPayload{Content: string(rune('a' + order))}},
	}
}

type placed struct {
	Page, Order, Y int
}

func placements(segs []PageSegment) []placed {
	var out []placed
	for _, s := range segs {
		for _, it := range s.Items {
			out = append(out, placed{s.Page, it.Order, it.Y})
		}
	}
	return out
}

func TestPaginatePushesStraddlingGroup(t *testing.T) {
	items := []PositionedItem{item(2, 120, 20), item(0, 0, 20), item(1, 90, 20), item(3, 90, 10)}
	segs := Paginate(items, 100, AbsoluteFollowRawY)

	require.Len(t, segs, 2)
	want := []placed{
		{0, 0, 0},
		// 同一原始 y 的条目整体推到下一页顶部
		{1, 1, 0}, {1, 3, 0},
		// 之后的条目仍按原始 y 归页
		{1, 2, 20},
	}
	if diff := cmp.Diff(want, placements(segs)); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}
}

// 推移不会累积：每个未跨页的条目都落在 floor(y/H) 页、页内 y 为 y-k*H。
func TestPaginateKeepsRawYAfterPush(t *testing.T) {
	var items []PositionedItem
	for i := range 10 {
		items = append(items, item(i, i*30, 30))
	}
	segs := Paginate(items, 100, AbsoluteFollowRawY)

	want := []placed{
		{0, 0, 0}, {0, 1, 30}, {0, 2, 60},
		{1, 3, 0}, {1, 4, 20}, {1, 5, 50},
		{2, 6, 0}, {2, 7, 10}, {2, 8, 40}, {2, 9, 70},
	}
	if diff := cmp.Diff(want, placements(segs)); diff != "" {
		t.Fatalf("placements mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginateCarryShiftsFollowingItems(t *testing.T) {
	items := []PositionedItem{item(0, 0, 20), item(1, 90, 20), item(2, 120, 20)}
	segs := PaginateWith(items, 100, AbsoluteFollowRawY, FlowCarry)
	assert.Equal(t, []placed{{0, 0, 0}, {1, 1, 0}, {1, 2, 30}}, placements(segs))

	assert.Equal(t, FlowCarry, ParseFlowPolicy("carry"))
	assert.Equal(t, FlowRawY, ParseFlowPolicy("anything"))
	assert.Equal(t, "raw-y", FlowRawY.String())
}

func TestPaginateTallItemStaysAtTop(t *testing.T) {
	segs := Paginate([]PositionedItem{item(0, 100, 250), item(1, 350, 20)}, 100, AbsoluteFollowRawY)
	assert.Equal(t, []placed{{1, 0, 0}, {3, 1, 50}}, placements(segs))
	assert.Len(t, segs, 4)
	assert.Empty(t, segs[2].Items)
}

func TestPaginateAbsolutePolicies(t *testing.T) {
	abs := item(9, 230, 10)
	abs.Absolute = true
	stamp := item(8, 30, 10)
	stamp.Absolute = true
	flow := []PositionedItem{item(0, 0, 20), item(1, 150, 20)}

	segs := Paginate(append(append([]PositionedItem{}, flow...), abs), 100, AbsoluteFollowRawY)
	require.Len(t, segs, 3)
	assert.Equal(t, []placed{{0, 0, 0}, {1, 1, 50}, {2, 9, 30}}, placements(segs))

	segs = Paginate(append(append([]PositionedItem{}, flow...), stamp), 100, AbsoluteRepeatEveryPage)
	require.Len(t, segs, 2)
	assert.Equal(t, []placed{{0, 0, 0}, {0, 8, 30}, {1, 1, 50}, {1, 8, 30}}, placements(segs))
}

func TestPaginateRepeatWrapsNegativeY(t *testing.T) {
	stamp := item(0, -10, 10)
	stamp.Absolute = true
	segs := Paginate([]PositionedItem{stamp}, 100, AbsoluteRepeatEveryPage)
	assert.Equal(t, []placed{{0, 0, 90}}, placements(segs))
}

func TestPaginateUnbounded(t *testing.T) {
	items := []PositionedItem{item(1, 500, 20), item(0, 5000, 20)}
	segs := Paginate(items, 0, AbsoluteFollowRawY)
	require.Len(t, segs, 1)
	assert.Equal(t, []placed{{0, 1, 500}, {0, 0, 5000}}, placements(segs))

	assert.Nil(t, Paginate(nil, 100, AbsoluteFollowRawY))
}

func TestFlattenOrdersByPageThenOrder(t *testing.T) {
	segs := []PageSegment{
		{Page: 1, Items: []PositionedItem{item(5, 10, 1), item(3, 20, 1)}},
		{Page: 0, Items: []PositionedItem{item(2, 0, 1), item(0, 40, 1)}},
	}
	out := Flatten(segs)
	require.Len(t, out, 4)

	var got []placed
	for _, ri := range out {
		got = append(got, placed{ri.Page, int(ri.Text.Content[0] - 'a'), ri.Y})
	}
	assert.Equal(t, []placed{{0, 0, 40}, {0, 2, 0}, {1, 3, 20}, {1, 5, 10}}, got)

	// 每条指令持有独立的 payload
	out[0].Text.Content = "changed"
	assert.Equal(t, "a", segs[1].Items[1].Payload.Text.Content)
	assert.Nil(t, Flatten(nil))
}

func TestCollectDefersAbsolute(t *testing.T) {
	stamp := NewText("z")
	stamp.Position = PositionAbsolute
	stamp.PosX, stamp.PosY = Int(70), Int(3)
	root := NewStack(stamp, NewText("a"), &Line{Char: '='}, NewText("\nb"))

	r := layoutTree(t, root, 100, 0)
	items := Collect(r, AbsoluteOriginPage)
	require.Len(t, items, 4)

	kinds := []ItemKind{ItemText, ItemLine, ItemText, ItemText}
	for i, it := range items {
		assert.Equal(t, i, it.Order)
		assert.Equal(t, kinds[i], it.Payload.Kind)
	}
	assert.Equal(t, "a", items[0].Payload.Text.Content)
	assert.Equal(t, '=', items[1].Payload.Line.Char)
	assert.Equal(t, 100, items[1].Payload.Line.Length)
	// 空行不产生条目，但仍占据行高
	assert.Equal(t, "b", items[2].Payload.Text.Content)
	assert.Equal(t, 60, items[2].Y)
	assert.True(t, items[3].Absolute)
	assert.Equal(t, 70, items[3].X)
	assert.Equal(t, 3, items[3].Y)

	assert.Nil(t, Collect(nil, AbsoluteOriginPage))
}

func TestCollectAncestorBlocks(t *testing.T) {
	stamp := NewText("z")
	stamp.Position = PositionAbsolute
	holder := &Stack{StyleProps: StyleProps{Position: PositionRelative}, Children: []Node{stamp, NewText("a")}}
	root := NewStack(holder, NewText("b"))

	r := layoutTree(t, root, 100, 0, WithAbsoluteOrigin(AbsoluteOriginAncestor))
	items := Collect(r, AbsoluteOriginAncestor)

	var got []string
	for _, it := range items {
		got = append(got, it.Payload.Text.Content)
	}
	// 绝对定位子树紧跟其包含块的正常流内容绘制
	assert.Equal(t, []string{"a", "z", "b"}, got)

	items = Collect(layoutTree(t, root, 100, 0), AbsoluteOriginPage)
	got = got[:0]
	for _, it := range items {
		got = append(got, it.Payload.Text.Content)
	}
	assert.Equal(t, []string{"a", "b", "z"}, got)
}

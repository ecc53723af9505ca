package layout

import (
	"cmp"
	"slices"
)

// Flatten 输出最终绘制指令：先按页，再按绘制顺序。每条指令持有自己的 payload 副本。
func Flatten(segments []PageSegment) []RenderItem {
	segs := slices.Clone(segments)
	slices.SortStableFunc(segs, func(a, b PageSegment) int { return cmp.Compare(a.Page, b.Page) })

	var out []RenderItem
	for _, seg := range segs {
		items := slices.Clone(seg.Items)
		slices.SortStableFunc(items, func(a, b PositionedItem) int { return cmp.Compare(a.Order, b.Order) })
		for _, it := range items {
			ri := RenderItem{Page: seg.Page, X: it.X, Y: it.Y, Kind: it.Payload.Kind}
			if t := it.Payload.Text; t != nil {
				cp := *t
				ri.Text = &cp
			}
			if l := it.Payload.Line; l != nil {
				cp := *l
				ri.Line = &cp
			}
			out = append(out, ri)
		}
	}
	return out
}

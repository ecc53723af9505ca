package layout

import (
	"cmp"
	"slices"
)

// AbsolutePolicy 决定绝对定位条目在分页时的处理方式。
type AbsolutePolicy uint8

const (
	// AbsoluteFollowRawY 按自身原始 y 归页，不受正常流推移影响。
	AbsoluteFollowRawY AbsolutePolicy = iota
	// AbsoluteRepeatEveryPage 在每一页重复出现，y 为原始 y 对页高取模。
	AbsoluteRepeatEveryPage
)

func ParseAbsolutePolicy(s string) AbsolutePolicy {
	switch s {
	case "repeat", "repeat-every-page":
		return AbsoluteRepeatEveryPage
	default:
		return AbsoluteFollowRawY
	}
}

func (p AbsolutePolicy) String() string {
	if p == AbsoluteRepeatEveryPage {
		return "repeat-every-page"
	}
	return "follow-raw-y"
}

// FlowPolicy 决定正常流条目被推到下一页之后，后续条目如何归页。
type FlowPolicy uint8

const (
	// FlowRawY 每个条目按自身原始 y 归页，只有跨页的条目被推到下一页顶部。
	FlowRawY FlowPolicy = iota
	// FlowCarry 推移量累积到之后的所有正常流条目，被推移的内容不会与后续内容重叠。
	FlowCarry
)

func ParseFlowPolicy(s string) FlowPolicy {
	if s == "carry" {
		return FlowCarry
	}
	return FlowRawY
}

func (p FlowPolicy) String() string {
	if p == FlowCarry {
		return "carry"
	}
	return "raw-y"
}

// Paginate 将整份文档的条目切分到高度为 pageHeight 的页面上。
//
// 条目按原始 y 稳定排序（相同 y 按绘制顺序），页号 k = floor(y / pageHeight)，
// y 改写为 y - k*pageHeight。跨越页边界的条目不拆分：同一原始 y 上的整组正常流条目被推到下一页顶部。
// 比整页还高的条目放在页顶并允许溢出。pageHeight <= 0 时全部条目位于同一页。
func Paginate(items []PositionedItem, pageHeight int, policy AbsolutePolicy) []PageSegment {
	return PaginateWith(items, pageHeight, policy, FlowRawY)
}

// PaginateWith 与 Paginate 相同，另按 flow 处理推移之后的正常流条目。
func PaginateWith(items []PositionedItem, pageHeight int, policy AbsolutePolicy, flow FlowPolicy) []PageSegment {
	if len(items) == 0 {
		return nil
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b PositionedItem) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.Order, b.Order)
	})
	if pageHeight <= 0 {
		return []PageSegment{{Page: 0, Items: sorted}}
	}

	var normal, absolute []PositionedItem
	for _, it := range sorted {
		if it.Absolute {
			absolute = append(absolute, it)
		} else {
			normal = append(normal, it)
		}
	}

	pages := map[int][]PositionedItem{}
	last := 0
	put := func(page int, it PositionedItem) {
		pages[page] = append(pages[page], it)
		last = max(last, page)
	}

	carry := 0
	for i := 0; i < len(normal); {
		j, bottom := i, 0
		for j < len(normal) && normal[j].Y == normal[i].Y {
			bottom = max(bottom, normal[j].Y+normal[j].Height)
			j++
		}
		page, top := placeOnPage(normal[i].Y+carry, bottom+carry, pageHeight)
		if flow == FlowCarry {
			carry += page*pageHeight + top - (normal[i].Y + carry)
		}
		for _, it := range normal[i:j] {
			it.Y = top
			put(page, it)
		}
		i = j
	}

	var repeat []PositionedItem
	for _, it := range absolute {
		if policy == AbsoluteRepeatEveryPage {
			repeat = append(repeat, it)
			continue
		}
		page, top := placeOnPage(it.Y, it.Y+it.Height, pageHeight)
		it.Y = top
		put(page, it)
	}
	for p := 0; p <= last; p++ {
		for _, it := range repeat {
			it.Y = mod(it.Y, pageHeight)
			put(p, it)
		}
	}

	segments := make([]PageSegment, last+1)
	for p := range segments {
		segments[p] = PageSegment{Page: p, Items: pages[p]}
	}
	return segments
}

// placeOnPage 返回顶边为 y、底边为 bottom 的条目所在页号与页内 y。
// 跨越页边界且不在页顶的条目被推到下一页顶部。
func placeOnPage(y, bottom, pageHeight int) (int, int) {
	if y < 0 {
		return 0, y
	}
	page := y / pageHeight
	top := y - page*pageHeight
	if top > 0 && bottom > (page+1)*pageHeight {
		return page + 1, 0
	}
	return page, top
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

package layout

// 主轴空间分配。所有偏移都是整数，余数按顺序逐点补给最靠前的间隙，
// 保证 Σ(尺寸) + Σ(间隙) == 容器宽度，不会累积舍入误差。

// distribute returns n+1 spaces for n items: spaces[0] is the leading offset,
// spaces[1..n-1] the space between consecutive items (gap included) and
// spaces[n] the trailing space. free is the space left after the items and
// the regular gaps; when it is negative every mode degrades to start.
func distribute(free, n, gap int, j Justify) []int {
	if n <= 0 {
		return []int{max(free, 0)}
	}
	spaces := make([]int, n+1)
	for i := 1; i < n; i++ {
		spaces[i] = gap
	}
	if free < 0 {
		spaces[n] = free
		return spaces
	}

	switch j {
	case JustifyEnd:
		spaces[0] = free
	case JustifyCenter:
		spaces[0] = free / 2
		spaces[n] = free - spaces[0]
	case JustifySpaceBetween:
		if n == 1 {
			spaces[n] = free
			break
		}
		weights := make([]int, n+1)
		for i := 1; i < n; i++ {
			weights[i] = 1
		}
		share(spaces, weights, free)
	case JustifySpaceAround:
		// 首尾各半份，中间各一份
		weights := make([]int, n+1)
		weights[0], weights[n] = 1, 1
		for i := 1; i < n; i++ {
			weights[i] = 2
		}
		share(spaces, weights, free)
	case JustifySpaceEvenly:
		weights := make([]int, n+1)
		for i := range weights {
			weights[i] = 1
		}
		share(spaces, weights, free)
	default:
		spaces[n] = free
	}
	return spaces
}

// share adds free to spaces proportionally to weights. The remainder goes one
// dot at a time to the earliest weighted slots.
func share(spaces, weights []int, free int) {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return
	}
	unit := free / total
	rem := free - unit*total
	for i, w := range weights {
		spaces[i] += unit * w
	}
	for rem > 0 {
		for i, w := range weights {
			if w == 0 || rem == 0 {
				continue
			}
			spaces[i]++
			rem--
		}
	}
}

// splitEven divides total into n parts, earlier parts taking the remainder.
func splitEven(total, n int) []int {
	if n <= 0 {
		return nil
	}
	total = max(total, 0)
	parts := make([]int, n)
	q, r := total/n, total%n
	for i := range parts {
		parts[i] = q
		if i < r {
			parts[i]++
		}
	}
	return parts
}

// mainItem 为主轴上的一个子节点：border-box 尺寸与前后外边距。
type mainItem struct {
	size       int
	lead, tail Margin
}

func (it mainItem) outer() int { return it.size + it.lead.dots() + it.tail.dots() }

// placeMain 返回每个子节点 border-box 在主轴上的起始偏移以及占用的总长度。
// 存在 auto 外边距且有剩余空间时，剩余空间由 auto 外边距平分，不再应用 justify。
// bounded 为 false 时主轴无上限，剩余空间视为 0。
func placeMain(items []mainItem, avail, gap int, j Justify, bounded bool) ([]int, int) {
	n := len(items)
	starts := make([]int, n)
	if n == 0 {
		return starts, 0
	}
	used := gap * (n - 1)
	slots := 0
	for _, it := range items {
		used += it.outer()
		if it.lead.Auto {
			slots++
		}
		if it.tail.Auto {
			slots++
		}
	}
	free := 0
	if bounded {
		free = avail - used
	}

	pos := 0
	if slots > 0 && free > 0 {
		parts := splitEven(free, slots)
		k := 0
		for i, it := range items {
			if it.lead.Auto {
				pos += parts[k]
				k++
			}
			pos += it.lead.dots()
			starts[i] = pos
			pos += it.size + it.tail.dots()
			if it.tail.Auto {
				pos += parts[k]
				k++
			}
			if i < n-1 {
				pos += gap
			}
		}
		return starts, pos
	}

	spaces := distribute(free, n, gap, j)
	pos = spaces[0]
	for i, it := range items {
		pos += it.lead.dots()
		starts[i] = pos
		pos += it.size + it.tail.dots()
		if i < n-1 {
			pos += spaces[i+1]
		}
	}
	return starts, pos + max(spaces[n], 0)
}

// crossOffset 计算交叉轴上 border-box 相对内容区的偏移。
// avail 为内容区交叉轴尺寸（auto 外边距的参照），ref 为对齐参照尺寸。
func crossOffset(size, avail, ref int, lead, tail Margin, mode Align) int {
	switch {
	case lead.Auto && tail.Auto:
		return max((avail-size)/2, 0)
	case lead.Auto:
		return max(avail-size-tail.dots(), 0)
	case tail.Auto:
		return lead.dots()
	}
	outer := size + lead.dots() + tail.dots()
	switch mode {
	case AlignCenter:
		return lead.dots() + max((ref-outer)/2, 0)
	case AlignEnd:
		return lead.dots() + max(ref-outer, 0)
	default:
		return lead.dots()
	}
}

func vAlignMode(v VAlign) Align {
	switch v {
	case VAlignCenter:
		return AlignCenter
	case VAlignBottom:
		return AlignEnd
	case VAlignStretch:
		return AlignStretch
	default:
		return AlignStart
	}
}

package layout

// Collect 按绘制顺序把布局树展开为 PositionedItem：正常流按先序遍历，
// 绝对定位子树推迟到其包含块的正常流内容之后绘制，多个绝对定位子树保持源顺序。
// 容器本身不产生条目；每行文本、每条分隔线各产生一条。
//
// 页面原点模式下包含块总是根节点；祖先模式下为最近的 relative/absolute 祖先。
func Collect(root *LayoutResult, origin AbsoluteOrigin) []PositionedItem {
	if root == nil {
		return nil
	}
	c := &collector{origin: origin}
	c.block(root, root.Absolute)
	for i := 0; i < len(c.pageQueue); i++ {
		c.block(c.pageQueue[i], true)
	}
	return c.items
}

type collector struct {
	origin    AbsoluteOrigin
	items     []PositionedItem
	pageQueue []*LayoutResult
}

// block 先绘制 r 的正常流内容，再绘制以 r 为包含块的绝对定位子树。
func (c *collector) block(r *LayoutResult, absolute bool) {
	var local []*LayoutResult
	queue := &local
	if c.origin == AbsoluteOriginPage {
		queue = &c.pageQueue
	}
	c.walk(r, absolute, queue)
	for i := 0; i < len(local); i++ {
		c.block(local[i], true)
	}
}

func (c *collector) walk(r *LayoutResult, absolute bool, queue *[]*LayoutResult) {
	c.emit(r, absolute)
	for _, child := range r.Children {
		switch {
		case child.Absolute:
			*queue = append(*queue, child)
		case c.origin == AbsoluteOriginAncestor && child.Measured.positioned():
			c.block(child, absolute)
		default:
			c.walk(child, absolute, queue)
		}
	}
}

func (c *collector) emit(r *LayoutResult, absolute bool) {
	m := r.Measured
	switch r.Kind {
	case KindText:
		for _, line := range r.Lines {
			if line.Content == "" {
				continue
			}
			c.items = append(c.items, PositionedItem{
				Order:    len(c.items),
				X:        r.X + line.OffsetX,
				Y:        r.Y + line.OffsetY,
				Height:   line.Height,
				Absolute: absolute,
				Payload: Payload{
					Kind: ItemText,
					Text: &TextPayload{Content: line.Content, Width: line.Width, Style: m.Text},
				},
			})
		}
	case KindLine:
		rule := r.Rule
		if rule == nil || rule.Length <= 0 {
			return
		}
		n := m.Node.(*Line)
		h := rule.Thickness
		if n.Direction == LineVertical {
			h = rule.Length
		}
		c.items = append(c.items, PositionedItem{
			Order:    len(c.items),
			X:        r.X + rule.OffsetX,
			Y:        r.Y + rule.OffsetY,
			Height:   h,
			Absolute: absolute,
			Payload: Payload{
				Kind: ItemLine,
				Line: &LinePayload{
					Direction: n.Direction,
					Length:    rule.Length,
					Thickness: rule.Thickness,
					Char:      n.char(),
					Style:     m.Text,
				},
			},
		})
	}
}

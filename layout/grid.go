package layout

// layoutGrid 排列网格：列宽每个网格只解析一次，列 x 坐标为前序列宽与列间距的累加。
// 返回内容高度。
func (l *layouter) layoutGrid(r *LayoutResult, g *Grid, cw int) int {
	m := r.Measured
	cols := gridColumns(g)
	colGap, rowGap := gridGaps(g)
	widths := resolveColumnWidths(cols, m.Cells, cw, colGap)

	xs := make([]int, len(cols))
	x := 0
	for c := range cols {
		xs[c] = x
		x += widths[c] + colGap
	}

	mode := vAlignMode(g.VAlign)
	y := 0
	for ri, row := range m.Cells {
		if ri > 0 {
			y += rowGap
		}
		results := make([]*LayoutResult, len(row))
		cellW := make([]int, len(row))
		aligns := make([]Align, len(row))
		rowH := 0
		var stretched []int
		for c, cell := range row {
			if cell == nil {
				continue
			}
			aligns[c] = cols[c].Align
			if a := cell.Node.Style().Align; a != AlignStart {
				aligns[c] = a
			}
			cellW[c] = l.columnChildWidth(cell, widths[c], aligns[c])
			// 行高由单元格内容决定，百分比高度没有可参照的确定高度，按 auto 处理
			h := -1
			if cell.Height.Unit == SizeDots {
				h = cell.Height.Dots
			} else if cell.Height.Unit == SizeFill || g.VAlign == VAlignStretch {
				stretched = append(stretched, c)
			}
			results[c] = l.layoutBox(cell, cellW[c], h)
			rowH = max(rowH, results[c].Height+cell.Margin.Vertical())
		}
		for _, c := range stretched {
			cell := row[c]
			target := max(rowH-cell.Margin.Vertical(), 0)
			if cell.container() {
				results[c] = l.layoutBox(cell, cellW[c], target)
				continue
			}
			stretchLeaf(results[c], target)
		}
		for c, cell := range row {
			if cell == nil {
				continue
			}
			res := results[c]
			res.relX = m.Padding.Left + xs[c] + crossOffset(cellW[c], widths[c], widths[c], cell.Margin.Left, cell.Margin.Right, aligns[c])
			res.relY = m.Padding.Top + y + crossOffset(res.Height, rowH, rowH, cell.Margin.Top, cell.Margin.Bottom, mode)
			r.Children = append(r.Children, res)
		}
		y += rowH
	}
	return y
}

// resolveColumnWidths: 点数取值，百分比相对内容宽度，auto 取该列单元格最大首选外宽，
// fill 平分剩余宽度（余数给靠前的列）。
func resolveColumnWidths(cols []GridColumn, cells [][]*MeasuredNode, cw, gap int) []int {
	widths := make([]int, len(cols))
	used := 0
	if len(cols) > 1 {
		used = gap * (len(cols) - 1)
	}
	var fills []int
	for c, col := range cols {
		switch col.Width.Unit {
		case SizeDots:
			widths[c] = col.Width.Dots
		case SizePercent:
			widths[c] = percentOf(cw, col.Width.Percent)
		case SizeFill:
			fills = append(fills, c)
			continue
		default:
			widths[c] = preferredColumnWidth(col, c, cells)
		}
		used += widths[c]
	}
	for k, part := range splitEven(cw-used, len(fills)) {
		widths[fills[k]] = part
	}
	return widths
}

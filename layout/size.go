package layout

import (
	"math"
	"strconv"
	"strings"
)

// SizeUnit specifies how a Size is interpreted.
type SizeUnit uint8

const (
	SizeAuto    SizeUnit = iota // 由内容或容器决定
	SizeDots                    // 绝对点数
	SizePercent                 // 父容器内容宽/高的百分比
	SizeFill                    // 主轴剩余空间，在所有 fill 兄弟间平分
)

// Size is a width/height specification. Percent and fill cannot be resolved
// until the parent's content box is known, so they travel unresolved through
// the measure pass.
type Size struct {
	Unit    SizeUnit `json:"unit"`
	Dots    int      `json:"dots,omitempty"`
	Percent float64  `json:"percent,omitempty"`
}

// Auto returns a content-sized Size.
func Auto() Size { return Size{Unit: SizeAuto} }

// Dots returns an absolute Size; negative values clamp to 0.
func Dots(n int) Size {
	if n < 0 {
		n = 0
	}
	return Size{Unit: SizeDots, Dots: n}
}

// Percent returns a Size on a 0-100 scale (50 = 50%). Negative or NaN
// percentages normalise to auto.
func Percent(p float64) Size {
	if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return Auto()
	}
	return Size{Unit: SizePercent, Percent: p}
}

// Fill returns a Size that consumes the remaining main-axis space.
func Fill() Size { return Size{Unit: SizeFill} }

// ParseSize parses "auto", "fill", "N%" or a bare dot count. Anything it
// cannot understand becomes auto so layout stays total.
func ParseSize(value string) Size {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "auto":
		return Auto()
	case "fill":
		return Fill()
	}
	if strings.HasSuffix(v, "%") {
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "%")), 64)
		if err != nil {
			return Auto()
		}
		return Percent(f)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return Auto()
	}
	return Dots(n)
}

func (s Size) IsAuto() bool { return s.Unit == SizeAuto }
func (s Size) IsFill() bool { return s.Unit == SizeFill }

// String renders the size the way ParseSize accepts it.
func (s Size) String() string {
	switch s.Unit {
	case SizeDots:
		return strconv.Itoa(s.Dots)
	case SizePercent:
		return strconv.FormatFloat(s.Percent, 'f', -1, 64) + "%"
	case SizeFill:
		return "fill"
	default:
		return "auto"
	}
}

// percentOf floors available*p/100.
func percentOf(available int, p float64) int {
	v := math.Floor(float64(available) * p / 100)
	if v < 0 {
		return 0
	}
	return int(v)
}

// Edges represents values for four sides of a box.
type Edges struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// EdgeAll creates Edges with the same value on all sides.
func EdgeAll(n int) Edges {
	return Edges{Top: n, Right: n, Bottom: n, Left: n}
}

// EdgeSymmetric creates Edges with vertical (top/bottom) and horizontal (left/right) values.
func EdgeSymmetric(v, h int) Edges {
	return Edges{Top: v, Right: h, Bottom: v, Left: h}
}

// EdgeTRBL creates Edges following CSS order: Top, Right, Bottom, Left.
func EdgeTRBL(t, r, b, l int) Edges {
	return Edges{Top: t, Right: r, Bottom: b, Left: l}
}

// Horizontal returns the sum of Left and Right.
func (e Edges) Horizontal() int { return e.Left + e.Right }

// Vertical returns the sum of Top and Bottom.
func (e Edges) Vertical() int { return e.Top + e.Bottom }

func (e Edges) IsZero() bool {
	return e.Top == 0 && e.Right == 0 && e.Bottom == 0 && e.Left == 0
}

func (e Edges) clamp() Edges {
	return Edges{Top: nonNeg(e.Top), Right: nonNeg(e.Right), Bottom: nonNeg(e.Bottom), Left: nonNeg(e.Left)}
}

// Margin is one side of a margin: a dot count or auto.
type Margin struct {
	Dots int  `json:"dots,omitempty"`
	Auto bool `json:"auto,omitempty"`
}

// MarginEdges holds per-side margins; any side may be auto.
type MarginEdges struct {
	Top    Margin `json:"top"`
	Right  Margin `json:"right"`
	Bottom Margin `json:"bottom"`
	Left   Margin `json:"left"`
}

// MarginAll sets the same fixed margin on all sides.
func MarginAll(n int) MarginEdges {
	m := Margin{Dots: n}
	return MarginEdges{Top: m, Right: m, Bottom: m, Left: m}
}

// MarginTRBL sets fixed margins in CSS order.
func MarginTRBL(t, r, b, l int) MarginEdges {
	return MarginEdges{Top: Margin{Dots: t}, Right: Margin{Dots: r}, Bottom: Margin{Dots: b}, Left: Margin{Dots: l}}
}

// MarginAuto is the CSS "margin: auto" shorthand: every side auto.
func MarginAuto() MarginEdges {
	a := Margin{Auto: true}
	return MarginEdges{Top: a, Right: a, Bottom: a, Left: a}
}

// MarginAutoX keeps vertical margins fixed and makes left/right auto.
func MarginAutoX(v int) MarginEdges {
	a := Margin{Auto: true}
	return MarginEdges{Top: Margin{Dots: v}, Right: a, Bottom: Margin{Dots: v}, Left: a}
}

// dots returns the fixed part of a margin; auto sides count as 0 until layout fills them.
func (m Margin) dots() int {
	if m.Auto {
		return 0
	}
	return m.Dots
}

// Horizontal returns the fixed left+right margin.
func (m MarginEdges) Horizontal() int { return m.Left.dots() + m.Right.dots() }

// Vertical returns the fixed top+bottom margin.
func (m MarginEdges) Vertical() int { return m.Top.dots() + m.Bottom.dots() }

func (m MarginEdges) clamp() MarginEdges {
	c := func(s Margin) Margin {
		if s.Auto {
			return Margin{Auto: true}
		}
		return Margin{Dots: nonNeg(s.Dots)}
	}
	return MarginEdges{Top: c(m.Top), Right: c(m.Right), Bottom: c(m.Bottom), Left: c(m.Left)}
}

func nonNeg(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

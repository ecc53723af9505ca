package layout

import "unicode"

// DefaultDPI is the horizontal/vertical resolution used when none is configured.
const DefaultDPI = 360

// TextContext 为解析后的文本属性，沿递归以值传递，子节点通过 With 派生。
type TextContext struct {
	DPI          int    `json:"dpi"`
	CPI          int    `json:"cpi"`
	Typeface     string `json:"typeface"`
	Bold         bool   `json:"bold,omitempty"`
	Italic       bool   `json:"italic,omitempty"`
	Underline    bool   `json:"underline,omitempty"`
	DoubleWidth  bool   `json:"doubleWidth,omitempty"`
	DoubleHeight bool   `json:"doubleHeight,omitempty"`
	Condensed    bool   `json:"condensed,omitempty"`
	Proportional bool   `json:"proportional,omitempty"`
	LineSpacing  int    `json:"lineSpacing"`
}

// DefaultTextContext returns 10 CPI roman text with 1/6 inch line spacing.
func DefaultTextContext(dpi int) TextContext {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return TextContext{
		DPI:         dpi,
		CPI:         10,
		Typeface:    "roman",
		LineSpacing: dpi / 6,
	}
}

// With 返回叠加了 attrs 的新上下文，原值不变。
func (c TextContext) With(a TextAttrs) TextContext {
	if a.CPI > 0 {
		c.CPI = a.CPI
	}
	if a.Typeface != "" {
		c.Typeface = a.Typeface
	}
	if a.LineSpacing > 0 {
		c.LineSpacing = a.LineSpacing
	}
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Bold, a.Bold)
	set(&c.Italic, a.Italic)
	set(&c.Underline, a.Underline)
	set(&c.DoubleWidth, a.DoubleWidth)
	set(&c.DoubleHeight, a.DoubleHeight)
	set(&c.Condensed, a.Condensed)
	set(&c.Proportional, a.Proportional)
	return c
}

// EffectiveCPI 返回考虑压缩模式后的实际字符密度。
func (c TextContext) EffectiveCPI() int {
	cpi := c.CPI
	if cpi <= 0 {
		cpi = 10
	}
	if c.Condensed {
		switch cpi {
		case 10:
			return 17
		case 12:
			return 20
		}
	}
	return cpi
}

func (c TextContext) dpi() int {
	if c.DPI <= 0 {
		return DefaultDPI
	}
	return c.DPI
}

// Metrics 提供字符宽度与行高，全部以点为单位。
type Metrics interface {
	CharWidth(r rune, ctx TextContext) int
	LineHeight(ctx TextContext) int
}

// DefaultMetrics implements ESC/P style fixed pitch plus a proportional
// width table for the roman/sans typefaces.
type DefaultMetrics struct{}

var _ Metrics = DefaultMetrics{}

func (DefaultMetrics) CharWidth(r rune, ctx TextContext) int {
	if r == '\n' || r == '\r' || unicode.Is(unicode.Mn, r) {
		return 0
	}
	dpi := ctx.dpi()
	var w int
	if ctx.Proportional && r < 0x80 {
		w = proportionalWidth(r) * dpi / 360
		if ctx.Condensed {
			w = w * 10 / 17
		}
	} else {
		w = dpi / ctx.EffectiveCPI()
		if isWide(r) {
			w *= 2
		}
	}
	if ctx.DoubleWidth {
		w *= 2
	}
	return w
}

func (DefaultMetrics) LineHeight(ctx TextContext) int {
	h := ctx.LineSpacing
	if h <= 0 {
		h = ctx.dpi() / 6
	}
	if ctx.DoubleHeight {
		h *= 2
	}
	return h
}

// TextWidth sums the character widths of s.
func TextWidth(s string, ctx TextContext, m Metrics) int {
	w := 0
	for _, r := range s {
		w += m.CharWidth(r, ctx)
	}
	return w
}

// isWide 粗略判断东亚全角字符，占两个字符宽度。
func isWide(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r) ||
		(r >= 0xFF01 && r <= 0xFF60) ||
		(r >= 0x3000 && r <= 0x303F)
}

// proportionalWidth 返回比例字体下单个 ASCII 字符的宽度（1/360 英寸）。
// 表格取自常见 9/24 针打印机 PS 模式的字宽。
func proportionalWidth(r rune) int {
	if r < 0x20 || r >= 0x7F {
		return 36
	}
	return propTable[r-0x20]
}

var propTable = [95]int{
	// ' ' ! " # $ % & ' ( ) * + , - . /
	30, 18, 24, 36, 36, 42, 42, 12, 24, 24, 36, 36, 18, 30, 18, 30,
	// 0-9
	36, 36, 36, 36, 36, 36, 36, 36, 36, 36,
	// : ; < = > ? @
	18, 18, 36, 36, 36, 36, 42,
	// A-Z
	42, 42, 42, 42, 42, 36, 42, 42, 24, 30, 42, 36, 48, 42, 42,
	42, 42, 42, 36, 36, 42, 42, 48, 42, 42, 36,
	// [ \ ] ^ _ `
	24, 30, 24, 36, 36, 18,
	// a-z
	36, 36, 30, 36, 30, 24, 36, 36, 18, 18, 36, 18, 48, 36, 36,
	36, 36, 30, 30, 24, 36, 36, 48, 36, 36, 30,
	// { | } ~
	24, 12, 24, 36,
}

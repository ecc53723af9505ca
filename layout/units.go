package layout

import (
	"math"
	"strconv"
	"strings"
)

// 引擎内部一律以点为单位；物理长度只出现在文档边界，按页面 DPI 换算。

// Unit 记录长度在文档中书写时的单位。
type Unit int

const (
	UnitNone Unit = iota // 裸数字，按点处理
	UnitDot
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

const (
	MmPerInch = 25.4
	PtPerInch = 72.0
)

// unitTable 按后缀匹配顺序排列，"dots" 必须排在 "dot" 之前。
// perInch 为 0 表示与 DPI 无关。
var unitTable = []struct {
	suffix  string
	unit    Unit
	perInch float64
}{
	{"dots", UnitDot, 0},
	{"dot", UnitDot, 0},
	{"mm", UnitMM, MmPerInch},
	{"cm", UnitCM, MmPerInch / 10},
	{"in", UnitIN, 1},
	{"pt", UnitPT, PtPerInch},
}

func (u Unit) String() string {
	for _, e := range unitTable {
		if e.unit == u && e.suffix != "dots" {
			return e.suffix
		}
	}
	return ""
}

func (u Unit) perInch() float64 {
	for _, e := range unitTable {
		if e.unit == u {
			return e.perInch
		}
	}
	return 0
}

// Length is a number together with the unit it was written in.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// Inches 返回物理长度对应的英寸数；点数与裸数字需要 DPI，返回 0。
func (l Length) Inches() float64 {
	if p := l.Unit.perInch(); p > 0 {
		return l.Value / p
	}
	return 0
}

// Dots 按 dpi 换算为整点，四舍五入，负数截为 0。
func (l Length) Dots(dpi int) int {
	v := l.Value
	if l.Unit.perInch() > 0 {
		v = l.Inches() * float64(dpi)
	}
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Round(v))
}

// DotsToMM 把点数换回毫米，预览渲染使用。dpi<=0 时按 DefaultDPI。
func DotsToMM(dots, dpi int) float64 {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return float64(dots) * MmPerInch / float64(dpi)
}

// ParseLength parses "12", "3dots", "2.5mm", "0.5in" and similar. The
// suffix is case-insensitive and may be separated by spaces.
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	l := Length{Unit: UnitNone}
	for _, e := range unitTable {
		if num, ok := strings.CutSuffix(v, e.suffix); ok {
			v, l.Unit = strings.TrimSpace(num), e.unit
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Length{}, false
	}
	l.Value = f
	return l, true
}

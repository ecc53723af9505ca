package layout

import "strings"

// 该文件定义节点的样式枚举与可继承的文本属性。未知取值一律回落到默认值。

// Direction 为 Stack/Flex 的主轴方向。零值表示使用容器自身的默认方向。
type Direction uint8

const (
	DirectionDefault Direction = iota
	DirectionColumn
	DirectionRow
)

func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "column", "col", "vertical":
		return DirectionColumn
	case "row", "horizontal":
		return DirectionRow
	default:
		return DirectionDefault
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionColumn:
		return "column"
	case DirectionRow:
		return "row"
	default:
		return "default"
	}
}

// Justify 控制主轴上的剩余空间分配。
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

func ParseJustify(s string) Justify {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "end", "flex-end", "right":
		return JustifyEnd
	case "center":
		return JustifyCenter
	case "space-between", "between":
		return JustifySpaceBetween
	case "space-around", "around":
		return JustifySpaceAround
	case "space-evenly", "evenly":
		return JustifySpaceEvenly
	default:
		return JustifyStart
	}
}

func (j Justify) String() string {
	switch j {
	case JustifyEnd:
		return "end"
	case JustifyCenter:
		return "center"
	case JustifySpaceBetween:
		return "space-between"
	case JustifySpaceAround:
		return "space-around"
	case JustifySpaceEvenly:
		return "space-evenly"
	default:
		return "start"
	}
}

// Align 为纵向流中的交叉轴对齐；对 Text 而言是行内对齐。
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

func ParseAlign(s string) Align {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "middle":
		return AlignCenter
	case "end", "right", "flex-end":
		return AlignEnd
	case "stretch":
		return AlignStretch
	default:
		return AlignStart
	}
}

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	case AlignStretch:
		return "stretch"
	default:
		return "start"
	}
}

// VAlign 为横向流中的交叉轴对齐。
type VAlign uint8

const (
	VAlignTop VAlign = iota
	VAlignCenter
	VAlignBottom
	VAlignStretch
)

func ParseVAlign(s string) VAlign {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "middle":
		return VAlignCenter
	case "bottom", "end", "flex-end":
		return VAlignBottom
	case "stretch":
		return VAlignStretch
	default:
		return VAlignTop
	}
}

func (v VAlign) String() string {
	switch v {
	case VAlignCenter:
		return "center"
	case VAlignBottom:
		return "bottom"
	case VAlignStretch:
		return "stretch"
	default:
		return "top"
	}
}

// Position 决定节点是否参与正常流。
type Position uint8

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
)

func ParsePosition(s string) Position {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "relative":
		return PositionRelative
	case "absolute":
		return PositionAbsolute
	default:
		return PositionStatic
	}
}

func (p Position) String() string {
	switch p {
	case PositionRelative:
		return "relative"
	case PositionAbsolute:
		return "absolute"
	default:
		return "static"
	}
}

// Overflow 描述文本超出盒子宽度时的处理方式。
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowClip
	OverflowEllipsis
)

func ParseOverflow(s string) Overflow {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clip", "hidden":
		return OverflowClip
	case "ellipsis":
		return OverflowEllipsis
	default:
		return OverflowVisible
	}
}

func (o Overflow) String() string {
	switch o {
	case OverflowClip:
		return "clip"
	case OverflowEllipsis:
		return "ellipsis"
	default:
		return "visible"
	}
}

// LineDirection 为分隔线方向。
type LineDirection uint8

const (
	LineHorizontal LineDirection = iota
	LineVertical
)

func ParseLineDirection(s string) LineDirection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "v", "column":
		return LineVertical
	default:
		return LineHorizontal
	}
}

func (d LineDirection) String() string {
	if d == LineVertical {
		return "vertical"
	}
	return "horizontal"
}

// TextAttrs 是节点上声明的文本属性。nil 指针或零值表示继承父节点。
type TextAttrs struct {
	CPI          int    `json:"cpi,omitempty"`
	Typeface     string `json:"typeface,omitempty"`
	Bold         *bool  `json:"bold,omitempty"`
	Italic       *bool  `json:"italic,omitempty"`
	Underline    *bool  `json:"underline,omitempty"`
	DoubleWidth  *bool  `json:"doubleWidth,omitempty"`
	DoubleHeight *bool  `json:"doubleHeight,omitempty"`
	Condensed    *bool  `json:"condensed,omitempty"`
	Proportional *bool  `json:"proportional,omitempty"`
	LineSpacing  int    `json:"lineSpacing,omitempty"`
}

// Bool returns a pointer to b, for filling TextAttrs.
func Bool(b bool) *bool { return &b }

// StyleProps 为所有节点共有的样式属性。
type StyleProps struct {
	Width    Size        `json:"width"`
	Height   Size        `json:"height"`
	Padding  Edges       `json:"padding"`
	Margin   MarginEdges `json:"margin"`
	Position Position    `json:"position"`
	PosX     *int        `json:"x,omitempty"`
	PosY     *int        `json:"y,omitempty"`
	Align    Align       `json:"align"`
	VAlign   VAlign      `json:"valign"`
	Gap      int         `json:"gap"`
	Text     TextAttrs   `json:"text"`
}

// Style 返回自身，使内嵌 StyleProps 的节点满足 Node 接口。
func (s *StyleProps) Style() *StyleProps { return s }

// Int returns a pointer to n, for PosX/PosY.
func Int(n int) *int { return &n }

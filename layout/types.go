package layout

import "fmt"

// 该文件定义布局结果、分页中间结构与最终绘制指令，供渲染器、编码器与调试 JSON 共用。
// 所有坐标与尺寸均为整数点，相对页面内容区原点。

// LayoutResult 记录一个节点最终的 border-box 以及子节点结果。
type LayoutResult struct {
	Measured *MeasuredNode   `json:"-"`
	Kind     Kind            `json:"kind"`
	X        int             `json:"x"`
	Y        int             `json:"y"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Absolute bool            `json:"absolute,omitempty"`
	Lines    []TextLine      `json:"lines,omitempty"`
	Rule     *Rule           `json:"rule,omitempty"`
	Children []*LayoutResult `json:"children,omitempty"`

	// 相对父节点 border-box 的偏移，由 finalize 转换为绝对坐标。
	relX, relY int
}

// TextLine 表示排版后的一行文本，偏移相对所属盒子的 border-box 原点。
type TextLine struct {
	Content string `json:"content"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Rule 为分隔线的几何信息，偏移相对所属盒子的 border-box 原点。
type Rule struct {
	OffsetX   int `json:"offsetX"`
	OffsetY   int `json:"offsetY"`
	Length    int `json:"length"`
	Thickness int `json:"thickness"`
}

// ItemKind 区分绘制指令类型。
type ItemKind uint8

const (
	ItemText ItemKind = iota + 1
	ItemLine
)

func (k ItemKind) String() string {
	switch k {
	case ItemText:
		return "text"
	case ItemLine:
		return "line"
	default:
		return "unknown"
	}
}

func (k ItemKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ItemKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "text":
		*k = ItemText
	case "line":
		*k = ItemLine
	default:
		return fmt.Errorf("unknown item kind %q", b)
	}
	return nil
}

// TextPayload 为一行已解析样式的文本。
type TextPayload struct {
	Content string      `json:"content"`
	Width   int         `json:"width"`
	Style   TextContext `json:"style"`
}

// LinePayload 为一条分隔线。
type LinePayload struct {
	Direction LineDirection `json:"direction"`
	Length    int           `json:"length"`
	Thickness int           `json:"thickness"`
	Char      rune          `json:"char"`
	Style     TextContext   `json:"style"`
}

// Payload 为 PositionedItem 携带的绘制内容，不引用任何节点。
type Payload struct {
	Kind ItemKind     `json:"kind"`
	Text *TextPayload `json:"text,omitempty"`
	Line *LinePayload `json:"line,omitempty"`
}

// PositionedItem 是收集阶段输出的一条绘制单元，Y 仍为整份文档的原始坐标。
type PositionedItem struct {
	Order    int     `json:"order"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Height   int     `json:"height"`
	Absolute bool    `json:"absolute,omitempty"`
	Payload  Payload `json:"payload"`
}

// PageSegment 为分页后的一页，条目 Y 已改写为页内坐标。
type PageSegment struct {
	Page  int              `json:"page"`
	Items []PositionedItem `json:"items"`
}

// RenderItem 是最终交给编码器/渲染器的绘制指令。
type RenderItem struct {
	Page int          `json:"page"`
	X    int          `json:"x"`
	Y    int          `json:"y"`
	Kind ItemKind     `json:"kind"`
	Text *TextPayload `json:"text,omitempty"`
	Line *LinePayload `json:"line,omitempty"`
}

// Output 为一次 Render 的完整结果。
type Output struct {
	Items  []RenderItem  `json:"items"`
	Pages  int           `json:"pages"`
	Layout *LayoutResult `json:"layout,omitempty"`
}

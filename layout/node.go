package layout

// 该文件定义输入节点树。Node 是封闭的联合类型：只有本包内的六种变体可以实现它。

// Kind 标识节点变体。
type Kind uint8

const (
	KindStack Kind = iota + 1
	KindFlex
	KindGrid
	KindText
	KindLine
	KindSpacer
)

func (k Kind) String() string {
	switch k {
	case KindStack:
		return "stack"
	case KindFlex:
		return "flex"
	case KindGrid:
		return "grid"
	case KindText:
		return "text"
	case KindLine:
		return "line"
	case KindSpacer:
		return "spacer"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Node is one element of a document tree. The unexported marker keeps the
// set of variants closed.
type Node interface {
	Kind() Kind
	Style() *StyleProps
	node()
}

// Stack 沿单一方向依次排列子节点，默认纵向。
type Stack struct {
	StyleProps
	Direction Direction `json:"direction"`
	Children  []Node    `json:"children"`
}

// Flex 在 Stack 的基础上增加主轴分配与换行，默认横向。
// 交叉轴对齐使用自身的 VAlign（横向）或 Align（纵向）。
type Flex struct {
	StyleProps
	Direction Direction `json:"direction"`
	Justify   Justify   `json:"justify"`
	Wrap      bool      `json:"wrap"`
	RowGap    int       `json:"rowGap"`
	Children  []Node    `json:"children"`
}

// GridColumn 描述一列的宽度与默认水平对齐。
type GridColumn struct {
	Width Size  `json:"width"`
	Align Align `json:"align"`
}

// GridRow 为一行单元格；单元格数少于列数时剩余列留空，多出的单元格被忽略。
type GridRow struct {
	Cells []Node `json:"cells"`
}

// Grid 按显式列定义排列单元格。
type Grid struct {
	StyleProps
	Columns   []GridColumn `json:"columns"`
	ColumnGap int          `json:"columnGap"`
	RowGap    int          `json:"rowGap"`
	Rows      []GridRow    `json:"rows"`
}

// Text 为文本叶子节点。
type Text struct {
	StyleProps
	Content  string   `json:"content"`
	Wrap     bool     `json:"wrap"`
	Overflow Overflow `json:"overflow"`
}

// Line 为由重复字符构成的分隔线。Char 为 0 时使用 '-'。
type Line struct {
	StyleProps
	Direction LineDirection `json:"direction"`
	Length    Size          `json:"length"`
	Char      rune          `json:"char"`
}

// Spacer 在主轴上占据固定空间；Flex 为 true 时等同于 fill。
type Spacer struct {
	StyleProps
	Size int  `json:"size"`
	Flex bool `json:"flex"`
}

func (*Stack) Kind() Kind  { return KindStack }
func (*Flex) Kind() Kind   { return KindFlex }
func (*Grid) Kind() Kind   { return KindGrid }
func (*Text) Kind() Kind   { return KindText }
func (*Line) Kind() Kind   { return KindLine }
func (*Spacer) Kind() Kind { return KindSpacer }

func (*Stack) node()  {}
func (*Flex) node()   {}
func (*Grid) node()   {}
func (*Text) node()   {}
func (*Line) node()   {}
func (*Spacer) node() {}

// direction returns the effective main axis of a Stack.
func (s *Stack) direction() Direction {
	if s.Direction == DirectionRow {
		return DirectionRow
	}
	return DirectionColumn
}

// direction returns the effective main axis of a Flex.
func (f *Flex) direction() Direction {
	if f.Direction == DirectionColumn {
		return DirectionColumn
	}
	return DirectionRow
}

func (l *Line) char() rune {
	if l.Char == 0 {
		return '-'
	}
	return l.Char
}

// NewText creates a text node.
func NewText(content string) *Text { return &Text{Content: content} }

// NewStack creates a column stack.
func NewStack(children ...Node) *Stack { return &Stack{Children: children} }

// NewRow creates a row stack.
func NewRow(children ...Node) *Stack {
	return &Stack{Direction: DirectionRow, Children: children}
}

// NewFlex creates a row flex container.
func NewFlex(justify Justify, children ...Node) *Flex {
	return &Flex{Justify: justify, Children: children}
}

// NewSpacer creates a fixed-size spacer.
func NewSpacer(size int) *Spacer { return &Spacer{Size: size} }

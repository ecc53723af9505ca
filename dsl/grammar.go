package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var fileParser = participle.MustBuild[File](
	participle.Lexer(dmxLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// File is a parsed .dmx document.
type File struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"EOL* 'doc' @Ident"`
	Version  string         `parser:"@Ident?"`
	Sections []*Section     `parser:"'{' EOL* ( @@ ( ';' | EOL )* )* '}' EOL*"`
}

// Section is one top-level entry: metadata, a page override or a layout command.
type Section struct {
	Meta *Meta    `parser:"  'meta' @@"`
	Page *Page    `parser:"| 'page' @@"`
	Node *Command `parser:"| @@"`
}

// Meta holds `key: value` document metadata.
type Meta struct {
	Entries []*Entry `parser:"'{' EOL* ( @@ ( ';' | EOL )* )* '}'"`
}

// Page overrides the configured paper: `page a4 landscape margin 5mm { ... }`.
// The optional body holds the layout commands.
type Page struct {
	Preset string `parser:"@Ident"`
	Args   []*Arg `parser:"@@*"`
	Body   *Block `parser:"@@?"`
}

// Block is a brace-delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' EOL* ( @@ ( ';' | EOL )* )* '}'"`
}

// Statement is an entry, a nested command or a bare string (text content).
type Statement struct {
	Entry   *Entry         `parser:"  @@"`
	Command *Command       `parser:"| @@"`
	Text    *StringLiteral `parser:"| @String"`
}

// Entry is a `key: value` pair.
type Entry struct {
	Key   string `parser:"@Ident ':' EOL*"`
	Value *Value `parser:"@@"`
}

// Value is a scalar or a bracketed list of scalars.
type Value struct {
	List   []*Scalar `parser:"  '[' EOL* ( @@ ( ',' | EOL )* )* ']'"`
	Scalar *Scalar   `parser:"| @@"`
}

// Scalar is a string, a number or a bare word.
type Scalar struct {
	Str  *StringLiteral `parser:"  @String"`
	Word *string        `parser:"| @('-'? (Number | Ident))"`
}

// Command is a layout instruction: a name, free-form arguments and an
// optional body.
type Command struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"@Ident"`
	Args []*Arg         `parser:"@@*"`
	Body *Block         `parser:"( EOL* @@ )?"`
}

// Arg is a single argument token. Punctuation is kept so that expressions
// like `!customer.vip` or `items[0].lines` can be reassembled with JoinRaw.
type Arg struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Word   *string        `parser:"  @Ident"`
	Number *string        `parser:"| @Number"`
	Str    *StringLiteral `parser:"| @String"`
	Punct  *string        `parser:"| @('-' | '!' | '.' | '[' | ']' | '(' | ')' | '=' | '<' | '>' | '+' | '*' | '/' | '%' | '?' | '$' | ',')"`
}

// StringLiteral is an unquoted Go-style string.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("empty string literal")
	}
	v, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(v)
	return nil
}

// Parse parses a .dmx document.
func Parse(r io.Reader) (*File, error) {
	f, err := fileParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse dsl: %w", err)
	}
	return f, nil
}

// ParseString parses a .dmx document held in memory.
func ParseString(src string) (*File, error) {
	f, err := fileParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("parse dsl: %w", err)
	}
	return f, nil
}

// Text 返回参数的取值，字符串已去掉引号。
func (a *Arg) Text() string {
	switch {
	case a.Word != nil:
		return *a.Word
	case a.Number != nil:
		return *a.Number
	case a.Str != nil:
		return string(*a.Str)
	case a.Punct != nil:
		return *a.Punct
	}
	return ""
}

// Raw 返回参数在源码中的写法。
func (a *Arg) Raw() string {
	if a.Str != nil {
		return strconv.Quote(string(*a.Str))
	}
	return a.Text()
}

func (a *Arg) isWord(w string) bool { return a.Word != nil && *a.Word == w }

// JoinRaw reassembles a run of arguments as written, e.g. "items[0].name".
func JoinRaw(args []*Arg) string {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.Raw())
	}
	return b.String()
}

// Text returns the block's bare strings joined by newlines.
func (b *Block) Text() string {
	if b == nil {
		return ""
	}
	var lines []string
	for _, st := range b.Statements {
		if st.Text != nil {
			lines = append(lines, string(*st.Text))
		}
	}
	return strings.Join(lines, "\n")
}

// Commands returns the nested commands in source order.
func (b *Block) Commands() []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, st := range b.Statements {
		if st.Command != nil {
			out = append(out, st.Command)
		}
	}
	return out
}

// Text renders the value as plain text; lists are joined with ", ".
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	if v.Scalar != nil {
		return v.Scalar.Text()
	}
	parts := make([]string, len(v.List))
	for i, s := range v.List {
		parts[i] = s.Text()
	}
	return strings.Join(parts, ", ")
}

func (s *Scalar) Text() string {
	switch {
	case s == nil:
		return ""
	case s.Str != nil:
		return string(*s.Str)
	case s.Word != nil:
		return *s.Word
	}
	return ""
}

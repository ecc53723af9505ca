package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/dotmatrix/dsl"
)

const sampleDSL = `
doc Receipt v1 {
  meta {
    title: "Receipt"
    keywords: [
      "pos"
      "daily"
    ]
  }

  // 80mm 小票
  page receipt80 margin 2mm {
    stack gap 6 padding 12 {
      text bold true align center { "Hello, ${customer.name}!" }
      flex justify space-between width fill {
        text { "Item" }
        text { "3.00" }
      }
      line char "=" length fill
      spacer size 20
      grid columns "120 fill 20%" column-gap 10 {
        row { text { "a" } text { "b" } text { "c" } }
      }
      each items as it { text { "${it.name}" } }
      if !customer.vip { text { "Join us" } }
      absolute x 100 y -40 { text { "STAMP" } }
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	f, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if f.Name != "Receipt" || f.Version != "v1" {
		t.Fatalf("unexpected header %s %s", f.Name, f.Version)
	}
	if len(f.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(f.Sections))
	}

	meta := f.Sections[0].Meta
	if meta == nil || len(meta.Entries) != 2 {
		t.Fatalf("meta section missing or incomplete: %+v", meta)
	}
	if e := meta.Entries[0]; e.Key != "title" || e.Value.Text() != "Receipt" {
		t.Fatalf("unexpected title entry %s=%s", e.Key, e.Value.Text())
	}
	if kw := meta.Entries[1].Value; len(kw.List) != 2 || kw.Text() != "pos, daily" {
		t.Fatalf("expected two keywords, got %q", kw.Text())
	}

	page := f.Sections[1].Page
	if page == nil {
		t.Fatalf("page section missing")
	}
	attrs := page.Attrs()
	if attrs["preset"] != "receipt80" || attrs["margin"] != "2mm" {
		t.Fatalf("unexpected page attrs: %v", attrs)
	}

	body := page.Body.Commands()
	if len(body) != 1 || body[0].Name != "stack" {
		t.Fatalf("expected a single stack body, got %d commands", len(body))
	}
	children := body[0].Body.Commands()
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name)
	}
	if got := strings.Join(names, " "); got != "text flex line spacer grid each if absolute" {
		t.Fatalf("unexpected children: %s", got)
	}

	text := children[0]
	if got := text.Body.Text(); got != "Hello, ${customer.name}!" {
		t.Fatalf("unexpected text literal: %q", got)
	}
	if a := text.Attrs(); a["bold"] != "true" || a["align"] != "center" {
		t.Fatalf("unexpected text attrs: %v", a)
	}

	if got := children[2].Attrs()["char"]; got != "=" {
		t.Fatalf("expected unquoted char, got %q", got)
	}

	grid := children[4]
	if got := grid.Attrs()["columns"]; got != "120 fill 20%" {
		t.Fatalf("unexpected grid columns: %q", got)
	}
	if rows := grid.Body.Commands(); len(rows) != 1 || len(rows[0].Body.Commands()) != 3 {
		t.Fatalf("expected one row of three cells")
	}

	if a := children[5].Attrs(); a["items"] != "items" || a["as"] != "it" {
		t.Fatalf("unexpected each attrs: %v", a)
	}
	if got := children[6].Attrs()["test"]; got != "!customer.vip" {
		t.Fatalf("unexpected if expression: %s", got)
	}
	if a := children[7].Attrs(); a["x"] != "100" || a["y"] != "-40" {
		t.Fatalf("unexpected absolute attrs: %v", a)
	}
}

func TestCommandAttrs(t *testing.T) {
	f, err := dsl.ParseString(`doc A v1 {
  text wrap underline false padding 0.5in 10 auto width 50% "inline" {
    overflow: ellipsis
    Align: end
  }
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	attrs := f.Sections[0].Node.Attrs()
	want := map[string]string{
		"wrap":      "true",
		"underline": "false",
		"padding":   "0.5in 10 auto",
		"width":     "50%",
		"content":   "inline",
		"overflow":  "ellipsis",
		"align":     "end",
	}
	if len(attrs) != len(want) {
		t.Fatalf("expected %d attrs, got %v", len(want), attrs)
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Fatalf("attr %s = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestParseBareNode(t *testing.T) {
	f, err := dsl.ParseString(`doc Tiny { text { "hi" }; line }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(f.Sections) != 2 || f.Sections[0].Node == nil || f.Sections[1].Node == nil {
		t.Fatalf("expected two node sections, got %+v", f.Sections)
	}
	if f.Version != "" {
		t.Fatalf("expected no version, got %s", f.Version)
	}
	if f.Sections[1].Node.Body != nil {
		t.Fatalf("line should have no body")
	}
}

func TestParseError(t *testing.T) {
	_, err := dsl.ParseString(`doc Broken v1 { stack { `)
	if err == nil {
		t.Fatalf("expected error for unterminated block")
	}
	if !strings.HasPrefix(err.Error(), "parse dsl:") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

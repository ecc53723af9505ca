package layout

import (
	"strings"
	"unicode"
)

const ellipsis = "..."

// layoutText 将文本排入宽度为 width 的内容区，返回各行（偏移尚未包含内边距）。
func layoutText(t *Text, ctx TextContext, width int, align Align, m Metrics) []TextLine {
	var lines []TextLine
	if t.Wrap {
		lines = wrapLines(t.Content, width, ctx, m)
	} else {
		for _, part := range strings.Split(t.Content, "\n") {
			part = strings.TrimSuffix(part, "\r")
			lines = append(lines, fitLine(part, width, t.Overflow, ctx, m))
		}
	}
	lh := m.LineHeight(ctx)
	for i := range lines {
		lines[i].Height = lh
		lines[i].OffsetY = i * lh
		lines[i].OffsetX = alignOffset(width, lines[i].Width, align)
	}
	return lines
}

func alignOffset(container, width int, align Align) int {
	if width >= container {
		return 0
	}
	switch align {
	case AlignCenter:
		return (container - width) / 2
	case AlignEnd:
		return container - width
	default:
		return 0
	}
}

// fitLine 处理单行溢出：clip 截断，ellipsis 截断后追加 "..."，visible 保持原样。
func fitLine(s string, width int, overflow Overflow, ctx TextContext, m Metrics) TextLine {
	w := TextWidth(s, ctx, m)
	if w <= width || overflow == OverflowVisible {
		return TextLine{Content: s, Width: w}
	}
	if overflow == OverflowClip {
		head, hw := truncateToWidth(s, width, ctx, m)
		return TextLine{Content: head, Width: hw}
	}
	ew := TextWidth(ellipsis, ctx, m)
	if ew > width {
		head, hw := truncateToWidth(ellipsis, width, ctx, m)
		return TextLine{Content: head, Width: hw}
	}
	head, hw := truncateToWidth(s, width-ew, ctx, m)
	return TextLine{Content: head + ellipsis, Width: hw + ew}
}

func truncateToWidth(s string, limit int, ctx TextContext, m Metrics) (string, int) {
	var b strings.Builder
	w := 0
	for _, r := range s {
		cw := m.CharWidth(r, ctx)
		if w+cw > limit {
			break
		}
		b.WriteRune(r)
		w += cw
	}
	return b.String(), w
}

// wrapLines 贪心折行。显式换行把内容分成段落，每段至少占一行；
// 段内在空白处断开，软换行处的空白丢弃，超过行宽的单词在词内硬断。
func wrapLines(content string, width int, ctx TextContext, m Metrics) []TextLine {
	w := &wrapper{limit: max(width, 1), ctx: ctx, m: m}
	for _, para := range strings.Split(strings.ReplaceAll(content, "\r", ""), "\n") {
		w.paragraph(para)
	}
	return w.out
}

type wrapper struct {
	limit int
	ctx   TextContext
	m     Metrics

	out  []TextLine
	line strings.Builder
	used int
}

func (w *wrapper) paragraph(para string) {
	start := len(w.out)
	for rest := para; rest != ""; {
		var gap, word string
		gap, rest = cutRun(rest, false)
		word, rest = cutRun(rest, true)
		if word == "" {
			// 段尾空白
			break
		}
		gw := TextWidth(gap, w.ctx, w.m)
		ww := TextWidth(word, w.ctx, w.m)
		if w.used+gw+ww > w.limit {
			if w.used > 0 {
				w.flush()
			}
			gap, gw = "", 0
		}
		if ww <= w.limit {
			w.put(gap+word, gw+ww)
			continue
		}
		w.hardBreak(word)
	}
	if w.used > 0 || len(w.out) == start {
		w.flush()
	}
}

// hardBreak 逐字符填满整行，最后一段留在当前行继续排；每行至少一个字符。
func (w *wrapper) hardBreak(word string) {
	for _, r := range word {
		cw := w.m.CharWidth(r, w.ctx)
		if w.used > 0 && w.used+cw > w.limit {
			w.flush()
		}
		w.put(string(r), cw)
	}
}

func (w *wrapper) put(s string, width int) {
	w.line.WriteString(s)
	w.used += width
}

func (w *wrapper) flush() {
	s := strings.TrimRightFunc(w.line.String(), unicode.IsSpace)
	w.out = append(w.out, TextLine{Content: s, Width: TextWidth(s, w.ctx, w.m)})
	w.line.Reset()
	w.used = 0
}

// cutRun 切下开头连续的非空白（word 为 true）或空白字符。
func cutRun(s string, word bool) (string, string) {
	i := strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) == word })
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

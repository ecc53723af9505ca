package canvasrenderer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/dotmatrix/layout"
)

func sampleOutput(t *testing.T, page layout.PageConfig) *layout.Output {
	t.Helper()
	bold := true
	root := layout.NewStack(
		&layout.Text{StyleProps: layout.StyleProps{Text: layout.TextAttrs{Bold: &bold}}, Content: "RECEIPT"},
		&layout.Line{Length: layout.Fill()},
		layout.NewRow(layout.NewText("Tea"), layout.NewSpacer(36), layout.NewText("3.00")),
		&layout.Line{Direction: layout.LineVertical, Length: layout.Dots(120)},
	)
	out, err := layout.Render(root, layout.Options{Page: page})
	require.NoError(t, err)
	return out
}

func TestRenderProducesPDF(t *testing.T) {
	page := layout.PageConfig{ContentWidth: 1080, ContentHeight: 0, DPI: 360}
	r := NewRenderer(Options{Margin: 5, Frame: true, Meta: map[string]string{"title": "Receipt"}})

	data, err := r.Render(sampleOutput(t, page), page)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output should be a PDF document")
}

func TestRenderMultiplePages(t *testing.T) {
	page := layout.PageConfig{ContentWidth: 1080, ContentHeight: 60, DPI: 360}
	out := sampleOutput(t, page)
	require.Greater(t, out.Pages, 1)

	data, err := NewRenderer(Options{}).Render(out, page)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderEmptyOutput(t *testing.T) {
	data, err := NewRenderer(Options{}).Render(&layout.Output{}, layout.PageConfig{ContentWidth: 720})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = NewRenderer(Options{}).Render(nil, layout.PageConfig{})
	assert.Error(t, err)
}

func TestFontSizeFollowsPitch(t *testing.T) {
	r := NewRenderer(Options{})
	ctx := layout.DefaultTextContext(360)
	assert.InDelta(t, 12.0, r.fontSize(ctx), 1e-9)

	ctx.CPI = 12
	ctx.DoubleHeight = true
	assert.InDelta(t, 20.0, r.fontSize(ctx), 1e-9)

	assert.InDelta(t, 9.0, NewRenderer(Options{FontSize: 9}).fontSize(layout.DefaultTextContext(360)), 1e-9)
}

func TestContentBottom(t *testing.T) {
	items := []layout.RenderItem{
		{Y: 0, Kind: layout.ItemText, Text: &layout.TextPayload{Content: "a", Style: layout.TextContext{LineSpacing: 60}}},
		{Y: 100, Kind: layout.ItemLine, Line: &layout.LinePayload{Direction: layout.LineVertical, Length: 120}},
	}
	assert.Equal(t, 220, contentBottom(items))
}

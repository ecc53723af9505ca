package jsonrenderer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/dotmatrix/layout"
)

func TestRenderRoundTrip(t *testing.T) {
	page := layout.PageConfig{ContentWidth: 600, ContentHeight: 120, DPI: 360}
	root := layout.NewStack(
		layout.NewFlex(layout.JustifySpaceBetween, layout.NewText("Tea"), layout.NewText("3.00")),
		&layout.Line{Length: layout.Fill(), Char: '='},
		layout.NewText("Thanks"),
	)
	out, err := layout.Render(root, layout.Options{Page: page})
	require.NoError(t, err)

	for _, indent := range []bool{false, true} {
		data, err := (&Renderer{Indent: indent}).Render(out, page)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"kind":`)
		assert.Contains(t, string(data), `"text"`)

		doc, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, out.Pages, doc.Pages)
		assert.Equal(t, page, doc.Page)
		if diff := cmp.Diff(out.Items, doc.Items); diff != "" {
			t.Fatalf("items changed after round trip (-want +got):\n%s", diff)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	data, err := (&Renderer{}).Render(&layout.Output{}, layout.PageConfig{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pages":0,"page":{"contentWidth":0,"contentHeight":0,"dpi":0},"items":[]}`, string(data))

	_, err = (&Renderer{}).Render(nil, layout.PageConfig{})
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"pages":1,"items":[{"page":0,"x":0,"y":0,"kind":"barcode"}]}`))
	assert.Error(t, err)
}

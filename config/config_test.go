package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/dotmatrix/document"
	"github.com/ByLCY/dotmatrix/layout"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "continuous", cfg.Page.Preset)
	assert.Equal(t, layout.DefaultDPI, cfg.Page.DPI)
	assert.Equal(t, 10, cfg.Text.CPI)
	assert.Equal(t, "dotmatrix", cfg.Logger.ServiceName)
	assert.Equal(t, 4, cfg.Layout.MaxWorkers)

	// 8in x 11in 扣除四周 0.25in
	pc, err := cfg.Page.PageConfig()
	require.NoError(t, err)
	assert.Equal(t, layout.PageConfig{ContentWidth: 2700, ContentHeight: 3780, DPI: 360}, pc)
}

func TestPageConfig(t *testing.T) {
	tests := map[string]struct {
		page PageSettings
		want layout.PageConfig
	}{
		"receipt is continuous": {
			page: PageSettings{Preset: "receipt80", Margin: "0", DPI: 180},
			want: layout.PageConfig{ContentWidth: 567, ContentHeight: 0, DPI: 180},
		},
		"landscape swaps axes": {
			page: PageSettings{Preset: "continuous", Landscape: true, DPI: 360},
			want: layout.PageConfig{ContentWidth: 3960, ContentHeight: 2880, DPI: 360},
		},
		"explicit size and two margins": {
			page: PageSettings{Width: "4in", Height: "2in", Margin: "0.1in 0.5in", DPI: 100},
			want: layout.PageConfig{ContentWidth: 300, ContentHeight: 180, DPI: 100},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.page.PageConfig()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Page.Preset = "tabloid"
	assert.ErrorContains(t, cfg.Validate(), "unsupported page preset")

	cfg = NewDefaultConfig()
	cfg.Page.DPI = 0
	assert.ErrorContains(t, cfg.Validate(), "page.dpi")

	cfg = NewDefaultConfig()
	cfg.Page.Margin = "5in"
	assert.ErrorContains(t, cfg.Validate(), "no printable width")

	cfg = NewDefaultConfig()
	cfg.Page.Margin = "wide"
	assert.Error(t, cfg.Validate())
}

func TestConfigureReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dotmatrix.yaml")
	yaml := "page:\n  preset: a4\n  dpi: 180\ntext:\n  cpi: 12\nlayout:\n  absolute_policy: repeat\n  flow_policy: carry\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("DOTMATRIX_TEXT_TYPEFACE", "sans")

	v := viper.New()
	require.NoError(t, Configure(v, path))
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "a4", cfg.Page.Preset)
	assert.Equal(t, 180, cfg.Page.DPI)
	assert.Equal(t, 12, cfg.Text.CPI)
	assert.Equal(t, "sans", cfg.Text.Typeface)

	opts, err := cfg.LayoutOptions()
	require.NoError(t, err)
	assert.Equal(t, layout.AbsoluteRepeatEveryPage, opts.AbsolutePolicy)
	assert.Equal(t, layout.FlowCarry, opts.FlowPolicy)
	assert.Equal(t, 12, opts.Text.CPI)
	assert.Equal(t, 180, opts.Text.DPI)
}

func TestConfigureMissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := Configure(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyDocument(t *testing.T) {
	base := NewDefaultConfig().Page
	landscape := true
	got := base.ApplyDocument(&document.PageSpec{Preset: "a4", Margin: "10mm", Landscape: &landscape})
	assert.Equal(t, "a4", got.Preset)
	assert.Equal(t, "10mm", got.Margin)
	assert.True(t, got.Landscape)

	assert.Equal(t, base, base.ApplyDocument(nil))
}

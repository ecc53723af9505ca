// Package config loads dotmatrix settings (page, text, layout, logger,
// preview) through viper.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ByLCY/dotmatrix/document"
	"github.com/ByLCY/dotmatrix/layout"
)

// EnvPrefix 为环境变量前缀，例如 DOTMATRIX_PAGE_DPI。
const EnvPrefix = "DOTMATRIX"

// Config is the root configuration object.
type Config struct {
	Page    PageSettings    `mapstructure:"page" yaml:"page"`
	Text    TextSettings    `mapstructure:"text" yaml:"text"`
	Layout  LayoutSettings  `mapstructure:"layout" yaml:"layout"`
	Logger  LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Preview PreviewSettings `mapstructure:"preview" yaml:"preview"`
}

// PageSettings 描述纸张。Width/Height 非空时覆盖预设；Height 为 0 表示连续纸不分页。
type PageSettings struct {
	Preset    string `mapstructure:"preset" yaml:"preset"`
	Width     string `mapstructure:"width" yaml:"width"`
	Height    string `mapstructure:"height" yaml:"height"`
	Landscape bool   `mapstructure:"landscape" yaml:"landscape"`
	// Margin 为 CSS 顺序的 1-4 个长度，例如 "0.25in" 或 "5mm 3mm"。
	Margin string `mapstructure:"margin" yaml:"margin"`
	DPI    int    `mapstructure:"dpi" yaml:"dpi"`
}

// TextSettings 为根节点的默认文本属性。
type TextSettings struct {
	CPI          int    `mapstructure:"cpi" yaml:"cpi"`
	Typeface     string `mapstructure:"typeface" yaml:"typeface"`
	LineSpacing  string `mapstructure:"line_spacing" yaml:"line_spacing"`
	Condensed    bool   `mapstructure:"condensed" yaml:"condensed"`
	Proportional bool   `mapstructure:"proportional" yaml:"proportional"`
}

// LayoutSettings 对应 layout.Options 中的策略开关。
type LayoutSettings struct {
	AbsoluteOrigin string `mapstructure:"absolute_origin" yaml:"absolute_origin"`
	AbsolutePolicy string `mapstructure:"absolute_policy" yaml:"absolute_policy"`
	FlowPolicy     string `mapstructure:"flow_policy" yaml:"flow_policy"`
	Parallel       bool   `mapstructure:"parallel" yaml:"parallel"`
	MaxWorkers     int    `mapstructure:"max_workers" yaml:"max_workers"`
}

// PreviewSettings 控制 PDF 预览。
type PreviewSettings struct {
	Frame    bool    `mapstructure:"frame" yaml:"frame"`
	FontSize float64 `mapstructure:"font_size" yaml:"font_size"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// 纸张预设，单位 mm（纵向）。高度为 0 的预设为连续卷纸。
var pagePresets = map[string][2]float64{
	"CONTINUOUS": {203.2, 279.4}, // 8in x 11in 连续打孔纸
	"LETTER":     {215.9, 279.4},
	"A4":         {210, 297},
	"A5":         {148, 210},
	"RECEIPT80":  {80, 0},
	"RECEIPT58":  {58, 0},
}

// NewDefaultConfig returns a config populated only from defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Page --
	v.SetDefault("page.preset", "continuous")
	v.SetDefault("page.width", "")
	v.SetDefault("page.height", "")
	v.SetDefault("page.landscape", false)
	v.SetDefault("page.margin", "0.25in")
	v.SetDefault("page.dpi", layout.DefaultDPI)

	// -- Text --
	v.SetDefault("text.cpi", 10)
	v.SetDefault("text.typeface", "roman")
	v.SetDefault("text.line_spacing", "")
	v.SetDefault("text.condensed", false)
	v.SetDefault("text.proportional", false)

	// -- Layout --
	v.SetDefault("layout.absolute_origin", "page")
	v.SetDefault("layout.absolute_policy", "follow")
	v.SetDefault("layout.flow_policy", "raw-y")
	v.SetDefault("layout.parallel", false)
	v.SetDefault("layout.max_workers", 4)

	// -- Preview --
	v.SetDefault("preview.frame", true)
	v.SetDefault("preview.font_size", 0)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "dotmatrix")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Configure 为 v 设置默认值、环境变量与配置文件搜索路径。
// path 非空时只读取该文件（支持 ~ 展开）；否则依次查找 ./dotmatrix.yaml 与 ~/.config/dotmatrix/dotmatrix.yaml。
// 找不到默认配置文件不算错误。
func Configure(v *viper.Viper, path string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return fmt.Errorf("expand config path %s: %w", path, err)
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName("dotmatrix")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "dotmatrix"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Page.DPI <= 0 {
		return fmt.Errorf("page.dpi must be a positive integer")
	}
	if c.Text.CPI <= 0 {
		return fmt.Errorf("text.cpi must be a positive integer")
	}
	if c.Layout.MaxWorkers < 0 {
		return fmt.Errorf("layout.max_workers must not be negative")
	}
	if _, _, err := c.Page.PaperSize(); err != nil {
		return fmt.Errorf("page configuration invalid: %w", err)
	}
	pc, err := c.Page.PageConfig()
	if err != nil {
		return fmt.Errorf("page configuration invalid: %w", err)
	}
	if pc.ContentWidth <= 0 {
		return fmt.Errorf("page.margin leaves no printable width")
	}
	return nil
}

// PaperSize 返回纸张宽高（点）。高度为 0 表示连续纸。
func (p PageSettings) PaperSize() (int, int, error) {
	dpi := p.dpi()
	var w, h int
	if p.Preset != "" {
		base, ok := pagePresets[strings.ToUpper(p.Preset)]
		if !ok {
			return 0, 0, fmt.Errorf("unsupported page preset: %s", p.Preset)
		}
		w = layout.Length{Value: base[0], Unit: layout.UnitMM}.Dots(dpi)
		h = layout.Length{Value: base[1], Unit: layout.UnitMM}.Dots(dpi)
	}
	if p.Width != "" {
		l, ok := layout.ParseLength(p.Width)
		if !ok {
			return 0, 0, fmt.Errorf("invalid page width: %s", p.Width)
		}
		w = l.Dots(dpi)
	}
	if p.Height != "" {
		l, ok := layout.ParseLength(p.Height)
		if !ok {
			return 0, 0, fmt.Errorf("invalid page height: %s", p.Height)
		}
		h = l.Dots(dpi)
	}
	if w <= 0 {
		return 0, 0, fmt.Errorf("page width is not set")
	}
	if p.Landscape && h > 0 {
		w, h = h, w
	}
	return w, h, nil
}

// Margins 解析页边距为上右下左四个点值。
func (p PageSettings) Margins() (layout.Edges, error) {
	vals := strings.Fields(p.Margin)
	if len(vals) == 0 {
		return layout.Edges{}, nil
	}
	dots := make([]int, 0, 4)
	for _, v := range vals {
		l, ok := layout.ParseLength(v)
		if !ok {
			return layout.Edges{}, fmt.Errorf("invalid page margin: %s", p.Margin)
		}
		dots = append(dots, l.Dots(p.dpi()))
	}
	switch len(dots) {
	case 1:
		return layout.EdgeAll(dots[0]), nil
	case 2:
		return layout.EdgeSymmetric(dots[0], dots[1]), nil
	case 3:
		return layout.EdgeTRBL(dots[0], dots[1], dots[2], dots[1]), nil
	default:
		return layout.EdgeTRBL(dots[0], dots[1], dots[2], dots[3]), nil
	}
}

// PageConfig 把纸张扣除页边距后换算为布局用的内容区。
func (p PageSettings) PageConfig() (layout.PageConfig, error) {
	w, h, err := p.PaperSize()
	if err != nil {
		return layout.PageConfig{}, err
	}
	m, err := p.Margins()
	if err != nil {
		return layout.PageConfig{}, err
	}
	pc := layout.PageConfig{DPI: p.dpi(), ContentWidth: w - m.Horizontal()}
	if h > 0 {
		pc.ContentHeight = max(h-m.Vertical(), 1)
	}
	return pc, nil
}

// ApplyDocument 用文档内的 page 声明覆盖配置；spec 为 nil 时原样返回。
func (p PageSettings) ApplyDocument(spec *document.PageSpec) PageSettings {
	if spec == nil {
		return p
	}
	if spec.Preset != "" {
		p.Preset = spec.Preset
		p.Width, p.Height = "", ""
	}
	if spec.Width != "" {
		p.Width = spec.Width
	}
	if spec.Height != "" {
		p.Height = spec.Height
	}
	if spec.Margin != "" {
		p.Margin = spec.Margin
	}
	if spec.Landscape != nil {
		p.Landscape = *spec.Landscape
	}
	return p
}

func (p PageSettings) dpi() int {
	if p.DPI <= 0 {
		return layout.DefaultDPI
	}
	return p.DPI
}

// TextContext 返回根节点的文本上下文。
func (c *Config) TextContext() layout.TextContext {
	ctx := layout.DefaultTextContext(c.Page.dpi())
	if c.Text.CPI > 0 {
		ctx.CPI = c.Text.CPI
	}
	if c.Text.Typeface != "" {
		ctx.Typeface = c.Text.Typeface
	}
	if l, ok := layout.ParseLength(c.Text.LineSpacing); ok {
		if d := l.Dots(ctx.DPI); d > 0 {
			ctx.LineSpacing = d
		}
	}
	ctx.Condensed = c.Text.Condensed
	ctx.Proportional = c.Text.Proportional
	return ctx
}

// LayoutOptions 组装一次渲染所需的 layout.Options（不含 Logger）。
func (c *Config) LayoutOptions() (layout.Options, error) {
	pc, err := c.Page.PageConfig()
	if err != nil {
		return layout.Options{}, err
	}
	return layout.Options{
		Page:           pc,
		Text:           c.TextContext(),
		AbsoluteOrigin: layout.ParseAbsoluteOrigin(c.Layout.AbsoluteOrigin),
		AbsolutePolicy: layout.ParseAbsolutePolicy(c.Layout.AbsolutePolicy),
		FlowPolicy:     layout.ParseFlowPolicy(c.Layout.FlowPolicy),
		Parallel:       c.Layout.Parallel,
		MaxWorkers:     c.Layout.MaxWorkers,
	}, nil
}

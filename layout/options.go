package layout

import "go.uber.org/zap"

// PageConfig 描述页面内容区（已扣除页边距）的尺寸，单位为点。
// ContentHeight <= 0 表示连续纸不分页。
type PageConfig struct {
	ContentWidth  int `json:"contentWidth"`
	ContentHeight int `json:"contentHeight"`
	DPI           int `json:"dpi"`
}

// Options 配置一次 Render 调用。零值可用：默认度量、页面原点绝对定位、按原始 y 分页。
type Options struct {
	Page PageConfig
	// Text 为根节点继承的文本上下文；DPI 为 0 时使用 DefaultTextContext(Page.DPI)。
	Text    TextContext
	Metrics Metrics

	AbsoluteOrigin AbsoluteOrigin
	AbsolutePolicy AbsolutePolicy
	FlowPolicy     FlowPolicy

	// Parallel 为 true 时并发测量根节点的直接子节点，最多 MaxWorkers 个（<=0 不限）。
	Parallel   bool
	MaxWorkers int

	// KeepLayout 为 true 时 Output.Layout 保留布局树，供调试输出使用。
	KeepLayout bool

	Logger *zap.Logger
}

func (o Options) normalized() Options {
	if o.Page.DPI <= 0 {
		o.Page.DPI = DefaultDPI
	}
	if o.Text.DPI <= 0 {
		o.Text = DefaultTextContext(o.Page.DPI)
	}
	if o.Metrics == nil {
		o.Metrics = DefaultMetrics{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

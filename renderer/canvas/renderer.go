package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/dotmatrix/fonts"
	"github.com/ByLCY/dotmatrix/layout"
	"github.com/ByLCY/dotmatrix/renderer"
)

const (
	frameWidth = 0.2  // mm
	ruleWidth  = 0.25 // mm
	// 默认字号使 Latin Modern 的平均字宽接近打印机字距。
	glyphAspect = 0.6
)

// Renderer 把绘制指令画成 PDF 预览，每张打印纸一页。
type Renderer struct {
	opts Options

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the preview.
type Options struct {
	// Margin 为内容区四周留白（mm），用来模拟纸张边距。
	Margin float64
	// Frame 为 true 时绘制内容区边框。
	Frame bool
	// FontSize 为固定字号（pt），<=0 时按 CPI 推算。
	FontSize float64
	// Meta 写入 PDF 文档信息：title/subject/keywords/author。
	Meta map[string]string
	// Metrics 用于逐字符定位，须与布局时一致，默认 layout.DefaultMetrics。
	Metrics layout.Metrics
}

// NewRenderer creates a preview renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.Metrics == nil {
		opts.Metrics = layout.DefaultMetrics{}
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	return &Renderer{opts: opts, fontFamilies: map[string]*canvas.FontFamily{}}
}

// Render draws out into a PDF byte slice.
func (r *Renderer) Render(out *layout.Output, page layout.PageConfig) ([]byte, error) {
	if out == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	dpi := page.DPI
	if dpi <= 0 {
		dpi = layout.DefaultDPI
	}
	pages := max(out.Pages, 1)
	byPage := make([][]layout.RenderItem, pages)
	for _, it := range out.Items {
		if it.Page >= 0 && it.Page < pages {
			byPage[it.Page] = append(byPage[it.Page], it)
		}
	}

	contentW := layout.DotsToMM(page.ContentWidth, dpi)
	contentH := layout.DotsToMM(page.ContentHeight, dpi)
	if page.ContentHeight <= 0 {
		// 连续纸：页高取内容实际高度
		contentH = layout.DotsToMM(max(contentBottom(out.Items), dpi/6), dpi)
	}
	width := contentW + 2*r.opts.Margin
	height := contentH + 2*r.opts.Margin

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	r.applyMeta(writer)
	for i, items := range byPage {
		if i > 0 {
			writer.NewPage(width, height)
		}
		c := canvas.New(width, height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if r.opts.Frame {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
			ctx.SetStrokeColor(canvas.Hex("#c8c8c8"))
			ctx.SetStrokeWidth(frameWidth)
			ctx.DrawPath(r.opts.Margin, r.opts.Margin, canvas.Rectangle(contentW, contentH))
		}
		if err := r.drawPage(ctx, items, dpi); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", i+1, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	m := r.opts.Meta
	writer.SetInfo(m["title"], m["subject"], m["keywords"], m["author"], "dotmatrix")
}

func (r *Renderer) drawPage(ctx *canvas.Context, items []layout.RenderItem, dpi int) error {
	for _, it := range items {
		x := r.opts.Margin + layout.DotsToMM(it.X, dpi)
		y := r.opts.Margin + layout.DotsToMM(it.Y, dpi)
		switch it.Kind {
		case layout.ItemText:
			if it.Text == nil {
				continue
			}
			if err := r.drawText(ctx, x, y, it.Text, dpi); err != nil {
				return err
			}
		case layout.ItemLine:
			if it.Line != nil {
				drawRule(ctx, x, y, it.Line, dpi)
			}
		}
	}
	return nil
}

// drawText 逐字符绘制，字符位置取自布局度量，保证预览与打印机字距一致。
func (r *Renderer) drawText(ctx *canvas.Context, x, y float64, t *layout.TextPayload, dpi int) error {
	face, err := r.fontFace(t.Style)
	if err != nil {
		return err
	}
	baseline := y + face.Metrics().Ascent
	cursor := 0
	for _, ch := range t.Content {
		w := r.opts.Metrics.CharWidth(ch, t.Style)
		if ch != ' ' && w > 0 {
			ctx.DrawText(x+layout.DotsToMM(cursor, dpi), baseline, canvas.NewTextLine(face, string(ch), canvas.Left))
		}
		cursor += w
	}
	if t.Style.Underline && cursor > 0 {
		ctx.SetStrokeColor(canvas.Black)
		ctx.SetStrokeWidth(ruleWidth)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(layout.DotsToMM(cursor, dpi), 0)
		ctx.DrawPath(x, baseline+face.Metrics().Descent/2, p)
	}
	return nil
}

// drawRule 在分隔线所占行的中线上画一条实线。
func drawRule(ctx *canvas.Context, x, y float64, l *layout.LinePayload, dpi int) {
	length := layout.DotsToMM(l.Length, dpi)
	half := layout.DotsToMM(l.Thickness, dpi) / 2
	ctx.SetStrokeColor(canvas.Black)
	ctx.SetStrokeWidth(ruleWidth)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	if l.Direction == layout.LineVertical {
		p.LineTo(0, length)
		ctx.DrawPath(x+half, y, p)
		return
	}
	p.LineTo(length, 0)
	ctx.DrawPath(x, y+half, p)
}

func (r *Renderer) fontFace(style layout.TextContext) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(fonts.Family(style.Typeface))
	if err != nil {
		return nil, err
	}
	return family.Face(r.fontSize(style), canvas.Black, fontStyle(style), canvas.FontNormal), nil
}

func (r *Renderer) fontSize(style layout.TextContext) float64 {
	size := r.opts.FontSize
	if size <= 0 {
		size = 72 / (float64(style.EffectiveCPI()) * glyphAspect)
	}
	if style.DoubleHeight {
		size *= 2
	}
	return size
}

// ensureFontFamily 加载并缓存字体族的常规、粗体与斜体变体。
func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily("dotmatrix-" + name)
	for _, v := range []struct {
		style fonts.Style
		face  canvas.FontStyle
	}{
		{fonts.Regular, canvas.FontRegular},
		{fonts.Bold, canvas.FontBold},
		{fonts.Italic, canvas.FontItalic},
	} {
		data, err := fonts.Load(name, v.style)
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, v.face); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
		}
	}
	r.fontFamilies[name] = family
	return family, nil
}

// fontStyle 粗体优先于斜体：内置字体没有粗斜体变体。
func fontStyle(style layout.TextContext) canvas.FontStyle {
	switch {
	case style.Bold:
		return canvas.FontBold
	case style.Italic:
		return canvas.FontItalic
	default:
		return canvas.FontRegular
	}
}

// contentBottom 返回所有条目的最低下沿（点）。
func contentBottom(items []layout.RenderItem) int {
	bottom := 0
	for _, it := range items {
		h := 0
		switch {
		case it.Text != nil:
			h = it.Text.Style.LineSpacing
		case it.Line != nil && it.Line.Direction == layout.LineVertical:
			h = it.Line.Length
		case it.Line != nil:
			h = it.Line.Thickness
		}
		bottom = max(bottom, it.Y+h)
	}
	return bottom
}

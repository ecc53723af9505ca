package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/dotmatrix/document"
	"github.com/ByLCY/dotmatrix/layout"
	"github.com/ByLCY/dotmatrix/observability"
	canvasrenderer "github.com/ByLCY/dotmatrix/renderer/canvas"
	jsonrenderer "github.com/ByLCY/dotmatrix/renderer/json"
)

type renderFlags struct {
	in      string
	xml     bool
	out     string
	preview string
	data    string
	debug   string
}

func newRenderCmd(a *app) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Lay out a document and write its positioned render items",
		Long: `render 解析 .dmx 或 XML 文档，绑定数据后完成测量、布局、分页，
并把绘制指令以 JSON 写到 --out（默认标准输出），可选生成 PDF 预览。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.in, "in", "i", "", "document path (.dmx or .xml)")
	cmd.Flags().BoolVar(&f.xml, "xml", false, "parse the input as XML regardless of extension")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "render items JSON output path (default stdout)")
	cmd.Flags().StringVar(&f.preview, "preview", "", "PDF preview output path")
	cmd.Flags().StringVar(&f.data, "data", "", "JSON data bound to the document, inline or @file")
	cmd.Flags().StringVar(&f.debug, "debug", "", "layout debug JSON output path")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func (a *app) render(cmd *cobra.Command, f *renderFlags) error {
	jobID := uuid.NewString()
	logger := observability.GetLogger().With(zap.String("job_id", jobID))
	start := time.Now()
	logger.Info("render started", zap.String("in", f.in))

	doc, err := a.loadDocument(f.in, f.xml, f.data)
	if err != nil {
		return err
	}

	cfg := *a.cfg
	cfg.Page = cfg.Page.ApplyDocument(doc.Page)
	opts, err := cfg.LayoutOptions()
	if err != nil {
		return fmt.Errorf("resolve page: %w", err)
	}
	opts.Logger = logger
	opts.KeepLayout = f.debug != ""

	out, err := layout.Render(doc.Root, opts)
	if err != nil {
		return fmt.Errorf("layout %s: %w", f.in, err)
	}

	data, err := (&jsonrenderer.Renderer{Indent: true}).Render(out, opts.Page)
	if err != nil {
		return err
	}
	if f.out == "" {
		if _, err := cmd.OutOrStdout().Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write render items: %w", err)
		}
	} else if err := writeFile(f.out, data); err != nil {
		return err
	}

	if f.preview != "" {
		margins, err := cfg.Page.Margins()
		if err != nil {
			return fmt.Errorf("resolve page margin: %w", err)
		}
		r := canvasrenderer.NewRenderer(canvasrenderer.Options{
			Margin:   layout.DotsToMM(margins.Left, opts.Page.DPI),
			Frame:    cfg.Preview.Frame,
			FontSize: cfg.Preview.FontSize,
			Meta:     doc.Meta,
			Metrics:  opts.Metrics,
		})
		pdfBytes, err := r.Render(out, opts.Page)
		if err != nil {
			return fmt.Errorf("渲染 PDF 失败: %w", err)
		}
		if err := writeFile(f.preview, pdfBytes); err != nil {
			return err
		}
	}

	if f.debug != "" {
		if err := os.MkdirAll(filepath.Dir(f.debug), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(out, f.debug); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	logger.Info("render finished",
		zap.Int("pages", out.Pages),
		zap.Int("items", len(out.Items)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// loadDocument 读取数据并解析文档；data 以 @ 开头时视为文件路径。
func (a *app) loadDocument(path string, forceXML bool, data string) (*document.Document, error) {
	bound, err := parseData(data)
	if err != nil {
		return nil, err
	}
	opts := document.Options{DPI: a.cfg.Page.DPI, Data: bound}
	if !forceXML {
		return document.Load(path, opts)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document %s: %w", path, err)
	}
	defer file.Close()
	return document.ParseXML(file, opts)
}

func parseData(data string) (any, error) {
	if data == "" {
		return nil, nil
	}
	raw := []byte(data)
	if name, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read data %s: %w", name, err)
		}
		raw = b
	}
	var v any
	if err := jsoniter.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return v, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

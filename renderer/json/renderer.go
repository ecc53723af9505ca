// Package jsonrenderer 把绘制指令编码为 JSON，供外部编码器（ESC/P 等）消费。
package jsonrenderer

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/ByLCY/dotmatrix/layout"
	"github.com/ByLCY/dotmatrix/renderer"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document 为 JSON 输出的顶层结构。
type Document struct {
	Pages int                 `json:"pages"`
	Page  layout.PageConfig   `json:"page"`
	Items []layout.RenderItem `json:"items"`
}

// Renderer writes {"pages": n, "page": {...}, "items": [...]}.
type Renderer struct {
	Indent bool
}

var _ renderer.Renderer = (*Renderer)(nil)

func (r *Renderer) Render(out *layout.Output, page layout.PageConfig) ([]byte, error) {
	if out == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	doc := Document{Pages: out.Pages, Page: page, Items: out.Items}
	if doc.Items == nil {
		doc.Items = []layout.RenderItem{}
	}
	var (
		data []byte
		err  error
	)
	if r.Indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("encode render items: %w", err)
	}
	return data, nil
}

// Decode 读取 Render 写出的 JSON。
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode render items: %w", err)
	}
	return &doc, nil
}

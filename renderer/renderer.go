package renderer

import "github.com/ByLCY/dotmatrix/layout"

// Renderer 将绘制指令输出为最终文件，例如 PDF 预览或 JSON。
// Render 返回生成的二进制数据以及可能的错误；page 给出内容区尺寸与 DPI。
type Renderer interface {
	Render(out *layout.Output, page layout.PageConfig) ([]byte, error)
}

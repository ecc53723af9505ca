// Package fonts 提供预览渲染使用的内置字体（Latin Modern）。
package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10italic"
	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmmonolt10bold"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
)

// Style 为字形变体。
type Style uint8

const (
	Regular Style = iota
	Bold
	Italic
)

var faces = map[string]map[Style][]byte{
	"mono": {
		Regular: lmmono10regular.TTF,
		Bold:    lmmonolt10bold.TTF,
		Italic:  lmmono10italic.TTF,
	},
	"roman": {
		Regular: lmroman10regular.TTF,
		Bold:    lmroman10bold.TTF,
		Italic:  lmroman10italic.TTF,
	},
}

// Family 把打印机字体名映射到内置字体族：roman/serif 用 Latin Modern Roman，其余（sans、courier、draft 等）用等宽字体。
func Family(typeface string) string {
	switch strings.ToLower(typeface) {
	case "roman", "serif", "proportional":
		return "roman"
	default:
		return "mono"
	}
}

// Load 返回字体族 family 中 style 变体的 TTF 数据。
func Load(family string, style Style) ([]byte, error) {
	fam, ok := faces[family]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体族", family)
	}
	data, ok := fam[style]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不支持的样式 %d", family, style)
	}
	return data, nil
}

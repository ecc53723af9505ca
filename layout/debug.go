package layout

import (
	"fmt"
	"os"

	json "github.com/json-iterator/go"
)

// WriteDebugJSON 将布局树与绘制指令输出为 JSON，便于调试或可视化。
func WriteDebugJSON(out *Output, path string) error {
	if out == nil {
		return nil
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout debug json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

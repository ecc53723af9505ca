package layout

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrNilNode 表示树中出现了 nil 节点。
	ErrNilNode = errors.New("nil node")
	// ErrUnknownNode 表示出现了本包六种变体以外的 Node 实现。
	ErrUnknownNode = errors.New("unknown node variant")
)

// ValidationError 携带出错节点在树中的路径，例如 "stack[0]/flex[2]"。
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "layout: " + e.Err.Error()
	}
	return fmt.Sprintf("layout: %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate 在进入任何计算之前检查整棵树只包含已知的节点变体。
func Validate(root Node) error {
	return validate(root, nil)
}

func validate(n Node, path []string) error {
	if n == nil {
		return &ValidationError{Path: strings.Join(path, "/"), Err: ErrNilNode}
	}
	here := func(i int, child Node) []string {
		name := "nil"
		if child != nil {
			name = child.Kind().String()
		}
		return append(path[:len(path):len(path)], fmt.Sprintf("%s[%d]", name, i))
	}
	switch v := n.(type) {
	case *Stack:
		if v == nil {
			return &ValidationError{Path: strings.Join(path, "/"), Err: ErrNilNode}
		}
		for i, c := range v.Children {
			if err := validate(c, here(i, c)); err != nil {
				return err
			}
		}
	case *Flex:
		if v == nil {
			return &ValidationError{Path: strings.Join(path, "/"), Err: ErrNilNode}
		}
		for i, c := range v.Children {
			if err := validate(c, here(i, c)); err != nil {
				return err
			}
		}
	case *Grid:
		if v == nil {
			return &ValidationError{Path: strings.Join(path, "/"), Err: ErrNilNode}
		}
		k := 0
		for _, row := range v.Rows {
			for _, c := range row.Cells {
				// 网格中的空单元格合法
				if c != nil {
					if err := validate(c, here(k, c)); err != nil {
						return err
					}
				}
				k++
			}
		}
	case *Text:
		if v == nil {
			return &ValidationError{Path: strings.Join(path, "/"), Err: ErrNilNode}
		}
	case *Line:
		if v == nil {
			return &ValidationError{Path: strings.Join(path, "/"), Err: ErrNilNode}
		}
	case *Spacer:
		if v == nil {
			return &ValidationError{Path: strings.Join(path, "/"), Err: ErrNilNode}
		}
	default:
		return &ValidationError{Path: strings.Join(path, "/"), Err: fmt.Errorf("%w: %T", ErrUnknownNode, n)}
	}
	return nil
}

// Render 执行完整流水线：校验、测量、布局、收集、分页、展平。
// 除校验错误外不会失败；相同输入总是产生完全相同的输出。
func Render(root Node, opts Options) (*Output, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}
	opts = opts.normalized()
	log := opts.Logger

	var measured *MeasuredNode
	if opts.Parallel {
		measured = MeasureParallel(root, opts.Text, opts.Metrics, opts.MaxWorkers)
	} else {
		measured = Measure(root, opts.Text, opts.Metrics)
	}
	log.Debug("measured",
		zap.Stringer("root", measured.Kind),
		zap.Int("preferred_width", measured.PreferredWidth),
		zap.Int("preferred_height", measured.PreferredHeight),
		zap.Bool("parallel", opts.Parallel))

	tree := Layout(measured, opts.Page.ContentWidth, opts.Page.ContentHeight, 0, 0,
		WithMetrics(opts.Metrics), WithAbsoluteOrigin(opts.AbsoluteOrigin))
	log.Debug("laid out", zap.Int("width", tree.Width), zap.Int("height", tree.Height))

	items := Collect(tree, opts.AbsoluteOrigin)
	segments := PaginateWith(items, opts.Page.ContentHeight, opts.AbsolutePolicy, opts.FlowPolicy)
	out := &Output{Items: Flatten(segments), Pages: len(segments)}
	if opts.KeepLayout {
		out.Layout = tree
	}
	log.Debug("rendered",
		zap.Int("items", len(out.Items)),
		zap.Int("pages", out.Pages),
		zap.Stringer("absolute_policy", opts.AbsolutePolicy),
		zap.Stringer("flow_policy", opts.FlowPolicy))
	return out, nil
}

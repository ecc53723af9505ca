package binding

import (
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{\s*([^}]*?)\s*\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range placeholder.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(text[last:m[0]])
		last = m[1]
		if val, ok := Lookup(data, text[m[2]:m[3]]); ok {
			b.WriteString(format(val))
		} else {
			b.WriteString(text[m[0]:m[1]])
		}
	}
	b.WriteString(text[last:])
	return b.String()
}

// step 是路径中的一级：字段名或下标。
type step struct {
	key   string
	index int
}

// Lookup 按 a.b[0].c 形式的路径取值。
func Lookup(data any, path string) (any, bool) {
	steps, ok := splitPath(path)
	if !ok {
		return nil, false
	}
	cur := data
	for _, st := range steps {
		if cur, ok = descend(cur, st); !ok {
			return nil, false
		}
	}
	return cur, true
}

// splitPath 拆分路径；空路径、空字段与非数字下标均视为非法。
func splitPath(path string) ([]step, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	var out []step
	for _, part := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(part, "[")
		name = strings.TrimSpace(name)
		if name != "" {
			out = append(out, step{key: name, index: -1})
		} else if rest == "" {
			return nil, false
		}
		for rest != "" {
			idx, tail, found := strings.Cut(rest, "]")
			if !found {
				return nil, false
			}
			n, err := strconv.Atoi(strings.TrimSpace(idx))
			if err != nil || n < 0 {
				return nil, false
			}
			out = append(out, step{index: n})
			rest = strings.TrimPrefix(strings.TrimSpace(tail), "[")
		}
	}
	return out, true
}

// descend 同时支持 JSON 解码得到的 map/slice 与任意类型的 map、切片。
func descend(cur any, st step) (any, bool) {
	switch c := cur.(type) {
	case map[string]any:
		if st.index >= 0 {
			return nil, false
		}
		v, ok := c[st.key]
		return v, ok
	case []any:
		if st.index < 0 || st.index >= len(c) {
			return nil, false
		}
		return c[st.index], true
	}
	rv := reflect.ValueOf(cur)
	switch rv.Kind() {
	case reflect.Map:
		if st.index >= 0 || rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(st.key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		if st.index < 0 || st.index >= rv.Len() {
			return nil, false
		}
		return rv.Index(st.index).Interface(), true
	}
	return nil, false
}

// Truthy 计算条件表达式：路径取值后按类型判真，"!" 前缀取反。
// 不存在的路径为假。
func Truthy(data any, expr string) bool {
	expr = strings.TrimSpace(expr)
	negate := false
	for strings.HasPrefix(expr, "!") {
		negate = !negate
		expr = strings.TrimSpace(expr[1:])
	}
	if strings.HasPrefix(expr, "not ") {
		negate = !negate
		expr = strings.TrimSpace(expr[4:])
	}
	var v bool
	switch expr {
	case "true":
		v = true
	case "false", "":
		v = false
	default:
		val, ok := Lookup(data, expr)
		v = ok && truthy(val)
	}
	return v != negate
}

func truthy(val any) bool {
	switch v := val.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "false" && v != "0"
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	default:
		return !rv.IsZero()
	}
}

// Items 返回路径指向的列表，用于 each 展开；非列表返回 nil。
func Items(data any, path string) []any {
	val, ok := Lookup(data, path)
	if !ok {
		return nil
	}
	if v, ok := val.([]any); ok {
		return v
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// With 返回在 data 之上绑定了 name 的新作用域，原 data 不变。
func With(data any, name string, value any) any {
	scope := map[string]any{}
	if m, ok := data.(map[string]any); ok {
		maps.Copy(scope, m)
	}
	scope[name] = value
	return scope
}

func format(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

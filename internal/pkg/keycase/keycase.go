// Package keycase 在 snake_case（后端 wire 格式）与 camelCase（应用层模型）
// 之间转换 JSON 对象键。转换只作用于对象的键，字符串值保持原样。
package keycase

import "strings"

// Camelize walks a decoded JSON value and rewrites every snake_case object
// key to camelCase. Arrays keep their order and length, scalars pass through
// unchanged, and values that are neither objects nor arrays are returned
// as-is. The transform is idempotent.
func Camelize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[CamelKey(k)] = Camelize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Camelize(item)
		}
		return out
	default:
		return v
	}
}

// Snakeify is the inverse walk: camelCase object keys become snake_case.
func Snakeify(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[SnakeKey(k)] = Snakeify(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Snakeify(item)
		}
		return out
	default:
		return v
	}
}

// CamelKey converts a single snake_case key. Keys without underscores are
// returned unchanged, so applying it twice yields the same result.
func CamelKey(key string) string {
	if !strings.Contains(key, "_") {
		return key
	}
	parts := strings.Split(key, "_")
	var b strings.Builder
	b.Grow(len(key))
	wrote := false
	for _, part := range parts {
		if part == "" {
			continue
		}
		if !wrote {
			b.WriteString(part)
			wrote = true
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	if !wrote {
		// "_", "__" 等退化输入原样返回
		return key
	}
	return b.String()
}

// SnakeKey converts a single camelCase key to snake_case. Keys that already
// contain underscores are returned unchanged.
func SnakeKey(key string) string {
	if strings.Contains(key, "_") {
		return key
	}
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range key {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Package cypher 将属性集合、标识符与模式片段渲染为 Cypher 文本
//
// 这里只产生字符串片段，由上层查询构建器拼装成完整语句。
package cypher

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"ogm/validation"
)

var (
	// ErrUnsupportedValue 表示属性值不是可渲染的标量
	ErrUnsupportedValue = errors.New("cypher: unsupported property value")
	// ErrEmptyKey 表示属性键为空
	ErrEmptyKey = errors.New("cypher: empty property key")
)

// RenderPropertyMap 渲染为 `{k1: v1, k2: v2}`，空集合返回空字符串。
//
// 数值原样输出，字符串使用双引号并转义，布尔为 true/false，nil 为 null。
// 任一值无法渲染时返回错误且不输出部分结果。
func RenderPropertyMap(props Properties) (string, error) {
	if len(props) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteByte('{')
	for i, prop := range props {
		if prop.Key == "" {
			return "", ErrEmptyKey
		}
		literal, err := RenderValue(prop.Value)
		if err != nil {
			return "", fmt.Errorf("property %q: %w", prop.Key, err)
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(renderKey(prop.Key))
		sb.WriteString(": ")
		sb.WriteString(literal)
	}
	sb.WriteByte('}')
	return sb.String(), nil
}

// RenderValue 渲染单个标量字面量
func RenderValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case string:
		return QuoteString(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return formatFloat(val, 64)
	case float32:
		return formatFloat(float64(val), 32)
	}

	// 具名类型（例如 type Status string）按底层种类处理
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return QuoteString(rv.String()), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	case reflect.Pointer:
		if rv.IsNil() {
			return "null", nil
		}
		return RenderValue(rv.Elem().Interface())
	}

	return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	// 保持浮点字面量，避免 1.0 被读成整数
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

// QuoteString 以双引号包裹字符串并转义反斜杠、引号与控制字符
func QuoteString(s string) string {
	escaped := stringEscaper.Replace(s)

	var sb strings.Builder
	sb.Grow(len(escaped) + 2)
	sb.WriteByte('"')
	for _, r := range escaped {
		if r < 0x20 || r == 0x7f {
			fmt.Fprintf(&sb, `\u%04X`, r)
			continue
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}

// QuoteIdentifier 以反引号包裹标识符（标签、关系类型、属性名），内部反引号加倍
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func renderKey(key string) string {
	if validation.IsIdentifier(key) {
		return key
	}
	return QuoteIdentifier(key)
}

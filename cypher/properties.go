package cypher

import (
	"fmt"
	"sort"
)

// Property 单个属性键值
type Property struct {
	Key   string
	Value any
}

// Properties 有序属性集合，渲染时保持插入顺序
type Properties []Property

// Props 由交替的键值对构造 Properties，键必须是 string。
// 参数个数为奇数或键类型错误时 panic，仅用于字面量构造。
func Props(kv ...any) Properties {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("cypher: Props needs key/value pairs, got %d arguments", len(kv)))
	}
	props := make(Properties, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("cypher: Props key at position %d is %T, want string", i, kv[i]))
		}
		props = props.With(key, kv[i+1])
	}
	return props
}

// FromMap 由 map 构造 Properties，map 无序，因此按键排序以保证输出稳定
func FromMap(m map[string]any) Properties {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make(Properties, 0, len(keys))
	for _, k := range keys {
		props = append(props, Property{Key: k, Value: m[k]})
	}
	return props
}

// With 返回设置了 key 的新集合；已存在的键原位替换，否则追加到末尾
func (p Properties) With(key string, value any) Properties {
	out := make(Properties, len(p), len(p)+1)
	copy(out, p)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Property{Key: key, Value: value})
}

package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"
)

// Flatten 将嵌套的 map 展开为点分隔的键，列表元素使用 key[i]。
//
//	{"server": {"port": 8080, "hosts": ["a", "b"]}}
//	=> server.port=8080, server.hosts[0]=a, server.hosts[1]=b
//
// 每一层按键排序展开，因此同一来源中字面点分键与等价的嵌套路径冲突时，
// 字面键（如 "db.host"）总是覆盖嵌套路径（如 "db" -> "host"）。
func Flatten(data map[string]any) map[string]string {
	out := make(map[string]string)
	flatten("", data, out)
	return out
}

func flatten(prefix string, v any, out map[string]string) {
	switch t := v.(type) {
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			flatten(joinKey(prefix, k), t[k], out)
		}
	case map[any]any:
		keys := make(map[string]any, len(t))
		for k, child := range t {
			keys[fmt.Sprint(k)] = child
		}
		flatten(prefix, keys, out)
	case map[string]string:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			out[joinKey(prefix, k)] = t[k]
		}
	case []any:
		for i, child := range t {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), child, out)
		}
	case []string:
		for i, child := range t {
			out[fmt.Sprintf("%s[%d]", prefix, i)] = child
		}
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = formatScalar(t)
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

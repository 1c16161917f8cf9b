package config

import "strings"

const (
	exprPrefix = "${"
	exprSuffix = "}"
)

// propertyExpr 是解析后的 ${key} 或 ${key:default}。
type propertyExpr struct {
	key        string
	defaultVal string
	hasDefault bool
}

// parseExpr 解析占位符表达式。第一个 ':' 分隔键和默认值，默认值原样保留（可以是另一个占位符）。
func parseExpr(s string) (propertyExpr, bool) {
	if !strings.HasPrefix(s, exprPrefix) || !strings.HasSuffix(s, exprSuffix) || len(s) < len(exprPrefix)+len(exprSuffix) {
		return propertyExpr{}, false
	}
	inner := s[len(exprPrefix) : len(s)-len(exprSuffix)]
	key, def, found := strings.Cut(inner, ":")
	return propertyExpr{key: key, defaultVal: def, hasDefault: found}, true
}

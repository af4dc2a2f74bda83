package csvdata

import (
	"strings"

	"golang.org/x/text/width"
)

// Resolve 按别名顺序查找栏位值。
// 依次尝试：完全相同、别名去空白后相同、双方去空白且忽略大小写后相同。
func Resolve(row Row, aliases ...string) (string, bool) {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			return v, true
		}
		if v, ok := row[stripSpace(alias)]; ok {
			return v, true
		}
		want := foldKey(alias)
		for k, v := range row {
			if foldKey(k) == want {
				return v, true
			}
		}
	}
	return "", false
}

// ResolveOr 找不到时返回默认值
func ResolveOr(row Row, def string, aliases ...string) string {
	if v, ok := Resolve(row, aliases...); ok {
		return v
	}
	return def
}

// foldKey 去空白、全角转半角并转小写
func foldKey(s string) string {
	return strings.ToLower(width.Narrow.String(stripSpace(s)))
}

// Package store 按数据集管理缓存中的记录：读取时过滤损坏数据，
// 写入时按声明的策略合并或整体替换。
package store

// Merge 按主键合并：先放入旧记录，再用新记录覆盖同键记录。
// 被覆盖的记录保留原位置，新键按输入顺序追加；结果条数等于两侧不同主键的数量。
func Merge[T any](existing, incoming []T, key func(T) string) []T {
	index := make(map[string]int, len(existing)+len(incoming))
	out := make([]T, 0, len(existing)+len(incoming))

	put := func(r T) {
		k := key(r)
		if i, ok := index[k]; ok {
			out[i] = r
			return
		}
		index[k] = len(out)
		out = append(out, r)
	}

	for _, r := range existing {
		put(r)
	}
	for _, r := range incoming {
		put(r)
	}
	return out
}

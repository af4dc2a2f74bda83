package store

import (
	"encoding/json"
	"strings"

	"etf-dashboard-backend/internal/csvdata"
)

// jsonUnescaper 还原 encoding/json 对 HTML 字符的转义
var jsonUnescaper = strings.NewReplacer(`\u003c`, "<", `\u003e`, ">", `\u0026`, "&")

// IsCorrupted 序列化内容中含有错误页面特征
func IsCorrupted(raw []byte) bool {
	return csvdata.IsBrokenContent(jsonUnescaper.Replace(string(raw)))
}

// decodeClean 解码数据集并丢弃损坏的元素，返回丢弃数量。
// 整体不是JSON数组时视为空集合。
func decodeClean[T any](data []byte) ([]T, int) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, -1
	}

	out := make([]T, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		if IsCorrupted(raw) {
			dropped++
			continue
		}
		var r T
		if err := json.Unmarshal(raw, &r); err != nil {
			dropped++
			continue
		}
		out = append(out, r)
	}
	return out, dropped
}

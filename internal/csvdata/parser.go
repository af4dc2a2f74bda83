// Package csvdata 将远端CSV文本解析为以表头为键的记录，
// 并提供数值、日期与栏位别名的容错处理。
package csvdata

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Row 一行数据，键为原始表头（另含去空白后的表头）
type Row map[string]string

// brokenMarkers 数据源返回错误页面或搬移提示时的特征文字
var brokenMarkers = []string{
	"<!doctype html",
	"<html",
	"sorry, the file you have requested does not exist",
	"the file you requested has been moved",
	"moved temporarily",
	"page not found",
	"找不到檔案",
	"檔案已移動",
}

// IsBrokenContent 判断文本是否为错误页面而不是数据
func IsBrokenContent(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range brokenMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Parse 解析CSV文本。
// 少于两行（表头+至少一行数据）或内容为错误页面时返回空结果。
func Parse(text string) []Row {
	if IsBrokenContent(text) {
		return nil
	}

	records := readRecords(text)
	if len(records) < 2 {
		return nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row := make(Row, len(header)*2)
		for i, h := range header {
			if h == "" {
				continue
			}
			var v string
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			row[h] = v
			if compact := stripSpace(h); compact != h {
				if _, exists := row[compact]; !exists {
					row[compact] = v
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// readRecords 逐行读取，遇到无法恢复的格式错误时保留已读取的部分
func readRecords(text string) [][]string {
	src := transform.NewReader(strings.NewReader(text), xunicode.BOMOverride(xunicode.UTF8.NewDecoder()))
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var out [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}
		out = append(out, rec)
	}
	return out
}

// stripSpace 去除所有空白字符
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

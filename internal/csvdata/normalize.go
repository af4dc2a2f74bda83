package csvdata

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// rocYearOffset 民国纪年与公元纪年的差值
const rocYearOffset = 1911

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseNumber 解析带千分位的数值，空值或非数值返回0
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NormalizeDate 统一日期为 YYYY-MM-DD。
// 支持 "-" 与 "/" 分隔，三位数年份视为民国年。无法识别的格式原样返回。
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if isoDatePattern.MatchString(s) {
		return s
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) != 3 {
		return s
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return s
		}
		nums[i] = n
	}

	year := nums[0]
	if len(parts[0]) == 3 && year < 1900 {
		year += rocYearOffset
	}
	return strconv.Itoa(year) + "-" + pad2(nums[1]) + "-" + pad2(nums[2])
}

// IsDateHeader 判断表头本身是否为日期（宽表格式）
func IsDateHeader(h string) bool {
	d := NormalizeDate(h)
	if !isoDatePattern.MatchString(d) {
		return false
	}
	month, _ := strconv.Atoi(d[5:7])
	day, _ := strconv.Atoi(d[8:10])
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

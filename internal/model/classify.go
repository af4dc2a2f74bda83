package model

import "strings"

// DividendCycle 配息周期
type DividendCycle string

const (
	CycleMonthly    DividendCycle = "monthly"
	CycleQuarterly  DividendCycle = "quarterly"
	CycleSemiAnnual DividendCycle = "semiannual"
	CycleAnnual     DividendCycle = "annual"
	CycleUnknown    DividendCycle = "unknown"
)

// PerYear 每年配息次数，未知返回0
func (c DividendCycle) PerYear() int {
	switch c {
	case CycleMonthly:
		return 12
	case CycleQuarterly:
		return 4
	case CycleSemiAnnual:
		return 2
	case CycleAnnual:
		return 1
	default:
		return 0
	}
}

// ClassifyDividendCycle 从配息频率文字判断周期。
// "半年" 必须先于 "年" 判断。
func ClassifyDividendCycle(freq string) DividendCycle {
	f := strings.ToLower(strings.TrimSpace(freq))
	switch {
	case f == "":
		return CycleUnknown
	case strings.Contains(f, "月"), strings.Contains(f, "month"):
		return CycleMonthly
	case strings.Contains(f, "季"), strings.Contains(f, "quarter"):
		return CycleQuarterly
	case strings.Contains(f, "半年"), strings.Contains(f, "semi"):
		return CycleSemiAnnual
	case strings.Contains(f, "年"), strings.Contains(f, "annual"), strings.Contains(f, "year"):
		return CycleAnnual
	default:
		return CycleUnknown
	}
}

// AssetCategory 资产类别
type AssetCategory string

const (
	AssetEquity    AssetCategory = "equity"
	AssetBond      AssetCategory = "bond"
	AssetLeveraged AssetCategory = "leveraged"
	AssetInverse   AssetCategory = "inverse"
	AssetCommodity AssetCategory = "commodity"
	AssetCurrency  AssetCategory = "currency"
	AssetOther     AssetCategory = "other"
)

var categoryRules = []struct {
	class    AssetCategory
	keywords []string
}{
	// 杠杆与反向优先，"正2" 债券ETF 也算杠杆
	{AssetInverse, []string{"反向", "反1", "-1", "inverse"}},
	{AssetLeveraged, []string{"槓桿", "杠杆", "正2", "2x", "leveraged"}},
	{AssetBond, []string{"債", "债", "bond", "treasury"}},
	{AssetCommodity, []string{"期貨", "期货", "原油", "黃金", "黄金", "commodity", "gold", "oil"}},
	{AssetCurrency, []string{"貨幣", "货币", "美元", "日圓", "currency"}},
	{AssetEquity, []string{"股", "高息", "指數", "指数", "市值", "equity", "stock"}},
}

// ClassifyCategory 综合类别、ETF类型与名称判断资产类别
func ClassifyCategory(category, etfType, name string) AssetCategory {
	text := strings.ToLower(category + " " + etfType + " " + name)
	if strings.TrimSpace(text) == "" {
		return AssetOther
	}
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.class
			}
		}
	}
	return AssetOther
}

package analysis

import (
	"sort"

	"etf-dashboard-backend/internal/model"
)

// point 某一交易日的收盘价
type point struct {
	Date  string
	Price float64
}

// series 按代码汇总的价格序列，日期升序
type series map[string][]point

// buildSeries 合并每日价格与历史价格，同一天以每日价格为准，忽略非正价格
func buildSeries(prices []model.PriceRecord, history []model.HistoryRecord) series {
	byCode := map[string]map[string]float64{}
	put := func(code, date string, price float64, override bool) {
		if code == "" || date == "" || price <= 0 {
			return
		}
		m, ok := byCode[code]
		if !ok {
			m = map[string]float64{}
			byCode[code] = m
		}
		if _, exists := m[date]; exists && !override {
			return
		}
		m[date] = price
	}
	for _, h := range history {
		put(h.EtfCode, h.Date, h.Price, false)
	}
	for _, p := range prices {
		put(p.EtfCode, p.Date, p.Price, true)
	}

	out := make(series, len(byCode))
	for code, m := range byCode {
		pts := make([]point, 0, len(m))
		for d, v := range m {
			pts = append(pts, point{Date: d, Price: v})
		}
		sort.Slice(pts, func(i, j int) bool { return pts[i].Date < pts[j].Date })
		out[code] = pts
	}
	return out
}

// latest 最新一笔价格
func (s series) latest(code string) (point, bool) {
	pts := s[code]
	if len(pts) == 0 {
		return point{}, false
	}
	return pts[len(pts)-1], true
}

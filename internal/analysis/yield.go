package analysis

import (
	"math"
	"sort"
	"time"

	"etf-dashboard-backend/internal/model"
)

// Direction 价格趋势方向
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
)

// flatThreshold 涨跌幅绝对值低于此值（%）视为持平
const flatThreshold = 0.01

// Yield 近12个月现金配息合计 / 最新价格 × 100。
// 只统计 asOf 之前（含）已除息的事件，价格无效时返回无资料。
func Yield(dividends []model.DividendRecord, latestPrice float64, asOf time.Time) model.Field[float64] {
	if latestPrice <= 0 {
		return model.Marked[float64](model.StateUnavailable)
	}
	to := asOf.Format(dateLayout)
	from := asOf.AddDate(-1, 0, 0).Format(dateLayout)

	var sum float64
	for _, d := range dividends {
		if d.ExDate > from && d.ExDate <= to {
			sum += d.Amount
		}
	}
	return model.Computed(round(sum/latestPrice*100, 2))
}

// Trend 最新价格相对 days 个交易日前的涨跌幅
type Trend struct {
	Direction     Direction `json:"direction"`
	ChangePercent float64   `json:"changePercent"`
	FromDate      string    `json:"fromDate"`
	ToDate        string    `json:"toDate"`
}

// TrendOf 数据不足 days+1 笔时返回 false
func TrendOf(prices []model.PriceRecord, days int) (Trend, bool) {
	pts := make([]point, 0, len(prices))
	for _, p := range prices {
		if p.Price > 0 && p.Date != "" {
			pts = append(pts, point{Date: p.Date, Price: p.Price})
		}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date < pts[j].Date })
	return trendOf(pts, days)
}

func trendOf(pts []point, days int) (Trend, bool) {
	if days <= 0 || len(pts) <= days {
		return Trend{}, false
	}
	last := pts[len(pts)-1]
	base := pts[len(pts)-1-days]

	change := round((last.Price-base.Price)/base.Price*100, 2)
	dir := Flat
	switch {
	case math.Abs(change) < flatThreshold:
	case change > 0:
		dir = Up
	default:
		dir = Down
	}
	return Trend{Direction: dir, ChangePercent: change, FromDate: base.Date, ToDate: last.Date}, true
}

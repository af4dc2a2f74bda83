// Package analysis 根据配息与价格数据计算填息、殖利率与趋势。
package analysis

import (
	"math"
	"sort"
	"time"

	"etf-dashboard-backend/internal/model"
)

const dateLayout = "2006-01-02"

// Engine 填息分析。Cutoff 之前的除息事件只标记为历史资料。
type Engine struct {
	Cutoff time.Time
	Now    func() time.Time
}

// NewEngine 使用系统时间
func NewEngine(cutoff time.Time) *Engine {
	return &Engine{Cutoff: cutoff, Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) today() string {
	return e.now().Format(dateLayout)
}

// FillAnalysis 每次调用都重新计算，结果按除息日降序
func (e *Engine) FillAnalysis(dividends []model.DividendRecord, prices []model.PriceRecord, history []model.HistoryRecord) []model.FillAnalysisRecord {
	s := buildSeries(prices, history)
	today := e.today()
	cutoff := e.Cutoff.Format(dateLayout)

	out := make([]model.FillAnalysisRecord, 0, len(dividends))
	for _, d := range dividends {
		switch {
		case !validDate(d.ExDate):
			out = append(out, marked(d, model.StateUnavailable, model.StateUnavailable))
		case d.ExDate > today:
			out = append(out, marked(d, model.StatePending, model.StatePending))
		case d.ExDate < cutoff:
			out = append(out, marked(d, model.StateHistorical, model.StateHistorical))
		default:
			out = append(out, compute(d, s[d.EtfCode]))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ExDate != out[j].ExDate {
			return out[i].ExDate > out[j].ExDate
		}
		return out[i].EtfCode < out[j].EtfCode
	})
	return out
}

func marked(d model.DividendRecord, pre, fill model.State) model.FillAnalysisRecord {
	return model.FillAnalysisRecord{
		DividendRecord: d,
		PreExDate:      model.Marked[string](pre),
		PricePreEx:     model.Marked[float64](pre),
		PriceReference: model.Marked[float64](pre),
		FillDate:       model.Marked[string](fill),
		FillPrice:      model.Marked[float64](fill),
		DaysToFill:     model.Marked[int](fill),
	}
}

// compute 填息门槛为除息前价格，参考价只作展示
func compute(d model.DividendRecord, pts []point) model.FillAnalysisRecord {
	// 除息日之前的最后一笔
	idx := sort.Search(len(pts), func(i int) bool { return pts[i].Date >= d.ExDate })
	if idx == 0 {
		return marked(d, model.StateUnavailable, model.StateUnavailable)
	}
	pre := pts[idx-1]

	rec := model.FillAnalysisRecord{
		DividendRecord: d,
		PreExDate:      model.Computed(pre.Date),
		PricePreEx:     model.Computed(pre.Price),
		PriceReference: model.Computed(round(pre.Price-d.Amount, 4)),
		FillDate:       model.Marked[string](model.StateUnfilled),
		FillPrice:      model.Marked[float64](model.StateUnfilled),
		DaysToFill:     model.Marked[int](model.StateUnfilled),
	}
	for _, p := range pts[idx:] {
		if p.Price >= pre.Price {
			rec.IsFilled = true
			rec.FillDate = model.Computed(p.Date)
			rec.FillPrice = model.Computed(p.Price)
			rec.DaysToFill = model.Computed(daysBetween(d.ExDate, p.Date))
			break
		}
	}
	return rec
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func daysBetween(from, to string) int {
	a, err1 := time.Parse(dateLayout, from)
	b, err2 := time.Parse(dateLayout, to)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package analysis

import (
	"context"
	"fmt"
	"sort"

	"etf-dashboard-backend/internal/model"
	"etf-dashboard-backend/internal/store"
)

// DefaultTrendDays 趋势比较的交易日数
const DefaultTrendDays = 20

// Summary 单个ETF的概览
type Summary struct {
	EtfCode     string               `json:"etfCode"`
	EtfName     string               `json:"etfName"`
	Cycle       model.DividendCycle  `json:"cycle"`
	AssetClass  model.AssetCategory  `json:"assetClass"`
	LatestDate  string               `json:"latestDate,omitempty"`
	LatestPrice model.Field[float64] `json:"latestPrice"`
	Yield       model.Field[float64] `json:"yield"`
	Trend       *Trend               `json:"trend,omitempty"`
	SizeDate    string               `json:"sizeDate,omitempty"`
	Size        model.Field[float64] `json:"size"`
	Dividends   int                  `json:"dividends"`
}

// Service 从仓库读取数据后计算
type Service struct {
	repo      store.Repository
	engine    *Engine
	TrendDays int
}

func NewService(repo store.Repository, engine *Engine) *Service {
	return &Service{repo: repo, engine: engine, TrendDays: DefaultTrendDays}
}

// Engine 返回填息分析引擎
func (s *Service) Engine() *Engine { return s.engine }

// FillAnalysis code 为空时返回全部
func (s *Service) FillAnalysis(ctx context.Context, code string) ([]model.FillAnalysisRecord, error) {
	dividends, err := s.repo.Dividends().Get(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := s.repo.Prices().Get(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.History().Get(ctx)
	if err != nil {
		return nil, err
	}

	if code != "" {
		dividends = filterCode(dividends, code, func(d model.DividendRecord) string { return d.EtfCode })
		prices = filterCode(prices, code, func(p model.PriceRecord) string { return p.EtfCode })
		history = filterCode(history, code, func(h model.HistoryRecord) string { return h.EtfCode })
	}
	return s.engine.FillAnalysis(dividends, prices, history), nil
}

// Summaries 每个代码的殖利率、趋势与规模，按代码排序
func (s *Service) Summaries(ctx context.Context) ([]Summary, error) {
	infos, err := s.repo.BasicInfo().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取基本资料失败: %w", err)
	}
	prices, err := s.repo.Prices().Get(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.History().Get(ctx)
	if err != nil {
		return nil, err
	}
	dividends, err := s.repo.Dividends().Get(ctx)
	if err != nil {
		return nil, err
	}
	sizes, err := s.repo.Sizes().Get(ctx)
	if err != nil {
		return nil, err
	}

	byCode := map[string]*Summary{}
	get := func(code, name string) *Summary {
		sum, ok := byCode[code]
		if !ok {
			sum = &Summary{
				EtfCode:     code,
				Cycle:       model.CycleUnknown,
				AssetClass:  model.AssetOther,
				LatestPrice: model.Marked[float64](model.StateUnavailable),
				Yield:       model.Marked[float64](model.StateUnavailable),
				Size:        model.Marked[float64](model.StateUnavailable),
			}
			byCode[code] = sum
		}
		if sum.EtfName == "" {
			sum.EtfName = name
		}
		return sum
	}

	for _, info := range infos {
		sum := get(info.EtfCode, info.EtfName)
		sum.Cycle = info.Cycle
		sum.AssetClass = info.AssetClass
	}
	for _, p := range prices {
		get(p.EtfCode, p.EtfName)
	}

	divByCode := map[string][]model.DividendRecord{}
	for _, d := range dividends {
		divByCode[d.EtfCode] = append(divByCode[d.EtfCode], d)
	}
	latestSize := map[string]model.SizeRecord{}
	for _, sz := range sizes {
		if cur, ok := latestSize[sz.EtfCode]; !ok || sz.Date > cur.Date {
			latestSize[sz.EtfCode] = sz
		}
	}

	asOf := s.engine.now()
	ser := buildSeries(prices, history)

	out := make([]Summary, 0, len(byCode))
	for code, sum := range byCode {
		if last, ok := ser.latest(code); ok {
			sum.LatestDate = last.Date
			sum.LatestPrice = model.Computed(last.Price)
			sum.Yield = Yield(divByCode[code], last.Price, asOf)
		}
		if t, ok := trendOf(ser[code], s.TrendDays); ok {
			sum.Trend = &t
		}
		if sz, ok := latestSize[code]; ok {
			sum.SizeDate = sz.Date
			sum.Size = model.Computed(sz.Size)
		}
		sum.Dividends = len(divByCode[code])
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EtfCode < out[j].EtfCode })
	return out, nil
}

func filterCode[T any](items []T, code string, codeOf func(T) string) []T {
	out := items[:0:0]
	for _, it := range items {
		if codeOf(it) == code {
			out = append(out, it)
		}
	}
	return out
}

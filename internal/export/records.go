package export

import (
	"context"
	"fmt"
	"strconv"

	"etf-dashboard-backend/internal/model"
	"etf-dashboard-backend/internal/store"
)

// Column 一个导出栏位
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Records 按栏位定义生成表格
func Records[T any](cols []Column[T], recs []T) Table {
	t := Table{Headers: make([]string, len(cols)), Rows: make([][]string, 0, len(recs))}
	for i, c := range cols {
		t.Headers[i] = c.Header
	}
	for _, r := range recs {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.Value(r)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// 表头与导入时的列名一致，导出的文件可直接再导入
var (
	MarketIndexColumns = []Column[model.MarketIndexRecord]{
		{"指數名稱", func(r model.MarketIndexRecord) string { return r.IndexName }},
		{"代碼", func(r model.MarketIndexRecord) string { return r.Code }},
		{"日期", func(r model.MarketIndexRecord) string { return r.Date }},
		{"昨收", func(r model.MarketIndexRecord) string { return num(r.PrevClose) }},
		{"開盤價", func(r model.MarketIndexRecord) string { return num(r.Open) }},
		{"最高價", func(r model.MarketIndexRecord) string { return num(r.High) }},
		{"最低價", func(r model.MarketIndexRecord) string { return num(r.Low) }},
		{"收盤價", func(r model.MarketIndexRecord) string { return num(r.Price) }},
		{"成交量", func(r model.MarketIndexRecord) string { return num(r.Volume) }},
		{"漲跌", func(r model.MarketIndexRecord) string { return num(r.Change) }},
		{"漲跌幅", func(r model.MarketIndexRecord) string { return num(r.ChangePercent) }},
		{"市場", func(r model.MarketIndexRecord) string { return string(r.Market) }},
	}

	BasicInfoColumns = []Column[model.BasicInfoRecord]{
		{"ETF代碼", func(r model.BasicInfoRecord) string { return r.EtfCode }},
		{"ETF名稱", func(r model.BasicInfoRecord) string { return r.EtfName }},
		{"類別", func(r model.BasicInfoRecord) string { return r.Category }},
		{"配息頻率", func(r model.BasicInfoRecord) string { return r.DividendFreq }},
		{"發行投信", func(r model.BasicInfoRecord) string { return r.Issuer }},
		{"ETF類型", func(r model.BasicInfoRecord) string { return r.EtfType }},
		{"上市/上櫃", func(r model.BasicInfoRecord) string { return r.MarketType }},
	}

	PriceColumns = []Column[model.PriceRecord]{
		{"ETF代碼", func(r model.PriceRecord) string { return r.EtfCode }},
		{"ETF名稱", func(r model.PriceRecord) string { return r.EtfName }},
		{"日期", func(r model.PriceRecord) string { return r.Date }},
		{"昨收", func(r model.PriceRecord) string { return num(r.PrevClose) }},
		{"開盤價", func(r model.PriceRecord) string { return num(r.Open) }},
		{"最高價", func(r model.PriceRecord) string { return num(r.High) }},
		{"最低價", func(r model.PriceRecord) string { return num(r.Low) }},
		{"收盤價", func(r model.PriceRecord) string { return num(r.Price) }},
	}

	DividendColumns = []Column[model.DividendRecord]{
		{"ETF代碼", func(r model.DividendRecord) string { return r.EtfCode }},
		{"ETF名稱", func(r model.DividendRecord) string { return r.EtfName }},
		{"年月", func(r model.DividendRecord) string { return r.YearMonth }},
		{"除息日", func(r model.DividendRecord) string { return r.ExDate }},
		{"配息金額", func(r model.DividendRecord) string { return num(r.Amount) }},
		{"發放日", func(r model.DividendRecord) string { return r.PaymentDate }},
	}

	SizeColumns = []Column[model.SizeRecord]{
		{"ETF代碼", func(r model.SizeRecord) string { return r.EtfCode }},
		{"ETF名稱", func(r model.SizeRecord) string { return r.EtfName }},
		{"日期", func(r model.SizeRecord) string { return r.Date }},
		{"規模", func(r model.SizeRecord) string { return num(r.Size) }},
	}

	HistoryColumns = []Column[model.HistoryRecord]{
		{"ETF代碼", func(r model.HistoryRecord) string { return r.EtfCode }},
		{"ETF名稱", func(r model.HistoryRecord) string { return r.EtfName }},
		{"日期", func(r model.HistoryRecord) string { return r.Date }},
		{"收盤價", func(r model.HistoryRecord) string { return num(r.Price) }},
	}

	FillAnalysisColumns = []Column[model.FillAnalysisRecord]{
		{"ETF代碼", func(r model.FillAnalysisRecord) string { return r.EtfCode }},
		{"ETF名稱", func(r model.FillAnalysisRecord) string { return r.EtfName }},
		{"除息日", func(r model.FillAnalysisRecord) string { return r.ExDate }},
		{"配息金額", func(r model.FillAnalysisRecord) string { return num(r.Amount) }},
		{"除息前日期", func(r model.FillAnalysisRecord) string { return r.PreExDate.String() }},
		{"除息前價格", func(r model.FillAnalysisRecord) string { return r.PricePreEx.String() }},
		{"參考價", func(r model.FillAnalysisRecord) string { return r.PriceReference.String() }},
		{"填息日", func(r model.FillAnalysisRecord) string { return r.FillDate.String() }},
		{"填息價", func(r model.FillAnalysisRecord) string { return r.FillPrice.String() }},
		{"是否填息", func(r model.FillAnalysisRecord) string { return yesNo(r.IsFilled) }},
		{"填息天數", func(r model.FillAnalysisRecord) string { return r.DaysToFill.String() }},
	}
)

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

// ForEntity 读取数据集并生成表格
func ForEntity(ctx context.Context, repo store.Repository, e model.Entity) (Table, error) {
	switch e {
	case model.EntityMarketIndex:
		return load(ctx, repo.MarketIndices(), MarketIndexColumns)
	case model.EntityBasicInfo:
		return load(ctx, repo.BasicInfo(), BasicInfoColumns)
	case model.EntityPrice:
		return load(ctx, repo.Prices(), PriceColumns)
	case model.EntityDividend:
		return load(ctx, repo.Dividends(), DividendColumns)
	case model.EntitySize:
		return load(ctx, repo.Sizes(), SizeColumns)
	case model.EntityHistory:
		return load(ctx, repo.History(), HistoryColumns)
	default:
		return Table{}, fmt.Errorf("未知的数据类型: %s", e)
	}
}

func load[T model.Keyed](ctx context.Context, ds store.Dataset[T], cols []Column[T]) (Table, error) {
	recs, err := ds.Get(ctx)
	if err != nil {
		return Table{}, err
	}
	return Records(cols, recs), nil
}

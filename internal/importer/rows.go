package importer

import (
	"sort"
	"strconv"
	"strings"

	"etf-dashboard-backend/internal/csvdata"
	"etf-dashboard-backend/internal/model"
)

func text(row csvdata.Row, aliases []string) string {
	return csvdata.ResolveOr(row, "", aliases...)
}

func number(row csvdata.Row, aliases []string) float64 {
	return csvdata.ParseNumber(text(row, aliases))
}

func date(row csvdata.Row, aliases []string) string {
	return csvdata.NormalizeDate(text(row, aliases))
}

// cleanCode 去掉导出时加的 ="..." 包装
func cleanCode(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

func marketOf(raw, code string) model.Market {
	m := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case m == "US", strings.Contains(m, "美"):
		return model.MarketUS
	case m != "":
		return model.MarketTW
	case strings.HasPrefix(code, "^"):
		return model.MarketUS
	default:
		return model.MarketTW
	}
}

// yearMonthOf 规范为 YYYY-MM，缺失时取除息日的年月
func yearMonthOf(raw, exDate string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if len(exDate) >= 7 {
			return exDate[:7]
		}
		return ""
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) != 2 {
		return raw
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		return raw
	}
	if len(parts[0]) == 3 && year < 1900 {
		year += 1911
	}
	return strconv.Itoa(year) + "-" + twoDigits(month)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// wideCells 宽表中以日期为表头且数值为正的单元格，按日期升序
func wideCells(row csvdata.Row) []datedValue {
	seen := map[string]bool{}
	var cells []datedValue
	for header, cell := range row {
		if !csvdata.IsDateHeader(header) {
			continue
		}
		v := csvdata.ParseNumber(cell)
		if v <= 0 {
			continue
		}
		d := csvdata.NormalizeDate(header)
		if seen[d] {
			continue
		}
		seen[d] = true
		cells = append(cells, datedValue{Date: d, Value: v})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Date < cells[j].Date })
	return cells
}

type datedValue struct {
	Date  string
	Value float64
}

func marketIndexRows(rows []csvdata.Row) []model.MarketIndexRecord {
	out := make([]model.MarketIndexRecord, 0, len(rows))
	for _, row := range rows {
		name := text(row, aliasIndexName)
		d := date(row, aliasDate)
		if name == "" || d == "" {
			continue
		}
		code := text(row, aliasIndexCode)
		out = append(out, model.MarketIndexRecord{
			IndexName:     name,
			Code:          code,
			Date:          d,
			PrevClose:     number(row, aliasPrevClose),
			Open:          number(row, aliasOpen),
			High:          number(row, aliasHigh),
			Low:           number(row, aliasLow),
			Price:         number(row, aliasIndexPrice),
			Volume:        number(row, aliasVolume),
			Change:        number(row, aliasChange),
			ChangePercent: number(row, aliasChangePercent),
			Market:        marketOf(text(row, aliasMarket), code),
		})
	}
	return out
}

func basicInfoRows(rows []csvdata.Row) []model.BasicInfoRecord {
	out := make([]model.BasicInfoRecord, 0, len(rows))
	for _, row := range rows {
		code := cleanCode(text(row, aliasCode))
		if code == "" {
			continue
		}
		rec := model.BasicInfoRecord{
			EtfCode:      code,
			EtfName:      text(row, aliasName),
			Category:     text(row, aliasCategory),
			DividendFreq: text(row, aliasDividendFreq),
			Issuer:       text(row, aliasIssuer),
			EtfType:      text(row, aliasEtfType),
			MarketType:   text(row, aliasMarketType),
		}
		rec.Cycle = model.ClassifyDividendCycle(rec.DividendFreq)
		rec.AssetClass = model.ClassifyCategory(rec.Category, rec.EtfType, rec.EtfName)
		out = append(out, rec)
	}
	return out
}

func priceRows(rows []csvdata.Row) []model.PriceRecord {
	out := make([]model.PriceRecord, 0, len(rows))
	for _, row := range rows {
		code := cleanCode(text(row, aliasCode))
		d := date(row, aliasDate)
		if code == "" || d == "" {
			continue
		}
		out = append(out, model.PriceRecord{
			EtfCode:   code,
			EtfName:   text(row, aliasName),
			Date:      d,
			PrevClose: number(row, aliasPrevClose),
			Open:      number(row, aliasOpen),
			High:      number(row, aliasHigh),
			Low:       number(row, aliasLow),
			Price:     number(row, aliasPrice),
		})
	}
	return out
}

func dividendRows(rows []csvdata.Row) []model.DividendRecord {
	out := make([]model.DividendRecord, 0, len(rows))
	for _, row := range rows {
		code := cleanCode(text(row, aliasCode))
		exDate := date(row, aliasExDate)
		if code == "" || exDate == "" {
			continue
		}
		out = append(out, model.DividendRecord{
			EtfCode:     code,
			EtfName:     text(row, aliasName),
			YearMonth:   yearMonthOf(text(row, aliasYearMonth), exDate),
			ExDate:      exDate,
			Amount:      number(row, aliasAmount),
			PaymentDate: date(row, aliasPaymentDate),
		})
	}
	return out
}

// sizeRows 同一行可同时包含宽表（日期表头）和窄表（日期+规模）数据
func sizeRows(rows []csvdata.Row) []model.SizeRecord {
	out := make([]model.SizeRecord, 0, len(rows))
	for _, row := range rows {
		code := cleanCode(text(row, aliasCode))
		if code == "" {
			continue
		}
		name := text(row, aliasName)
		for _, c := range wideCells(row) {
			out = append(out, model.SizeRecord{EtfCode: code, EtfName: name, Date: c.Date, Size: c.Value})
		}
		if d := date(row, aliasDate); d != "" {
			if _, ok := csvdata.Resolve(row, aliasSize...); ok {
				out = append(out, model.SizeRecord{EtfCode: code, EtfName: name, Date: d, Size: number(row, aliasSize)})
			}
		}
	}
	return out
}

func historyRows(rows []csvdata.Row) []model.HistoryRecord {
	out := make([]model.HistoryRecord, 0, len(rows))
	for _, row := range rows {
		code := cleanCode(text(row, aliasCode))
		if code == "" {
			continue
		}
		name := text(row, aliasName)
		for _, c := range wideCells(row) {
			out = append(out, model.HistoryRecord{EtfCode: code, EtfName: name, Date: c.Date, Price: c.Value})
		}
		if d := date(row, aliasDate); d != "" {
			if price := number(row, aliasPrice); price > 0 {
				out = append(out, model.HistoryRecord{EtfCode: code, EtfName: name, Date: d, Price: price})
			}
		}
	}
	return out
}

package importer

// 各字段可接受的列名，越具体的越靠前
var (
	aliasCode = []string{"ETF代碼", "代碼", "證券代號", "股票代號", "基金代碼", "code", "etfCode"}
	aliasName = []string{"ETF名稱", "名稱", "證券名稱", "股票名稱", "基金名稱", "name", "etfName"}
	aliasDate = []string{"日期", "交易日期", "資料日期", "date"}

	aliasPrevClose = []string{"昨收", "昨收價", "前日收盤價", "prevClose", "Previous Close"}
	aliasOpen      = []string{"開盤價", "開盤", "open"}
	aliasHigh      = []string{"最高價", "最高", "high"}
	aliasLow       = []string{"最低價", "最低", "low"}
	aliasPrice     = []string{"收盤價", "收盤", "現價", "價格", "市價", "price", "close"}

	aliasIndexName     = []string{"指數名稱", "指數", "名稱", "Index", "Name"}
	aliasIndexCode     = []string{"代碼", "指數代碼", "Code", "Symbol"}
	aliasIndexPrice    = []string{"收盤價", "收盤", "現價", "價格", "點數", "Price", "Close"}
	aliasVolume        = []string{"成交量", "成交金額", "Volume"}
	aliasChange        = []string{"漲跌", "漲跌點數", "Change"}
	aliasChangePercent = []string{"漲跌幅", "漲跌幅(%)", "Change %", "ChangePercent"}
	aliasMarket        = []string{"市場", "市場別", "Market"}

	aliasCategory     = []string{"類別", "分類", "產業別", "category"}
	aliasDividendFreq = []string{"配息頻率", "配息週期", "收益分配", "dividendFreq"}
	aliasIssuer       = []string{"發行投信", "投信", "發行人", "issuer"}
	aliasEtfType      = []string{"ETF類型", "類型", "商品類型", "etfType", "type"}
	aliasMarketType   = []string{"上市/上櫃", "市場別", "市場", "marketType"}

	aliasYearMonth   = []string{"年月", "配息年月", "yearMonth"}
	aliasExDate      = []string{"除息日", "除息交易日", "exDate"}
	aliasAmount      = []string{"配息金額", "分配金額", "現金股利", "每單位配息", "amount"}
	aliasPaymentDate = []string{"發放日", "配息發放日", "收益分配發放日", "paymentDate"}

	aliasSize = []string{"規模", "基金規模", "規模(億)", "資產規模", "size"}
)

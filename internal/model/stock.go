package model

import (
	"strconv"
	"strings"
)

// keySep 复合主键分隔符
const keySep = "|"

func joinKey(parts ...string) string {
	return strings.Join(parts, keySep)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Market 指数所属市场
type Market string

const (
	MarketTW Market = "TW"
	MarketUS Market = "US"
)

// MarketIndexRecord 大盘指数行情
type MarketIndexRecord struct {
	IndexName     string  `json:"indexName"`
	Code          string  `json:"code"`
	Date          string  `json:"date"`
	PrevClose     float64 `json:"prevClose"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Price         float64 `json:"price"`
	Volume        float64 `json:"volume"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Market        Market  `json:"market"`
}

func (r MarketIndexRecord) Key() string { return joinKey(r.IndexName, r.Date) }

// BasicInfoRecord ETF基本资料
type BasicInfoRecord struct {
	EtfCode      string `json:"etfCode"`
	EtfName      string `json:"etfName"`
	Category     string `json:"category"`
	DividendFreq string `json:"dividendFreq"` // 自由文本，如 "月配"、"季配"
	Issuer       string `json:"issuer"`
	EtfType      string `json:"etfType"`
	MarketType   string `json:"marketType"`

	// 导入时计算一次
	Cycle      DividendCycle `json:"cycle"`
	AssetClass AssetCategory `json:"assetClass"`
}

func (r BasicInfoRecord) Key() string { return r.EtfCode }

// PriceRecord 每日收盘价
type PriceRecord struct {
	EtfCode   string  `json:"etfCode"`
	EtfName   string  `json:"etfName"`
	Date      string  `json:"date"`
	PrevClose float64 `json:"prevClose"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Price     float64 `json:"price"`
}

func (r PriceRecord) Key() string { return joinKey(r.EtfCode, r.Date) }

// DividendRecord 配息事件
type DividendRecord struct {
	EtfCode     string  `json:"etfCode"`
	EtfName     string  `json:"etfName"`
	YearMonth   string  `json:"yearMonth"`
	ExDate      string  `json:"exDate"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"paymentDate"`
}

// Key 同一代码同月可能多次除息，金额也计入主键
func (r DividendRecord) Key() string {
	return joinKey(r.EtfCode, r.ExDate, formatAmount(r.Amount))
}

// SizeRecord 基金规模（亿元）
type SizeRecord struct {
	EtfCode string  `json:"etfCode"`
	EtfName string  `json:"etfName"`
	Date    string  `json:"date"`
	Size    float64 `json:"size"`
}

func (r SizeRecord) Key() string { return joinKey(r.EtfCode, r.Date) }

// HistoryRecord 长期历史价格
type HistoryRecord struct {
	EtfCode string  `json:"etfCode"`
	EtfName string  `json:"etfName"`
	Date    string  `json:"date"`
	Price   float64 `json:"price"`
}

func (r HistoryRecord) Key() string { return joinKey(r.EtfCode, r.Date) }

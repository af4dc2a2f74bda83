package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etf-dashboard-backend/internal/model"
)

func fixedEngine(today string) *Engine {
	now, _ := time.Parse(dateLayout, today)
	cutoff, _ := time.Parse(dateLayout, "2026-01-01")
	return &Engine{Cutoff: cutoff, Now: func() time.Time { return now }}
}

func TestFillAnalysisBuckets(t *testing.T) {
	e := fixedEngine("2026-03-01")
	dividends := []model.DividendRecord{
		{EtfCode: "0056", ExDate: "2025-06-01", Amount: 1},
		{EtfCode: "0056", ExDate: "2026-04-01", Amount: 1},
		{EtfCode: "0056", ExDate: "2026-01-15", Amount: 2},
	}
	prices := []model.PriceRecord{
		{EtfCode: "0056", Date: "2026-01-14", Price: 100},
		{EtfCode: "0056", Date: "2026-01-15", Price: 98},
		{EtfCode: "0056", Date: "2026-01-20", Price: 99.5},
		{EtfCode: "0056", Date: "2026-01-25", Price: 100},
		{EtfCode: "0056", Date: "2026-01-26", Price: 101},
	}

	got := e.FillAnalysis(dividends, prices, nil)
	require.Len(t, got, 3)

	// 除息日降序
	assert.Equal(t, "2026-04-01", got[0].ExDate)
	assert.Equal(t, "2026-01-15", got[1].ExDate)
	assert.Equal(t, "2025-06-01", got[2].ExDate)

	future := got[0]
	assert.False(t, future.IsFilled)
	assert.Equal(t, model.StatePending, future.PricePreEx.State)
	assert.Equal(t, model.StatePending, future.FillDate.State)
	assert.Equal(t, model.StatePending, future.DaysToFill.State)

	filled := got[1]
	assert.True(t, filled.IsFilled)
	assert.Equal(t, model.Computed("2026-01-14"), filled.PreExDate)
	assert.Equal(t, model.Computed(100.0), filled.PricePreEx)
	assert.Equal(t, model.Computed(98.0), filled.PriceReference)
	assert.Equal(t, model.Computed("2026-01-25"), filled.FillDate)
	assert.Equal(t, model.Computed(100.0), filled.FillPrice)
	assert.Equal(t, model.Computed(10), filled.DaysToFill)

	historical := got[2]
	assert.False(t, historical.IsFilled)
	assert.Equal(t, model.StateHistorical, historical.PreExDate.State)
	assert.Equal(t, model.StateHistorical, historical.FillPrice.State)
}

func TestFillAnalysisUnfilledAndUnavailable(t *testing.T) {
	e := fixedEngine("2026-03-01")
	dividends := []model.DividendRecord{
		{EtfCode: "00878", ExDate: "2026-02-10", Amount: 0.4},
		{EtfCode: "00919", ExDate: "2026-02-10", Amount: 0.5},
	}
	history := []model.HistoryRecord{
		{EtfCode: "00878", Date: "2026-02-09", Price: 22},
		{EtfCode: "00878", Date: "2026-02-10", Price: 21.6},
		{EtfCode: "00878", Date: "2026-02-11", Price: 21.9},
	}

	got := e.FillAnalysis(dividends, nil, history)
	require.Len(t, got, 2)

	unfilled := got[0]
	assert.Equal(t, "00878", unfilled.EtfCode)
	assert.False(t, unfilled.IsFilled)
	assert.Equal(t, model.Computed(22.0), unfilled.PricePreEx)
	assert.Equal(t, model.Computed(21.6), unfilled.PriceReference)
	assert.Equal(t, model.StateUnfilled, unfilled.FillDate.State)
	assert.Equal(t, model.StateUnfilled, unfilled.DaysToFill.State)

	noData := got[1]
	assert.Equal(t, "00919", noData.EtfCode)
	assert.Equal(t, model.StateUnavailable, noData.PricePreEx.State)
	assert.Equal(t, model.StateUnavailable, noData.FillDate.State)
}

func TestFillAnalysisPriceWinsOverHistory(t *testing.T) {
	e := fixedEngine("2026-03-01")
	dividends := []model.DividendRecord{{EtfCode: "0050", ExDate: "2026-02-02", Amount: 1}}
	prices := []model.PriceRecord{{EtfCode: "0050", Date: "2026-01-30", Price: 200}}
	history := []model.HistoryRecord{
		{EtfCode: "0050", Date: "2026-01-30", Price: 150},
		{EtfCode: "0050", Date: "2026-02-03", Price: 180},
	}

	got := e.FillAnalysis(dividends, prices, history)
	require.Len(t, got, 1)
	assert.Equal(t, model.Computed(200.0), got[0].PricePreEx)
	assert.False(t, got[0].IsFilled)
}

func TestFillAnalysisExDateToday(t *testing.T) {
	e := fixedEngine("2026-03-01")
	dividends := []model.DividendRecord{{EtfCode: "0050", ExDate: "2026-03-01", Amount: 1}}
	prices := []model.PriceRecord{
		{EtfCode: "0050", Date: "2026-02-27", Price: 50},
		{EtfCode: "0050", Date: "2026-03-01", Price: 50},
	}

	got := e.FillAnalysis(dividends, prices, nil)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsFilled)
	assert.Equal(t, model.Computed(0), got[0].DaysToFill)
}

func TestFillAnalysisJSONUsesLabels(t *testing.T) {
	e := fixedEngine("2026-03-01")
	got := e.FillAnalysis([]model.DividendRecord{{EtfCode: "0050", ExDate: "2026-04-01"}}, nil, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "待除息資訊", got[0].PricePreEx.String())
}

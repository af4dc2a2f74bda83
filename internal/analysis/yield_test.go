package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"etf-dashboard-backend/internal/cache"
	"etf-dashboard-backend/internal/model"
	"etf-dashboard-backend/internal/store"
)

func TestYield(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	dividends := []model.DividendRecord{
		{ExDate: "2025-02-20", Amount: 5}, // 超过12个月
		{ExDate: "2025-06-01", Amount: 1},
		{ExDate: "2026-01-15", Amount: 1},
		{ExDate: "2026-04-01", Amount: 9}, // 未来
	}
	assert.Equal(t, model.Computed(5.0), Yield(dividends, 40, asOf))
	assert.Equal(t, model.StateUnavailable, Yield(dividends, 0, asOf).State)
}

func TestTrendOf(t *testing.T) {
	prices := []model.PriceRecord{
		{Date: "2026-01-05", Price: 100},
		{Date: "2026-01-02", Price: 90},
		{Date: "2026-01-06", Price: 110},
	}
	tr, ok := TrendOf(prices, 2)
	require.True(t, ok)
	assert.Equal(t, Up, tr.Direction)
	assert.InDelta(t, 22.22, tr.ChangePercent, 0.001)
	assert.Equal(t, "2026-01-02", tr.FromDate)
	assert.Equal(t, "2026-01-06", tr.ToDate)

	tr, ok = TrendOf(prices, 1)
	require.True(t, ok)
	assert.Equal(t, Up, tr.Direction)

	_, ok = TrendOf(prices, 3)
	assert.False(t, ok)

	tr, ok = TrendOf([]model.PriceRecord{{Date: "a", Price: 10}, {Date: "b", Price: 9}}, 1)
	require.True(t, ok)
	assert.Equal(t, Down, tr.Direction)
	assert.Equal(t, -10.0, tr.ChangePercent)

	tr, _ = TrendOf([]model.PriceRecord{{Date: "a", Price: 10}, {Date: "b", Price: 10}}, 1)
	assert.Equal(t, Flat, tr.Direction)
}

func TestServiceSummariesAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := store.NewRepository(cache.NewMemoryProvider(), zap.NewNop(), nil)

	_, err := repo.BasicInfo().Save(ctx, []model.BasicInfoRecord{
		{EtfCode: "0056", EtfName: "元大高股息", Cycle: model.CycleQuarterly, AssetClass: model.AssetEquity},
	})
	require.NoError(t, err)
	_, err = repo.Prices().Save(ctx, []model.PriceRecord{
		{EtfCode: "0056", Date: "2026-01-14", Price: 40},
		{EtfCode: "0056", Date: "2026-02-20", Price: 38},
		{EtfCode: "0050", EtfName: "元大台灣50", Date: "2026-02-20", Price: 200},
	})
	require.NoError(t, err)
	_, err = repo.Dividends().Save(ctx, []model.DividendRecord{
		{EtfCode: "0056", ExDate: "2026-01-15", Amount: 1.9},
		{EtfCode: "0050", ExDate: "2026-01-20", Amount: 1},
	})
	require.NoError(t, err)
	_, err = repo.Sizes().Save(ctx, []model.SizeRecord{
		{EtfCode: "0056", Date: "2026-01-31", Size: 4000},
		{EtfCode: "0056", Date: "2026-02-28", Size: 4100},
	})
	require.NoError(t, err)

	svc := NewService(repo, fixedEngine("2026-03-01"))
	svc.TrendDays = 1

	sums, err := svc.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 2)

	assert.Equal(t, "0050", sums[0].EtfCode)
	assert.Equal(t, "元大台灣50", sums[0].EtfName)
	assert.Equal(t, model.CycleUnknown, sums[0].Cycle)
	assert.Nil(t, sums[0].Trend)
	assert.Equal(t, model.StateUnavailable, sums[0].Size.State)

	s := sums[1]
	assert.Equal(t, model.CycleQuarterly, s.Cycle)
	assert.Equal(t, model.Computed(38.0), s.LatestPrice)
	assert.Equal(t, model.Computed(5.0), s.Yield)
	require.NotNil(t, s.Trend)
	assert.Equal(t, Down, s.Trend.Direction)
	assert.Equal(t, model.Computed(4100.0), s.Size)
	assert.Equal(t, 1, s.Dividends)

	fills, err := svc.FillAnalysis(ctx, "0056")
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, model.Computed(40.0), fills[0].PricePreEx)
	assert.Equal(t, model.StateUnfilled, fills[0].FillDate.State)

	all, err := svc.FillAnalysis(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

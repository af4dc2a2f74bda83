package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"etf-dashboard-backend/internal/cache"
	"etf-dashboard-backend/internal/model"
)

func newTestRepository(t *testing.T) (Repository, *cache.MemoryProvider) {
	t.Helper()
	p := cache.NewMemoryProvider()
	defaults := map[model.Entity]string{model.EntityDividend: "https://default.example/div.csv"}
	return NewRepository(p, zap.NewNop(), defaults), p
}

func TestCollectionMergeAndReplace(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	_, err := repo.Prices().Save(ctx, []model.PriceRecord{
		{EtfCode: "0050", Date: "2026-01-02", Price: 100},
	})
	require.NoError(t, err)
	merged, err := repo.Prices().Save(ctx, []model.PriceRecord{
		{EtfCode: "0050", Date: "2026-01-02", Price: 110},
		{EtfCode: "0050", Date: "2026-01-05", Price: 111},
	})
	require.NoError(t, err)
	assert.Len(t, merged, 2)

	got, err := repo.Prices().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, merged, got)
	assert.Equal(t, 110.0, got[0].Price)

	// 规模数据整体替换
	_, err = repo.Sizes().Save(ctx, []model.SizeRecord{{EtfCode: "0050", Date: "2026-01-01", Size: 1000}})
	require.NoError(t, err)
	_, err = repo.Sizes().Save(ctx, []model.SizeRecord{{EtfCode: "0056", Date: "2026-01-01", Size: 500}})
	require.NoError(t, err)
	sizes, err := repo.Sizes().Get(ctx)
	require.NoError(t, err)
	require.Len(t, sizes, 1)
	assert.Equal(t, "0056", sizes[0].EtfCode)
}

func TestCollectionDropsCorruptedRecords(t *testing.T) {
	ctx := context.Background()
	repo, p := newTestRepository(t)

	raw := `[{"etfCode":"0050","date":"2026-01-02","price":100},` +
		`{"etfCode":"<!DOCTYPE html><html>","date":"","price":0},` +
		`"not a record"]`
	require.NoError(t, p.Set(ctx, model.EntityPrice.Slot(), []byte(raw)))

	got, err := repo.Prices().Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0050", got[0].EtfCode)

	require.NoError(t, p.Set(ctx, model.EntityDividend.Slot(), []byte(`<html>error</html>`)))
	divs, err := repo.Dividends().Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, divs)
}

func TestGetEmpty(t *testing.T) {
	repo, _ := newTestRepository(t)
	got, err := repo.History().Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEnsureSchemaWipesOnMismatch(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	wiped, err := repo.EnsureSchema(ctx, "v1")
	require.NoError(t, err)
	assert.True(t, wiped, "first run writes the tag")

	_, err = repo.Dividends().Save(ctx, []model.DividendRecord{{EtfCode: "0056", ExDate: "2026-01-15", Amount: 1}})
	require.NoError(t, err)

	wiped, err = repo.EnsureSchema(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, wiped)
	divs, _ := repo.Dividends().Get(ctx)
	assert.Len(t, divs, 1)

	wiped, err = repo.EnsureSchema(ctx, "v2")
	require.NoError(t, err)
	assert.True(t, wiped)
	divs, _ = repo.Dividends().Get(ctx)
	assert.Empty(t, divs)
}

func TestResetKeepsSettings(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	require.NoError(t, repo.SetSourceURL(ctx, model.EntityPrice, "https://x.example/p.csv"))
	_, err := repo.Prices().Save(ctx, []model.PriceRecord{{EtfCode: "0050", Date: "2026-01-02", Price: 1}})
	require.NoError(t, err)

	require.NoError(t, repo.Reset(ctx))
	prices, _ := repo.Prices().Get(ctx)
	assert.Empty(t, prices)

	urls, err := repo.SourceURLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://x.example/p.csv", urls[model.EntityPrice])
}

func TestSourceURLs(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	urls, err := repo.SourceURLs(ctx)
	require.NoError(t, err)
	assert.Len(t, urls, 6)
	assert.Equal(t, "https://default.example/div.csv", urls[model.EntityDividend])

	require.NoError(t, repo.SetSourceURL(ctx, model.EntityDividend, " https://mine.example/div.csv "))
	urls, _ = repo.SourceURLs(ctx)
	assert.Equal(t, "https://mine.example/div.csv", urls[model.EntityDividend])

	require.NoError(t, repo.SetSourceURL(ctx, model.EntityDividend, ""))
	urls, _ = repo.SourceURLs(ctx)
	assert.Equal(t, "https://default.example/div.csv", urls[model.EntityDividend])
}

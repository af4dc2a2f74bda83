// Package importer 抓取各类数据源，解析为记录后写入仓库。
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"etf-dashboard-backend/internal/csvdata"
	"etf-dashboard-backend/internal/fetch"
	"etf-dashboard-backend/internal/metrics"
	"etf-dashboard-backend/internal/model"
	"etf-dashboard-backend/internal/store"
)

// ErrNoRows 所有来源都没有可用数据
var ErrNoRows = errors.New("没有可用数据")

// ErrNoSource 未配置数据源
var ErrNoSource = errors.New("未配置数据源")

// ImportError 导入失败，Message 可直接展示给用户
type ImportError struct {
	Entity  model.Entity
	Message string
	Err     error
}

func (e *ImportError) Error() string { return e.Message }

func (e *ImportError) Unwrap() error { return e.Err }

// ImportResult 单类数据的导入结果
type ImportResult struct {
	Entity        model.Entity `json:"entity"`
	Policy        string       `json:"policy"`
	Fetched       int          `json:"fetched"`  // 解析出的原始行数
	Imported      int          `json:"imported"` // 去重后写入的记录数
	Total         int          `json:"total"`    // 写入后数据集的记录数
	Sources       int          `json:"sources"`
	FailedSources []string     `json:"failedSources,omitempty"`
}

// Importer 导入服务
type Importer struct {
	repo    store.Repository
	getter  fetch.Getter
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New 创建导入服务，m 可为 nil
func New(repo store.Repository, getter fetch.Getter, m *metrics.Metrics, logger *zap.Logger) *Importer {
	return &Importer{
		repo:    repo,
		getter:  getter,
		metrics: m,
		logger:  logger,
	}
}

// Import 按类型导入；urls 为空时使用已保存的数据源
func (im *Importer) Import(ctx context.Context, e model.Entity, urls string) (*ImportResult, error) {
	switch e {
	case model.EntityMarketIndex:
		return im.ImportMarketIndex(ctx, urls)
	case model.EntityBasicInfo:
		return im.ImportBasicInfo(ctx, urls)
	case model.EntityPrice:
		return im.ImportPrice(ctx, urls)
	case model.EntityDividend:
		return im.ImportDividend(ctx, urls)
	case model.EntitySize:
		return im.ImportSize(ctx, urls)
	case model.EntityHistory:
		return im.ImportHistory(ctx, urls)
	default:
		return nil, fmt.Errorf("未知的数据类型: %s", e)
	}
}

func (im *Importer) ImportMarketIndex(ctx context.Context, urls string) (*ImportResult, error) {
	return run(ctx, im, im.repo.MarketIndices(), urls, marketIndexRows)
}

func (im *Importer) ImportBasicInfo(ctx context.Context, urls string) (*ImportResult, error) {
	return run(ctx, im, im.repo.BasicInfo(), urls, basicInfoRows)
}

func (im *Importer) ImportPrice(ctx context.Context, urls string) (*ImportResult, error) {
	return run(ctx, im, im.repo.Prices(), urls, priceRows)
}

func (im *Importer) ImportDividend(ctx context.Context, urls string) (*ImportResult, error) {
	return run(ctx, im, im.repo.Dividends(), urls, dividendRows)
}

func (im *Importer) ImportSize(ctx context.Context, urls string) (*ImportResult, error) {
	return run(ctx, im, im.repo.Sizes(), urls, sizeRows)
}

func (im *Importer) ImportHistory(ctx context.Context, urls string) (*ImportResult, error) {
	return run(ctx, im, im.repo.History(), urls, historyRows)
}

func (im *Importer) resolveURLs(ctx context.Context, e model.Entity, urls string) ([]string, error) {
	if strings.TrimSpace(urls) == "" {
		sources, err := im.repo.SourceURLs(ctx)
		if err != nil {
			return nil, err
		}
		urls = sources[e]
	}
	return fetch.SplitURLs(urls), nil
}

// run 抓取全部来源并合并结果。单个来源失败只记录，全部来源都没有数据时返回 ImportError 且不写入。
func run[T model.Keyed](ctx context.Context, im *Importer, ds store.Dataset[T], urls string, mapRows func([]csvdata.Row) []T) (*ImportResult, error) {
	start := time.Now()
	e := ds.Entity()
	logger := im.logger.With(zap.String("entity", string(e)))

	list, err := im.resolveURLs(ctx, e, urls)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		im.metrics.ImportFailed(e)
		return nil, &ImportError{Entity: e, Message: fmt.Sprintf("%s%s", e.Label(), ErrNoSource), Err: ErrNoSource}
	}

	result := &ImportResult{Entity: e, Policy: e.Policy().String(), Sources: len(list)}
	var records []T
	for _, r := range fetch.FetchAll(ctx, im.getter, list) {
		if r.Err != nil {
			logger.Warn("数据源抓取失败", zap.String("url", r.URL), zap.Error(r.Err))
			im.metrics.SourceFailed(e)
			result.FailedSources = append(result.FailedSources, r.URL)
			continue
		}
		rows := csvdata.Parse(r.Text)
		mapped := mapRows(rows)
		result.Fetched += len(rows)
		if len(mapped) == 0 {
			logger.Warn("数据源没有可用数据", zap.String("url", r.URL), zap.Int("rows", len(rows)))
		}
		records = append(records, mapped...)
	}

	if len(records) == 0 {
		im.metrics.ImportFailed(e)
		return nil, &ImportError{
			Entity:  e,
			Message: fmt.Sprintf("%s导入失败：%d 个数据源均无可用数据", e.Label(), len(list)),
			Err:     ErrNoRows,
		}
	}

	// 多个来源之间也按主键去重，后出现的覆盖先出现的
	records = store.Merge([]T{}, records, func(r T) string { return r.Key() })
	result.Imported = len(records)

	saved, err := ds.Save(ctx, records)
	if err != nil {
		im.metrics.ImportFailed(e)
		return nil, fmt.Errorf("保存%s失败: %w", e.Label(), err)
	}
	result.Total = len(saved)

	im.metrics.ObserveImport(e, result.Imported, result.Total, time.Since(start))
	logger.Info("导入完成",
		zap.Int("rows", result.Fetched),
		zap.Int("imported", result.Imported),
		zap.Int("total", result.Total),
		zap.Int("failed_sources", len(result.FailedSources)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"etf-dashboard-backend/internal/cache"
	"etf-dashboard-backend/internal/model"
)

const (
	schemaSlot  = "etf_schema_version"
	sourcesSlot = "etf_source_urls"
)

// Repository 全部数据集及相关设置
type Repository interface {
	MarketIndices() Dataset[model.MarketIndexRecord]
	BasicInfo() Dataset[model.BasicInfoRecord]
	Prices() Dataset[model.PriceRecord]
	Dividends() Dataset[model.DividendRecord]
	Sizes() Dataset[model.SizeRecord]
	History() Dataset[model.HistoryRecord]

	// EnsureSchema 版本不一致时清空全部数据集，返回是否清空
	EnsureSchema(ctx context.Context, version string) (bool, error)
	// Reset 清空全部数据集
	Reset(ctx context.Context) error

	SourceURLs(ctx context.Context) (map[model.Entity]string, error)
	SetSourceURL(ctx context.Context, entity model.Entity, urls string) error
}

type repository struct {
	provider cache.Provider
	logger   *zap.Logger
	defaults map[model.Entity]string

	marketIndices *collection[model.MarketIndexRecord]
	basicInfo     *collection[model.BasicInfoRecord]
	prices        *collection[model.PriceRecord]
	dividends     *collection[model.DividendRecord]
	sizes         *collection[model.SizeRecord]
	history       *collection[model.HistoryRecord]

	settingsMu sync.Mutex
}

// NewRepository 创建基于缓存后端的仓库，defaults 为各数据集的默认来源
func NewRepository(p cache.Provider, logger *zap.Logger, defaults map[model.Entity]string) Repository {
	locks := make(map[model.Entity]*sync.Mutex)
	for _, e := range model.Entities() {
		locks[e] = &sync.Mutex{}
	}
	if defaults == nil {
		defaults = map[model.Entity]string{}
	}

	return &repository{
		provider:      p,
		logger:        logger,
		defaults:      defaults,
		marketIndices: newCollection[model.MarketIndexRecord](model.EntityMarketIndex, p, logger, locks[model.EntityMarketIndex]),
		basicInfo:     newCollection[model.BasicInfoRecord](model.EntityBasicInfo, p, logger, locks[model.EntityBasicInfo]),
		prices:        newCollection[model.PriceRecord](model.EntityPrice, p, logger, locks[model.EntityPrice]),
		dividends:     newCollection[model.DividendRecord](model.EntityDividend, p, logger, locks[model.EntityDividend]),
		sizes:         newCollection[model.SizeRecord](model.EntitySize, p, logger, locks[model.EntitySize]),
		history:       newCollection[model.HistoryRecord](model.EntityHistory, p, logger, locks[model.EntityHistory]),
	}
}

func (r *repository) MarketIndices() Dataset[model.MarketIndexRecord] { return r.marketIndices }
func (r *repository) BasicInfo() Dataset[model.BasicInfoRecord]       { return r.basicInfo }
func (r *repository) Prices() Dataset[model.PriceRecord]              { return r.prices }
func (r *repository) Dividends() Dataset[model.DividendRecord]        { return r.dividends }
func (r *repository) Sizes() Dataset[model.SizeRecord]                { return r.sizes }
func (r *repository) History() Dataset[model.HistoryRecord]           { return r.history }

func (r *repository) entitySlots() []string {
	slots := make([]string, 0, len(model.Entities()))
	for _, e := range model.Entities() {
		slots = append(slots, e.Slot())
	}
	return slots
}

func (r *repository) EnsureSchema(ctx context.Context, version string) (bool, error) {
	stored := ""
	data, err := r.provider.Get(ctx, schemaSlot)
	switch {
	case errors.Is(err, cache.ErrMiss):
	case err != nil:
		return false, fmt.Errorf("读取数据版本失败: %w", err)
	default:
		_ = json.Unmarshal(data, &stored)
	}
	if stored == version {
		return false, nil
	}

	if err := r.provider.Delete(ctx, r.entitySlots()...); err != nil {
		return false, fmt.Errorf("清空旧版本数据失败: %w", err)
	}
	tag, _ := json.Marshal(version)
	if err := r.provider.Set(ctx, schemaSlot, tag); err != nil {
		return false, fmt.Errorf("写入数据版本失败: %w", err)
	}
	r.logger.Info("数据版本变更，已清空缓存", zap.String("from", stored), zap.String("to", version))
	return true, nil
}

func (r *repository) Reset(ctx context.Context) error {
	if err := r.provider.Delete(ctx, r.entitySlots()...); err != nil {
		return fmt.Errorf("清空缓存失败: %w", err)
	}
	r.logger.Info("缓存已清空")
	return nil
}

func (r *repository) storedSources(ctx context.Context) (map[model.Entity]string, error) {
	out := map[model.Entity]string{}
	data, err := r.provider.Get(ctx, sourcesSlot)
	if errors.Is(err, cache.ErrMiss) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取数据源设置失败: %w", err)
	}
	if IsCorrupted(data) || json.Unmarshal(data, &out) != nil {
		r.logger.Warn("数据源设置已损坏，使用默认值")
		return map[model.Entity]string{}, nil
	}
	return out, nil
}

// SourceURLs 已保存的设置优先，否则使用默认来源
func (r *repository) SourceURLs(ctx context.Context) (map[model.Entity]string, error) {
	r.settingsMu.Lock()
	defer r.settingsMu.Unlock()

	stored, err := r.storedSources(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[model.Entity]string, len(model.Entities()))
	for _, e := range model.Entities() {
		if v := strings.TrimSpace(stored[e]); v != "" {
			out[e] = v
			continue
		}
		out[e] = r.defaults[e]
	}
	return out, nil
}

// SetSourceURL 保存数据源；传入空字符串恢复默认值
func (r *repository) SetSourceURL(ctx context.Context, entity model.Entity, urls string) error {
	r.settingsMu.Lock()
	defer r.settingsMu.Unlock()

	stored, err := r.storedSources(ctx)
	if err != nil {
		return err
	}
	if urls = strings.TrimSpace(urls); urls == "" {
		delete(stored, entity)
	} else {
		stored[entity] = urls
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return r.provider.Set(ctx, sourcesSlot, data)
}

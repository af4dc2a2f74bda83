package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"etf-dashboard-backend/internal/cache"
	"etf-dashboard-backend/internal/model"
)

// Dataset 单个数据集的读写操作
type Dataset[T model.Keyed] interface {
	Entity() model.Entity
	Get(ctx context.Context) ([]T, error)
	// Save 按数据集声明的策略写入
	Save(ctx context.Context, records []T) ([]T, error)
	Merge(ctx context.Context, incoming []T) ([]T, error)
	Replace(ctx context.Context, records []T) ([]T, error)
	Clear(ctx context.Context) error
}

// collection 基于缓存后端的 Dataset 实现
type collection[T model.Keyed] struct {
	entity   model.Entity
	provider cache.Provider
	logger   *zap.Logger
	mu       *sync.Mutex // 合并-写回期间独占
}

func newCollection[T model.Keyed](entity model.Entity, p cache.Provider, logger *zap.Logger, mu *sync.Mutex) *collection[T] {
	return &collection[T]{
		entity:   entity,
		provider: p,
		logger:   logger.With(zap.String("entity", string(entity))),
		mu:       mu,
	}
}

func (c *collection[T]) Entity() model.Entity { return c.entity }

func (c *collection[T]) Get(ctx context.Context) ([]T, error) {
	return c.load(ctx)
}

func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.provider.Get(ctx, c.entity.Slot())
	if errors.Is(err, cache.ErrMiss) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取%s失败: %w", c.entity.Label(), err)
	}

	records, dropped := decodeClean[T](data)
	switch {
	case dropped < 0:
		c.logger.Warn("缓存内容不是数组，按空集合处理")
		return []T{}, nil
	case dropped > 0:
		c.logger.Debug("丢弃损坏的缓存记录", zap.Int("dropped", dropped))
	}
	return records, nil
}

func (c *collection[T]) store(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("序列化%s失败: %w", c.entity.Label(), err)
	}
	if err := c.provider.Set(ctx, c.entity.Slot(), data); err != nil {
		return fmt.Errorf("写入%s失败: %w", c.entity.Label(), err)
	}
	return nil
}

func (c *collection[T]) Save(ctx context.Context, records []T) ([]T, error) {
	if c.entity.Policy() == model.PolicyReplace {
		return c.Replace(ctx, records)
	}
	return c.Merge(ctx, records)
}

func (c *collection[T]) Merge(ctx context.Context, incoming []T) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	merged := Merge(existing, incoming, func(r T) string { return r.Key() })
	if err := c.store(ctx, merged); err != nil {
		return nil, err
	}
	c.logger.Debug("数据集已合并",
		zap.Int("existing", len(existing)),
		zap.Int("incoming", len(incoming)),
		zap.Int("total", len(merged)))
	return merged, nil
}

func (c *collection[T]) Replace(ctx context.Context, records []T) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store(ctx, records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *collection[T]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.provider.Delete(ctx, c.entity.Slot())
}

// Package cache 提供持久化数据集的键值存储后端。
package cache

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"etf-dashboard-backend/internal/config"
)

// ErrMiss 键不存在
var ErrMiss = errors.New("cache miss")

// Provider 键值存储，值为已序列化的JSON
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open 按配置创建存储后端
func Open(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Backend {
	case "", "memory":
		logger.Info("使用内存缓存")
		return NewMemoryProvider(), nil
	case "redis":
		p, err := NewRedisProvider(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		logger.Info("Redis连接成功", zap.String("addr", cfg.RedisAddr))
		return p, nil
	case "sqlite":
		p, err := NewSQLiteProvider(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("SQLite缓存已打开", zap.String("path", cfg.SQLitePath))
		return p, nil
	default:
		return nil, fmt.Errorf("不支持的缓存后端: %s", cfg.Backend)
	}
}

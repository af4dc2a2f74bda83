package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisProvider Redis存储，键不设置过期时间
type RedisProvider struct {
	rdb *redis.Client
}

// NewRedisProvider 初始化Redis连接
func NewRedisProvider(ctx context.Context, addr, password string, db int) (*RedisProvider, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}
	return &RedisProvider{rdb: rdb}, nil
}

// NewRedisProviderFromClient 使用已有客户端
func NewRedisProviderFromClient(rdb *redis.Client) *RedisProvider {
	return &RedisProvider{rdb: rdb}
}

func (p *RedisProvider) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := p.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("读取Redis失败 %s: %w", key, err)
	}
	return data, nil
}

func (p *RedisProvider) Set(ctx context.Context, key string, value []byte) error {
	if err := p.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("写入Redis失败 %s: %w", key, err)
	}
	return nil
}

func (p *RedisProvider) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return p.rdb.Del(ctx, keys...).Err()
}

// Close 关闭Redis连接
func (p *RedisProvider) Close() error {
	if p.rdb != nil {
		return p.rdb.Close()
	}
	return nil
}

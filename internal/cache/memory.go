package cache

import (
	"context"
	"fmt"
	"sync"
)

// MemoryProvider 进程内存储，重启后数据丢失
type MemoryProvider struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{items: map[string][]byte{}}
}

func (p *MemoryProvider) Get(_ context.Context, key string) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("cache provider is nil")
	}
	p.mu.RLock()
	data, ok := p.items[key]
	p.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (p *MemoryProvider) Set(_ context.Context, key string, value []byte) error {
	if p == nil {
		return fmt.Errorf("cache provider is nil")
	}
	data := make([]byte, len(value))
	copy(data, value)
	p.mu.Lock()
	p.items[key] = data
	p.mu.Unlock()
	return nil
}

func (p *MemoryProvider) Delete(_ context.Context, keys ...string) error {
	if p == nil {
		return fmt.Errorf("cache provider is nil")
	}
	p.mu.Lock()
	for _, k := range keys {
		delete(p.items, k)
	}
	p.mu.Unlock()
	return nil
}

func (p *MemoryProvider) Close() error { return nil }

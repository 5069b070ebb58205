// Package memory — кеш в памяти процесса: dev-режим и тесты.
// Истечение TTL считается от инжектируемых часов, чтобы граница T±ε
// проверялась детерминированно mock-часами.
package memory

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

type entry struct {
	val     []byte
	expires time.Time // нулевое время — без истечения
}

type Cache struct {
	clk clock.Clock

	mu sync.RWMutex
	m  map[string]entry
}

func New(clk clock.Clock) *Cache {
	if clk == nil {
		clk = clock.New()
	}
	return &Cache{clk: clk, m: make(map[string]entry)}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.clk.Now().Before(e.expires) {
		// лениво выселяем протухшее
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	out := make([]byte, len(e.val))
	copy(out, e.val)
	return out, true, nil
}

func (c *Cache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expires = c.clk.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = e
	c.mu.Unlock()
	return nil
}

func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.m, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *Cache) DelByPattern(_ context.Context, pattern string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for k := range c.m {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.m, k)
			n++
		}
	}
	return n, nil
}

func (c *Cache) Ping(context.Context) error { return nil }

func (c *Cache) Close() {}

// Len — только для тестов/метрик.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

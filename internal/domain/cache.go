package domain

import (
	"context"
	"time"
)

// Ключи кеша — единое место, чтобы не расползались по коду.
// Ключи списков (list:/search:) собирает catalog из параметров запроса.
func CacheKeyProduct(id ProductID) string  { return "product:" + id.String() }
func CacheKeyHandle(handle string) string  { return "handle:" + handle }

const (
	CachePrefixList   = "list:"
	CachePrefixSearch = "search:"
)

// Простой k/v интерфейс. Реализации — Redis, in-memory (тесты/dev) и noop
// (кеш не сконфигурирован). Ошибки транспорта возвращаются как данные;
// решение "ошибка = промах" принимает вызывающий слой, не адаптер.
type Cache interface {
	// Get: (nil, false, nil) — промаха нет в сторе; ошибка — проблема транспорта.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// DelByPattern: glob-шаблон (list:*); ноль совпадений — успех, count 0.
	DelByPattern(ctx context.Context, pattern string) (int64, error)
	Ping(context.Context) error
	Close()
}

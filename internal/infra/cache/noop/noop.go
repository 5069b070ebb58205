// Package noop — кеш "выключен": адрес Redis не задан. Всегда промах,
// записи молча успешны. Явный вариант вместо nil-проверок по коду.
package noop

import (
	"context"
	"log"
	"time"
)

type Cache struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Cache {
	logger.Println("cache is not configured, running uncached")
	return &Cache{logger: logger}
}

func (c *Cache) Get(context.Context, string) ([]byte, bool, error)  { return nil, false, nil }
func (c *Cache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (c *Cache) Del(context.Context, ...string) error               { return nil }
func (c *Cache) DelByPattern(context.Context, string) (int64, error) { return 0, nil }
func (c *Cache) Ping(context.Context) error                         { return nil }
func (c *Cache) Close()                                             {}

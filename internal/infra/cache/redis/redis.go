package redisx

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb       *redis.Client
	logger    *log.Logger
	opTimeout time.Duration
}

type Config struct {
	Addr      string
	DB        int
	Password  string
	OpTimeout time.Duration // таймаут одной операции; 0 => 2s
}

func New(cfg Config, logger *log.Logger) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	ot := cfg.OpTimeout
	if ot <= 0 {
		ot = 2 * time.Second
	}
	return &Cache{rdb: rdb, logger: logger, opTimeout: ot}
}

// withTimeout: каждая операция несёт собственный таймаут поверх контекста
// запроса — зависший кеш не должен тормозить запрос дольше, чем промах.
func (c *Cache) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opTimeout)
}

func (c *Cache) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.rdb.Ping(ctx).Err()
	if err != nil {
		c.logger.Printf("PING failed: %v", err)
	} else {
		c.logger.Println("PING ok")
	}
	return err
}

func (c *Cache) Close() {
	if c.rdb == nil {
		c.logger.Println("nothing to close")
		return
	}
	if err := c.rdb.Close(); err != nil {
		c.logger.Printf("error while closing: %v", err)
		return
	}
	c.logger.Println("closed")
}

// Get: (nil, false, nil) — ключа нет; ошибка транспорта уходит наверх как данные.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Printf("GET %q: miss", key)
		return nil, false, nil
	}
	if err != nil {
		c.logger.Printf("GET %q: error: %v", key, err)
		return nil, false, err
	}
	c.logger.Printf("GET %q: hit (%d bytes)", key, len(b))
	return b, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if ttl < 0 {
		ttl = 0
	}
	err := c.rdb.Set(ctx, key, val, ttl).Err()
	if err != nil {
		c.logger.Printf("SET %q failed: %v", key, err)
	} else {
		c.logger.Printf("SET %q ok (ttl=%s)", key, ttl)
	}
	return err
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Printf("DEL %v failed: %v", keys, err)
	} else {
		c.logger.Printf("DEL %v: deleted=%d", keys, n)
	}
	return err
}

// DelByPattern удаляет ключи по glob-шаблону через SCAN (не KEYS — без
// блокировки редиса на проде). Ноль совпадений — успех, count 0.
func (c *Cache) DelByPattern(ctx context.Context, pattern string) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 256).Result()
		if err != nil {
			c.logger.Printf("SCAN %q failed: %v", pattern, err)
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			deleted += n
			if err != nil {
				c.logger.Printf("DEL (pattern %q) failed: %v", pattern, err)
				return deleted, err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.logger.Printf("DEL pattern %q: deleted=%d", pattern, deleted)
	return deleted, nil
}

// Package catalog — cache-aside оркестрация поверх репозитория товаров.
//
// Контракт по ошибкам кеша: любая проблема транспорта = промах (чтение)
// или no-op (запись/инвалидация), в лог и дальше. Запрос падает только от
// ошибок БД. Кеш без данных — медленнее, но корректно.
package catalog

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/EgorLis/my-shop/internal/domain"
)

type Service struct {
	log   *log.Logger
	repo  domain.ProductsRepo
	cache domain.Cache
	ttl   TTLPolicy
}

func New(logger *log.Logger, repo domain.ProductsRepo, cache domain.Cache, ttl TTLPolicy) *Service {
	return &Service{
		log:   logger,
		repo:  repo,
		cache: cache,
		ttl:   ttl.withDefaults(),
	}
}

// ---------- Чтение (read-through) ----------

func (s *Service) List(ctx context.Context, q domain.ListQuery) (domain.Page, error) {
	if err := q.Normalize(); err != nil {
		return domain.Page{}, err
	}

	key := listKey(q)
	if b, ok := s.cacheGet(ctx, key); ok {
		var page domain.Page
		if err := json.Unmarshal(b, &page); err == nil {
			return page, nil
		}
		// битая запись — чиним удалением и идём в БД
		_ = s.cache.Del(ctx, key)
	}

	page, err := s.repo.List(ctx, q)
	if err != nil {
		return domain.Page{}, err
	}

	ttl := s.ttl.List
	if domain.HasSearch(q.Filters) {
		ttl = s.ttl.Search
	}
	s.cacheSet(ctx, key, page, ttl)
	return page, nil
}

func (s *Service) GetByID(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	return s.getOne(ctx, domain.CacheKeyProduct(id), func(ctx context.Context) (domain.Product, error) {
		return s.repo.ByID(ctx, id)
	})
}

func (s *Service) GetByHandle(ctx context.Context, handle string) (domain.Product, error) {
	return s.getOne(ctx, domain.CacheKeyHandle(handle), func(ctx context.Context) (domain.Product, error) {
		return s.repo.ByHandle(ctx, handle)
	})
}

func (s *Service) getOne(ctx context.Context, key string, load func(context.Context) (domain.Product, error)) (domain.Product, error) {
	if b, ok := s.cacheGet(ctx, key); ok {
		var p domain.Product
		if err := json.Unmarshal(b, &p); err == nil {
			return p, nil
		}
		_ = s.cache.Del(ctx, key)
	}

	p, err := load(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	s.cacheSet(ctx, key, p, s.ttl.Detail)
	return p, nil
}

// ---------- Запись + инвалидация ----------

func (s *Service) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	out, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidate(ctx, out)
	return out, nil
}

func (s *Service) Update(ctx context.Context, id domain.ProductID, upd domain.ProductUpdate) (domain.Product, error) {
	// старый handle нужен для инвалидации при переименовании
	old, err := s.repo.ByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	out, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidate(ctx, out, old.Handle)
	return out, nil
}

func (s *Service) Archive(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	out, err := s.repo.Archive(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidate(ctx, out)
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id domain.ProductID) error {
	// строка исчезнет — handle для инвалидации надо забрать заранее
	old, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, old)
	return nil
}

func (s *Service) SetAsset(ctx context.Context, id domain.ProductID, key string, size int64) (domain.Product, error) {
	out, err := s.repo.SetAsset(ctx, id, key, size)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidate(ctx, out)
	return out, nil
}

// invalidate выполняется до возврата успеха мутации: точечные ключи +
// грубый сброс всех списков, без трекинга какие именно листинги задело.
// Сбой кеша не валит мутацию: только лог.
func (s *Service) invalidate(ctx context.Context, p domain.Product, extraHandles ...string) {
	keys := []string{
		domain.CacheKeyProduct(p.ID),
		domain.CacheKeyHandle(p.Handle),
	}
	for _, h := range extraHandles {
		if h != "" && h != p.Handle {
			keys = append(keys, domain.CacheKeyHandle(h))
		}
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.log.Printf("invalidate %v: %v", keys, err)
	}
	for _, pattern := range []string{domain.CachePrefixList + "*", domain.CachePrefixSearch + "*"} {
		if n, err := s.cache.DelByPattern(ctx, pattern); err != nil {
			s.log.Printf("invalidate pattern %s: %v", pattern, err)
		} else if n > 0 {
			s.log.Printf("invalidate pattern %s: dropped %d", pattern, n)
		}
	}
}

// ---------- Кеш: ошибки = данные, наружу не выходят ----------

func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Printf("cache get %s: %v", key, err)
		return nil, false // ошибка транспорта = промах
	}
	return b, ok
}

func (s *Service) cacheSet(ctx context.Context, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("cache marshal %s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, b, ttl); err != nil {
		s.log.Printf("cache set %s: %v", key, err)
	}
}

package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/my-shop/internal/domain"
	"github.com/EgorLis/my-shop/internal/infra/cache/memory"
)

// ---- Фейковый репозиторий: та же keyset-семантика, что у Postgres-реализации ----

type memRepo struct {
	mu        sync.Mutex
	byID      map[domain.ProductID]domain.Product
	listCalls int
	getCalls  int
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[domain.ProductID]domain.Product)}
}

func (r *memRepo) seed(ps ...domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range ps {
		r.byID[p.ID] = p
	}
}

func (r *memRepo) Close()                           {}
func (r *memRepo) Ping(context.Context) error       { return nil }

func matches(p domain.Product, fs []domain.Filter) bool {
	for _, f := range fs {
		switch v := f.(type) {
		case domain.FilterStatus:
			if p.Status != v.Status {
				return false
			}
		case domain.FilterAvailable:
			if !p.Available {
				return false
			}
		case domain.FilterCategory:
			if p.Category != v.Category {
				return false
			}
		case domain.FilterTagsAny:
			hit := false
			for _, want := range v.Tags {
				for _, got := range p.Tags {
					if want == got {
						hit = true
					}
				}
			}
			if !hit {
				return false
			}
		case domain.FilterPriceRange:
			if v.MinCents != nil && p.PriceCents < *v.MinCents {
				return false
			}
			if v.MaxCents != nil && p.PriceCents > *v.MaxCents {
				return false
			}
		case domain.FilterSearch:
			q := strings.ToLower(v.Query)
			if !strings.Contains(strings.ToLower(p.Name), q) &&
				!strings.Contains(strings.ToLower(p.Description), q) {
				return false
			}
		}
	}
	return true
}

func fieldCmp(a, b domain.Product, f domain.SortField) int {
	var c int
	switch f {
	case domain.SortByCreated:
		c = a.CreatedAt.Compare(b.CreatedAt)
	case domain.SortByPrice:
		switch {
		case a.PriceCents < b.PriceCents:
			c = -1
		case a.PriceCents > b.PriceCents:
			c = 1
		}
	case domain.SortByName:
		c = strings.Compare(a.Name, b.Name)
	default:
		c = a.UpdatedAt.Compare(b.UpdatedAt)
	}
	if c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:]) // id — тай-брейк, как в БД
}

// cmpToCursor: позиция строки относительно курсора в порядке сортировки.
func cmpToCursor(p domain.Product, c domain.Cursor) int {
	var prim int
	switch c.Field {
	case domain.SortByCreated:
		t, _ := c.TimeValue()
		prim = p.CreatedAt.Compare(t)
	case domain.SortByPrice:
		n, _ := c.IntValue()
		switch {
		case p.PriceCents < n:
			prim = -1
		case p.PriceCents > n:
			prim = 1
		}
	case domain.SortByName:
		prim = strings.Compare(p.Name, c.Value)
	default:
		t, _ := c.TimeValue()
		prim = p.UpdatedAt.Compare(t)
	}
	if prim != 0 {
		return prim
	}
	return bytes.Compare(p.ID[:], c.ID[:])
}

func (r *memRepo) List(_ context.Context, q domain.ListQuery) (domain.Page, error) {
	if err := q.Normalize(); err != nil {
		return domain.Page{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++

	var all []domain.Product
	for _, p := range r.byID {
		if matches(p, q.Filters) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		c := fieldCmp(all[i], all[j], q.Sort)
		if q.Dir == domain.SortDesc {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(all))

	if q.Cursor != "" {
		if c, ok := domain.DecodeCursor(q.Cursor); ok && c.Field == q.Sort {
			kept := all[:0]
			for _, p := range all {
				cc := cmpToCursor(p, c)
				if (q.Dir == domain.SortDesc && cc < 0) || (q.Dir == domain.SortAsc && cc > 0) {
					kept = append(kept, p)
				}
			}
			all = kept
		}
	} else if q.Offset > 0 {
		if q.Offset >= len(all) {
			all = nil
		} else {
			all = all[q.Offset:]
		}
	}

	page := domain.Page{Items: all}
	if len(all) > q.Limit {
		page.Items = all[:q.Limit]
		page.HasMore = true
		page.NextCursor = domain.CursorFor(page.Items[q.Limit-1], q.Sort).Encode()
	}
	// копия, чтобы кеш-раундтрип сравнивался с независимым срезом
	page.Items = append([]domain.Product(nil), page.Items...)
	if q.Cursor == "" {
		page.Total = &total
	}
	return page, nil
}

func (r *memRepo) ByID(_ context.Context, id domain.ProductID) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *memRepo) ByHandle(_ context.Context, handle string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	for _, p := range r.byID {
		if p.Handle == handle {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

func (r *memRepo) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Version = 1
	r.byID[p.ID] = p
	return p, nil
}

func (r *memRepo) Update(_ context.Context, id domain.ProductID, upd domain.ProductUpdate) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	if upd.Handle != nil {
		p.Handle = *upd.Handle
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.PriceCents != nil {
		p.PriceCents = *upd.PriceCents
	}
	if upd.Available != nil {
		p.Available = *upd.Available
	}
	p.Version++
	r.byID[id] = p
	return p, nil
}

func (r *memRepo) Archive(_ context.Context, id domain.ProductID) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	p.Status = domain.StatusArchived
	p.Available = false
	p.Version++
	r.byID[id] = p
	return p, nil
}

func (r *memRepo) Delete(_ context.Context, id domain.ProductID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memRepo) SetAsset(_ context.Context, id domain.ProductID, key string, size int64) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	p.AssetKey, p.AssetSize = key, size
	p.Version++
	r.byID[id] = p
	return p, nil
}

// ---- Кеш, у которого отказала сеть ----

type downCache struct{}

var errCacheDown = errors.New("cache: connection refused")

func (downCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errCacheDown }
func (downCache) Set(context.Context, string, []byte, time.Duration) error { return errCacheDown }
func (downCache) Del(context.Context, ...string) error              { return errCacheDown }
func (downCache) DelByPattern(context.Context, string) (int64, error) { return 0, errCacheDown }
func (downCache) Ping(context.Context) error                        { return errCacheDown }
func (downCache) Close()                                            {}

// ---- Помощники ----

func testLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func pid(b byte) domain.ProductID {
	var id uuid.UUID
	id[15] = b
	return id
}

func product(b byte, price int64, upd time.Time, name string) domain.Product {
	return domain.Product{
		ID: pid(b), Handle: "p-" + name, Name: name,
		Tags: []string{}, PriceCents: price, Currency: "USD",
		Status: domain.StatusActive, Available: true,
		CreatedAt: upd, UpdatedAt: upd, Version: 1,
	}
}

func newService(t *testing.T, repo domain.ProductsRepo, cache domain.Cache, ttl TTLPolicy) *Service {
	t.Helper()
	return New(testLogger(), repo, cache, ttl)
}

// ---- Тесты ----

func TestListColdWarmEqual(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.seed(
		product(1, 1000, base, "alpha"),
		product(2, 2000, base.Add(time.Minute), "beta"),
		product(3, 3000, base.Add(2*time.Minute), "gamma"),
	)
	svc := newService(t, repo, memory.New(nil), TTLPolicy{})

	cold, err := svc.List(context.Background(), domain.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)

	warm, err := svc.List(context.Background(), domain.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls, "warm hit must not touch the repo")
	require.Equal(t, cold, warm, "caching must not change the answer")
}

func TestCursorWalkWithDuplicateSortValues(t *testing.T) {
	// значения [5,5,5,3,1], id убывают c>b>a: без тай-брейка по id
	// страницы на границе 5/5 теряли бы или дублировали строки
	repo := newMemRepo()
	ts := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	repo.seed(
		product(0xc, 5, ts, "c"),
		product(0xb, 5, ts, "b"),
		product(0xa, 5, ts, "a"),
		product(0xd, 3, ts, "d"),
		product(0xe, 1, ts, "e"),
	)
	svc := newService(t, repo, memory.New(nil), TTLPolicy{})

	q := domain.ListQuery{Limit: 2, Sort: domain.SortByPrice, Dir: domain.SortDesc}
	var names []string
	for {
		page, err := svc.List(context.Background(), q)
		require.NoError(t, err)
		for _, p := range page.Items {
			names = append(names, p.Name)
		}
		if !page.HasMore {
			break
		}
		require.NotEmpty(t, page.NextCursor)
		q.Cursor = page.NextCursor
	}
	require.Equal(t, []string{"c", "b", "a", "d", "e"}, names)

	// конкатенация страниц == одна непагинированная выборка
	full, err := svc.List(context.Background(), domain.ListQuery{
		Limit: 100, Sort: domain.SortByPrice, Dir: domain.SortDesc,
	})
	require.NoError(t, err)
	var fullNames []string
	for _, p := range full.Items {
		fullNames = append(fullNames, p.Name)
	}
	require.Equal(t, fullNames, names)
}

func TestEndToEndThreePages(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := byte(1); i <= 25; i++ {
		repo.seed(product(i, int64(i)*100, base.Add(time.Duration(i)*time.Minute), "p"))
	}
	svc := newService(t, repo, memory.New(nil), TTLPolicy{})

	q := domain.ListQuery{Limit: 10, Sort: domain.SortByUpdated, Dir: domain.SortDesc}

	first, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, first.Items, 10)
	require.True(t, first.HasMore)
	require.NotNil(t, first.Total)
	require.EqualValues(t, 25, *first.Total)
	require.Equal(t, pid(25), first.Items[0].ID) // свежайший первым
	require.Equal(t, pid(16), first.Items[9].ID)

	q.Cursor = first.NextCursor
	second, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, second.Items, 10)
	require.True(t, second.HasMore)
	require.Nil(t, second.Total, "под курсором COUNT не считается")
	require.Equal(t, pid(15), second.Items[0].ID)
	require.Equal(t, pid(6), second.Items[9].ID)

	q.Cursor = second.NextCursor
	third, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, third.Items, 5)
	require.False(t, third.HasMore)
	require.Empty(t, third.NextCursor)
	require.Equal(t, pid(1), third.Items[4].ID)
}

func TestInvalidationAfterMutation(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	p := product(1, 1000, base, "old-name")
	repo.seed(p)
	svc := newService(t, repo, memory.New(nil), TTLPolicy{})
	ctx := context.Background()

	// греем списочный и точечный кеши
	_, err := svc.List(ctx, domain.ListQuery{})
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	listCalls, getCalls := repo.listCalls, repo.getCalls

	newName := "new-name"
	_, err = svc.Update(ctx, p.ID, domain.ProductUpdate{Name: &newName})
	require.NoError(t, err)

	page, err := svc.List(ctx, domain.ListQuery{})
	require.NoError(t, err)
	require.Greater(t, repo.listCalls, listCalls, "список обязан перечитаться из БД")
	require.Equal(t, "new-name", page.Items[0].Name)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Greater(t, repo.getCalls, getCalls)
	require.Equal(t, "new-name", got.Name)
}

func TestArchiveInvalidatesListings(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	p := product(1, 1000, base, "doomed")
	repo.seed(p, product(2, 2000, base.Add(time.Minute), "stays"))
	svc := newService(t, repo, memory.New(nil), TTLPolicy{})
	ctx := context.Background()

	active := domain.ListQuery{Filters: []domain.Filter{domain.FilterStatus{Status: domain.StatusActive}}}
	page, err := svc.List(ctx, active)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	_, err = svc.Archive(ctx, p.ID)
	require.NoError(t, err)

	page, err = svc.List(ctx, active)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "stays", page.Items[0].Name)
}

func TestCacheDownDegradesToUncached(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	p := product(1, 1000, base, "alpha")
	repo.seed(p)
	svc := newService(t, repo, downCache{}, TTLPolicy{})
	ctx := context.Background()

	// каждый вызов идёт в БД, ответы корректны, ошибок наружу нет
	for i := 0; i < 2; i++ {
		page, err := svc.List(ctx, domain.ListQuery{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
	}
	require.Equal(t, 2, repo.listCalls)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)

	newName := "renamed"
	_, err = svc.Update(ctx, p.ID, domain.ProductUpdate{Name: &newName})
	require.NoError(t, err, "сбой инвалидации не валит мутацию")
}

func TestTTLBoundary(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	p := product(1, 1000, base, "alpha")
	repo.seed(p)

	clk := clock.NewMock()
	svc := newService(t, repo, memory.New(clk), TTLPolicy{Detail: 10 * time.Second})
	ctx := context.Background()

	_, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, repo.getCalls)

	clk.Add(9 * time.Second) // T-ε: запись ещё жива
	_, err = svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, repo.getCalls)

	clk.Add(2 * time.Second) // T+ε: истекла
	_, err = svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 2, repo.getCalls)
}

func TestBadParamsRejectedBeforeRepo(t *testing.T) {
	repo := newMemRepo()
	svc := newService(t, repo, memory.New(nil), TTLPolicy{})

	_, err := svc.List(context.Background(), domain.ListQuery{Limit: 9000})
	require.ErrorIs(t, err, domain.ErrBadParams)
	require.Zero(t, repo.listCalls)
}

func TestCorruptCacheEntryHealed(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	repo.seed(product(1, 1000, base, "alpha"))

	mem := memory.New(nil)
	svc := newService(t, repo, mem, TTLPolicy{})
	ctx := context.Background()

	q := domain.ListQuery{}
	require.NoError(t, q.Normalize())
	require.NoError(t, mem.Set(ctx, listKey(q), []byte("{broken json"), 0))

	page, err := svc.List(ctx, domain.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 1, repo.listCalls)
}

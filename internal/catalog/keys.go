package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/EgorLis/my-shop/internal/domain"
)

// TTL по типу записи: списки меняются чаще карточек, поэтому живут меньше;
// поиск — самый волатильный. Это настройка (config), не закон.
type TTLPolicy struct {
	List   time.Duration
	Detail time.Duration
	Search time.Duration
}

func DefaultTTL() TTLPolicy {
	return TTLPolicy{
		List:   15 * time.Minute,
		Detail: 30 * time.Minute,
		Search: 10 * time.Minute,
	}
}

func (p TTLPolicy) withDefaults() TTLPolicy {
	d := DefaultTTL()
	if p.List <= 0 {
		p.List = d.List
	}
	if p.Detail <= 0 {
		p.Detail = d.Detail
	}
	if p.Search <= 0 {
		p.Search = d.Search
	}
	return p
}

// listKey формирует стабильный ключ кэша списка: канонические k=v части,
// отсортированные и захэшированные. Порядок фильтров (и тегов внутри
// фильтра) на ключ не влияет — семантически одинаковые запросы дают один
// ключ. Итоговый ключ — hex, сырые байты запроса в Redis не попадают.
func listKey(q domain.ListQuery) string {
	parts := []string{
		"limit=" + strconv.Itoa(q.Limit),
		"sort=" + string(q.Sort),
		"dir=" + string(q.Dir),
		"cursor=" + q.Cursor,
		"offset=" + strconv.Itoa(q.Offset),
	}
	for _, f := range q.Filters {
		parts = append(parts, filterParts(f)...)
	}
	sort.Strings(parts)

	prefix := domain.CachePrefixList
	if domain.HasSearch(q.Filters) {
		prefix = domain.CachePrefixSearch
	}
	return prefix + sha256hex(strings.Join(parts, "&"))
}

func filterParts(f domain.Filter) []string {
	switch v := f.(type) {
	case domain.FilterStatus:
		return []string{"status=" + string(v.Status)}
	case domain.FilterAvailable:
		return []string{"available=1"}
	case domain.FilterCategory:
		return []string{"category=" + v.Category}
	case domain.FilterTagsAny:
		tags := append([]string(nil), v.Tags...)
		sort.Strings(tags)
		return []string{"tags=" + strings.Join(tags, ",")}
	case domain.FilterPriceRange:
		var out []string
		if v.MinCents != nil {
			out = append(out, fmt.Sprintf("min=%d", *v.MinCents))
		}
		if v.MaxCents != nil {
			out = append(out, fmt.Sprintf("max=%d", *v.MaxCents))
		}
		return out
	case domain.FilterSearch:
		return []string{"q=" + v.Query}
	}
	return nil
}

func sha256hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

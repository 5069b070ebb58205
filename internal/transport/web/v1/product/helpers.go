package product

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EgorLis/my-shop/internal/domain"
)

// Представление товара в HTTP-ответах. Технические поля (ключ в сторидже,
// версия) наружу не отдаём, наличие файла сворачиваем в has_asset.
type productView struct {
	ID          string   `json:"id"`
	Handle      string   `json:"handle"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	PriceCents  int64    `json:"price_cents"`
	Currency    string   `json:"currency"`
	Status      string   `json:"status"`
	Available   bool     `json:"available"`
	HasAsset    bool     `json:"has_asset"`
	AssetSize   int64    `json:"asset_size,omitempty"`
	Created     string   `json:"created"`
	Updated     string   `json:"updated"`
}

func toView(p domain.Product) productView {
	return productView{
		ID:          p.ID.String(),
		Handle:      p.Handle,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Tags:        p.Tags,
		PriceCents:  p.PriceCents,
		Currency:    p.Currency,
		Status:      string(p.Status),
		Available:   p.Available,
		HasAsset:    p.AssetKey != "",
		AssetSize:   p.AssetSize,
		Created:     p.CreatedAt.UTC().Format(time.RFC3339),
		Updated:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type pageView struct {
	Products   []productView `json:"products"`
	HasMore    bool          `json:"has_more"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Total      *int64        `json:"total,omitempty"`
}

func toPageView(p domain.Page) pageView {
	out := pageView{
		Products:   make([]productView, 0, len(p.Items)),
		HasMore:    p.HasMore,
		NextCursor: p.NextCursor,
		Total:      p.Total,
	}
	for _, it := range p.Items {
		out.Products = append(out.Products, toView(it))
	}
	return out
}

// parseListQuery собирает ListQuery из query-параметров.
// Глубокую валидацию (enum-ы, границы) делает ListQuery.Normalize.
func parseListQuery(q url.Values) (domain.ListQuery, error) {
	var lq domain.ListQuery

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return lq, fmt.Errorf("%w: limit is not a number", domain.ErrBadParams)
		}
		lq.Limit = n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return lq, fmt.Errorf("%w: offset is not a number", domain.ErrBadParams)
		}
		lq.Offset = n
	}
	lq.Sort = domain.SortField(q.Get("sort"))
	lq.Dir = domain.SortDir(q.Get("order"))
	lq.Cursor = q.Get("cursor")

	if s := q.Get("status"); s != "" {
		lq.Filters = append(lq.Filters, domain.FilterStatus{Status: domain.ProductStatus(s)})
	}
	if s := q.Get("available"); s == "true" || s == "1" {
		lq.Filters = append(lq.Filters, domain.FilterAvailable{})
	}
	if s := q.Get("category"); s != "" {
		lq.Filters = append(lq.Filters, domain.FilterCategory{Category: s})
	}
	if tags := q["tag"]; len(tags) > 0 {
		lq.Filters = append(lq.Filters, domain.FilterTagsAny{Tags: tags})
	}

	var minP, maxP *int64
	if s := q.Get("min_price"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return lq, fmt.Errorf("%w: min_price is not a number", domain.ErrBadParams)
		}
		minP = &n
	}
	if s := q.Get("max_price"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return lq, fmt.Errorf("%w: max_price is not a number", domain.ErrBadParams)
		}
		maxP = &n
	}
	if minP != nil || maxP != nil {
		lq.Filters = append(lq.Filters, domain.FilterPriceRange{MinCents: minP, MaxCents: maxP})
	}
	if s := strings.TrimSpace(q.Get("q")); s != "" {
		lq.Filters = append(lq.Filters, domain.FilterSearch{Query: s})
	}
	return lq, nil
}

// id из path-параметра
func pathID(r *http.Request) (domain.ProductID, error) {
	raw := r.PathValue("id")
	if u, err := url.PathUnescape(raw); err == nil {
		raw = u
	}
	return uuid.Parse(raw)
}

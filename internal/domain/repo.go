package domain

import (
	"context"
)

// Поля сортировки списков
type SortField string

const (
	SortByUpdated SortField = "updated_at"
	SortByCreated SortField = "created_at"
	SortByPrice   SortField = "price_cents"
	SortByName    SortField = "name"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByUpdated, SortByCreated, SortByPrice, SortByName:
		return true
	}
	return false
}

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

func (d SortDir) Valid() bool { return d == SortAsc || d == SortDesc }

// Описание запроса списка.
//
// Cursor — непрозрачный токен, выданный прошлой страницей. Контракт: токен
// валиден только под ту же комбинацию (Sort, Dir, Filters), под которую был
// выдан; с другими фильтрами выдача перезапускается с начала, а не смешивается.
// При непустом Cursor поле Offset игнорируется — два режима взаимоисключающие.
type ListQuery struct {
	Limit   int
	Sort    SortField
	Dir     SortDir
	Cursor  string
	Offset  int // legacy-переход на "страницу N"; нестабилен при параллельных записях
	Filters []Filter
}

// Страница выдачи.
// Total считается только для первой (безкурсорной) страницы: под курсором
// полный COUNT не нужен для "load more" и стоил бы полного скана.
type Page struct {
	Items      []Product `json:"items"`
	HasMore    bool      `json:"has_more"`
	NextCursor string    `json:"next_cursor,omitempty"`
	Total      *int64    `json:"total,omitempty"`
}

type ProductsRepo interface {
	Close()
	Ping(context.Context) error

	// Чтение
	List(ctx context.Context, q ListQuery) (Page, error)
	ByID(ctx context.Context, id ProductID) (Product, error)
	ByHandle(ctx context.Context, handle string) (Product, error)

	// Запись (инвалидацию кеша делает вызывающий слой, не репозиторий)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, id ProductID, upd ProductUpdate) (Product, error)
	Archive(ctx context.Context, id ProductID) (Product, error)
	Delete(ctx context.Context, id ProductID) error
	SetAsset(ctx context.Context, id ProductID, key string, size int64) (Product, error)
}

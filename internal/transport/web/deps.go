package web

import (
	"github.com/EgorLis/my-shop/internal/domain"
	"github.com/EgorLis/my-shop/internal/transport/web/v1/health"
)

// Deps — инфраструктура, нужная HTTP-слою напрямую: пинги для readiness
// и сторидж файлов. Кэш и БД как источники данных живут за catalog.Service.
type Deps struct {
	DB      health.Pinger
	Cache   health.Pinger
	Storage domain.AssetStorage
}

package product

import (
	"log"

	"github.com/EgorLis/my-shop/internal/catalog"
	"github.com/EgorLis/my-shop/internal/domain"
)

type Handler struct {
	Log     *log.Logger
	Catalog *catalog.Service
	Storage domain.AssetStorage
}

package web

import (
	"log"
	"net/http"

	_ "github.com/EgorLis/my-shop/internal/docs"
	"github.com/EgorLis/my-shop/internal/transport/web/mw"
	"github.com/EgorLis/my-shop/internal/transport/web/v1/health"
	"github.com/EgorLis/my-shop/internal/transport/web/v1/product"
	httpSwagger "github.com/swaggo/http-swagger"
)

func newRouter(hh *health.Handler, ph *product.Handler, adminToken string, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /v1/healthz", hh.Liveness)
	mux.HandleFunc("GET /v1/readyz", hh.Readiness)

	// каталог: публичное чтение
	mux.HandleFunc("GET /v1/products", ph.List)
	mux.HandleFunc("GET /v1/products/{id}", ph.GetByID)
	mux.HandleFunc("GET /v1/products/handle/{handle}", ph.GetByHandle)
	mux.HandleFunc("GET /v1/products/{id}/asset", ph.DownloadAsset)
	mux.HandleFunc("HEAD /v1/products/{id}/asset", ph.DownloadAsset)

	// каталог: админские ручки
	admin := func(h http.HandlerFunc) http.HandlerFunc { return mw.AdminOnly(adminToken, h) }
	mux.HandleFunc("POST /v1/products", admin(ph.Create))
	mux.HandleFunc("PATCH /v1/products/{id}", admin(ph.Update))
	mux.HandleFunc("POST /v1/products/{id}/archive", admin(ph.Archive))
	mux.HandleFunc("DELETE /v1/products/{id}", admin(ph.Delete))
	mux.HandleFunc("POST /v1/products/{id}/asset", admin(limitBody(64<<20, ph.UploadAsset))) // 64MB лимит
	mux.HandleFunc("DELETE /v1/products/{id}/asset", admin(ph.DeleteAsset))

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// 🔗 middleware
	return mw.WithRequestID(mw.Logging(logger)(mux))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}

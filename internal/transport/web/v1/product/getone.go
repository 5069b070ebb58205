package product

import (
	"net/http"
	"net/url"

	"github.com/EgorLis/my-shop/internal/domain"
	"github.com/EgorLis/my-shop/internal/transport/web/logx"
	"github.com/EgorLis/my-shop/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-shop/internal/transport/web/v1"
)

// GetByID godoc
// @Summary     Get product by id
// @Tags        products
// @Produce     json
// @Param       id path string true "product id (uuid)"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/products/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	const op = "products.get_by_id"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := pathID(r)
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad product id", err, "raw", r.PathValue("id"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	p, err := h.Catalog.GetByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "get failed", err, "product_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "product_id", p.ID)
	v1.WriteOKData(w, r, toView(p))
}

// GetByHandle godoc
// @Summary     Get product by handle
// @Tags        products
// @Produce     json
// @Param       handle path string true "product handle (slug)"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/products/handle/{handle} [get]
func (h *Handler) GetByHandle(w http.ResponseWriter, r *http.Request) {
	const op = "products.get_by_handle"
	reqID := mw.RequestIDFromCtx(r.Context())

	handle := r.PathValue("handle")
	if u, err := url.PathUnescape(handle); err == nil {
		handle = u
	}
	if !domain.ValidHandle(handle) {
		logx.Error(h.Log, reqID, op, "bad handle", domain.ErrBadParams, "handle", handle)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	p, err := h.Catalog.GetByHandle(r.Context(), handle)
	if err != nil {
		logx.Error(h.Log, reqID, op, "get failed", err, "handle", handle)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "product_id", p.ID, "handle", p.Handle)
	v1.WriteOKData(w, r, toView(p))
}

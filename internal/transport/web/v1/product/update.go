package product

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/EgorLis/my-shop/internal/domain"
	"github.com/EgorLis/my-shop/internal/transport/web/logx"
	"github.com/EgorLis/my-shop/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-shop/internal/transport/web/v1"
)

// Update godoc
// @Summary     Patch product fields (admin)
// @Description Частичное обновление: присутствующие в JSON поля перезаписываются.
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       X-Admin-Token header string true "admin token"
// @Param       id   path string               true "product id (uuid)"
// @Param       body body domain.ProductUpdate true "fields to change"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Failure     409 {object} domain.APIEnvelope
// @Router      /v1/products/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "products.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := pathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var upd domain.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err, "product_id", id)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := validateUpdate(upd); err != nil {
		logx.Error(h.Log, reqID, op, "bad params", err, "product_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	p, err := h.Catalog.Update(r.Context(), id, upd)
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "product_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "updated", "product_id", p.ID, "version", p.Version)
	v1.WriteOKData(w, r, toView(p))
}

func validateUpdate(u domain.ProductUpdate) error {
	if u.Empty() {
		return fmt.Errorf("%w: empty update", domain.ErrBadParams)
	}
	if u.Handle != nil && !domain.ValidHandle(*u.Handle) {
		return fmt.Errorf("%w: invalid handle", domain.ErrBadParams)
	}
	if u.Name != nil && *u.Name == "" {
		return fmt.Errorf("%w: empty name", domain.ErrBadParams)
	}
	if u.PriceCents != nil && *u.PriceCents < 0 {
		return fmt.Errorf("%w: negative price", domain.ErrBadParams)
	}
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrBadParams, *u.Status)
	}
	return nil
}

// Archive godoc
// @Summary     Archive product (admin)
// @Description Мягкое снятие с витрины: status=archived, available=false.
// @Tags        products
// @Produce     json
// @Param       X-Admin-Token header string true "admin token"
// @Param       id path string true "product id (uuid)"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/products/{id}/archive [post]
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	const op = "products.archive"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := pathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	p, err := h.Catalog.Archive(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "archive failed", err, "product_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "archived", "product_id", p.ID)
	v1.WriteOKData(w, r, toView(p))
}

// Delete godoc
// @Summary     Delete product (admin)
// @Description Полное удаление вместе с файлом в сторидже.
// @Tags        products
// @Produce     json
// @Param       X-Admin-Token header string true "admin token"
// @Param       id path string true "product id (uuid)"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/products/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "products.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := pathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// файл удаляем до записи: объект-сирота в S3 безобиднее битой ссылки
	if p, err := h.Catalog.GetByID(r.Context(), id); err == nil && p.AssetKey != "" {
		if err := h.Storage.Delete(r.Context(), p.AssetKey); err != nil {
			logx.Error(h.Log, reqID, op, "storage delete failed", err, "key", p.AssetKey)
		}
	}

	if err := h.Catalog.Delete(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "delete failed", err, "product_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "deleted", "product_id", id)
	v1.WriteOKResponse(w, r, map[string]bool{id.String(): true})
}

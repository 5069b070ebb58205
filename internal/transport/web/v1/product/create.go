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

type createIn struct {
	Handle      string   `json:"handle"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	PriceCents  int64    `json:"price_cents"`
	Currency    string   `json:"currency"`
	Status      string   `json:"status"`
	Available   bool     `json:"available"`
}

func (in createIn) validate() error {
	if !domain.ValidHandle(in.Handle) {
		return fmt.Errorf("%w: invalid handle", domain.ErrBadParams)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: empty name", domain.ErrBadParams)
	}
	if in.PriceCents < 0 {
		return fmt.Errorf("%w: negative price", domain.ErrBadParams)
	}
	if in.Status != "" && !domain.ProductStatus(in.Status).Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrBadParams, in.Status)
	}
	return nil
}

// Create godoc
// @Summary     Create product (admin)
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       X-Admin-Token header string true "admin token"
// @Param       body body createIn true "product"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     409 {object} domain.APIEnvelope
// @Router      /v1/products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "products.create"
	reqID := mw.RequestIDFromCtx(r.Context())

	var in createIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if err := in.validate(); err != nil {
		logx.Error(h.Log, reqID, op, "bad params", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	p, err := h.Catalog.Create(r.Context(), domain.Product{
		Handle:      in.Handle,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Tags:        in.Tags,
		PriceCents:  in.PriceCents,
		Currency:    in.Currency,
		Status:      domain.ProductStatus(in.Status),
		Available:   in.Available,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err, "handle", in.Handle)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "created", "product_id", p.ID, "handle", p.Handle)
	v1.WriteOKData(w, r, toView(p))
}

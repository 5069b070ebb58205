package product

import (
	"net/http"

	"github.com/EgorLis/my-shop/internal/transport/web/logx"
	"github.com/EgorLis/my-shop/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-shop/internal/transport/web/v1"
)

// List godoc
// @Summary     List products
// @Description Пагинация курсором (cursor) или смещением (offset); курсор выигрывает.
// @Tags        products
// @Produce     json
// @Param       limit     query int    false "page size (default 20, max 100)"
// @Param       sort      query string false "updated_at|created_at|price_cents|name"
// @Param       order     query string false "asc|desc"
// @Param       cursor    query string false "opaque page token from next_cursor"
// @Param       offset    query int    false "offset fallback (ignored with cursor)"
// @Param       status    query string false "active|archived"
// @Param       available query bool   false "only purchasable products"
// @Param       category  query string false "category filter"
// @Param       tag       query string false "tag filter (repeatable, OR)"
// @Param       min_price query int    false "min price, cents"
// @Param       max_price query int    false "max price, cents"
// @Param       q         query string false "substring search over name/description"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Router      /v1/products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "products.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	lq, err := parseListQuery(r.URL.Query())
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad query", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	page, err := h.Catalog.List(r.Context(), lq)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "items", len(page.Items), "has_more", page.HasMore)
	v1.WriteOKData(w, r, toPageView(page))
}

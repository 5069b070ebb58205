package product

import (
	"io"
	"net/http"
	"strconv"

	"github.com/EgorLis/my-shop/internal/domain"
	"github.com/EgorLis/my-shop/internal/transport/web/logx"
	"github.com/EgorLis/my-shop/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-shop/internal/transport/web/v1"
)

// UploadAsset godoc
// @Summary     Upload product file (admin)
// @Description multipart/form-data, поле file. Ключ в сторидже контент-адресуемый (sha256).
// @Tags        products
// @Accept      multipart/form-data
// @Produce     json
// @Param       X-Admin-Token header string true "admin token"
// @Param       id   path     string true "product id (uuid)"
// @Param       file formData file   true "file"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/products/{id}/asset [post]
func (h *Handler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	const op = "products.upload_asset"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := pathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// товар должен существовать до похода в сторидж
	old, err := h.Catalog.GetByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		logx.Error(h.Log, reqID, op, "bad multipart", err, "product_id", id)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		logx.Error(h.Log, reqID, op, "missing file", err, "product_id", id)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	res, err := h.Storage.Put(r.Context(), file, header.Filename, mime)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage put failed", err, "product_id", id)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	p, err := h.Catalog.SetAsset(r.Context(), id, res.Key, res.Size)
	if err != nil {
		logx.Error(h.Log, reqID, op, "set asset failed", err, "product_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	// прежний файл больше никем не referenced — чистим (ключи контент-адресуемые,
	// при повторной загрузке того же содержимого ключ не меняется)
	if old.AssetKey != "" && old.AssetKey != res.Key {
		if err := h.Storage.Delete(r.Context(), old.AssetKey); err != nil {
			logx.Error(h.Log, reqID, op, "old asset delete failed", err, "key", old.AssetKey)
		}
	}

	logx.Info(h.Log, reqID, op, "ok", "product_id", p.ID, "key", res.Key, "size", res.Size)
	v1.WriteOKData(w, r, toView(p))
}

// DownloadAsset godoc
// @Summary     Download product file
// @Description Отдаёт файл товара, поддерживает Range-запросы.
// @Tags        products
// @Produce     octet-stream
// @Param       id path string true "product id (uuid)"
// @Success     200 {file} []byte
// @Success     206 {file} []byte
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/products/{id}/asset [get]
func (h *Handler) DownloadAsset(w http.ResponseWriter, r *http.Request) {
	const op = "products.download_asset"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := pathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	p, err := h.Catalog.GetByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if p.AssetKey == "" {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	// HEAD: только заголовки, размер знаем из метаданных
	if r.Method == http.MethodHead {
		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Content-Length", strconv.FormatInt(p.AssetSize, 10))
		w.WriteHeader(http.StatusOK)
		return
	}

	rangeHdr := r.Header.Get("Range")
	rc, contentLen, contentRange, contentType, err := h.Storage.Get(r.Context(), p.AssetKey, rangeHdr)
	if err != nil {
		logx.Error(h.Log, reqID, op, "storage get failed", err, "product_id", id, "range", rangeHdr)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	defer rc.Close()

	w.Header().Set("Accept-Ranges", "bytes")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(contentLen, 10))

	if contentRange != "" {
		w.Header().Set("Content-Range", contentRange)
		w.WriteHeader(http.StatusPartialContent)
		logx.Info(h.Log, reqID, op, "partial content", "product_id", id, "range", contentRange)
	} else {
		w.WriteHeader(http.StatusOK)
		logx.Info(h.Log, reqID, op, "ok", "product_id", id, "len", contentLen)
	}
	_, _ = io.Copy(w, rc)
}

// DeleteAsset godoc
// @Summary     Detach and delete product file (admin)
// @Tags        products
// @Produce     json
// @Param       X-Admin-Token header string true "admin token"
// @Param       id path string true "product id (uuid)"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /v1/products/{id}/asset [delete]
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	const op = "products.delete_asset"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := pathID(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	p, err := h.Catalog.GetByID(r.Context(), id)
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	if p.AssetKey == "" {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	// сначала отвязываем от товара, затем чистим сторидж
	if _, err := h.Catalog.SetAsset(r.Context(), id, "", 0); err != nil {
		logx.Error(h.Log, reqID, op, "detach failed", err, "product_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	if err := h.Storage.Delete(r.Context(), p.AssetKey); err != nil {
		logx.Error(h.Log, reqID, op, "storage delete failed", err, "key", p.AssetKey)
	}

	logx.Info(h.Log, reqID, op, "deleted", "product_id", id, "key", p.AssetKey)
	v1.WriteOKResponse(w, r, map[string]bool{id.String(): true})
}

package domain

import (
	"context"
	"io"
)

type AssetPutResult struct {
	Key    string // итоговый ключ вида "sha256/<hex>"
	Size   int64
	SHA256 []byte
}

// Хранилище файлов товаров (S3/MinIO).
type AssetStorage interface {
	Put(ctx context.Context, r io.Reader, hintName, mime string) (AssetPutResult, error)
	// Get: rangeHeader — сырой заголовок Range ("bytes=..."), пустой — весь объект.
	Get(ctx context.Context, key, rangeHeader string) (rc io.ReadCloser, length int64, contentRange, contentType string, err error)
	Delete(ctx context.Context, key string) error
	Ping(context.Context) error
}

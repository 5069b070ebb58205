package domain

import (
	"time"

	"github.com/google/uuid"
)

// Базовые идентификаторы
type ProductID = uuid.UUID

type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusArchived ProductStatus = "archived"
)

func (s ProductStatus) Valid() bool {
	return s == StatusActive || s == StatusArchived
}

// Товар (цифровой продукт). Бинарный контент лежит в S3, здесь только метаданные.
type Product struct {
	ID          ProductID     `json:"id"`
	Handle      string        `json:"handle"` // человекочитаемый slug, уникален
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
	PriceCents  int64         `json:"price_cents"`
	Currency    string        `json:"currency"`
	Status      ProductStatus `json:"status"`
	Available   bool          `json:"available"` // товар можно купить прямо сейчас
	CreatedAt   time.Time     `json:"created"`
	UpdatedAt   time.Time     `json:"updated"`

	// Технические поля. В HTTP-ответы не попадают (там свои view-структуры),
	// но в кеш сериализуются полностью — иначе хит терял бы asset_key.
	AssetKey  string `json:"asset_key,omitempty"` // где лежит файл (S3), пусто — файла нет
	AssetSize int64  `json:"asset_size,omitempty"`
	Version   int64  `json:"version"` // версионирование метаданных
}

// Частичное обновление: nil — поле не трогаем.
type ProductUpdate struct {
	Handle      *string        `json:"handle,omitempty"`
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Tags        *[]string      `json:"tags,omitempty"`
	PriceCents  *int64         `json:"price_cents,omitempty"`
	Currency    *string        `json:"currency,omitempty"`
	Status      *ProductStatus `json:"status,omitempty"`
	Available   *bool          `json:"available,omitempty"`
}

func (u ProductUpdate) Empty() bool {
	return u.Handle == nil && u.Name == nil && u.Description == nil &&
		u.Category == nil && u.Tags == nil && u.PriceCents == nil &&
		u.Currency == nil && u.Status == nil && u.Available == nil
}

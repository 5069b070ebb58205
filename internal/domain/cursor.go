package domain

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Курсор keyset-пагинации: значение поля сортировки + id последней строки
// страницы. Значение кодируем прямо в токен — без повторного похода в БД за
// "якорной" строкой (и без проблемы, что её уже удалили).
type Cursor struct {
	Field SortField `json:"f"`
	Value string    `json:"v"` // RFC3339Nano для времени, десятичное число для цены, имя как есть
	ID    ProductID `json:"i"`
}

// CursorFor снимает курсор с последней строки выданной страницы.
func CursorFor(p Product, f SortField) Cursor {
	c := Cursor{Field: f, ID: p.ID}
	switch f {
	case SortByCreated:
		c.Value = p.CreatedAt.UTC().Format(time.RFC3339Nano)
	case SortByPrice:
		c.Value = strconv.FormatInt(p.PriceCents, 10)
	case SortByName:
		c.Value = p.Name
	default: // SortByUpdated
		c.Value = p.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return c
}

func (c Cursor) Encode() string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor разбирает токен. ok=false — токен битый или чужой;
// вызывающий обязан деградировать к началу выдачи, а не падать.
func DecodeCursor(s string) (Cursor, bool) {
	if s == "" {
		return Cursor{}, false
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, false
	}
	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, false
	}
	if !c.Field.Valid() || c.ID == uuid.Nil {
		return Cursor{}, false
	}
	return c, true
}

// Типизированные значения: курсор хранит строку, БД нужен конкретный тип.

func (c Cursor) TimeValue() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, c.Value)
	return t, err == nil
}

func (c Cursor) IntValue() (int64, bool) {
	n, err := strconv.ParseInt(c.Value, 10, 64)
	return n, err == nil
}

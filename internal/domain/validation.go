package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var handleRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func ValidHandle(s string) bool {
	return len(s) >= 2 && len(s) <= 128 && handleRe.MatchString(s)
}

// Normalize проставляет дефолты и проверяет форму запроса до похода в БД.
// Возвращает ErrBadParams на вылетевший за границы limit/offset и на
// неизвестные enum-значения. Курсор здесь проверяется только синтаксически:
// битый токен при исполнении трактуется как "с начала", это не ошибка запроса.
func (q *ListQuery) Normalize() error {
	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit < 0 || q.Limit > MaxPageSize {
		return fmt.Errorf("%w: limit out of range [1..%d]", ErrBadParams, MaxPageSize)
	}
	if q.Sort == "" {
		q.Sort = SortByUpdated
	}
	if !q.Sort.Valid() {
		return fmt.Errorf("%w: unknown sort field %q", ErrBadParams, q.Sort)
	}
	if q.Dir == "" {
		q.Dir = SortDesc
	}
	if !q.Dir.Valid() {
		return fmt.Errorf("%w: unknown sort dir %q", ErrBadParams, q.Dir)
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: negative offset", ErrBadParams)
	}
	// курсор и offset взаимоисключающие: курсор выигрывает
	if q.Cursor != "" {
		q.Offset = 0
	}
	for _, f := range q.Filters {
		if err := validFilter(f); err != nil {
			return err
		}
	}
	return nil
}

func validFilter(f Filter) error {
	switch v := f.(type) {
	case FilterStatus:
		if !v.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q", ErrBadParams, v.Status)
		}
	case FilterTagsAny:
		if len(v.Tags) == 0 {
			return fmt.Errorf("%w: empty tag filter", ErrBadParams)
		}
	case FilterPriceRange:
		if v.MinCents != nil && *v.MinCents < 0 {
			return fmt.Errorf("%w: negative min price", ErrBadParams)
		}
		if v.MinCents != nil && v.MaxCents != nil && *v.MinCents > *v.MaxCents {
			return fmt.Errorf("%w: min price above max", ErrBadParams)
		}
	case FilterSearch:
		if strings.TrimSpace(v.Query) == "" {
			return fmt.Errorf("%w: empty search query", ErrBadParams)
		}
	}
	return nil
}

package domain

// Явные варианты предикатов вместо сборки WHERE "по месту".
// Все предикаты соединяются через AND; репозиторий интерпретирует их единообразно.
type Filter interface {
	isFilter()
}

// Статус товара (active/archived).
type FilterStatus struct {
	Status ProductStatus
}

// Только доступные к покупке.
type FilterAvailable struct{}

// Точное совпадение категории.
type FilterCategory struct {
	Category string
}

// Пересечение множеств тегов: достаточно одного общего тега (OR внутри поля).
type FilterTagsAny struct {
	Tags []string
}

// Диапазон цены в центах; nil — граница не задана.
type FilterPriceRange struct {
	MinCents *int64
	MaxCents *int64
}

// Поиск подстроки (без учёта регистра) по name и description.
type FilterSearch struct {
	Query string
}

func (FilterStatus) isFilter()     {}
func (FilterAvailable) isFilter()  {}
func (FilterCategory) isFilter()   {}
func (FilterTagsAny) isFilter()    {}
func (FilterPriceRange) isFilter() {}
func (FilterSearch) isFilter()     {}

// HasSearch — для выбора префикса кеша (search: живёт меньше, чем list:).
func HasSearch(fs []Filter) bool {
	for _, f := range fs {
		if _, ok := f.(FilterSearch); ok {
			return true
		}
	}
	return false
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/EgorLis/my-shop/internal/domain"
)

var productCols = []string{
	"id", "handle", "name", "description", "category", "tags",
	"price_cents", "currency", "status", "available",
	"asset_key", "asset_size", "version", "created_at", "updated_at",
}

func (r *PGRepo) products() string { return fmt.Sprintf("%s.products", r.schema) }

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Handle, &p.Name, &p.Description, &p.Category, &p.Tags,
		&p.PriceCents, &p.Currency, &p.Status, &p.Available,
		&p.AssetKey, &p.AssetSize, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// mapPGErr переводит ошибки pgx в доменные: наружу уходят только они.
func mapPGErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation (handle)
		return domain.ErrConflict
	}
	return err
}

// ---------- Фильтры ----------

// Каждый вариант предиката — одно AND-условие; внутри TagsAny — пересечение
// массивов (&&), внутри Search — OR по name/description.
func applyFilters(sb sq.SelectBuilder, fs []domain.Filter) sq.SelectBuilder {
	for _, f := range fs {
		switch v := f.(type) {
		case domain.FilterStatus:
			sb = sb.Where(sq.Eq{"status": v.Status})
		case domain.FilterAvailable:
			sb = sb.Where(sq.Eq{"available": true})
		case domain.FilterCategory:
			sb = sb.Where(sq.Eq{"category": v.Category})
		case domain.FilterTagsAny:
			sb = sb.Where(sq.Expr("tags && ?", v.Tags))
		case domain.FilterPriceRange:
			if v.MinCents != nil {
				sb = sb.Where(sq.GtOrEq{"price_cents": *v.MinCents})
			}
			if v.MaxCents != nil {
				sb = sb.Where(sq.LtOrEq{"price_cents": *v.MaxCents})
			}
		case domain.FilterSearch:
			pat := "%" + escapeLike(v.Query) + "%"
			sb = sb.Where(sq.Or{
				sq.ILike{"name": pat},
				sq.ILike{"description": pat},
			})
		}
	}
	return sb
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// ---------- Keyset-пагинация ----------

// keysetPredicate строит составное условие продолжения:
//
//	DESC: (s < v) OR (s = v AND id < i)
//	ASC:  (s > v) OR (s = v AND id > i)
//
// Одиночного "s < v" мало: строки с одинаковым значением поля сортировки
// терялись бы или дублировались между страницами.
// ok=false — значение в токене не парсится под это поле; выдача с начала.
func keysetPredicate(c domain.Cursor, dir domain.SortDir) (sq.Sqlizer, bool) {
	var val any
	switch c.Field {
	case domain.SortByUpdated, domain.SortByCreated:
		t, ok := c.TimeValue()
		if !ok {
			return nil, false
		}
		val = t
	case domain.SortByPrice:
		n, ok := c.IntValue()
		if !ok {
			return nil, false
		}
		val = n
	case domain.SortByName:
		val = c.Value
	default:
		return nil, false
	}

	field := string(c.Field)
	if dir == domain.SortAsc {
		return sq.Or{
			sq.Gt{field: val},
			sq.And{sq.Eq{field: val}, sq.Gt{"id": c.ID}},
		}, true
	}
	return sq.Or{
		sq.Lt{field: val},
		sq.And{sq.Eq{field: val}, sq.Lt{"id": c.ID}},
	}, true
}

func orderBy(sort domain.SortField, dir domain.SortDir) []string {
	d := strings.ToUpper(string(dir))
	// id всегда вторым ключом — единственная гарантия тотального порядка
	return []string{
		fmt.Sprintf("%s %s", sort, d),
		fmt.Sprintf("id %s", d),
	}
}

// buildList собирает SELECT списка; отдельно от исполнения, чтобы SQL
// проверялся тестами без базы.
func (r *PGRepo) buildList(q domain.ListQuery) sq.SelectBuilder {
	sb := r.qb().Select(productCols...).From(r.products())
	sb = applyFilters(sb, q.Filters)

	if q.Cursor != "" {
		c, ok := domain.DecodeCursor(q.Cursor)
		// токен, выданный под другую сортировку, не дополняет выдачу,
		// а молча перезапускает её — см. контракт ListQuery.Cursor
		if ok && c.Field == q.Sort {
			if pred, ok := keysetPredicate(c, q.Dir); ok {
				sb = sb.Where(pred)
			} else {
				r.logger.Printf("List: stale cursor value, restarting from top")
			}
		} else {
			r.logger.Printf("List: unusable cursor, restarting from top")
		}
	} else if q.Offset > 0 {
		// legacy-переход на "страницу N": нестабилен при параллельных
		// вставках/удалениях, осознанный компромисс
		sb = sb.Offset(uint64(q.Offset))
	}

	return sb.OrderBy(orderBy(q.Sort, q.Dir)...).
		Limit(uint64(q.Limit) + 1) // +1 — сигнал hasMore, строка в выдачу не идёт
}

func (r *PGRepo) List(ctx context.Context, q domain.ListQuery) (domain.Page, error) {
	if err := q.Normalize(); err != nil {
		return domain.Page{}, err
	}

	sqlStr, args, err := r.buildList(q).ToSql()
	if err != nil {
		return domain.Page{}, err
	}
	r.logSQL("List", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("List query error after %s: %v", time.Since(start), err)
		return domain.Page{}, err
	}
	defer rows.Close()

	items := make([]domain.Product, 0, q.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Printf("List scan error: %v", err)
			return domain.Page{}, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("List rows error: %v", err)
		return domain.Page{}, err
	}

	page := domain.Page{Items: items}
	if len(items) > q.Limit {
		page.Items = items[:q.Limit]
		page.HasMore = true
		last := page.Items[len(page.Items)-1]
		page.NextCursor = domain.CursorFor(last, q.Sort).Encode()
	}

	// Полный COUNT — только на безкурсорной точке входа: под курсором он
	// не нужен для "load more" и стоил бы скана всей выборки.
	if q.Cursor == "" {
		total, err := r.countProducts(ctx, q.Filters)
		if err != nil {
			return domain.Page{}, err
		}
		page.Total = &total
	}

	r.logger.Printf("List ok in %s count=%d has_more=%v", time.Since(start), len(page.Items), page.HasMore)
	return page, nil
}

func (r *PGRepo) countProducts(ctx context.Context, fs []domain.Filter) (int64, error) {
	sb := applyFilters(r.qb().Select("COUNT(*)").From(r.products()), fs)
	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return 0, err
	}
	r.logSQL("Count", sqlStr, args)

	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		r.logger.Printf("Count error: %v", err)
		return 0, err
	}
	return total, nil
}

// ---------- Точечные чтения ----------

func (r *PGRepo) ByID(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	return r.one(ctx, "ByID", sq.Eq{"id": id})
}

func (r *PGRepo) ByHandle(ctx context.Context, handle string) (domain.Product, error) {
	return r.one(ctx, "ByHandle", sq.Eq{"handle": handle})
}

func (r *PGRepo) one(ctx context.Context, op string, where sq.Sqlizer) (domain.Product, error) {
	sqlStr, args, err := r.qb().Select(productCols...).From(r.products()).Where(where).ToSql()
	if err != nil {
		return domain.Product{}, err
	}
	r.logSQL(op, sqlStr, args)

	start := time.Now()
	p, err := scanProduct(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("%s error after %s: %v", op, time.Since(start), err)
		return domain.Product{}, mapPGErr(err)
	}
	r.logger.Printf("%s ok in %s id=%s", op, time.Since(start), p.ID)
	return p, nil
}

// ---------- Запись ----------

func (r *PGRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	q := r.qb().Insert(r.products()).
		Columns("handle", "name", "description", "category", "tags",
			"price_cents", "currency", "status", "available").
		Values(p.Handle, p.Name, p.Description, p.Category, p.Tags,
			p.PriceCents, p.Currency, p.Status, p.Available).
		Suffix("RETURNING " + strings.Join(productCols, ", "))

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return domain.Product{}, err
	}
	r.logSQL("Create", sqlStr, args)

	start := time.Now()
	out, err := scanProduct(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("Create error after %s: %v", time.Since(start), err)
		return domain.Product{}, mapPGErr(err)
	}
	r.logger.Printf("Create ok in %s id=%s handle=%s", time.Since(start), out.ID, out.Handle)
	return out, nil
}

func (r *PGRepo) Update(ctx context.Context, id domain.ProductID, upd domain.ProductUpdate) (domain.Product, error) {
	set := map[string]any{
		"version":    sq.Expr("version + 1"),
		"updated_at": sq.Expr("now()"),
	}
	if upd.Handle != nil {
		set["handle"] = *upd.Handle
	}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.PriceCents != nil {
		set["price_cents"] = *upd.PriceCents
	}
	if upd.Currency != nil {
		set["currency"] = *upd.Currency
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Available != nil {
		set["available"] = *upd.Available
	}

	return r.update(ctx, "Update", id, set)
}

// Archive — мягкое удаление: товар пропадает из активных выборок,
// но строка (и купленные ассеты) остаются.
func (r *PGRepo) Archive(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	return r.update(ctx, "Archive", id, map[string]any{
		"status":     domain.StatusArchived,
		"available":  false,
		"version":    sq.Expr("version + 1"),
		"updated_at": sq.Expr("now()"),
	})
}

func (r *PGRepo) SetAsset(ctx context.Context, id domain.ProductID, key string, size int64) (domain.Product, error) {
	return r.update(ctx, "SetAsset", id, map[string]any{
		"asset_key":  key,
		"asset_size": size,
		"version":    sq.Expr("version + 1"),
		"updated_at": sq.Expr("now()"),
	})
}

func (r *PGRepo) update(ctx context.Context, op string, id domain.ProductID, set map[string]any) (domain.Product, error) {
	q := r.qb().Update(r.products()).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(productCols, ", "))

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return domain.Product{}, err
	}
	r.logSQL(op, sqlStr, args)

	start := time.Now()
	out, err := scanProduct(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("%s error after %s: %v", op, time.Since(start), err)
		return domain.Product{}, mapPGErr(err)
	}
	r.logger.Printf("%s ok in %s id=%s version=%d", op, time.Since(start), out.ID, out.Version)
	return out, nil
}

func (r *PGRepo) Delete(ctx context.Context, id domain.ProductID) error {
	sqlStr, args, err := r.qb().Delete(r.products()).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	r.logSQL("Delete", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Delete exec error after %s: %v", time.Since(start), err)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.Printf("Delete no rows affected in %s", time.Since(start))
		return domain.ErrNotFound
	}
	r.logger.Printf("Delete ok in %s id=%s", time.Since(start), id)
	return nil
}

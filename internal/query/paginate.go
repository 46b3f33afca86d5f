package query

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Meta describes where a page sits in the full result set.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// Page is one page of rows plus its metadata. Data is never nil.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// LastPage is ceil(total / perPage), and never less than 1.
func LastPage(total int64, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	pages := (total + int64(perPage) - 1) / int64(perPage)
	return max(1, int(pages))
}

// Get executes the bounded SELECT and scans every row into T.
func Get[T any](ctx context.Context, b *Builder) ([]T, error) {
	sqlText, args, err := b.ToSQL()
	if err != nil {
		return nil, err
	}
	rows := []T{}
	if err := sqlx.SelectContext(ctx, b.db, &rows, b.dialect.Rebind(sqlText), args...); err != nil {
		return nil, executionFailed(err)
	}
	return rows, nil
}

// Count executes the COUNT(*) statement. A count query that yields no row counts
// as zero.
func Count(ctx context.Context, b *Builder) (int64, error) {
	sqlText, args, err := b.CountSQL()
	if err != nil {
		return 0, err
	}
	var total int64
	if err := sqlx.GetContext(ctx, b.db, &total, b.dialect.Rebind(sqlText), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, executionFailed(err)
	}
	return total, nil
}

// Paginate counts the matching rows and fetches one page of them.
func Paginate[T any](ctx context.Context, b *Builder, page, perPage int) (*Page[T], error) {
	pageSQL, pageArgs, err := b.PageSQL(page, perPage)
	if err != nil {
		return nil, err
	}
	perPage = min(perPage, MaxLimit)

	total, err := Count(ctx, b)
	if err != nil {
		return nil, err
	}

	rows := []T{}
	if err := sqlx.SelectContext(ctx, b.db, &rows, b.dialect.Rebind(pageSQL), pageArgs...); err != nil {
		return nil, executionFailed(err)
	}

	return &Page[T]{
		Data: rows,
		Meta: Meta{
			CurrentPage: page,
			LastPage:    LastPage(total, perPage),
			PerPage:     perPage,
			Total:       total,
		},
	}, nil
}

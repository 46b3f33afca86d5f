package data

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"restinvoice/internal/core"
	"restinvoice/internal/query"
)

const apiKeysTable = "api_keys"

var apiKeyColumns = []string{"id", "ref", "user_id", "name", "created_at", "expired_at"}

type ApiKeyRepo struct {
	store *Store
}

func NewApiKeyRepo(store *Store) *ApiKeyRepo {
	return &ApiKeyRepo{store: store}
}

// List returns the caller's keys, newest first.
func (r *ApiKeyRepo) List(ctx context.Context, userID string, opts core.ListOptions) (*query.Page[core.ApiKey], error) {
	b := r.store.From(apiKeysTable).
		Select(apiKeyColumns...).
		Where("user_id", userID).
		OrderBy("created_at", "desc").
		OrderBy("id", "desc")

	return query.Paginate[core.ApiKey](ctx, b, opts.Page, opts.PerPage)
}

func (r *ApiKeyRepo) Create(ctx context.Context, key *core.ApiKey) error {
	stmt := r.store.stmt.Insert(apiKeysTable).
		Columns(apiKeyColumns...).
		Values(key.ID, key.Ref, key.UserID, key.Name, key.CreatedAt, key.ExpiredAt)

	_, err := r.store.execStatement(ctx, stmt)
	return err
}

// Delete removes the caller's key and reports whether a row was removed.
func (r *ApiKeyRepo) Delete(ctx context.Context, userID, ref string) (bool, error) {
	stmt := r.store.stmt.Delete(apiKeysTable).
		Where(sq.Eq{"id": ref, "user_id": userID})

	res, err := r.store.execStatement(ctx, stmt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

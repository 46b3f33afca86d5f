package data

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"restinvoice/internal/core"
	"restinvoice/internal/query"
)

const templatesTable = "templates"

var templateColumns = []string{
	"id", "slug", "name", "description", "user_id", "html_content", "variables", "created_at", "updated_at",
}

var templateSortColumns = map[string]bool{
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

type TemplateRepo struct {
	store *Store
}

func NewTemplateRepo(store *Store) *TemplateRepo {
	return &TemplateRepo{store: store}
}

func (r *TemplateRepo) List(ctx context.Context, userID string, opts core.ListOptions) (*query.Page[core.Template], error) {
	b := r.store.From(templatesTable).
		Select(templateColumns...).
		Where("user_id", userID)

	if opts.Sort != "" {
		if !templateSortColumns[opts.Sort] {
			return nil, fmt.Errorf("%w: cannot sort by %q", core.ErrValidation, opts.Sort)
		}
		b = b.OrderBy(opts.Sort, opts.Order)
	}

	return query.Paginate[core.Template](ctx, b, opts.Page, opts.PerPage)
}

// FindByIDOrSlug looks a template up by UUID, or by slug for anything else.
func (r *TemplateRepo) FindByIDOrSlug(ctx context.Context, userID, idOrSlug string) (*core.Template, error) {
	b := r.store.From(templatesTable).
		Select(templateColumns...).
		Where("user_id", userID).
		Limit(1)

	if core.IsUUID(idOrSlug) {
		b = b.Where("id", strings.ToLower(idOrSlug))
	} else {
		b = b.Where("slug", idOrSlug)
	}

	rows, err := query.Get[core.Template](ctx, b)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, core.ErrNotFound
	}
	return &rows[0], nil
}

// SlugExists checks the slug across all owners; slugs are globally unique.
func (r *TemplateRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	total, err := query.Count(ctx, r.store.From(templatesTable).Where("slug", slug))
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *TemplateRepo) Create(ctx context.Context, tpl *core.Template) error {
	if tpl.Variables == nil {
		tpl.Variables = core.Variables{}
	}
	stmt := r.store.stmt.Insert(templatesTable).
		Columns(templateColumns...).
		Values(tpl.ID, tpl.Slug, tpl.Name, tpl.Description, tpl.UserID, tpl.HTMLContent, tpl.Variables, tpl.CreatedAt, tpl.UpdatedAt)

	_, err := r.store.execStatement(ctx, stmt)
	return err
}

// Update applies patch to the caller's template and returns the stored result.
// An empty patch leaves the row untouched.
func (r *TemplateRepo) Update(ctx context.Context, userID, idOrSlug string, patch core.TemplatePatch, updatedAt int64) (*core.Template, error) {
	existing, err := r.FindByIDOrSlug(ctx, userID, idOrSlug)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return existing, nil
	}

	stmt := r.store.stmt.Update(templatesTable).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": existing.ID, "user_id": userID})

	if patch.Name != nil {
		stmt = stmt.Set("name", *patch.Name)
	}
	if patch.Description != nil {
		var description any = *patch.Description
		if *patch.Description == "" {
			description = nil
		}
		stmt = stmt.Set("description", description)
	}
	if patch.HTMLContent != nil {
		stmt = stmt.Set("html_content", *patch.HTMLContent)
	}
	if patch.Variables != nil {
		stmt = stmt.Set("variables", *patch.Variables)
	}

	if _, err := r.store.execStatement(ctx, stmt); err != nil {
		return nil, err
	}
	return r.FindByIDOrSlug(ctx, userID, existing.ID)
}

// Delete removes the caller's template by id or slug. Missing rows are not an error.
func (r *TemplateRepo) Delete(ctx context.Context, userID, idOrSlug string) error {
	stmt := r.store.stmt.Delete(templatesTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Or{sq.Eq{"id": strings.ToLower(idOrSlug)}, sq.Eq{"slug": idOrSlug}})

	_, err := r.store.execStatement(ctx, stmt)
	return err
}

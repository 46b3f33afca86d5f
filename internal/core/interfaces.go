package core

import (
	"context"
	"time"

	"restinvoice/internal/query"
)

// TemplateRepository defines storage operations for templates. Every method is
// scoped to the owning user.
type TemplateRepository interface {
	List(ctx context.Context, userID string, opts ListOptions) (*query.Page[Template], error)
	FindByIDOrSlug(ctx context.Context, userID, idOrSlug string) (*Template, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, tpl *Template) error
	Update(ctx context.Context, userID, idOrSlug string, patch TemplatePatch, updatedAt int64) (*Template, error)
	Delete(ctx context.Context, userID, idOrSlug string) error
}

// ApiKeyRepository defines storage operations for api key metadata
type ApiKeyRepository interface {
	List(ctx context.Context, userID string, opts ListOptions) (*query.Page[ApiKey], error)
	Create(ctx context.Context, key *ApiKey) error
	Delete(ctx context.Context, userID, ref string) (bool, error)
}

// SecretStore keeps API key secrets outside the relational store.
type SecretStore interface {
	// PutIfAbsent stores value under key unless a live entry already holds it,
	// reporting whether the write happened. A nil expiresAt keeps the entry until
	// deleted; an expiresAt that is not in the future is rejected with ErrSecretStore.
	PutIfAbsent(ctx context.Context, key string, value []byte, expiresAt *time.Time) (bool, error)
	// Get returns ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// ListOptions are the caller-supplied paging and ordering parameters.
type ListOptions struct {
	Page    int
	PerPage int
	Sort    string
	Order   string
}

package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"restinvoice/internal/core"
	"restinvoice/internal/data"
	"restinvoice/internal/query"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func openTestStore(t *testing.T) *data.Store {
	t.Helper()
	store, err := data.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestAuth(secrets core.SecretStore) *AuthService {
	auth := NewAuthService(secrets, testJWTSecret, "test")
	auth.bcryptCost = bcrypt.MinCost
	return auth
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type mockApiKeyRepo struct {
	ListFunc   func(ctx context.Context, userID string, opts core.ListOptions) (*query.Page[core.ApiKey], error)
	CreateFunc func(ctx context.Context, key *core.ApiKey) error
	DeleteFunc func(ctx context.Context, userID, ref string) (bool, error)
}

func (m *mockApiKeyRepo) List(ctx context.Context, userID string, opts core.ListOptions) (*query.Page[core.ApiKey], error) {
	return m.ListFunc(ctx, userID, opts)
}

func (m *mockApiKeyRepo) Create(ctx context.Context, key *core.ApiKey) error {
	return m.CreateFunc(ctx, key)
}

func (m *mockApiKeyRepo) Delete(ctx context.Context, userID, ref string) (bool, error) {
	return m.DeleteFunc(ctx, userID, ref)
}

type mockTemplateRepo struct {
	core.TemplateRepository
	SlugExistsFunc func(ctx context.Context, slug string) (bool, error)
	CreateFunc     func(ctx context.Context, tpl *core.Template) error
}

func (m *mockTemplateRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return m.SlugExistsFunc(ctx, slug)
}

func (m *mockTemplateRepo) Create(ctx context.Context, tpl *core.Template) error {
	return m.CreateFunc(ctx, tpl)
}

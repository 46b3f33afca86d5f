package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restinvoice/internal/core"
	"restinvoice/internal/data"
)

func TestTemplateCreateFetchByIDAndSlug(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(data.NewTemplateRepo(openTestStore(t)))
	svc.now = fixedClock(time.Unix(1_768_780_800, 0))

	created, err := svc.Create(ctx, "user_1", NewTemplate{Name: "Modern Invoice", HTMLContent: "<p>{{x}}</p>"})
	require.NoError(t, err)
	assert.True(t, core.IsUUID(created.ID))
	assert.Regexp(t, slugPattern, created.Slug)
	assert.Equal(t, int64(1_768_780_800), created.CreatedAt)

	byID, err := svc.Get(ctx, "user_1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Modern Invoice", byID.Name)
	assert.Equal(t, "<p>{{x}}</p>", byID.HTMLContent)
	assert.Equal(t, "user_1", byID.UserID)

	bySlug, err := svc.Get(ctx, "user_1", created.Slug)
	require.NoError(t, err)
	assert.Equal(t, byID, bySlug)

	_, err = svc.Get(ctx, "user_2", created.Slug)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestTemplateCreateRetriesOnSlugConflict(t *testing.T) {
	attempts := 0
	repo := &mockTemplateRepo{
		SlugExistsFunc: func(context.Context, string) (bool, error) { return false, nil },
		CreateFunc: func(context.Context, *core.Template) error {
			attempts++
			if attempts == 1 {
				return core.ErrConflict
			}
			return nil
		},
	}
	svc := NewTemplateService(repo)

	tpl, err := svc.Create(context.Background(), "user_1", NewTemplate{Name: "x", HTMLContent: "y"})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NotNil(t, tpl.Variables)
}

func TestTemplateCreateGivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := &mockTemplateRepo{
		SlugExistsFunc: func(context.Context, string) (bool, error) { return false, nil },
		CreateFunc:     func(context.Context, *core.Template) error { return core.ErrConflict },
	}
	_, err := NewTemplateService(repo).Create(context.Background(), "user_1", NewTemplate{Name: "x", HTMLContent: "y"})
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestTemplateUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(data.NewTemplateRepo(openTestStore(t)))
	svc.now = fixedClock(time.Unix(100, 0))

	created, err := svc.Create(ctx, "user_1", NewTemplate{Name: "A", HTMLContent: "<p>a</p>"})
	require.NoError(t, err)

	svc.now = fixedClock(time.Unix(200, 0))
	html := "<p>b</p>"
	updated, err := svc.Update(ctx, "user_1", created.Slug, core.TemplatePatch{HTMLContent: &html})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Name)
	assert.Equal(t, html, updated.HTMLContent)
	assert.Equal(t, int64(200), updated.UpdatedAt)

	require.NoError(t, svc.Delete(ctx, "user_1", created.ID))
	require.NoError(t, svc.Delete(ctx, "user_1", created.ID))
	_, err = svc.Get(ctx, "user_1", created.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestTemplateRender(t *testing.T) {
	ctx := context.Background()
	svc := NewTemplateService(data.NewTemplateRepo(openTestStore(t)))

	created, err := svc.Create(ctx, "user_1", NewTemplate{
		Name:        "Greeting",
		HTMLContent: "<h1>{{title}}</h1><p>{{who}}</p>{{{raw}}}",
		Variables: core.Variables{
			"title": {Label: "Title", Type: "text", Value: "Hello"},
			"who":   {Label: "Who", Type: "text", Value: "world"},
		},
	})
	require.NoError(t, err)

	html, err := svc.Render(ctx, "user_1", created.Slug, map[string]any{"who": "<Ann>", "raw": "<hr>"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1><p>&lt;Ann&gt;</p><hr>", html)

	_, err = svc.Render(ctx, "user_2", created.Slug, nil)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSystemTemplates(t *testing.T) {
	svc := NewTemplateService(nil)
	system := svc.System()
	require.Len(t, system, 6)
	assert.Equal(t, "system-modern-01", system[0].ID)

	renderer := core.NewRenderer()
	for _, tpl := range system {
		assert.True(t, tpl.IsSystem)
		assert.NotEmpty(t, tpl.HTMLContent)
		for _, name := range renderer.Placeholders(tpl.HTMLContent) {
			assert.Contains(t, tpl.Variables, name, "%s uses %s", tpl.ID, name)
		}
	}
}

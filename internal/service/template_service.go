package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	"restinvoice/internal/core"
	"restinvoice/internal/logger"
	"restinvoice/internal/query"
)

// createAttempts bounds retries when a freshly generated slug or api key ref
// turns out to be taken.
const createAttempts = 3

// NewTemplate is the input of TemplateService.Create.
type NewTemplate struct {
	Name        string
	Description *string
	HTMLContent string
	Variables   core.Variables
}

type TemplateService struct {
	repo     core.TemplateRepository
	slugs    *SlugGenerator
	renderer *core.Renderer
	now      func() time.Time
}

func NewTemplateService(repo core.TemplateRepository) *TemplateService {
	return &TemplateService{
		repo:     repo,
		slugs:    NewSlugGenerator(),
		renderer: core.NewRenderer(),
		now:      time.Now,
	}
}

func (s *TemplateService) List(ctx context.Context, userID string, opts core.ListOptions) (*query.Page[core.Template], error) {
	return s.repo.List(ctx, userID, opts)
}

func (s *TemplateService) Get(ctx context.Context, userID, idOrSlug string) (*core.Template, error) {
	return s.repo.FindByIDOrSlug(ctx, userID, idOrSlug)
}

func (s *TemplateService) Create(ctx context.Context, userID string, in NewTemplate) (*core.Template, error) {
	if in.Variables == nil {
		in.Variables = core.Variables{}
	}

	var lastErr error
	for range createAttempts {
		slug, err := s.slugs.Unique(ctx, s.repo.SlugExists)
		if err != nil {
			return nil, err
		}
		id, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}

		now := s.now().Unix()
		tpl := &core.Template{
			ID:          id.String(),
			Slug:        slug,
			Name:        in.Name,
			Description: in.Description,
			UserID:      userID,
			HTMLContent: in.HTMLContent,
			Variables:   in.Variables,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		lastErr = s.repo.Create(ctx, tpl)
		if lastErr == nil {
			logger.Info.Printf("template %s (%s) created for user %s", tpl.ID, tpl.Slug, userID)
			return tpl, nil
		}
		if !errors.Is(lastErr, core.ErrConflict) {
			return nil, lastErr
		}
	}
	return nil, fmt.Errorf("could not allocate a unique slug: %w", lastErr)
}

func (s *TemplateService) Update(ctx context.Context, userID, idOrSlug string, patch core.TemplatePatch) (*core.Template, error) {
	return s.repo.Update(ctx, userID, idOrSlug, patch, s.now().Unix())
}

func (s *TemplateService) Delete(ctx context.Context, userID, idOrSlug string) error {
	return s.repo.Delete(ctx, userID, idOrSlug)
}

// Render fills the template's placeholders with its stored sample values,
// overridden by values.
func (s *TemplateService) Render(ctx context.Context, userID, idOrSlug string, values map[string]any) (string, error) {
	tpl, err := s.repo.FindByIDOrSlug(ctx, userID, idOrSlug)
	if err != nil {
		return "", err
	}
	merged := tpl.Variables.Values()
	for name, value := range values {
		merged[name] = value
	}
	return s.renderer.Render(tpl.HTMLContent, merged), nil
}

func (s *TemplateService) System() []core.SystemTemplate {
	return SystemTemplates()
}

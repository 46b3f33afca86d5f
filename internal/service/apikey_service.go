package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restinvoice/internal/core"
	"restinvoice/internal/logger"
	"restinvoice/internal/query"
)

const day = 24 * time.Hour

var expiryDurations = map[string]time.Duration{
	"7d":   7 * day,
	"30d":  30 * day,
	"60d":  60 * day,
	"90d":  90 * day,
	"180d": 180 * day,
	"1y":   365 * day,
}

// ParseExpiresIn maps an expires_in value to a lifetime. Empty and "never" mean no expiry.
func ParseExpiresIn(expiresIn string) (time.Duration, error) {
	if expiresIn == "" || expiresIn == "never" {
		return 0, nil
	}
	d, ok := expiryDurations[expiresIn]
	if !ok {
		return 0, fmt.Errorf("%w: expires_in must be one of 7d, 30d, 60d, 90d, 180d, 1y, never", core.ErrValidation)
	}
	return d, nil
}

type ApiKeyService struct {
	repo core.ApiKeyRepository
	auth *AuthService
	now  func() time.Time
}

func NewApiKeyService(repo core.ApiKeyRepository, auth *AuthService) *ApiKeyService {
	return &ApiKeyService{repo: repo, auth: auth, now: time.Now}
}

func (s *ApiKeyService) List(ctx context.Context, userID string, opts core.ListOptions) (*query.Page[core.ApiKey], error) {
	return s.repo.List(ctx, userID, opts)
}

// Create issues a key for userID. The secret is written before the metadata row;
// if the row cannot be written the secret is removed again.
func (s *ApiKeyService) Create(ctx context.Context, userID string, name *string, expiresIn string) (*core.CreatedApiKey, error) {
	lifetime, err := ParseExpiresIn(expiresIn)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var expiresAt *time.Time
	if lifetime > 0 {
		t := now.Add(lifetime)
		expiresAt = &t
	}

	var km *KeyMaterial
	for range createAttempts {
		km, err = s.auth.GenerateApiKey()
		if err != nil {
			return nil, err
		}
		err = s.auth.StoreSecret(ctx, km, userID, expiresAt)
		if !errors.Is(err, core.ErrConflict) {
			break
		}
		logger.Info.Printf("api key ref %s already in use, regenerating", km.Ref)
	}
	if err != nil {
		return nil, err
	}

	key := core.ApiKey{
		ID:        km.Ref,
		Ref:       km.Ref,
		UserID:    userID,
		Name:      name,
		CreatedAt: now.Unix(),
	}
	if expiresAt != nil {
		expiredAt := expiresAt.Unix()
		key.ExpiredAt = &expiredAt
	}

	if err := s.repo.Create(ctx, &key); err != nil {
		s.discardSecret(ctx, userID, km.Ref)
		return nil, err
	}

	logger.Info.Printf("api key %s created for user %s", km.Ref, userID)
	return &core.CreatedApiKey{ApiKey: key, Key: km.Key}, nil
}

// discardSecret removes the secret written for a key whose metadata row failed,
// provided the record under ref is still the caller's.
func (s *ApiKeyService) discardSecret(ctx context.Context, userID, ref string) {
	owner, err := s.auth.SecretOwner(ctx, ref)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			logger.Error.Printf("orphaned secret for api key %s: %v", ref, err)
		}
		return
	}
	if owner != userID {
		return
	}
	if err := s.auth.secrets.Delete(ctx, ref); err != nil {
		logger.Error.Printf("orphaned secret for api key %s: %v", ref, err)
	}
}

// Revoke deletes the caller's key. Keys that do not exist or belong to someone
// else are ignored. The secret goes first so a failed revoke can be retried
// without leaving a usable key behind.
func (s *ApiKeyService) Revoke(ctx context.Context, userID, ref string) error {
	owner, err := s.auth.SecretOwner(ctx, ref)
	switch {
	case errors.Is(err, core.ErrNotFound):
	case err != nil:
		return err
	case owner != userID:
		return nil
	default:
		if err := s.auth.secrets.Delete(ctx, ref); err != nil {
			return fmt.Errorf("%w: %v", core.ErrSecretStore, err)
		}
	}

	deleted, err := s.repo.Delete(ctx, userID, ref)
	if err != nil {
		return err
	}
	if deleted {
		logger.Info.Printf("api key %s revoked by user %s", ref, userID)
	}
	return nil
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"restinvoice/internal/core"
)

const (
	apiKeyPrefix = "riv"
	refBytes     = 4
	secretBytes  = 16
)

var apiKeyRegex = regexp.MustCompile(`^riv_(test|live)_([0-9a-f]{8})_([0-9a-f]{32})$`)

// KeyMaterial is a freshly generated API key. Key is the only form handed to the caller.
type KeyMaterial struct {
	Key    string
	Ref    string
	Secret string
}

// secretRecord is what the secret store holds for each ref.
type secretRecord struct {
	SecretHash string `json:"secret_hash"`
	UserID     string `json:"user_id"`
}

type AuthService struct {
	secrets    core.SecretStore
	jwtSecret  []byte
	env        string
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(secrets core.SecretStore, jwtSecret, env string) *AuthService {
	return &AuthService{
		secrets:    secrets,
		jwtSecret:  []byte(jwtSecret),
		env:        env,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// IssueToken signs an HS256 bearer token for userID. A ttl of zero never expires.
func (s *AuthService) IssueToken(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", core.ErrValidation)
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// VerifyToken returns the user id carried by a valid bearer token.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", core.ErrUnauthorized)
	}
	return claims.Subject, nil
}

// GenerateApiKey draws a new ref and secret from crypto/rand.
func (s *AuthService) GenerateApiKey() (*KeyMaterial, error) {
	ref, err := randomHex(refBytes)
	if err != nil {
		return nil, err
	}
	secret, err := randomHex(secretBytes)
	if err != nil {
		return nil, err
	}
	return &KeyMaterial{
		Key:    fmt.Sprintf("%s_%s_%s_%s", apiKeyPrefix, s.env, ref, secret),
		Ref:    ref,
		Secret: secret,
	}, nil
}

// ParseApiKey splits a full key into its ref and secret.
func ParseApiKey(key string) (ref, secret string, err error) {
	m := apiKeyRegex.FindStringSubmatch(key)
	if m == nil {
		return "", "", fmt.Errorf("%w: malformed api key", core.ErrUnauthorized)
	}
	return m[2], m[3], nil
}

// StoreSecret writes the hashed secret for km under its ref. A ref that is
// already held by another key is reported as ErrConflict and left untouched.
func (s *AuthService) StoreSecret(ctx context.Context, km *KeyMaterial, userID string, expiresAt *time.Time) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(km.Secret), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("%w: hash secret: %v", core.ErrSecretStore, err)
	}
	record, err := json.Marshal(secretRecord{SecretHash: string(hash), UserID: userID})
	if err != nil {
		return fmt.Errorf("%w: encode secret record: %v", core.ErrSecretStore, err)
	}
	stored, err := s.secrets.PutIfAbsent(ctx, km.Ref, record, expiresAt)
	if err != nil {
		return err
	}
	if !stored {
		return fmt.Errorf("%w: api key ref %s is taken", core.ErrConflict, km.Ref)
	}
	return nil
}

// VerifyApiKey resolves a full key to its owner. Every failure is ErrUnauthorized
// except secret store outages.
func (s *AuthService) VerifyApiKey(ctx context.Context, key string) (userID, ref string, err error) {
	ref, secret, err := ParseApiKey(key)
	if err != nil {
		return "", "", err
	}

	raw, err := s.secrets.Get(ctx, ref)
	if errors.Is(err, core.ErrNotFound) {
		return "", "", fmt.Errorf("%w: unknown api key", core.ErrUnauthorized)
	}
	if err != nil {
		return "", "", err
	}

	var record secretRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return "", "", fmt.Errorf("%w: corrupt secret record", core.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.SecretHash), []byte(secret)); err != nil {
		return "", "", fmt.Errorf("%w: invalid api key", core.ErrUnauthorized)
	}
	return record.UserID, ref, nil
}

// SecretOwner returns the user id recorded with the secret for ref.
func (s *AuthService) SecretOwner(ctx context.Context, ref string) (string, error) {
	raw, err := s.secrets.Get(ctx, ref)
	if err != nil {
		return "", err
	}
	var record secretRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return "", fmt.Errorf("%w: corrupt secret record for %s", core.ErrSecretStore, ref)
	}
	return record.UserID, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

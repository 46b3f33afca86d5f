package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restinvoice/internal/core"
	"restinvoice/internal/kv"
)

func TestGenerateApiKey(t *testing.T) {
	auth := newTestAuth(kv.NewMemoryStore())

	km, err := auth.GenerateApiKey()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^riv_test_[0-9a-f]{8}_[0-9a-f]{32}$`), km.Key)
	assert.Equal(t, "riv_test_"+km.Ref+"_"+km.Secret, km.Key)

	other, err := auth.GenerateApiKey()
	require.NoError(t, err)
	assert.NotEqual(t, km.Key, other.Key)
}

func TestParseApiKey(t *testing.T) {
	ref, secret, err := ParseApiKey("riv_live_0a1b2c3d_0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "0a1b2c3d", ref)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", secret)

	for _, bad := range []string{
		"",
		"riv_prod_0a1b2c3d_0123456789abcdef0123456789abcdef",
		"riv_test_0a1b2c3_0123456789abcdef0123456789abcdef",
		"riv_test_0a1b2c3d_0123456789ABCDEF0123456789abcdef",
		"xyz_test_0a1b2c3d_0123456789abcdef0123456789abcdef",
	} {
		_, _, err := ParseApiKey(bad)
		assert.ErrorIs(t, err, core.ErrUnauthorized, bad)
	}
}

func TestVerifyApiKey(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuth(kv.NewMemoryStore())

	km, err := auth.GenerateApiKey()
	require.NoError(t, err)
	require.NoError(t, auth.StoreSecret(ctx, km, "user_1", nil))

	userID, ref, err := auth.VerifyApiKey(ctx, km.Key)
	require.NoError(t, err)
	assert.Equal(t, "user_1", userID)
	assert.Equal(t, km.Ref, ref)

	forged := "riv_test_" + km.Ref + "_00000000000000000000000000000000"
	_, _, err = auth.VerifyApiKey(ctx, forged)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	unknown, err := auth.GenerateApiKey()
	require.NoError(t, err)
	_, _, err = auth.VerifyApiKey(ctx, unknown.Key)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestVerifyApiKeyExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_768_780_800, 0)
	auth := newTestAuth(kv.NewMemoryStoreWithClock(func() time.Time { return now }))

	km, err := auth.GenerateApiKey()
	require.NoError(t, err)
	expiresAt := now.Add(time.Hour)
	require.NoError(t, auth.StoreSecret(ctx, km, "user_1", &expiresAt))

	now = now.Add(time.Hour)
	_, _, err = auth.VerifyApiKey(ctx, km.Key)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	// A secret that would already be expired is refused instead of silently dropped.
	late, err := auth.GenerateApiKey()
	require.NoError(t, err)
	assert.ErrorIs(t, auth.StoreSecret(ctx, late, "user_1", &expiresAt), core.ErrSecretStore)
}

func TestStoreSecretRefTaken(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuth(kv.NewMemoryStore())

	km, err := auth.GenerateApiKey()
	require.NoError(t, err)
	require.NoError(t, auth.StoreSecret(ctx, km, "user_1", nil))

	clash := *km
	clash.Secret = "ffffffffffffffffffffffffffffffff"
	assert.ErrorIs(t, auth.StoreSecret(ctx, &clash, "user_2", nil), core.ErrConflict)

	userID, _, err := auth.VerifyApiKey(ctx, km.Key)
	require.NoError(t, err)
	assert.Equal(t, "user_1", userID)
}

func TestTokens(t *testing.T) {
	auth := newTestAuth(kv.NewMemoryStore())
	now := time.Now()
	auth.now = fixedClock(now)

	token, err := auth.IssueToken("user_1", time.Hour)
	require.NoError(t, err)

	userID, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", userID)

	auth.now = fixedClock(now.Add(2 * time.Hour))
	_, err = auth.VerifyToken(token)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	other := NewAuthService(kv.NewMemoryStore(), "another-secret-another-secret-xx", "test")
	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = auth.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = auth.IssueToken("", time.Hour)
	assert.ErrorIs(t, err, core.ErrValidation)
}

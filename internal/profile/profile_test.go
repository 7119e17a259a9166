package profile

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/wth/internal/keyring"
	"github.com/julianstephens/wth/internal/models"
	"github.com/julianstephens/wth/internal/storage"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, tier string, secret string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		Tier: tier,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func newTestService(t *testing.T, opts ...Option) (*Service, *storage.RecordStore) {
	t.Helper()
	gokeyring.MockInit()
	store := storage.NewRecordStore(storage.NewMemoryStore())
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(store, opts...), store
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Tier
		wantErr bool
	}{
		{"Varsity", models.TierVarsity, false},
		{"crucible", models.TierCrucible, false},
		{" LEGENDARY ", models.TierLegendary, false},
		{"gold", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrUnknownTier, tt.in)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestResolveDefault(t *testing.T) {
	svc, store := newTestService(t)
	settings := store.LoadSettings(context.Background())
	settings.ProfileTier = ""
	store.SaveSettings(context.Background(), settings)

	res, err := svc.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, Resolution{Tier: models.TierFreshman, Source: SourceDefault}, res)
}

func TestResolveOverride(t *testing.T) {
	svc, _ := newTestService(t, WithOverride("elite"))
	res, err := svc.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, Resolution{Tier: models.TierElite, Source: SourceOverride}, res)

	bad, _ := newTestService(t, WithOverride("platinum"))
	_, err = bad.Tier(context.Background())
	require.ErrorIs(t, err, ErrUnknownTier)
}

func TestResolveTokenRefreshesCache(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	require.NoError(t, keyring.SetProfileToken(signToken(t, "Varsity", "anything", testNow.Add(time.Hour))))

	res, err := svc.Resolve(ctx)
	require.NoError(t, err)
	require.Equal(t, Resolution{Tier: models.TierVarsity, Source: SourceToken}, res)
	require.Equal(t, "Varsity", store.LoadSettings(ctx).ProfileTier)

	// Without the token the cached value is used.
	require.NoError(t, svc.ClearToken())
	res, err = svc.Resolve(ctx)
	require.NoError(t, err)
	require.Equal(t, Resolution{Tier: models.TierVarsity, Source: SourceCache}, res)

	require.NoError(t, svc.ClearToken(), "clearing twice is fine")
}

func TestParseTokenWithSecret(t *testing.T) {
	svc, _ := newTestService(t, WithSecret("s3cret"))

	claims, err := svc.ParseToken(signToken(t, "Crucible", "s3cret", testNow.Add(time.Hour)))
	require.NoError(t, err)
	require.Equal(t, "Crucible", claims.Tier)

	_, err = svc.ParseToken(signToken(t, "Crucible", "wrong", testNow.Add(time.Hour)))
	require.Error(t, err)

	_, err = svc.ParseToken(signToken(t, "Crucible", "s3cret", testNow.Add(-time.Hour)))
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenUnverified(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ParseToken(signToken(t, "Elite", "x", testNow.Add(-time.Minute)))
	require.ErrorIs(t, err, ErrTokenExpired)

	_, err = svc.ParseToken(signToken(t, "", "x", testNow.Add(time.Hour)))
	require.ErrorIs(t, err, ErrNoTierClaim)

	_, err = svc.ParseToken("not-a-token")
	require.Error(t, err)
}

func TestInvalidTokenFallsThrough(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, WithSecret("s3cret"))
	settings := store.LoadSettings(ctx)
	settings.ProfileTier = "Elite"
	store.SaveSettings(ctx, settings)
	require.NoError(t, keyring.SetProfileToken(signToken(t, "Legendary", "forged", testNow.Add(time.Hour))))

	res, err := svc.Resolve(ctx)
	require.NoError(t, err)
	require.Equal(t, Resolution{Tier: models.TierElite, Source: SourceCache}, res)
}

func TestSaveToken(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	tier, err := svc.SaveToken(ctx, signToken(t, "varsity", "k", testNow.Add(time.Hour)))
	require.NoError(t, err)
	require.Equal(t, models.TierVarsity, tier)
	require.Equal(t, "Varsity", store.LoadSettings(ctx).ProfileTier)

	_, err = svc.SaveToken(ctx, signToken(t, "gold", "k", testNow.Add(time.Hour)))
	require.ErrorIs(t, err, ErrUnknownTier)
}

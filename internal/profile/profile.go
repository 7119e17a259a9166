// Package profile resolves the user's subscription tier.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/wth/internal/keyring"
	"github.com/julianstephens/wth/internal/logger"
	"github.com/julianstephens/wth/internal/models"
)

// EnvProfileSecret holds the HMAC key used to verify profile tokens.
const EnvProfileSecret = "WTH_PROFILE_SECRET"

var (
	ErrUnknownTier  = errors.New("unknown tier")
	ErrTokenExpired = errors.New("profile token expired")
	ErrNoTierClaim  = errors.New("profile token has no tier claim")
)

// Source names where a resolved tier came from.
type Source string

const (
	SourceOverride Source = "override"
	SourceToken    Source = "token"
	SourceCache    Source = "cache"
	SourceDefault  Source = "default"
)

// Claims is the payload of a profile token.
type Claims struct {
	Tier string `json:"tier"`
	jwt.RegisteredClaims
}

// Resolution is a resolved tier and its source.
type Resolution struct {
	Tier   models.Tier
	Source Source
}

// SettingsStore persists the cached tier.
type SettingsStore interface {
	LoadSettings(ctx context.Context) models.Settings
	SaveSettings(ctx context.Context, settings models.Settings)
}

type Option func(*Service)

// WithOverride pins the tier, e.g. from --tier.
func WithOverride(tier string) Option {
	return func(s *Service) {
		s.override = tier
	}
}

// WithSecret enables HMAC verification of profile tokens.
func WithSecret(secret string) Option {
	return func(s *Service) {
		if secret != "" {
			s.secret = []byte(secret)
		}
	}
}

// WithTokenSource replaces the keyring lookup.
func WithTokenSource(fn func() (string, error)) Option {
	return func(s *Service) {
		s.token = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	store    SettingsStore
	override string
	secret   []byte
	token    func() (string, error)
	now      func() time.Time
}

func NewService(store SettingsStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		token: keyring.GetProfileToken,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseTier matches name against the known tiers, ignoring case.
func ParseTier(name string) (models.Tier, error) {
	name = strings.TrimSpace(name)
	for _, t := range models.Tiers() {
		if strings.EqualFold(string(t), name) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, name)
}

// Tier returns the current tier.
func (s *Service) Tier(ctx context.Context) (models.Tier, error) {
	res, err := s.Resolve(ctx)
	return res.Tier, err
}

// Resolve checks the override, the keyring token, the cached setting and
// finally falls back to Freshman. A tier read from the token refreshes the cache.
func (s *Service) Resolve(ctx context.Context) (Resolution, error) {
	if s.override != "" {
		tier, err := ParseTier(s.override)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Tier: tier, Source: SourceOverride}, nil
	}

	if tier, ok := s.fromToken(); ok {
		s.refreshCache(ctx, tier)
		return Resolution{Tier: tier, Source: SourceToken}, nil
	}

	if s.store != nil {
		cached := s.store.LoadSettings(ctx).ProfileTier
		if tier, err := ParseTier(cached); err == nil {
			return Resolution{Tier: tier, Source: SourceCache}, nil
		}
	}

	return Resolution{Tier: models.TierFreshman, Source: SourceDefault}, nil
}

func (s *Service) fromToken() (models.Tier, bool) {
	raw, err := s.token()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Profile token unavailable", "error", err)
		}
		return "", false
	}
	claims, err := s.ParseToken(raw)
	if err != nil {
		logger.Warn("Ignoring profile token", "error", err)
		return "", false
	}
	tier, err := ParseTier(claims.Tier)
	if err != nil {
		logger.Warn("Ignoring profile token", "error", err)
		return "", false
	}
	return tier, true
}

// ParseToken decodes a profile token. Without a secret the signature is not
// checked; the token is a local copy of the remote profile.
func (s *Service) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	if s.secret != nil {
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}), jwt.WithTimeFunc(s.now))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, ErrTokenExpired
			}
			return nil, fmt.Errorf("invalid profile token: %w", err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
			return nil, fmt.Errorf("invalid profile token: %w", err)
		}
		if claims.ExpiresAt != nil && !s.now().Before(claims.ExpiresAt.Time) {
			return nil, ErrTokenExpired
		}
	}
	if claims.Tier == "" {
		return nil, ErrNoTierClaim
	}
	return claims, nil
}

func (s *Service) refreshCache(ctx context.Context, tier models.Tier) {
	if s.store == nil {
		return
	}
	settings := s.store.LoadSettings(ctx)
	if settings.ProfileTier == string(tier) {
		return
	}
	settings.ProfileTier = string(tier)
	s.store.SaveSettings(ctx, settings)
}

// SaveToken validates raw and stores it in the keyring.
func (s *Service) SaveToken(ctx context.Context, raw string) (models.Tier, error) {
	claims, err := s.ParseToken(raw)
	if err != nil {
		return "", err
	}
	tier, err := ParseTier(claims.Tier)
	if err != nil {
		return "", err
	}
	if err := keyring.SetProfileToken(raw); err != nil {
		return "", err
	}
	s.refreshCache(ctx, tier)
	return tier, nil
}

// ClearToken removes the stored token. A missing token is not an error.
func (s *Service) ClearToken() error {
	if err := keyring.DeleteProfileToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
)

const (
	// DefaultTokenTTL is the lifetime of issued membership access tokens.
	DefaultTokenTTL = time.Hour
	// DefaultScope is the scope reported for issued grants.
	DefaultScope    = "identity campaigns"
	tokenTypeBearer = "Bearer"
)

// MembershipService issues fixture OAuth grants and resolves profiles for them.
type MembershipService struct {
	store    ports.MembershipStore
	ttl      time.Duration
	scope    string
	now      func() time.Time
	newToken func() string
}

// NewMembershipService constructs a membership service. Zero ttl or empty scope fall back to defaults.
func NewMembershipService(store ports.MembershipStore, ttl time.Duration, scope string) *MembershipService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if strings.TrimSpace(scope) == "" {
		scope = DefaultScope
	}
	return &MembershipService{
		store:    store,
		ttl:      ttl,
		scope:    scope,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// ExchangeCode trades an authorization code for a grant on the default profile. Any non-empty
// code is accepted; an optional redirect URI must be absolute.
func (s *MembershipService) ExchangeCode(ctx context.Context, code, redirectURI string) (ports.MembershipGrant, error) {
	if strings.TrimSpace(code) == "" {
		return ports.MembershipGrant{}, fmt.Errorf("%w: authorization code is required", ErrInvalidGrant)
	}
	if redirectURI = strings.TrimSpace(redirectURI); redirectURI != "" {
		parsed, err := url.Parse(redirectURI)
		if err != nil || !parsed.IsAbs() {
			return ports.MembershipGrant{}, fmt.Errorf("%w: redirect uri must be absolute", ErrInvalidGrant)
		}
	}

	profile, err := s.store.GetDefaultProfile(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.MembershipGrant{}, fmt.Errorf("%w: no membership profile available", ErrInvalidGrant)
		}
		return ports.MembershipGrant{}, err
	}

	issuedAt := s.now().UTC().Truncate(time.Second)
	grant := ports.MembershipGrant{
		AccessToken:  s.newToken(),
		RefreshToken: s.newToken(),
		ProfileID:    profile.ID,
		Scope:        s.scope,
		TokenType:    tokenTypeBearer,
		IssuedAt:     issuedAt,
		ExpiresAt:    issuedAt.Add(s.ttl),
	}
	if err := s.store.CreateGrant(ctx, grant); err != nil {
		return ports.MembershipGrant{}, fmt.Errorf("store grant: %w", err)
	}
	return grant, nil
}

// ExpiresIn reports the grant lifetime in whole seconds.
func (s *MembershipService) ExpiresIn() int {
	return int(s.ttl / time.Second)
}

// Profile resolves the profile behind a live access token.
func (s *MembershipService) Profile(ctx context.Context, accessToken string) (ports.MembershipProfile, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return ports.MembershipProfile{}, ErrInvalidAccessToken
	}
	profile, expiresAt, err := s.store.GetProfileByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.MembershipProfile{}, ErrInvalidAccessToken
		}
		return ports.MembershipProfile{}, err
	}
	if !s.now().Before(expiresAt) {
		return ports.MembershipProfile{}, fmt.Errorf("%w: token expired", ErrInvalidAccessToken)
	}
	return profile, nil
}

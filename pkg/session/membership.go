package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fr0stylo/supportdeck/pkg/gateway"
)

// MembershipGateway is the part of the gateway a membership connect needs.
type MembershipGateway interface {
	ExchangeAuthCode(ctx context.Context, code, redirectURI string) (gateway.Tokens, error)
	FetchProfile(ctx context.Context, accessToken string) (gateway.MembershipProfile, error)
}

// AuthCodeSource yields the authorization code the user granted on the membership platform.
type AuthCodeSource interface {
	AuthCode(ctx context.Context) (string, error)
}

// StaticAuthCode is an AuthCodeSource that always returns the same code.
type StaticAuthCode string

// AuthCode returns the code.
func (c StaticAuthCode) AuthCode(context.Context) (string, error) {
	code := strings.TrimSpace(string(c))
	if code == "" {
		return "", errors.New("authorization code is empty")
	}
	return code, nil
}

// Membership is the membership-platform session.
type Membership = Session[gateway.MembershipProfile]

// MembershipConnector exchanges an authorization code and then fetches the profile.
type MembershipConnector struct {
	Gateway     MembershipGateway
	Codes       AuthCodeSource
	RedirectURI string
}

// Connect runs code exchange followed by profile fetch.
func (c MembershipConnector) Connect(ctx context.Context) (gateway.MembershipProfile, error) {
	if c.Gateway == nil || c.Codes == nil {
		return gateway.MembershipProfile{}, errors.New("membership connector is not configured")
	}
	code, err := c.Codes.AuthCode(ctx)
	if err != nil {
		return gateway.MembershipProfile{}, fmt.Errorf("obtain authorization code: %w", err)
	}
	tokens, err := c.Gateway.ExchangeAuthCode(ctx, code, c.RedirectURI)
	if err != nil {
		return gateway.MembershipProfile{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	profile, err := c.Gateway.FetchProfile(ctx, tokens.AccessToken)
	if err != nil {
		return gateway.MembershipProfile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return profile, nil
}

// NewMembership builds a membership session.
func NewMembership(gw MembershipGateway, codes AuthCodeSource, redirectURI string, opts ...Option) *Membership {
	connector := MembershipConnector{Gateway: gw, Codes: codes, RedirectURI: redirectURI}
	opts = append([]Option{WithName("membership platform")}, opts...)
	return New[gateway.MembershipProfile](connector, func(p gateway.MembershipProfile) string {
		return "Successfully connected as " + p.DisplayName
	}, opts...)
}

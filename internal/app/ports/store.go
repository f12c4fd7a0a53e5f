package ports

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by stores when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// MembershipStore holds fixture profiles and issued grants.
type MembershipStore interface {
	GetDefaultProfile(ctx context.Context) (MembershipProfile, error)
	CreateGrant(ctx context.Context, grant MembershipGrant) error
	GetProfileByAccessToken(ctx context.Context, accessToken string) (MembershipProfile, time.Time, error)
}

// SupporterStore holds the creator's supporter list and aggregate stats.
type SupporterStore interface {
	ListSupporters(ctx context.Context) ([]Supporter, error)
	GetCreatorStats(ctx context.Context) (CreatorStats, error)
}

// PaymentStore records intents for idempotent replay.
type PaymentStore interface {
	GetIntentByIdempotencyKey(ctx context.Context, key string) (PaymentIntentRecord, error)
	RecordIntent(ctx context.Context, intent PaymentIntentRecord) error
}

// MembershipProfile is an app-level membership profile.
type MembershipProfile struct {
	ID               string
	DisplayName      string
	Email            string
	IsMember         bool
	MembershipStatus string
}

// MembershipGrant is one issued access/refresh token pair.
type MembershipGrant struct {
	AccessToken  string
	RefreshToken string
	ProfileID    string
	Scope        string
	TokenType    string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// Supporter is one tip-jar supporter in display order.
type Supporter struct {
	Name    string
	Amount  decimal.Decimal
	Email   string
	Message string
}

// CreatorStats is the tip-jar aggregate.
type CreatorStats struct {
	TotalSupporters    int64
	TotalContributions int64
	TotalRevenue       decimal.Decimal
}

// PaymentIntentRecord is a stored payment intent.
type PaymentIntentRecord struct {
	ID               string
	ClientSecret     string
	AmountMinorUnits int64
	Currency         string
	Description      string
	IdempotencyKey   string
	Provider         string
	Status           string
}

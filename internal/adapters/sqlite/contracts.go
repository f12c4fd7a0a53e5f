package sqlite

import (
	"context"
	"time"

	"github.com/fr0stylo/supportdeck/internal/db/queries"
)

type storeDatabase interface {
	GetDefaultMembershipProfile(ctx context.Context) (queries.MembershipProfile, error)
	CreateMembershipGrant(ctx context.Context, params queries.CreateMembershipGrantParams) (queries.MembershipGrant, error)
	GetProfileByAccessToken(ctx context.Context, accessToken string) (queries.GetProfileByAccessTokenRow, error)
	PurgeExpiredMembershipGrants(ctx context.Context, now time.Time) error

	ListSupporters(ctx context.Context) ([]queries.Supporter, error)
	GetCreatorStats(ctx context.Context) (queries.CreatorStat, error)

	CreatePaymentIntent(ctx context.Context, params queries.CreatePaymentIntentParams) (queries.PaymentIntent, error)
	GetPaymentIntentByIdempotencyKey(ctx context.Context, key string) (queries.PaymentIntent, error)

	AppendWebhookEvent(ctx context.Context, params queries.AppendWebhookEventParams) error
	ListWebhookEventsByProvider(ctx context.Context, provider string, limit int64) ([]queries.WebhookEvent, error)
}

package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/fr0stylo/supportdeck/internal/db/queries"
)

// GetDefaultMembershipProfile returns the profile fixture grants are issued for.
func (c *Database) GetDefaultMembershipProfile(ctx context.Context) (queries.MembershipProfile, error) {
	return c.Queries.GetDefaultMembershipProfile(ctx)
}

// CreateMembershipGrant stores an issued token pair.
func (c *Database) CreateMembershipGrant(ctx context.Context, params queries.CreateMembershipGrantParams) (queries.MembershipGrant, error) {
	return c.Queries.CreateMembershipGrant(ctx, params)
}

// GetProfileByAccessToken resolves the profile behind an access token.
func (c *Database) GetProfileByAccessToken(ctx context.Context, accessToken string) (queries.GetProfileByAccessTokenRow, error) {
	return c.Queries.GetProfileByAccessToken(ctx, accessToken)
}

// PurgeExpiredMembershipGrants deletes grants that expired before now.
func (c *Database) PurgeExpiredMembershipGrants(ctx context.Context, now time.Time) error {
	return c.Queries.DeleteExpiredMembershipGrants(ctx, now.UTC().Format(time.RFC3339))
}

// ListSupporters returns supporters in display order.
func (c *Database) ListSupporters(ctx context.Context) ([]queries.Supporter, error) {
	return c.Queries.ListSupporters(ctx)
}

// GetCreatorStats returns the creator aggregate row.
func (c *Database) GetCreatorStats(ctx context.Context) (queries.CreatorStat, error) {
	return c.Queries.GetCreatorStats(ctx)
}

// CreatePaymentIntent records a created intent.
func (c *Database) CreatePaymentIntent(ctx context.Context, params queries.CreatePaymentIntentParams) (queries.PaymentIntent, error) {
	return c.Queries.CreatePaymentIntent(ctx, params)
}

// GetPaymentIntentByIdempotencyKey finds the intent created for a client idempotency key.
func (c *Database) GetPaymentIntentByIdempotencyKey(ctx context.Context, key string) (queries.PaymentIntent, error) {
	return c.Queries.GetPaymentIntentByIdempotencyKey(ctx, sql.NullString{String: key, Valid: key != ""})
}

// GetPaymentIntent fetches one intent by id.
func (c *Database) GetPaymentIntent(ctx context.Context, id string) (queries.PaymentIntent, error) {
	return c.Queries.GetPaymentIntent(ctx, id)
}

// UpdatePaymentIntentStatus sets the provider status of an intent.
func (c *Database) UpdatePaymentIntentStatus(ctx context.Context, id, status string) error {
	return c.Queries.UpdatePaymentIntentStatus(ctx, queries.UpdatePaymentIntentStatusParams{Status: status, ID: id})
}

// AppendWebhookEvent stores one received webhook. Duplicate event ids are ignored.
func (c *Database) AppendWebhookEvent(ctx context.Context, params queries.AppendWebhookEventParams) error {
	return c.Queries.AppendWebhookEvent(ctx, params)
}

// ListWebhookEventsByProvider returns the newest events first.
func (c *Database) ListWebhookEventsByProvider(ctx context.Context, provider string, limit int64) ([]queries.WebhookEvent, error) {
	return c.Queries.ListWebhookEventsByProvider(ctx, queries.ListWebhookEventsByProviderParams{Provider: provider, Limit: limit})
}

// WithTx runs a function within a transaction.
func (c *Database) WithTx(ctx context.Context, fn func(*queries.Queries) error) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(c.Queries.WithTx(tx)); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}
	return tx.Commit()
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
	"github.com/fr0stylo/supportdeck/internal/db"
	"github.com/fr0stylo/supportdeck/internal/db/queries"
)

// Store adapts the sqlc-backed database to the application ports.
type Store struct {
	database storeDatabase
}

// NewStore wraps an open database.
func NewStore(database *db.Database) *Store {
	return &Store{database: database}
}

var (
	_ ports.MembershipStore   = (*Store)(nil)
	_ ports.SupporterStore    = (*Store)(nil)
	_ ports.PaymentStore      = (*Store)(nil)
	_ ports.WebhookEventStore = (*Store)(nil)
)

// GetDefaultProfile returns the profile fixture grants are issued for.
func (s *Store) GetDefaultProfile(ctx context.Context) (ports.MembershipProfile, error) {
	row, err := s.database.GetDefaultMembershipProfile(ctx)
	if err != nil {
		return ports.MembershipProfile{}, notFound(err)
	}
	return ports.MembershipProfile{
		ID:               row.ID,
		DisplayName:      row.DisplayName,
		Email:            nullString(row.Email),
		IsMember:         row.IsMember != 0,
		MembershipStatus: nullString(row.MembershipStatus),
	}, nil
}

// CreateGrant stores an issued token pair and drops grants that expired before it was issued.
func (s *Store) CreateGrant(ctx context.Context, grant ports.MembershipGrant) error {
	cutoff := grant.IssuedAt
	if cutoff.IsZero() {
		cutoff = time.Now()
	}
	if err := s.database.PurgeExpiredMembershipGrants(ctx, cutoff); err != nil {
		return fmt.Errorf("purge expired grants: %w", err)
	}
	_, err := s.database.CreateMembershipGrant(ctx, queries.CreateMembershipGrantParams{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ProfileID:    grant.ProfileID,
		Scope:        grant.Scope,
		TokenType:    grant.TokenType,
		ExpiresAt:    grant.ExpiresAt.UTC().Format(time.RFC3339),
	})
	return err
}

// GetProfileByAccessToken resolves the profile behind a token and the token's expiry.
func (s *Store) GetProfileByAccessToken(ctx context.Context, accessToken string) (ports.MembershipProfile, time.Time, error) {
	row, err := s.database.GetProfileByAccessToken(ctx, accessToken)
	if err != nil {
		return ports.MembershipProfile{}, time.Time{}, notFound(err)
	}
	expiresAt, err := time.Parse(time.RFC3339, row.ExpiresAt)
	if err != nil {
		return ports.MembershipProfile{}, time.Time{}, fmt.Errorf("parse grant expiry: %w", err)
	}
	return ports.MembershipProfile{
		ID:               row.ID,
		DisplayName:      row.DisplayName,
		Email:            nullString(row.Email),
		IsMember:         row.IsMember != 0,
		MembershipStatus: nullString(row.MembershipStatus),
	}, expiresAt, nil
}

// ListSupporters returns supporters in display order.
func (s *Store) ListSupporters(ctx context.Context) ([]ports.Supporter, error) {
	rows, err := s.database.ListSupporters(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.Supporter, 0, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount for supporter %d: %w", row.ID, err)
		}
		out = append(out, ports.Supporter{
			Name:    row.Name,
			Amount:  amount,
			Email:   nullString(row.Email),
			Message: nullString(row.Message),
		})
	}
	return out, nil
}

// GetCreatorStats returns the tip-jar aggregate.
func (s *Store) GetCreatorStats(ctx context.Context) (ports.CreatorStats, error) {
	row, err := s.database.GetCreatorStats(ctx)
	if err != nil {
		return ports.CreatorStats{}, notFound(err)
	}
	revenue, err := decimal.NewFromString(row.TotalRevenue)
	if err != nil {
		return ports.CreatorStats{}, fmt.Errorf("parse total revenue: %w", err)
	}
	return ports.CreatorStats{
		TotalSupporters:    row.TotalSupporters,
		TotalContributions: row.TotalContributions,
		TotalRevenue:       revenue,
	}, nil
}

// GetIntentByIdempotencyKey finds the intent created for a client key.
func (s *Store) GetIntentByIdempotencyKey(ctx context.Context, key string) (ports.PaymentIntentRecord, error) {
	row, err := s.database.GetPaymentIntentByIdempotencyKey(ctx, key)
	if err != nil {
		return ports.PaymentIntentRecord{}, notFound(err)
	}
	return mapPaymentIntent(row), nil
}

// RecordIntent stores a created intent.
func (s *Store) RecordIntent(ctx context.Context, intent ports.PaymentIntentRecord) error {
	_, err := s.database.CreatePaymentIntent(ctx, queries.CreatePaymentIntentParams{
		ID:             intent.ID,
		ClientSecret:   intent.ClientSecret,
		AmountMinor:    intent.AmountMinorUnits,
		Currency:       intent.Currency,
		Description:    toNullString(intent.Description),
		IdempotencyKey: toNullString(intent.IdempotencyKey),
		Provider:       intent.Provider,
		Status:         intent.Status,
	})
	return err
}

func mapPaymentIntent(row queries.PaymentIntent) ports.PaymentIntentRecord {
	return ports.PaymentIntentRecord{
		ID:               row.ID,
		ClientSecret:     row.ClientSecret,
		AmountMinorUnits: row.AmountMinor,
		Currency:         row.Currency,
		Description:      nullString(row.Description),
		IdempotencyKey:   nullString(row.IdempotencyKey),
		Provider:         row.Provider,
		Status:           row.Status,
	}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ports.ErrNotFound
	}
	return err
}

func nullString(value sql.NullString) string {
	if value.Valid {
		return value.String
	}
	return ""
}

func toNullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

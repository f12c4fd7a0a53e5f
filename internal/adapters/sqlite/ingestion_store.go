package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
	"github.com/fr0stylo/supportdeck/internal/db/queries"
)

// AppendWebhookEvent stores one received webhook event.
func (s *Store) AppendWebhookEvent(ctx context.Context, event ports.WebhookEventRecord) error {
	return s.database.AppendWebhookEvent(ctx, queries.AppendWebhookEventParams{
		EventID:      event.EventID,
		Provider:     event.Provider,
		EventType:    event.EventType,
		EventSource:  event.EventSource,
		ReceivedAt:   event.ReceivedAt.UTC().Format(time.RFC3339Nano),
		RawEventJson: event.RawEventJSON,
	})
}

// ListWebhookEvents returns the newest events for a provider first.
func (s *Store) ListWebhookEvents(ctx context.Context, provider string, limit int64) ([]ports.WebhookEventRecord, error) {
	rows, err := s.database.ListWebhookEventsByProvider(ctx, provider, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ports.WebhookEventRecord, 0, len(rows))
	for _, row := range rows {
		receivedAt, err := time.Parse(time.RFC3339Nano, row.ReceivedAt)
		if err != nil {
			return nil, fmt.Errorf("parse received_at for event %s: %w", row.EventID, err)
		}
		out = append(out, ports.WebhookEventRecord{
			EventID:      row.EventID,
			Provider:     row.Provider,
			EventType:    row.EventType,
			EventSource:  row.EventSource,
			ReceivedAt:   receivedAt,
			RawEventJSON: row.RawEventJson,
		})
	}
	return out, nil
}

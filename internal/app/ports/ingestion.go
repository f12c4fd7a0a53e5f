package ports

import (
	"context"
	"time"
)

// WebhookEventStore is the storage contract needed by webhook ingestion.
type WebhookEventStore interface {
	AppendWebhookEvent(ctx context.Context, event WebhookEventRecord) error
	ListWebhookEvents(ctx context.Context, provider string, limit int64) ([]WebhookEventRecord, error)
}

// WebhookEventRecord is one received webhook wrapped as a CloudEvent.
type WebhookEventRecord struct {
	EventID      string
	Provider     string
	EventType    string
	EventSource  string
	ReceivedAt   time.Time
	RawEventJSON string
}

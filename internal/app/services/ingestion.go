package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cebinding "github.com/cloudevents/sdk-go/v2/binding"
	ceevent "github.com/cloudevents/sdk-go/v2/event"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"github.com/google/uuid"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
)

const (
	// EventTypeHeader lets a sender name the event type when the payload carries none.
	EventTypeHeader = "X-Event-Type"
	eventTypePrefix = "com.supportdeck."
	fallbackType    = "received"
)

// WebhookProviders lists the providers the gateway accepts webhooks for.
var WebhookProviders = []string{"stripe", "membership", "tipjar"}

// WebhookIngestService records webhook deliveries as CloudEvents without verifying signatures.
type WebhookIngestService struct {
	store ports.WebhookEventStore
	now   func() time.Time
	newID func() string
}

// WebhookIngestCommand is transport-agnostic webhook input.
type WebhookIngestCommand struct {
	Provider string
	Headers  http.Header
	Body     []byte
}

// NewWebhookIngestService constructs a webhook ingestion service.
func NewWebhookIngestService(store ports.WebhookEventStore) *WebhookIngestService {
	return &WebhookIngestService{store: store, now: time.Now, newID: uuid.NewString}
}

// Ingest normalizes one delivery to a CloudEvent and appends it to the event log. Requests that
// already are CloudEvents (binary or structured mode) keep their id and type; plain JSON payloads
// are wrapped.
func (s *WebhookIngestService) Ingest(ctx context.Context, cmd WebhookIngestCommand) (ports.WebhookEventRecord, error) {
	provider := strings.ToLower(strings.TrimSpace(cmd.Provider))
	if !knownProvider(provider) {
		return ports.WebhookEventRecord{}, fmt.Errorf("%w: %q", ErrUnknownProvider, cmd.Provider)
	}
	if len(bytes.TrimSpace(cmd.Body)) == 0 {
		return ports.WebhookEventRecord{}, fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}

	var (
		event *ceevent.Event
		err   error
	)
	if isCloudEvent(cmd.Headers) {
		event, err = parseCloudEvent(ctx, cmd.Headers, cmd.Body)
	} else {
		event, err = s.wrapPayload(provider, cmd.Headers, cmd.Body)
	}
	if err != nil {
		return ports.WebhookEventRecord{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := event.Validate(); err != nil {
		return ports.WebhookEventRecord{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return ports.WebhookEventRecord{}, err
	}

	record := ports.WebhookEventRecord{
		EventID:      event.ID(),
		Provider:     provider,
		EventType:    event.Type(),
		EventSource:  event.Source(),
		ReceivedAt:   s.now().UTC(),
		RawEventJSON: string(raw),
	}
	if err := s.store.AppendWebhookEvent(ctx, record); err != nil {
		return ports.WebhookEventRecord{}, err
	}
	return record, nil
}

// Recent returns the newest recorded events for a provider.
func (s *WebhookIngestService) Recent(ctx context.Context, provider string, limit int64) ([]ports.WebhookEventRecord, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !knownProvider(provider) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListWebhookEvents(ctx, provider, limit)
}

func (s *WebhookIngestService) wrapPayload(provider string, headers http.Header, body []byte) (*ceevent.Event, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode json object: %w", err)
	}

	id, _ := payload["id"].(string)
	if strings.TrimSpace(id) == "" {
		id = s.newID()
	}

	event := ceevent.New()
	event.SetID(id)
	event.SetSource("/webhooks/" + provider)
	event.SetType(eventTypePrefix + provider + "." + payloadType(headers, payload))
	event.SetTime(s.now().UTC())
	if err := event.SetData(ceevent.ApplicationJSON, json.RawMessage(body)); err != nil {
		return nil, err
	}
	return &event, nil
}

func payloadType(headers http.Header, payload map[string]any) string {
	candidates := []string{headers.Get(EventTypeHeader)}
	for _, key := range []string{"type", "event"} {
		if value, ok := payload[key].(string); ok {
			candidates = append(candidates, value)
		}
	}
	for _, candidate := range candidates {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		candidate = strings.NewReplacer(":", ".", " ", "_", "/", ".").Replace(candidate)
		if candidate != "" {
			return candidate
		}
	}
	return fallbackType
}

func isCloudEvent(headers http.Header) bool {
	if headers == nil {
		return false
	}
	if headers.Get("Ce-Specversion") != "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(headers.Get("Content-Type")), "application/cloudevents+json")
}

func parseCloudEvent(ctx context.Context, headers http.Header, body []byte) (*ceevent.Event, error) {
	req := &http.Request{
		Method: http.MethodPost,
		Header: headers.Clone(),
		Body:   io.NopCloser(bytes.NewReader(body)),
	}
	message := cehttp.NewMessageFromHttpRequest(req)
	defer func() {
		_ = message.Finish(nil)
	}()
	return cebinding.ToEvent(ctx, message)
}

func knownProvider(provider string) bool {
	for _, known := range WebhookProviders {
		if provider == known {
			return true
		}
	}
	return false
}

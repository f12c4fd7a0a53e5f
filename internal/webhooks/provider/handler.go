// Package provider receives provider webhook deliveries over plain net/http and records them.
package provider

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
	appservices "github.com/fr0stylo/supportdeck/internal/app/services"
)

const maxPayloadBytes = 1 << 20

// Ingester records one webhook delivery.
type Ingester interface {
	Ingest(ctx context.Context, cmd appservices.WebhookIngestCommand) (ports.WebhookEventRecord, error)
}

// Handler processes webhook payloads. Signatures are not verified.
type Handler struct {
	ingester Ingester
}

// Receipt is the response body for an accepted delivery.
type Receipt struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	EventID string `json:"eventId"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewHandler constructs a webhook handler.
func NewHandler(ingester Ingester) *Handler {
	return &Handler{ingester: ingester}
}

// Handle reads a delivery for the named provider and acknowledges it. Only unclassified
// failures are returned; client errors are written to w.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, provider string) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		return writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid payload", Code: string(appservices.ErrorInvalidPayload)})
	}
	if len(body) > maxPayloadBytes {
		return writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "payload too large", Code: string(appservices.ErrorInvalidPayload)})
	}

	record, err := h.ingester.Ingest(r.Context(), appservices.WebhookIngestCommand{
		Provider: provider,
		Headers:  r.Header,
		Body:     body,
	})
	if err != nil {
		kind := appservices.ClassifyError(err)
		switch kind {
		case appservices.ErrorNotFound:
			return writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Code: string(kind)})
		case appservices.ErrorInvalidPayload:
			return writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: string(kind)})
		default:
			return err
		}
	}

	slog.InfoContext(r.Context(), "Webhook received", "provider", record.Provider, "event_id", record.EventID, "event_type", record.EventType)
	return writeJSON(w, http.StatusOK, Receipt{Status: "success", Message: "Webhook received", EventID: record.EventID})
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// Package eventpublisher sends test webhook deliveries to a gateway as structured CloudEvents.
package eventpublisher

import (
	"net/http"
	"time"
)

// Client posts events to a gateway's /webhooks/{provider} endpoint.
type Client struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Event is one delivery to publish.
type Event struct {
	Provider string
	// Type is the provider event name, e.g. payment_intent.succeeded.
	Type   string
	ID     string
	Source string
	Data   map[string]any
}

// Receipt is the gateway acknowledgement.
type Receipt struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	EventID string `json:"eventId"`
}

package routes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	appservices "github.com/fr0stylo/supportdeck/internal/app/services"
	"github.com/fr0stylo/supportdeck/internal/observability"
	providerwebhook "github.com/fr0stylo/supportdeck/internal/webhooks/provider"
)

// WebhookRoutes registers webhook endpoints.
type WebhookRoutes struct {
	svc     *appservices.WebhookIngestService
	handler *providerwebhook.Handler
}

type webhookEventResponse struct {
	EventID    string          `json:"eventId"`
	Type       string          `json:"type"`
	Source     string          `json:"source"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Event      json.RawMessage `json:"event"`
}

// NewWebhookRoutes constructs webhook routes.
func NewWebhookRoutes(svc *appservices.WebhookIngestService) *WebhookRoutes {
	return &WebhookRoutes{
		svc:     svc,
		handler: providerwebhook.NewHandler(svc),
	}
}

// RegisterRoutes registers webhook endpoints.
func (w *WebhookRoutes) RegisterRoutes(s *echo.Echo) {
	s.POST("/webhooks/:provider", w.handleWebhook, observability.IntegrationMiddleware("webhooks"))
	s.GET("/debug/webhooks/:provider", w.handleRecentWebhooks)
}

func (w *WebhookRoutes) handleWebhook(c echo.Context) error {
	return w.handler.Handle(c.Response(), c.Request(), c.Param("provider"))
}

func (w *WebhookRoutes) handleRecentWebhooks(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	events, err := w.svc.Recent(c.Request().Context(), c.Param("provider"), limit)
	if err != nil {
		return writeServiceError(c, err)
	}

	out := make([]webhookEventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, webhookEventResponse{
			EventID:    event.EventID,
			Type:       event.EventType,
			Source:     event.EventSource,
			ReceivedAt: event.ReceivedAt,
			Event:      json.RawMessage(event.RawEventJSON),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"events": out})
}

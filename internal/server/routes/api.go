package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/supportdeck/internal/db"
)

// LatencySource reports per-query latency samples.
type LatencySource interface {
	QueryLatencyStats() []db.QueryLatency
}

// APIRoutes registers health, index and diagnostics endpoints.
type APIRoutes struct {
	serviceName string
	latency     LatencySource
}

type endpointIndex struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// NewAPIRoutes constructs the service-level routes.
func NewAPIRoutes(serviceName string, latency LatencySource) *APIRoutes {
	if serviceName == "" {
		serviceName = "supportdeck"
	}
	return &APIRoutes{serviceName: serviceName, latency: latency}
}

// RegisterRoutes registers API endpoints.
func (a *APIRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/", a.handleIndex)
	s.GET("/healthz", handleHealth)
	s.GET("/debug/db/latency", a.handleQueryLatency)
}

func (a *APIRoutes) handleIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, endpointIndex{
		Message: a.serviceName + " gateway",
		Endpoints: map[string]string{
			"createPaymentIntent": "POST /api/payments/create-intent",
			"oauthToken":          "POST /api/membership/oauth/token",
			"membershipProfile":   "GET /api/membership/profile",
			"supporters":          "GET /api/supporters",
			"aggregate":           "GET /api/supporters/aggregate",
			"webhooks":            "POST /webhooks/:provider",
			"health":              "GET /healthz",
		},
	})
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *APIRoutes) handleQueryLatency(c echo.Context) error {
	stats := []db.QueryLatency{}
	if a.latency != nil {
		stats = append(stats, a.latency.QueryLatencyStats()...)
	}
	return c.JSON(http.StatusOK, map[string]any{"queries": stats})
}

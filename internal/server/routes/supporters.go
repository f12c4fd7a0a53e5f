package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	appservices "github.com/fr0stylo/supportdeck/internal/app/services"
	"github.com/fr0stylo/supportdeck/internal/observability"
	"github.com/fr0stylo/supportdeck/pkg/gateway"
)

// SupporterRoutes registers tip-jar endpoints.
type SupporterRoutes struct {
	svc *appservices.TipJarService
}

// NewSupporterRoutes constructs tip-jar routes.
func NewSupporterRoutes(svc *appservices.TipJarService) *SupporterRoutes {
	return &SupporterRoutes{svc: svc}
}

// RegisterRoutes registers tip-jar endpoints.
func (r *SupporterRoutes) RegisterRoutes(s *echo.Echo) {
	group := s.Group("/api/supporters", observability.IntegrationMiddleware("tipjar"))
	group.GET("", r.handleSupporters)
	group.GET("/aggregate", r.handleAggregate)
}

func (r *SupporterRoutes) handleSupporters(c echo.Context) error {
	supporters, err := r.svc.Supporters(c.Request().Context(), accessToken(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, gateway.SupportersResponse{Supporters: mapSupporters(supporters)})
}

func (r *SupporterRoutes) handleAggregate(c echo.Context) error {
	stats, err := r.svc.Aggregate(c.Request().Context(), accessToken(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, gateway.AggregateResponse{Aggregate: mapAggregate(stats)})
}

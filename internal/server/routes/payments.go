package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	appservices "github.com/fr0stylo/supportdeck/internal/app/services"
	"github.com/fr0stylo/supportdeck/internal/observability"
	"github.com/fr0stylo/supportdeck/pkg/gateway"
)

// PaymentRoutes registers payment intent endpoints.
type PaymentRoutes struct {
	svc *appservices.PaymentIntentService
}

// NewPaymentRoutes constructs payment routes.
func NewPaymentRoutes(svc *appservices.PaymentIntentService) *PaymentRoutes {
	return &PaymentRoutes{svc: svc}
}

// RegisterRoutes registers payment endpoints.
func (p *PaymentRoutes) RegisterRoutes(s *echo.Echo) {
	group := s.Group("/api/payments", observability.IntegrationMiddleware("payments"))
	group.POST("/create-intent", p.handleCreateIntent)
}

func (p *PaymentRoutes) handleCreateIntent(c echo.Context) error {
	var cmd appservices.CreateIntentCommand
	if err := (&echo.DefaultBinder{}).BindBody(c, &cmd); err != nil {
		return invalidBody(c)
	}
	cmd.IdempotencyKey = c.Request().Header.Get(gateway.IdempotencyKeyHeader)

	intent, err := p.svc.CreateIntent(c.Request().Context(), cmd)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, gateway.Intent{ID: intent.ID, ClientSecret: intent.ClientSecret})
}

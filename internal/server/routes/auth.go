package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	appservices "github.com/fr0stylo/supportdeck/internal/app/services"
	"github.com/fr0stylo/supportdeck/internal/observability"
	"github.com/fr0stylo/supportdeck/pkg/gateway"
)

// AuthRoutes registers the membership OAuth token and profile endpoints.
type AuthRoutes struct {
	svc *appservices.MembershipService
}

type tokenRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri"`
}

// NewAuthRoutes constructs membership auth routes.
func NewAuthRoutes(svc *appservices.MembershipService) *AuthRoutes {
	return &AuthRoutes{svc: svc}
}

// RegisterRoutes registers membership endpoints.
func (a *AuthRoutes) RegisterRoutes(s *echo.Echo) {
	group := s.Group("/api/membership", observability.IntegrationMiddleware("membership"))
	group.POST("/oauth/token", a.handleTokenExchange)
	group.GET("/profile", a.handleProfile)
}

func (a *AuthRoutes) handleTokenExchange(c echo.Context) error {
	var req tokenRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return invalidBody(c)
	}

	grant, err := a.svc.ExchangeCode(c.Request().Context(), req.Code, req.RedirectURI)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, gateway.Tokens{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresIn:    a.svc.ExpiresIn(),
		Scope:        grant.Scope,
		TokenType:    grant.TokenType,
	})
}

func (a *AuthRoutes) handleProfile(c echo.Context) error {
	profile, err := a.svc.Profile(c.Request().Context(), accessToken(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, mapProfile(profile))
}

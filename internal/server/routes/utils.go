package routes

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
	appservices "github.com/fr0stylo/supportdeck/internal/app/services"
	"github.com/fr0stylo/supportdeck/pkg/gateway"
)

func mapProfile(profile ports.MembershipProfile) gateway.MembershipProfile {
	return gateway.MembershipProfile{
		ID:               profile.ID,
		DisplayName:      profile.DisplayName,
		Email:            profile.Email,
		IsMember:         profile.IsMember,
		MembershipStatus: profile.MembershipStatus,
	}
}

func mapSupporters(rows []ports.Supporter) []gateway.Supporter {
	supporters := make([]gateway.Supporter, 0, len(rows))
	for _, row := range rows {
		supporters = append(supporters, gateway.Supporter{
			Name:    row.Name,
			Amount:  row.Amount,
			Email:   row.Email,
			Message: row.Message,
		})
	}
	return supporters
}

func mapAggregate(stats ports.CreatorStats) gateway.Aggregate {
	return gateway.Aggregate{
		TotalSupporters:    int(stats.TotalSupporters),
		TotalContributions: int(stats.TotalContributions),
		TotalRevenue:       stats.TotalRevenue,
	}
}

// accessToken reads the token from the accessToken query parameter, falling back to a
// bearer Authorization header.
func accessToken(c echo.Context) string {
	if token := strings.TrimSpace(c.QueryParam("accessToken")); token != "" {
		return token
	}
	header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// writeServiceError maps classified service errors to JSON error bodies. Unclassified errors
// are returned to echo's error handler.
func writeServiceError(c echo.Context, err error) error {
	kind := appservices.ClassifyError(err)
	status := http.StatusInternalServerError
	switch kind {
	case appservices.ErrorInvalidRequest, appservices.ErrorInvalidPayload, appservices.ErrorProviderRejected, appservices.ErrorInvalidGrant:
		status = http.StatusBadRequest
	case appservices.ErrorUnauthorized:
		status = http.StatusUnauthorized
	case appservices.ErrorConflict:
		status = http.StatusConflict
	case appservices.ErrorNotFound:
		status = http.StatusNotFound
	default:
		slog.ErrorContext(c.Request().Context(), "Request failed", "route", c.Path(), "error", err)
		return echo.NewHTTPError(status, "internal error").SetInternal(err)
	}
	return c.JSON(status, gateway.ErrorResponse{Error: err.Error(), Code: string(kind)})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, gateway.ErrorResponse{Error: "invalid JSON body", Code: string(appservices.ErrorInvalidRequest)})
}

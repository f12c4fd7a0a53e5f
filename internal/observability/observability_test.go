package observability

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
)

func TestWrapSlogHandlerAddsContextFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(WrapSlogHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithRequestMetadata(context.Background(), "req-1", "/api/supporters")
	ctx = WithIntegration(ctx, "tipjar")
	log.InfoContext(ctx, "Fetched supporters")

	out := buf.String()
	for _, want := range []string{"request_id=req-1", "route=/api/supporters", "integration=tipjar"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log line %q", want, out)
		}
	}
}

func TestWrapSlogHandlerNilFallsBackToDiscard(t *testing.T) {
	t.Parallel()

	handler := WrapSlogHandler(nil)
	if err := handler.Handle(context.Background(), slog.Record{}); err != nil {
		t.Fatalf("discard handler returned error: %v", err)
	}
}

func TestIntegrationMiddlewareTagsRequestContext(t *testing.T) {
	t.Parallel()

	e := echo.New()
	var got string
	e.GET("/api/membership/profile", func(c echo.Context) error {
		got, _ = IntegrationFromContext(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	}, IntegrationMiddleware("membership"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/membership/profile", nil))
	if got != "membership" {
		t.Fatalf("expected membership integration, got %q", got)
	}
}

func TestTraceSkipperSkipsHealthAndDebug(t *testing.T) {
	t.Parallel()

	e := echo.New()
	for path, want := range map[string]bool{
		"/healthz":                    true,
		"/debug/db/latency":           true,
		"/api/payments/create-intent": false,
		"/webhooks/stripe":            false,
	} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
		if got := traceSkipper(c); got != want {
			t.Fatalf("traceSkipper(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestSetupOpenTelemetryDisabledIsNoop(t *testing.T) {
	t.Parallel()

	shutdown, err := SetupOpenTelemetry(context.Background(), slog.Default(), OpenTelemetryConfig{})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNewResourceTagsDeployment(t *testing.T) {
	t.Parallel()

	res, err := newResource(context.Background(), OpenTelemetryConfig{
		ServiceName:     "supportdeck",
		ServiceVer:      "1.2.3",
		Environment:     "staging",
		PaymentProvider: "stripe",
	})
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}

	set := res.Set()
	for key, want := range map[attribute.Key]string{
		"service.name":                 "supportdeck",
		"deployment.environment.name":  "staging",
		"supportdeck.payment.provider": "stripe",
	} {
		got, ok := set.Value(key)
		if !ok || got.AsString() != want {
			t.Fatalf("expected %s=%q, got %q (present=%v)", key, want, got.AsString(), ok)
		}
	}
	integrations, ok := set.Value(attrIntegrations)
	if !ok || len(integrations.AsStringSlice()) != len(gatewayIntegrations) {
		t.Fatalf("expected integrations attribute, got %v", integrations)
	}
}

func TestNewResourceOmitsUnsetDeploymentFields(t *testing.T) {
	t.Parallel()

	res, err := newResource(context.Background(), OpenTelemetryConfig{ServiceName: "supportdeck"})
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	if _, ok := res.Set().Value(attrPaymentProvider); ok {
		t.Fatal("expected no payment provider attribute")
	}
}

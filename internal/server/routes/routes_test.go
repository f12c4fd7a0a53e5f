package routes

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/supportdeck/internal/adapters/fixture"
	"github.com/fr0stylo/supportdeck/internal/adapters/sqlite"
	appservices "github.com/fr0stylo/supportdeck/internal/app/services"
	"github.com/fr0stylo/supportdeck/internal/db"
	"github.com/fr0stylo/supportdeck/pkg/gateway"
)

const creatorToken = "mock_access_token"

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "testdb"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	store := sqlite.NewStore(database)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	for _, r := range []interface{ RegisterRoutes(*echo.Echo) }{
		NewAPIRoutes("supportdeck", database),
		NewPaymentRoutes(appservices.NewPaymentIntentService(fixture.NewProvider(), store, log)),
		NewAuthRoutes(appservices.NewMembershipService(store, 0, "")),
		NewSupporterRoutes(appservices.NewTipJarService(store, creatorToken)),
		NewWebhookRoutes(appservices.NewWebhookIngestService(store)),
	} {
		r.RegisterRoutes(e)
	}
	return e
}

func doRequest(e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealthAndIndex(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	rec := doRequest(e, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(e, http.MethodGet, "/", "", nil)
	var index endpointIndex
	decode(t, rec, &index)
	if index.Endpoints["createPaymentIntent"] != "POST /api/payments/create-intent" {
		t.Fatalf("unexpected index: %#v", index)
	}

	rec = doRequest(e, http.MethodGet, "/debug/db/latency", "", nil)
	var latency struct {
		Queries []db.QueryLatency `json:"queries"`
	}
	decode(t, rec, &latency)
	if len(latency.Queries) != 0 {
		t.Fatalf("expected no samples before any query, got %#v", latency.Queries)
	}
}

func TestCreateIntentReplaysIdempotencyKey(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	headers := map[string]string{gateway.IdempotencyKeyHeader: "key-1"}
	body := `{"amountMinorUnits":1000,"currency":"usd","description":"Tip"}`

	first := doRequest(e, http.MethodPost, "/api/payments/create-intent", body, headers)
	if first.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", first.Code, first.Body.String())
	}
	var intent gateway.Intent
	decode(t, first, &intent)
	if !strings.HasPrefix(intent.ID, "pi_") || !strings.HasPrefix(intent.ClientSecret, intent.ID+"_secret_") {
		t.Fatalf("unexpected intent: %#v", intent)
	}

	second := doRequest(e, http.MethodPost, "/api/payments/create-intent", body, headers)
	var replayed gateway.Intent
	decode(t, second, &replayed)
	if replayed != intent {
		t.Fatalf("expected replayed intent %#v, got %#v", intent, replayed)
	}

	conflict := doRequest(e, http.MethodPost, "/api/payments/create-intent", `{"amountMinorUnits":2000,"currency":"usd"}`, headers)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", conflict.Code, conflict.Body.String())
	}
}

func TestCreateIntentRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	cases := []string{
		`{"amountMinorUnits":50,"currency":"usd"}`,
		`{"amountMinorUnits":1000,"currency":"us"}`,
		`{"amountMinorUnits":`,
	}
	for _, body := range cases {
		rec := doRequest(e, http.MethodPost, "/api/payments/create-intent", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
		var resp gateway.ErrorResponse
		decode(t, rec, &resp)
		if resp.Code != string(appservices.ErrorInvalidRequest) {
			t.Fatalf("body %s: unexpected error code %q", body, resp.Code)
		}
	}
}

func TestMembershipTokenExchangeAndProfile(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	rec := doRequest(e, http.MethodPost, "/api/membership/oauth/token", `{"code":"","redirectUri":"http://localhost/cb"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty code, got %d", rec.Code)
	}
	var failure gateway.ErrorResponse
	decode(t, rec, &failure)
	if failure.Code != "invalid_grant" {
		t.Fatalf("unexpected error code %q", failure.Code)
	}

	rec = doRequest(e, http.MethodPost, "/api/membership/oauth/token", `{"code":"abc","redirectUri":"http://localhost/cb"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var tokens gateway.Tokens
	decode(t, rec, &tokens)
	if tokens.AccessToken == "" || tokens.TokenType != "Bearer" || tokens.ExpiresIn != 3600 || tokens.Scope != "identity campaigns" {
		t.Fatalf("unexpected tokens: %#v", tokens)
	}

	rec = doRequest(e, http.MethodGet, "/api/membership/profile?accessToken="+url.QueryEscape(tokens.AccessToken), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var profile gateway.MembershipProfile
	decode(t, rec, &profile)
	if profile.DisplayName != "John Doe" || !profile.IsMember || profile.MembershipStatus != "active_patron" {
		t.Fatalf("unexpected profile: %#v", profile)
	}

	rec = doRequest(e, http.MethodGet, "/api/membership/profile", "", map[string]string{echo.HeaderAuthorization: "Bearer " + tokens.AccessToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer header: unexpected status %d", rec.Code)
	}

	rec = doRequest(e, http.MethodGet, "/api/membership/profile?accessToken=nope", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSupportersAndAggregate(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	rec := doRequest(e, http.MethodGet, "/api/supporters?accessToken="+creatorToken, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var list gateway.SupportersResponse
	decode(t, rec, &list)
	if len(list.Supporters) != 2 || list.Supporters[0].Name != "Jane Smith" || list.Supporters[1].Name != "Bob Johnson" {
		t.Fatalf("unexpected supporters: %#v", list.Supporters)
	}

	rec = doRequest(e, http.MethodGet, "/api/supporters/aggregate?accessToken="+creatorToken, "", nil)
	var aggregate gateway.AggregateResponse
	decode(t, rec, &aggregate)
	if aggregate.Aggregate.TotalSupporters != 125 || aggregate.Aggregate.TotalContributions != 250 || aggregate.Aggregate.TotalRevenue.String() != "1250" {
		t.Fatalf("unexpected aggregate: %#v", aggregate.Aggregate)
	}

	rec = doRequest(e, http.MethodGet, "/api/supporters?accessToken=wrong", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWebhookDeliveryIsRecorded(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	rec := doRequest(e, http.MethodPost, "/webhooks/membership", `{"event":"members:pledge:create"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"message":"Webhook received"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = doRequest(e, http.MethodGet, "/debug/webhooks/membership", "", nil)
	var recent struct {
		Events []webhookEventResponse `json:"events"`
	}
	decode(t, rec, &recent)
	if len(recent.Events) != 1 || recent.Events[0].Type != "com.supportdeck.membership.members.pledge.create" {
		t.Fatalf("unexpected events: %#v", recent.Events)
	}

	rec = doRequest(e, http.MethodPost, "/webhooks/unknown", `{}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// IdempotencyKeyHeader carries the per-submission idempotency key.
	IdempotencyKeyHeader = "Idempotency-Key"

	defaultTimeout  = 10 * time.Second
	maxErrorPayload = 4 << 10
)

const (
	opCreatePaymentIntent = "create-payment-intent"
	opExchangeAuthCode    = "exchange-auth-code"
	opFetchProfile        = "fetch-profile"
	opFetchSupporters     = "fetch-supporters"
	opFetchAggregate      = "fetch-aggregate"
)

// Client talks to the SupportDeck gateway. Every call is one round trip with no retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New constructs a gateway client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePaymentIntent asks the gateway to open a payment intent.
func (c *Client) CreatePaymentIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	headers := http.Header{}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		headers.Set(IdempotencyKeyHeader, key)
	}
	var intent Intent
	if err := c.do(ctx, opCreatePaymentIntent, http.MethodPost, "/api/payments/create-intent", nil, headers, req, &intent); err != nil {
		return Intent{}, err
	}
	if strings.TrimSpace(intent.ClientSecret) == "" {
		return Intent{}, &Error{Op: opCreatePaymentIntent, StatusCode: http.StatusOK, Message: "missing clientSecret in response"}
	}
	return intent, nil
}

// ExchangeAuthCode trades an authorization code for membership tokens.
func (c *Client) ExchangeAuthCode(ctx context.Context, code, redirectURI string) (Tokens, error) {
	body := map[string]string{
		"code":        strings.TrimSpace(code),
		"redirectUri": strings.TrimSpace(redirectURI),
	}
	var tokens Tokens
	if err := c.do(ctx, opExchangeAuthCode, http.MethodPost, "/api/membership/oauth/token", nil, nil, body, &tokens); err != nil {
		return Tokens{}, err
	}
	if strings.TrimSpace(tokens.AccessToken) == "" {
		return Tokens{}, &AuthError{Op: opExchangeAuthCode, StatusCode: http.StatusOK, Message: "missing accessToken in response"}
	}
	return tokens, nil
}

// FetchProfile returns the membership profile for accessToken.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (MembershipProfile, error) {
	var profile MembershipProfile
	if err := c.do(ctx, opFetchProfile, http.MethodGet, "/api/membership/profile", tokenQuery(accessToken), nil, nil, &profile); err != nil {
		return MembershipProfile{}, err
	}
	return profile, nil
}

// FetchSupporters returns the supporter list in gateway order.
func (c *Client) FetchSupporters(ctx context.Context, accessToken string) ([]Supporter, error) {
	var parsed SupportersResponse
	if err := c.do(ctx, opFetchSupporters, http.MethodGet, "/api/supporters", tokenQuery(accessToken), nil, nil, &parsed); err != nil {
		return nil, err
	}
	if parsed.Supporters == nil {
		return []Supporter{}, nil
	}
	return parsed.Supporters, nil
}

// FetchAggregate returns the supporter statistics. It is not atomic with FetchSupporters.
func (c *Client) FetchAggregate(ctx context.Context, accessToken string) (Aggregate, error) {
	var parsed AggregateResponse
	if err := c.do(ctx, opFetchAggregate, http.MethodGet, "/api/supporters/aggregate", tokenQuery(accessToken), nil, nil, &parsed); err != nil {
		return Aggregate{}, err
	}
	return parsed.Aggregate, nil
}

func tokenQuery(accessToken string) url.Values {
	query := url.Values{}
	query.Set("accessToken", strings.TrimSpace(accessToken))
	return query
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, headers http.Header, in, out any) error {
	if c == nil || c.baseURL == "" {
		return &Error{Op: op, Err: fmt.Errorf("gateway base URL not configured")}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return responseError(op, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func responseError(op string, resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorPayload))
	message := strings.TrimSpace(string(payload))
	var parsed ErrorResponse
	if json.Unmarshal(payload, &parsed) == nil && strings.TrimSpace(parsed.Error) != "" {
		message = strings.TrimSpace(parsed.Error)
	}

	if isAuthStatus(op, resp.StatusCode) {
		return &AuthError{Op: op, StatusCode: resp.StatusCode, Message: message}
	}
	return &Error{Op: op, StatusCode: resp.StatusCode, Message: message}
}

func isAuthStatus(op string, status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		// A rejected authorization code comes back as 400 invalid_grant.
		return op == opExchangeAuthCode
	default:
		return false
	}
}

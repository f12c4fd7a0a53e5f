// Package stripe creates payment intents on Stripe.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stripeapi "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
	"github.com/fr0stylo/supportdeck/internal/observability"
)

const providerName = "stripe"

// Provider is a ports.IntentProvider backed by the Stripe API.
type Provider struct {
	api *client.API
}

// NewProvider builds a Stripe provider. An empty apiURL uses the public Stripe endpoint.
func NewProvider(secretKey, apiURL string) *Provider {
	var backends *stripeapi.Backends
	if apiURL = strings.TrimSpace(apiURL); apiURL != "" {
		backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
			URL:               stripeapi.String(apiURL),
			MaxNetworkRetries: stripeapi.Int64(0),
			LeveledLogger:     &stripeapi.LeveledLogger{Level: stripeapi.LevelError},
		})
		backends = &stripeapi.Backends{API: backend, Connect: backend, Uploads: backend}
	}
	return newProvider(secretKey, backends)
}

func newProvider(secretKey string, backends *stripeapi.Backends) *Provider {
	return &Provider{api: client.New(strings.TrimSpace(secretKey), backends)}
}

// Name identifies the provider in stored intents.
func (p *Provider) Name() string {
	return providerName
}

// CreateIntent opens a payment intent with automatic payment methods enabled. The client
// idempotency key is forwarded so Stripe deduplicates retried requests.
func (p *Provider) CreateIntent(ctx context.Context, params ports.IntentParams) (ports.ProviderIntent, error) {
	ctx, span := observability.StartProviderSpan(ctx, providerName, "create_intent")
	defer span.End()

	req := &stripeapi.PaymentIntentParams{
		Amount:   stripeapi.Int64(params.AmountMinorUnits),
		Currency: stripeapi.String(strings.ToLower(params.Currency)),
		AutomaticPaymentMethods: &stripeapi.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripeapi.Bool(true),
		},
	}
	req.Context = ctx
	if params.Description != "" {
		req.Description = stripeapi.String(params.Description)
	}
	if params.IdempotencyKey != "" {
		req.SetIdempotencyKey(params.IdempotencyKey)
	}

	intent, err := p.api.PaymentIntents.New(req)
	if err != nil {
		span.RecordError(err)
		var stripeErr *stripeapi.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500 {
			return ports.ProviderIntent{}, fmt.Errorf("%w: %s", ports.ErrProviderRejected, stripeErr.Msg)
		}
		return ports.ProviderIntent{}, fmt.Errorf("stripe create payment intent: %w", err)
	}
	return ports.ProviderIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
	}, nil
}

var _ ports.IntentProvider = (*Provider)(nil)

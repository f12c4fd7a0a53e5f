// Package fixture mints payment intents locally so the gateway works without processor credentials.
package fixture

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
)

const (
	providerName = "fixture"
	// StatusRequiresPaymentMethod mirrors the processor status of a freshly created intent.
	StatusRequiresPaymentMethod = "requires_payment_method"
)

// Provider is a ports.IntentProvider that mints pi_<id>_secret_<id> pairs.
type Provider struct {
	newID func() string
}

// NewProvider builds a fixture provider.
func NewProvider() *Provider {
	return &Provider{newID: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }}
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) CreateIntent(ctx context.Context, params ports.IntentParams) (ports.ProviderIntent, error) {
	if err := ctx.Err(); err != nil {
		return ports.ProviderIntent{}, err
	}
	id := "pi_" + p.newID()
	return ports.ProviderIntent{
		ID:           id,
		ClientSecret: id + "_secret_" + p.newID(),
		Status:       StatusRequiresPaymentMethod,
	}, nil
}

var _ ports.IntentProvider = (*Provider)(nil)

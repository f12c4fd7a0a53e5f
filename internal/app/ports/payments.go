package ports

import (
	"context"
	"errors"
)

// IntentProvider creates payment intents on a card processor.
type IntentProvider interface {
	Name() string
	CreateIntent(ctx context.Context, params IntentParams) (ProviderIntent, error)
}

// IntentParams are the validated inputs for one intent.
type IntentParams struct {
	AmountMinorUnits int64
	Currency         string
	Description      string
	IdempotencyKey   string
}

// ProviderIntent is what the processor returned.
type ProviderIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// ErrProviderRejected wraps processor errors caused by the request itself rather than
// by connectivity.
var ErrProviderRejected = errors.New("provider rejected request")

package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fr0stylo/supportdeck/pkg/gateway"
)

// Status is the state of one payment attempt.
type Status string

const (
	StatusIdle                 Status = "idle"
	StatusCreating             Status = "creating"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusSucceeded            Status = "succeeded"
	StatusFailed               Status = "failed"
)

// Terminal reports whether no further transition happens for this attempt.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// ConfirmationSucceeded is the card-capture status of a completed charge.
const ConfirmationSucceeded = "succeeded"

// DefaultCurrency is used when a submission leaves the currency empty.
const DefaultCurrency = "usd"

var (
	// MinAmount is the smallest accepted amount in major units.
	MinAmount = decimal.NewFromInt(1)
	// MaxAmount is the largest accepted amount in major units.
	MaxAmount = decimal.NewFromInt(1000)

	hundred = decimal.NewFromInt(100)
)

// ErrSubmitInFlight is returned when Submit is called while an attempt is still settling.
var ErrSubmitInFlight = errors.New("payment: submission in progress")

var errAttemptAborted = errors.New("payment attempt aborted")

// IntentCreator opens payment intents on the gateway.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, req gateway.IntentRequest) (gateway.Intent, error)
}

// BillingDetails are captured by the presentation layer and passed to confirmation.
type BillingDetails struct {
	Name  string
	Email string
}

// PaymentMethod references card details held by the card-capture collaborator.
type PaymentMethod struct {
	Token   string
	Billing BillingDetails
}

// Confirmation is the card-capture result for one intent.
type Confirmation struct {
	IntentID string
	Status   string
}

// CardConfirmer is the card-capture collaborator.
type CardConfirmer interface {
	ConfirmPayment(ctx context.Context, clientSecret string, method PaymentMethod) (Confirmation, error)
}

// Submission is what the user entered.
type Submission struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	Method      PaymentMethod
}

// Intent is the client-side record of one payment attempt.
type Intent struct {
	Amount           decimal.Decimal
	AmountMinorUnits int64
	Currency         string
	Description      string
	IdempotencyKey   string
	IntentID         string
	ClientSecret     string
	Status           Status
	ErrorMessage     string
}

// ValidationError is bad user input caught before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CardError is a declined confirmation or an unavailable card-capture collaborator.
type CardError struct {
	Code    string
	Message string
	Err     error
}

func (e *CardError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "card error: " + e.Code
}

func (e *CardError) Unwrap() error {
	return e.Err
}

// MinorUnits converts a major-unit amount to minor units, rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

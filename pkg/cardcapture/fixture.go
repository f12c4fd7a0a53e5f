// Package cardcapture provides card-capture collaborators for the payment flow.
package cardcapture

import (
	"context"
	"strings"

	"github.com/fr0stylo/supportdeck/pkg/payment"
)

// Test payment method tokens understood by Fixture.
const (
	TokenVisa                   = "pm_card_visa"
	TokenDeclined               = "pm_card_chargeDeclined"
	TokenAuthenticationRequired = "pm_card_authenticationRequired"
)

// Fixture confirms payments locally without a card processor.
type Fixture struct{}

// ConfirmPayment succeeds for any non-empty token except the decline and authentication test tokens.
func (Fixture) ConfirmPayment(ctx context.Context, clientSecret string, method payment.PaymentMethod) (payment.Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return payment.Confirmation{}, err
	}
	intentID := IntentIDFromClientSecret(clientSecret)
	token := strings.TrimSpace(method.Token)
	switch {
	case token == "":
		return payment.Confirmation{}, &payment.CardError{Code: "incomplete_card", Message: "Your card details are incomplete."}
	case token == TokenDeclined || strings.Contains(strings.ToLower(token), "declined"):
		return payment.Confirmation{}, &payment.CardError{Code: "card_declined", Message: "Your card was declined."}
	case token == TokenAuthenticationRequired:
		return payment.Confirmation{IntentID: intentID, Status: "requires_action"}, nil
	default:
		return payment.Confirmation{IntentID: intentID, Status: payment.ConfirmationSucceeded}, nil
	}
}

// IntentIDFromClientSecret extracts the intent id from a "<id>_secret_<nonce>" client secret.
func IntentIDFromClientSecret(clientSecret string) string {
	id, _, found := strings.Cut(strings.TrimSpace(clientSecret), "_secret_")
	if !found {
		return ""
	}
	return id
}

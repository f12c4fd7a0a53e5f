package cardcapture

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/fr0stylo/supportdeck/pkg/payment"
)

// Stripe confirms payment intents through the Stripe API using a payment method id
// (for example a test token such as pm_card_visa).
type Stripe struct {
	api *client.API
}

// NewStripe builds a Stripe confirmer. backends may be nil for the default Stripe endpoints.
func NewStripe(secretKey string, backends *stripe.Backends) *Stripe {
	return &Stripe{api: client.New(strings.TrimSpace(secretKey), backends)}
}

// ConfirmPayment confirms the intent behind clientSecret with method.
func (s *Stripe) ConfirmPayment(ctx context.Context, clientSecret string, method payment.PaymentMethod) (payment.Confirmation, error) {
	intentID := IntentIDFromClientSecret(clientSecret)
	if intentID == "" {
		return payment.Confirmation{}, fmt.Errorf("malformed client secret")
	}
	token := strings.TrimSpace(method.Token)
	if token == "" {
		return payment.Confirmation{}, &payment.CardError{Code: "incomplete_card", Message: "Your card details are incomplete."}
	}

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(token),
	}
	params.Context = ctx
	if email := strings.TrimSpace(method.Billing.Email); email != "" {
		params.ReceiptEmail = stripe.String(email)
	}

	intent, err := s.api.PaymentIntents.Confirm(intentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return payment.Confirmation{}, &payment.CardError{Code: string(stripeErr.Code), Message: stripeErr.Msg, Err: err}
		}
		return payment.Confirmation{}, fmt.Errorf("confirm payment intent: %w", err)
	}
	return payment.Confirmation{IntentID: intent.ID, Status: string(intent.Status)}, nil
}

// Package payment orchestrates one card payment: create an intent on the gateway, confirm it
// through the card-capture collaborator, and reconcile the result.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fr0stylo/supportdeck/pkg/gateway"
	"github.com/fr0stylo/supportdeck/pkg/notify"
)

// Flow runs payment submissions. One attempt settles before the next may start.
type Flow struct {
	gateway   IntentCreator
	confirmer CardConfirmer
	notifier  notify.Notifier
	log       *slog.Logger
	newKey    func() string
	observe   func(Intent)

	mu       sync.Mutex
	current  Intent
	inFlight bool
	attempts uint64
}

// Option configures a Flow.
type Option func(*Flow)

// WithNotifier injects the notification sink.
func WithNotifier(n notify.Notifier) Option {
	return func(f *Flow) {
		if n != nil {
			f.notifier = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.log = l
		}
	}
}

// WithObserver registers a callback receiving every state transition in order.
func WithObserver(fn func(Intent)) Option {
	return func(f *Flow) {
		f.observe = fn
	}
}

// WithKeyGenerator replaces the idempotency key generator.
func WithKeyGenerator(fn func() string) Option {
	return func(f *Flow) {
		if fn != nil {
			f.newKey = fn
		}
	}
}

// NewFlow builds a payment flow. A nil confirmer makes every submission fail with a CardError.
func NewFlow(gw IntentCreator, confirmer CardConfirmer, opts ...Option) *Flow {
	f := &Flow{
		gateway:   gw,
		confirmer: confirmer,
		notifier:  notify.Discard,
		log:       slog.Default(),
		newKey:    func() string { return uuid.NewString() },
		current:   Intent{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Current returns the latest attempt.
func (f *Flow) Current() Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Submit runs one attempt to a terminal state and emits exactly one notification for it.
// The returned error is already reflected in the returned Intent; it is given for inspection.
func (f *Flow) Submit(ctx context.Context, sub Submission) (Intent, error) {
	f.mu.Lock()
	if f.inFlight {
		current := f.current
		f.mu.Unlock()
		return current, ErrSubmitInFlight
	}
	currency := strings.ToLower(strings.TrimSpace(sub.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	f.current = Intent{
		Amount:         sub.Amount,
		Currency:       currency,
		Description:    strings.TrimSpace(sub.Description),
		IdempotencyKey: f.newKey(),
		Status:         StatusIdle,
	}
	f.inFlight = true
	f.attempts++
	seq := f.attempts
	attempt := f.current
	f.mu.Unlock()

	log := f.log.With("idempotency_key", attempt.IdempotencyKey)
	defer f.settleAborted(ctx, log, seq)

	f.emit(attempt)

	if err := validate(attempt.Amount, attempt.Currency); err != nil {
		return f.fail(ctx, log, err)
	}
	if f.confirmer == nil {
		return f.fail(ctx, log, &CardError{Code: "card_capture_unavailable", Message: "card capture is unavailable"})
	}
	if f.gateway == nil {
		return f.fail(ctx, log, &gateway.Error{Op: "create-payment-intent", Err: errors.New("gateway not configured")})
	}

	minor := MinorUnits(attempt.Amount)
	f.transition(func(i *Intent) {
		i.AmountMinorUnits = minor
		i.Status = StatusCreating
	})

	intent, err := f.gateway.CreatePaymentIntent(ctx, gateway.IntentRequest{
		AmountMinorUnits: minor,
		Currency:         attempt.Currency,
		Description:      attempt.Description,
		IdempotencyKey:   attempt.IdempotencyKey,
	})
	if err != nil {
		return f.fail(ctx, log, fmt.Errorf("create payment intent: %w", err))
	}
	if strings.TrimSpace(intent.ClientSecret) == "" {
		return f.fail(ctx, log, &gateway.Error{Op: "create-payment-intent", Message: "missing clientSecret in response"})
	}

	f.transition(func(i *Intent) {
		i.IntentID = intent.ID
		i.ClientSecret = intent.ClientSecret
		i.Status = StatusAwaitingConfirmation
	})
	log.DebugContext(ctx, "Payment intent created", "intent_id", intent.ID, "amount_minor", minor)

	confirmation, err := f.confirmer.ConfirmPayment(ctx, intent.ClientSecret, sub.Method)
	if err != nil {
		var cardErr *CardError
		if !errors.As(err, &cardErr) {
			err = &CardError{Code: "confirmation_failed", Message: err.Error(), Err: err}
		}
		return f.fail(ctx, log, err)
	}
	if confirmation.Status != ConfirmationSucceeded {
		return f.fail(ctx, log, &CardError{
			Code:    "payment_incomplete",
			Message: fmt.Sprintf("payment was not completed (status %s)", confirmation.Status),
		})
	}

	final := f.transition(func(i *Intent) {
		if confirmation.IntentID != "" {
			i.IntentID = confirmation.IntentID
		}
		i.Status = StatusSucceeded
	})
	log.InfoContext(ctx, "Payment succeeded", "intent_id", final.IntentID, "amount_minor", final.AmountMinorUnits)
	f.notifier.Notify(ctx, notify.Notification{
		Level:       notify.LevelSuccess,
		Title:       "Payment successful!",
		Description: fmt.Sprintf("Payment of $%s was processed successfully.", final.Amount.String()),
	})
	return final, nil
}

func validate(amount decimal.Decimal, currency string) error {
	if amount.LessThan(MinAmount) || amount.GreaterThan(MaxAmount) {
		return &ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("must be between %s and %s", MinAmount.String(), MaxAmount.String()),
		}
	}
	if len(currency) != 3 {
		return &ValidationError{Field: "currency", Message: "must be a three-letter code"}
	}
	for _, r := range currency {
		if r < 'a' || r > 'z' {
			return &ValidationError{Field: "currency", Message: "must be a three-letter code"}
		}
	}
	return nil
}

func (f *Flow) transition(apply func(*Intent)) Intent {
	f.mu.Lock()
	apply(&f.current)
	if f.current.Status.Terminal() {
		f.inFlight = false
	}
	snapshot := f.current
	f.mu.Unlock()
	f.emit(snapshot)
	return snapshot
}

func (f *Flow) fail(ctx context.Context, log *slog.Logger, err error) (Intent, error) {
	final := f.transition(func(i *Intent) {
		i.Status = StatusFailed
		i.ErrorMessage = err.Error()
	})
	log.WarnContext(ctx, "Payment failed", "error", err)
	f.notifier.Notify(ctx, notify.Notification{
		Level:       notify.LevelError,
		Title:       "Payment failed",
		Description: final.ErrorMessage,
	})
	return final, err
}

// settleAborted fails an attempt that is unwinding without reaching a terminal state, so a
// panicking collaborator does not block later submissions. The panic keeps propagating.
func (f *Flow) settleAborted(ctx context.Context, log *slog.Logger, seq uint64) {
	f.mu.Lock()
	stuck := f.inFlight && f.attempts == seq
	f.mu.Unlock()
	if stuck {
		_, _ = f.fail(ctx, log, errAttemptAborted)
	}
}

func (f *Flow) emit(snapshot Intent) {
	if f.observe != nil {
		f.observe(snapshot)
	}
}

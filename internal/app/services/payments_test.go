package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
)

func TestCreateIntentRecordsProviderIntent(t *testing.T) {
	t.Parallel()

	provider := &mockIntentProvider{}
	store := &mockPaymentStore{}
	svc := NewPaymentIntentService(provider, store, slog.Default())

	store.On("GetIntentByIdempotencyKey", mock.Anything, "key-1").Return(ports.PaymentIntentRecord{}, ports.ErrNotFound).Once()
	provider.On("CreateIntent", mock.Anything, ports.IntentParams{
		AmountMinorUnits: 1000,
		Currency:         "usd",
		Description:      "Coffee",
		IdempotencyKey:   "key-1",
	}).Return(ports.ProviderIntent{ID: "pi_1", ClientSecret: "pi_1_secret_a", Status: "requires_payment_method"}, nil).Once()
	store.On("RecordIntent", mock.Anything, mock.MatchedBy(func(r ports.PaymentIntentRecord) bool {
		return r.ID == "pi_1" && r.Provider == "mock" && r.IdempotencyKey == "key-1" && r.AmountMinorUnits == 1000
	})).Return(nil).Once()

	intent, err := svc.CreateIntent(context.Background(), CreateIntentCommand{
		AmountMinorUnits: 1000,
		Currency:         " USD ",
		Description:      " Coffee ",
		IdempotencyKey:   "key-1",
	})
	if err != nil {
		t.Fatalf("CreateIntent returned error: %v", err)
	}
	if intent.ClientSecret != "pi_1_secret_a" || intent.Currency != "usd" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	provider.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestCreateIntentDefaultsCurrency(t *testing.T) {
	t.Parallel()

	provider := &mockIntentProvider{}
	store := &mockPaymentStore{}
	svc := NewPaymentIntentService(provider, store, nil)

	provider.On("CreateIntent", mock.Anything, ports.IntentParams{AmountMinorUnits: 500, Currency: "usd"}).
		Return(ports.ProviderIntent{ID: "pi_2", ClientSecret: "pi_2_secret_b"}, nil).Once()
	store.On("RecordIntent", mock.Anything, mock.Anything).Return(nil).Once()

	if _, err := svc.CreateIntent(context.Background(), CreateIntentCommand{AmountMinorUnits: 500}); err != nil {
		t.Fatalf("CreateIntent returned error: %v", err)
	}
	store.AssertNotCalled(t, "GetIntentByIdempotencyKey", mock.Anything, mock.Anything)
}

func TestCreateIntentRejectsOutOfRangeAmounts(t *testing.T) {
	t.Parallel()

	svc := NewPaymentIntentService(&mockIntentProvider{}, &mockPaymentStore{}, nil)

	for _, amount := range []int64{0, 99, 100001} {
		_, err := svc.CreateIntent(context.Background(), CreateIntentCommand{AmountMinorUnits: amount, Currency: "usd"})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("amount %d: expected ErrInvalidRequest, got %v", amount, err)
		}
		if !strings.Contains(err.Error(), "amountMinorUnits") {
			t.Fatalf("amount %d: expected field name in error, got %q", amount, err.Error())
		}
	}
}

func TestCreateIntentRejectsBadCurrency(t *testing.T) {
	t.Parallel()

	svc := NewPaymentIntentService(&mockIntentProvider{}, &mockPaymentStore{}, nil)

	for _, currency := range []string{"us", "usd1", "u5d"} {
		if _, err := svc.CreateIntent(context.Background(), CreateIntentCommand{AmountMinorUnits: 1000, Currency: currency}); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("currency %q: expected ErrInvalidRequest, got %v", currency, err)
		}
	}
}

func TestCreateIntentReplaysIdempotencyKey(t *testing.T) {
	t.Parallel()

	provider := &mockIntentProvider{}
	store := &mockPaymentStore{}
	svc := NewPaymentIntentService(provider, store, nil)

	stored := ports.PaymentIntentRecord{ID: "pi_1", ClientSecret: "pi_1_secret_a", AmountMinorUnits: 1000, Currency: "usd", IdempotencyKey: "key-1"}
	store.On("GetIntentByIdempotencyKey", mock.Anything, "key-1").Return(stored, nil).Once()

	intent, err := svc.CreateIntent(context.Background(), CreateIntentCommand{AmountMinorUnits: 1000, Currency: "usd", IdempotencyKey: "key-1"})
	if err != nil {
		t.Fatalf("CreateIntent returned error: %v", err)
	}
	if intent != stored {
		t.Fatalf("expected stored intent, got %+v", intent)
	}
	provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestCreateIntentConflictingIdempotencyKey(t *testing.T) {
	t.Parallel()

	store := &mockPaymentStore{}
	svc := NewPaymentIntentService(&mockIntentProvider{}, store, nil)

	store.On("GetIntentByIdempotencyKey", mock.Anything, "key-1").
		Return(ports.PaymentIntentRecord{ID: "pi_1", AmountMinorUnits: 2500, Currency: "usd"}, nil).Once()

	_, err := svc.CreateIntent(context.Background(), CreateIntentCommand{AmountMinorUnits: 1000, Currency: "usd", IdempotencyKey: "key-1"})
	if ClassifyError(err) != ErrorConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateIntentConflictingDescriptionForIdempotencyKey(t *testing.T) {
	t.Parallel()

	provider := &mockIntentProvider{}
	store := &mockPaymentStore{}
	svc := NewPaymentIntentService(provider, store, nil)

	store.On("GetIntentByIdempotencyKey", mock.Anything, "key-1").
		Return(ports.PaymentIntentRecord{ID: "pi_1", AmountMinorUnits: 1000, Currency: "usd", Description: "Coffee"}, nil).Once()

	_, err := svc.CreateIntent(context.Background(), CreateIntentCommand{AmountMinorUnits: 1000, Currency: "usd", Description: "Lunch", IdempotencyKey: "key-1"})
	if !errors.Is(err, ErrIdempotencyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
	provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestCreateIntentPropagatesProviderRejection(t *testing.T) {
	t.Parallel()

	provider := &mockIntentProvider{}
	svc := NewPaymentIntentService(provider, &mockPaymentStore{}, nil)

	provider.On("CreateIntent", mock.Anything, mock.Anything).
		Return(ports.ProviderIntent{}, errors.Join(ports.ErrProviderRejected, errors.New("amount too small"))).Once()

	_, err := svc.CreateIntent(context.Background(), CreateIntentCommand{AmountMinorUnits: 1000, Currency: "usd"})
	if ClassifyError(err) != ErrorProviderRejected {
		t.Fatalf("expected provider rejection, got %v", err)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
)

// DefaultCurrency is applied when a request leaves currency empty.
const DefaultCurrency = "usd"

// CreateIntentCommand is the transport-agnostic intent request. The JSON tags double as the
// HTTP body shape.
type CreateIntentCommand struct {
	AmountMinorUnits int64  `json:"amountMinorUnits" validate:"min=100,max=100000"`
	Currency         string `json:"currency" validate:"required,len=3,alpha,lowercase"`
	Description      string `json:"description,omitempty" validate:"max=500"`
	IdempotencyKey   string `json:"-" validate:"max=255"`
}

// PaymentIntentService creates intents on the configured provider and records them for replay.
type PaymentIntentService struct {
	provider ports.IntentProvider
	store    ports.PaymentStore
	validate *validator.Validate
	log      *slog.Logger
}

// NewPaymentIntentService constructs a payment intent service.
func NewPaymentIntentService(provider ports.IntentProvider, store ports.PaymentStore, log *slog.Logger) *PaymentIntentService {
	if log == nil {
		log = slog.Default()
	}
	return &PaymentIntentService{
		provider: provider,
		store:    store,
		validate: newValidator(),
		log:      log,
	}
}

// ProviderName reports which processor backs the service.
func (s *PaymentIntentService) ProviderName() string {
	return s.provider.Name()
}

// CreateIntent validates cmd and returns a new intent, or the stored one when the idempotency
// key was seen before with the same parameters.
func (s *PaymentIntentService) CreateIntent(ctx context.Context, cmd CreateIntentCommand) (ports.PaymentIntentRecord, error) {
	cmd.Currency = strings.ToLower(strings.TrimSpace(cmd.Currency))
	if cmd.Currency == "" {
		cmd.Currency = DefaultCurrency
	}
	cmd.Description = strings.TrimSpace(cmd.Description)
	cmd.IdempotencyKey = strings.TrimSpace(cmd.IdempotencyKey)

	if err := s.validate.StructCtx(ctx, cmd); err != nil {
		return ports.PaymentIntentRecord{}, fmt.Errorf("%w: %s", ErrInvalidRequest, describeValidation(err))
	}

	if cmd.IdempotencyKey != "" {
		existing, err := s.replay(ctx, cmd)
		if err == nil {
			s.log.InfoContext(ctx, "Replayed payment intent", "intent_id", existing.ID, "idempotency_key", cmd.IdempotencyKey)
			return existing, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return ports.PaymentIntentRecord{}, err
		}
	}

	created, err := s.provider.CreateIntent(ctx, ports.IntentParams{
		AmountMinorUnits: cmd.AmountMinorUnits,
		Currency:         cmd.Currency,
		Description:      cmd.Description,
		IdempotencyKey:   cmd.IdempotencyKey,
	})
	if err != nil {
		return ports.PaymentIntentRecord{}, err
	}

	record := ports.PaymentIntentRecord{
		ID:               created.ID,
		ClientSecret:     created.ClientSecret,
		AmountMinorUnits: cmd.AmountMinorUnits,
		Currency:         cmd.Currency,
		Description:      cmd.Description,
		IdempotencyKey:   cmd.IdempotencyKey,
		Provider:         s.provider.Name(),
		Status:           created.Status,
	}
	if err := s.store.RecordIntent(ctx, record); err != nil {
		// A concurrent request with the same key may have won the insert.
		if cmd.IdempotencyKey != "" {
			if existing, replayErr := s.replay(ctx, cmd); replayErr == nil {
				return existing, nil
			}
		}
		s.log.WarnContext(ctx, "Failed to record payment intent", "intent_id", record.ID, "error", err)
	}

	s.log.InfoContext(ctx, "Created payment intent",
		"intent_id", record.ID,
		"provider", record.Provider,
		"amount_minor", record.AmountMinorUnits,
		"currency", record.Currency,
	)
	return record, nil
}

func (s *PaymentIntentService) replay(ctx context.Context, cmd CreateIntentCommand) (ports.PaymentIntentRecord, error) {
	existing, err := s.store.GetIntentByIdempotencyKey(ctx, cmd.IdempotencyKey)
	if err != nil {
		return ports.PaymentIntentRecord{}, err
	}
	if existing.AmountMinorUnits != cmd.AmountMinorUnits ||
		existing.Currency != cmd.Currency ||
		existing.Description != cmd.Description {
		return ports.PaymentIntentRecord{}, ErrIdempotencyConflict
	}
	return existing, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "min", "max", "len":
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

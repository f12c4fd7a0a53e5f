package services

import (
	"errors"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
)

var (
	// ErrInvalidRequest indicates input that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrIdempotencyConflict indicates an idempotency key reused with different parameters.
	ErrIdempotencyConflict = errors.New("idempotency key reused with different parameters")
	// ErrInvalidGrant indicates an authorization code that cannot be exchanged.
	ErrInvalidGrant = errors.New("invalid_grant")
	// ErrInvalidAccessToken indicates an unknown, expired or mismatched access token.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrInvalidPayload indicates a webhook body that is not a JSON object or CloudEvent.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrUnknownProvider indicates a webhook for a provider this gateway does not serve.
	ErrUnknownProvider = errors.New("unknown provider")
)

// ErrorKind classifies service failures for transport-specific mapping.
type ErrorKind string

const (
	// ErrorUnknown is used when error is nil or not classified.
	ErrorUnknown ErrorKind = "unknown"
	// ErrorInvalidRequest indicates validation failure.
	ErrorInvalidRequest ErrorKind = "invalid_request"
	// ErrorConflict indicates an idempotency conflict.
	ErrorConflict ErrorKind = "conflict"
	// ErrorInvalidGrant indicates a rejected authorization code.
	ErrorInvalidGrant ErrorKind = "invalid_grant"
	// ErrorUnauthorized indicates a rejected access token.
	ErrorUnauthorized ErrorKind = "unauthorized"
	// ErrorInvalidPayload indicates a malformed webhook payload.
	ErrorInvalidPayload ErrorKind = "invalid_payload"
	// ErrorNotFound indicates an unknown provider or missing record.
	ErrorNotFound ErrorKind = "not_found"
	// ErrorProviderRejected indicates the card processor refused the request.
	ErrorProviderRejected ErrorKind = "provider_rejected"
)

// ClassifyError classifies a returned service error.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorUnknown
	case errors.Is(err, ErrInvalidRequest):
		return ErrorInvalidRequest
	case errors.Is(err, ErrIdempotencyConflict):
		return ErrorConflict
	case errors.Is(err, ErrInvalidGrant):
		return ErrorInvalidGrant
	case errors.Is(err, ErrInvalidAccessToken):
		return ErrorUnauthorized
	case errors.Is(err, ErrInvalidPayload):
		return ErrorInvalidPayload
	case errors.Is(err, ErrUnknownProvider), errors.Is(err, ports.ErrNotFound):
		return ErrorNotFound
	case errors.Is(err, ports.ErrProviderRejected):
		return ErrorProviderRejected
	default:
		return ErrorUnknown
	}
}

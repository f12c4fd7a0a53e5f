package gateway

import "github.com/shopspring/decimal"

// IntentRequest describes one payment intent creation.
type IntentRequest struct {
	AmountMinorUnits int64  `json:"amountMinorUnits"`
	Currency         string `json:"currency"`
	Description      string `json:"description,omitempty"`
	// IdempotencyKey is sent as the Idempotency-Key header, not in the body.
	IdempotencyKey string `json:"-"`
}

// Intent is the server-issued handle for an in-progress charge.
type Intent struct {
	ID           string `json:"id,omitempty"`
	ClientSecret string `json:"clientSecret"`
}

// Tokens are the credentials returned by the authorization-code exchange.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn,omitempty"`
	Scope        string `json:"scope,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
}

// MembershipProfile is the membership platform identity of the connected user.
type MembershipProfile struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	Email            string `json:"email,omitempty"`
	IsMember         bool   `json:"isMember"`
	MembershipStatus string `json:"membershipStatus,omitempty"`
}

// Supporter is one tip-jar contribution.
type Supporter struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Email   string          `json:"email,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Aggregate summarizes a supporter base.
type Aggregate struct {
	TotalSupporters    int             `json:"totalSupporters"`
	TotalContributions int             `json:"totalContributions"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
}

// SupportersResponse is the body of GET /api/supporters.
type SupportersResponse struct {
	Supporters []Supporter `json:"supporters"`
}

// AggregateResponse is the body of GET /api/supporters/aggregate.
type AggregateResponse struct {
	Aggregate Aggregate `json:"aggregate"`
}

// ErrorResponse is the JSON error body returned by the gateway.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

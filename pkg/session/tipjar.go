package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fr0stylo/supportdeck/pkg/gateway"
)

// AggregatePolicy decides what a failed aggregate fetch does to a tip-jar connect.
type AggregatePolicy int

const (
	// AggregateRequired fails the whole connect when the aggregate cannot be fetched.
	AggregateRequired AggregatePolicy = iota
	// AggregateOptional connects with a nil Aggregate instead.
	AggregateOptional
)

// TipJarGateway is the part of the gateway a tip-jar connect needs.
type TipJarGateway interface {
	FetchSupporters(ctx context.Context, accessToken string) ([]gateway.Supporter, error)
	FetchAggregate(ctx context.Context, accessToken string) (gateway.Aggregate, error)
}

// TipJarData is what a connected tip-jar session exposes.
type TipJarData struct {
	Supporters []gateway.Supporter
	Aggregate  *gateway.Aggregate
}

// Clone copies the supporter list and aggregate.
func (d TipJarData) Clone() TipJarData {
	out := TipJarData{Supporters: make([]gateway.Supporter, len(d.Supporters))}
	copy(out.Supporters, d.Supporters)
	if d.Aggregate != nil {
		aggregate := *d.Aggregate
		out.Aggregate = &aggregate
	}
	return out
}

// TipJar is the tip-jar session.
type TipJar = Session[TipJarData]

// TipJarConnector fetches supporters then the aggregate using a pre-established token.
type TipJarConnector struct {
	Gateway     TipJarGateway
	AccessToken string
	Policy      AggregatePolicy
}

// Connect runs supporter fetch followed by aggregate fetch.
func (c TipJarConnector) Connect(ctx context.Context) (TipJarData, error) {
	if c.Gateway == nil {
		return TipJarData{}, errors.New("tip-jar connector is not configured")
	}
	token := strings.TrimSpace(c.AccessToken)
	if token == "" {
		return TipJarData{}, errors.New("tip-jar access token is empty")
	}

	supporters, err := c.Gateway.FetchSupporters(ctx, token)
	if err != nil {
		return TipJarData{}, fmt.Errorf("fetch supporters: %w", err)
	}
	data := TipJarData{Supporters: make([]gateway.Supporter, len(supporters))}
	copy(data.Supporters, supporters)

	aggregate, err := c.Gateway.FetchAggregate(ctx, token)
	if err != nil {
		if c.Policy == AggregateOptional {
			return data, nil
		}
		return TipJarData{}, fmt.Errorf("fetch aggregate: %w", err)
	}
	data.Aggregate = &aggregate
	return data, nil
}

// NewTipJar builds a tip-jar session.
func NewTipJar(gw TipJarGateway, accessToken string, policy AggregatePolicy, opts ...Option) *TipJar {
	connector := TipJarConnector{Gateway: gw, AccessToken: accessToken, Policy: policy}
	opts = append([]Option{WithName("tip jar")}, opts...)
	return New[TipJarData](connector, func(TipJarData) string {
		return "Successfully retrieved supporter data"
	}, opts...)
}

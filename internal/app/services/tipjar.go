package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
)

// TipJarService serves the creator's supporter list and aggregate to holders of the creator token.
type TipJarService struct {
	store        ports.SupporterStore
	creatorToken string
}

// NewTipJarService constructs a tip-jar service.
func NewTipJarService(store ports.SupporterStore, creatorToken string) *TipJarService {
	return &TipJarService{store: store, creatorToken: strings.TrimSpace(creatorToken)}
}

// Supporters returns supporters in display order. An empty list is returned as empty, not nil.
func (s *TipJarService) Supporters(ctx context.Context, accessToken string) ([]ports.Supporter, error) {
	if err := s.authorize(accessToken); err != nil {
		return nil, err
	}
	supporters, err := s.store.ListSupporters(ctx)
	if err != nil {
		return nil, err
	}
	if supporters == nil {
		supporters = []ports.Supporter{}
	}
	return supporters, nil
}

// Aggregate returns the creator stats.
func (s *TipJarService) Aggregate(ctx context.Context, accessToken string) (ports.CreatorStats, error) {
	if err := s.authorize(accessToken); err != nil {
		return ports.CreatorStats{}, err
	}
	return s.store.GetCreatorStats(ctx)
}

func (s *TipJarService) authorize(accessToken string) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" || s.creatorToken == "" {
		return ErrInvalidAccessToken
	}
	if subtle.ConstantTimeCompare([]byte(accessToken), []byte(s.creatorToken)) != 1 {
		return ErrInvalidAccessToken
	}
	return nil
}

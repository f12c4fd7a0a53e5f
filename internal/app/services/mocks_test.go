package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fr0stylo/supportdeck/internal/app/ports"
)

type mockIntentProvider struct {
	mock.Mock
}

func (m *mockIntentProvider) Name() string {
	return "mock"
}

func (m *mockIntentProvider) CreateIntent(ctx context.Context, params ports.IntentParams) (ports.ProviderIntent, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(ports.ProviderIntent), args.Error(1)
}

type mockPaymentStore struct {
	mock.Mock
}

func (m *mockPaymentStore) GetIntentByIdempotencyKey(ctx context.Context, key string) (ports.PaymentIntentRecord, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ports.PaymentIntentRecord), args.Error(1)
}

func (m *mockPaymentStore) RecordIntent(ctx context.Context, intent ports.PaymentIntentRecord) error {
	return m.Called(ctx, intent).Error(0)
}

type mockMembershipStore struct {
	mock.Mock
}

func (m *mockMembershipStore) GetDefaultProfile(ctx context.Context) (ports.MembershipProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.MembershipProfile), args.Error(1)
}

func (m *mockMembershipStore) CreateGrant(ctx context.Context, grant ports.MembershipGrant) error {
	return m.Called(ctx, grant).Error(0)
}

func (m *mockMembershipStore) GetProfileByAccessToken(ctx context.Context, accessToken string) (ports.MembershipProfile, time.Time, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(ports.MembershipProfile), args.Get(1).(time.Time), args.Error(2)
}

type mockSupporterStore struct {
	mock.Mock
}

func (m *mockSupporterStore) ListSupporters(ctx context.Context) ([]ports.Supporter, error) {
	args := m.Called(ctx)
	supporters, _ := args.Get(0).([]ports.Supporter)
	return supporters, args.Error(1)
}

func (m *mockSupporterStore) GetCreatorStats(ctx context.Context) (ports.CreatorStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.CreatorStats), args.Error(1)
}

type mockWebhookStore struct {
	mock.Mock
}

func (m *mockWebhookStore) AppendWebhookEvent(ctx context.Context, event ports.WebhookEventRecord) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockWebhookStore) ListWebhookEvents(ctx context.Context, provider string, limit int64) ([]ports.WebhookEventRecord, error) {
	args := m.Called(ctx, provider, limit)
	events, _ := args.Get(0).([]ports.WebhookEventRecord)
	return events, args.Error(1)
}

package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fr0stylo/supportdeck/pkg/gateway"
	"github.com/fr0stylo/supportdeck/pkg/notify"
)

type mockMembershipGateway struct {
	mock.Mock
}

func (m *mockMembershipGateway) ExchangeAuthCode(ctx context.Context, code, redirectURI string) (gateway.Tokens, error) {
	args := m.Called(ctx, code, redirectURI)
	return args.Get(0).(gateway.Tokens), args.Error(1)
}

func (m *mockMembershipGateway) FetchProfile(ctx context.Context, accessToken string) (gateway.MembershipProfile, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(gateway.MembershipProfile), args.Error(1)
}

type mockTipJarGateway struct {
	mock.Mock
}

func (m *mockTipJarGateway) FetchSupporters(ctx context.Context, accessToken string) ([]gateway.Supporter, error) {
	args := m.Called(ctx, accessToken)
	supporters, _ := args.Get(0).([]gateway.Supporter)
	return supporters, args.Error(1)
}

func (m *mockTipJarGateway) FetchAggregate(ctx context.Context, accessToken string) (gateway.Aggregate, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(gateway.Aggregate), args.Error(1)
}

const redirectURI = "http://localhost:3000/membership/callback"

func activeProfile() gateway.MembershipProfile {
	return gateway.MembershipProfile{
		ID:               "12345",
		DisplayName:      "John Doe",
		Email:            "john.doe@example.com",
		IsMember:         true,
		MembershipStatus: "active_patron",
	}
}

func fixtureSupporters() []gateway.Supporter {
	return []gateway.Supporter{
		{Name: "Jane Smith", Amount: decimal.NewFromInt(5), Message: "Keep up the great work!"},
		{Name: "Bob Johnson", Amount: decimal.NewFromInt(10), Message: "Love your content!"},
	}
}

func TestMembershipConnectExchangesCodeThenFetchesProfile(t *testing.T) {
	t.Parallel()

	gw := &mockMembershipGateway{}
	gw.On("ExchangeAuthCode", mock.Anything, "code-1", redirectURI).Return(gateway.Tokens{AccessToken: "access-1"}, nil).Once()
	gw.On("FetchProfile", mock.Anything, "access-1").Return(activeProfile(), nil).Once()

	rec := &notify.Recorder{}
	sess := NewMembership(gw, StaticAuthCode("code-1"), redirectURI, WithNotifier(rec))

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect error = %v", err)
	}

	snap := sess.Snapshot()
	if !snap.Connected() {
		t.Fatalf("expected connected snapshot, got %#v", snap)
	}
	if snap.Profile.DisplayName != "John Doe" || !snap.Profile.IsMember {
		t.Fatalf("unexpected profile: %#v", snap.Profile)
	}

	notes := rec.All()
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notes))
	}
	if notes[0].Level != notify.LevelSuccess || notes[0].Description != "Successfully connected as John Doe" {
		t.Fatalf("unexpected notification: %#v", notes[0])
	}
	gw.AssertExpectations(t)
}

func TestMembershipConnectFailureLeavesNoData(t *testing.T) {
	t.Parallel()

	gw := &mockMembershipGateway{}
	authErr := &gateway.AuthError{Op: "exchange-auth-code", StatusCode: 400, Message: "authorization code is invalid or expired"}
	gw.On("ExchangeAuthCode", mock.Anything, "stale", redirectURI).Return(gateway.Tokens{}, authErr).Once()

	rec := &notify.Recorder{}
	sess := NewMembership(gw, StaticAuthCode("stale"), redirectURI, WithNotifier(rec))

	err := sess.Connect(context.Background())
	if !gateway.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}

	snap := sess.Snapshot()
	if snap.Status != StatusDisconnected || snap.Profile != nil {
		t.Fatalf("expected disconnected without data, got %#v", snap)
	}
	if snap.DisplayStatus() != StatusFailed {
		t.Fatalf("expected failed display status, got %s", snap.DisplayStatus())
	}
	last, _ := rec.Last()
	if last.Level != notify.LevelError || last.Title != "Connection failed" {
		t.Fatalf("unexpected notification: %#v", last)
	}
	gw.AssertNotCalled(t, "FetchProfile", mock.Anything, mock.Anything)
}

func TestConnectIgnoresOverlappingInvocations(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	gw := &mockMembershipGateway{}
	gw.On("ExchangeAuthCode", mock.Anything, "code-1", redirectURI).
		Run(func(mock.Arguments) { <-release }).
		Return(gateway.Tokens{AccessToken: "access-1"}, nil).Once()
	gw.On("FetchProfile", mock.Anything, "access-1").Return(activeProfile(), nil).Once()

	rec := &notify.Recorder{}
	sess := NewMembership(gw, StaticAuthCode("code-1"), redirectURI, WithNotifier(rec))

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = sess.Connect(context.Background())
	}()

	deadline := time.Now().Add(2 * time.Second)
	for sess.Status() != StatusConnecting {
		if time.Now().After(deadline) {
			t.Fatal("session never entered connecting state")
		}
		time.Sleep(time.Millisecond)
	}

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("overlapping Connect error = %v", err)
	}
	if err := sess.Disconnect(context.Background()); !errors.Is(err, ErrConnectInFlight) {
		t.Fatalf("expected ErrConnectInFlight, got %v", err)
	}

	close(release)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("first Connect error = %v", firstErr)
	}

	gw.AssertNumberOfCalls(t, "ExchangeAuthCode", 1)
	gw.AssertNumberOfCalls(t, "FetchProfile", 1)
	if len(rec.All()) != 1 {
		t.Fatalf("expected exactly one notification, got %#v", rec.All())
	}
}

func TestConnectWhileConnectedIsNoop(t *testing.T) {
	t.Parallel()

	gw := &mockMembershipGateway{}
	gw.On("ExchangeAuthCode", mock.Anything, "code-1", redirectURI).Return(gateway.Tokens{AccessToken: "access-1"}, nil).Once()
	gw.On("FetchProfile", mock.Anything, "access-1").Return(activeProfile(), nil).Once()

	sess := NewMembership(gw, StaticAuthCode("code-1"), redirectURI)
	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect error = %v", err)
	}
	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect error = %v", err)
	}
	gw.AssertNumberOfCalls(t, "ExchangeAuthCode", 1)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	t.Parallel()

	gw := &mockMembershipGateway{}
	gw.On("ExchangeAuthCode", mock.Anything, "code-1", redirectURI).Return(gateway.Tokens{AccessToken: "access-1"}, nil)
	gw.On("FetchProfile", mock.Anything, "access-1").Return(activeProfile(), nil)

	rec := &notify.Recorder{}
	sess := NewMembership(gw, StaticAuthCode("code-1"), redirectURI, WithNotifier(rec))

	if err := sess.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect on fresh session error = %v", err)
	}
	if sess.Status() != StatusDisconnected || len(rec.All()) != 0 {
		t.Fatalf("expected untouched fresh session")
	}

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect error = %v", err)
	}
	rec.Reset()

	if err := sess.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect error = %v", err)
	}
	before := sess.Snapshot()
	if err := sess.Disconnect(context.Background()); err != nil {
		t.Fatalf("second Disconnect error = %v", err)
	}
	after := sess.Snapshot()

	if before.Status != after.Status || after.Profile != nil || after.Err != nil {
		t.Fatalf("expected unchanged disconnected state, before=%#v after=%#v", before, after)
	}
	notes := rec.All()
	if len(notes) != 1 || notes[0].Level != notify.LevelInfo {
		t.Fatalf("expected one info notification, got %#v", notes)
	}
}

func TestTipJarAggregateFailureFailsWholeConnectByDefault(t *testing.T) {
	t.Parallel()

	gw := &mockTipJarGateway{}
	gw.On("FetchSupporters", mock.Anything, "mock_access_token").Return(fixtureSupporters(), nil).Once()
	gw.On("FetchAggregate", mock.Anything, "mock_access_token").Return(gateway.Aggregate{}, &gateway.Error{Op: "fetch-aggregate", StatusCode: 500}).Once()

	sess := NewTipJar(gw, "mock_access_token", AggregateRequired)
	if err := sess.Connect(context.Background()); err == nil {
		t.Fatal("expected connect error")
	}

	snap := sess.Snapshot()
	if snap.Status != StatusDisconnected || snap.Profile != nil {
		t.Fatalf("expected no partial data, got %#v", snap)
	}
}

func TestTipJarAggregateOptionalConnectsDegraded(t *testing.T) {
	t.Parallel()

	gw := &mockTipJarGateway{}
	gw.On("FetchSupporters", mock.Anything, "mock_access_token").Return(fixtureSupporters(), nil).Once()
	gw.On("FetchAggregate", mock.Anything, "mock_access_token").Return(gateway.Aggregate{}, &gateway.Error{Op: "fetch-aggregate", StatusCode: 500}).Once()

	sess := NewTipJar(gw, "mock_access_token", AggregateOptional)
	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect error = %v", err)
	}

	snap := sess.Snapshot()
	if !snap.Connected() {
		t.Fatalf("expected connected, got %#v", snap)
	}
	if snap.Profile.Aggregate != nil {
		t.Fatalf("expected nil aggregate, got %#v", snap.Profile.Aggregate)
	}
	if len(snap.Profile.Supporters) != 2 || snap.Profile.Supporters[0].Name != "Jane Smith" {
		t.Fatalf("unexpected supporters: %#v", snap.Profile.Supporters)
	}
}

func TestTipJarSupportersFailureSkipsAggregate(t *testing.T) {
	t.Parallel()

	gw := &mockTipJarGateway{}
	gw.On("FetchSupporters", mock.Anything, "mock_access_token").Return(nil, &gateway.AuthError{Op: "fetch-supporters", StatusCode: 401}).Once()

	sess := NewTipJar(gw, "mock_access_token", AggregateOptional)
	if err := sess.Connect(context.Background()); !gateway.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	gw.AssertNotCalled(t, "FetchAggregate", mock.Anything, mock.Anything)
}

func TestSnapshotDoesNotAliasSessionData(t *testing.T) {
	t.Parallel()

	gw := &mockTipJarGateway{}
	gw.On("FetchSupporters", mock.Anything, "mock_access_token").Return(fixtureSupporters(), nil)
	gw.On("FetchAggregate", mock.Anything, "mock_access_token").Return(gateway.Aggregate{TotalSupporters: 125}, nil)

	sess := NewTipJar(gw, "mock_access_token", AggregateRequired)
	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("Connect error = %v", err)
	}

	first := sess.Snapshot()
	first.Profile.Supporters[0].Name = "mutated"
	first.Profile.Aggregate.TotalSupporters = 0

	second := sess.Snapshot()
	if second.Profile.Supporters[0].Name != "Jane Smith" {
		t.Fatalf("supporter list aliased: %#v", second.Profile.Supporters)
	}
	if second.Profile.Aggregate.TotalSupporters != 125 {
		t.Fatalf("aggregate aliased: %#v", second.Profile.Aggregate)
	}
}

func TestReconnectAfterFailureClearsError(t *testing.T) {
	t.Parallel()

	gw := &mockTipJarGateway{}
	gw.On("FetchSupporters", mock.Anything, "mock_access_token").Return(nil, &gateway.Error{Op: "fetch-supporters", StatusCode: 503}).Once()
	gw.On("FetchSupporters", mock.Anything, "mock_access_token").Return(fixtureSupporters(), nil).Once()
	gw.On("FetchAggregate", mock.Anything, "mock_access_token").Return(gateway.Aggregate{TotalSupporters: 2}, nil).Once()

	sess := NewTipJar(gw, "mock_access_token", AggregateRequired)
	if err := sess.Connect(context.Background()); err == nil {
		t.Fatal("expected first connect to fail")
	}
	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect error = %v", err)
	}
	snap := sess.Snapshot()
	if snap.Err != nil || !snap.Connected() {
		t.Fatalf("expected clean connected state, got %#v", snap)
	}
}

func TestConnectCancelledResolvesAsFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	connector := ConnectorFunc[gateway.MembershipProfile](func(ctx context.Context) (gateway.MembershipProfile, error) {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			return gateway.MembershipProfile{}, ctx.Err()
		}
		return activeProfile(), nil
	})

	rec := &notify.Recorder{}
	sess := New(connector, nil, WithNotifier(rec))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for sess.Status() != StatusConnecting && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	err := sess.Connect(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	snap := sess.Snapshot()
	if snap.Status != StatusDisconnected || snap.Profile != nil || !errors.Is(snap.Err, context.Canceled) {
		t.Fatalf("expected disconnected with error, got %#v", snap)
	}
	if snap.DisplayStatus() != StatusFailed {
		t.Fatalf("expected failed display status, got %s", snap.DisplayStatus())
	}
	if notes := rec.All(); len(notes) != 1 || notes[0].Level != notify.LevelError {
		t.Fatalf("expected one error notification, got %#v", notes)
	}

	if err := sess.Connect(context.Background()); err != nil {
		t.Fatalf("reconnect error = %v", err)
	}
	if !sess.Snapshot().Connected() {
		t.Fatalf("expected connected after reconnect, got %#v", sess.Snapshot())
	}
}

func TestConnectSettlesWhenConnectorPanics(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	connector := ConnectorFunc[gateway.MembershipProfile](func(ctx context.Context) (gateway.MembershipProfile, error) {
		if calls.Add(1) == 1 {
			panic("connector exploded")
		}
		return activeProfile(), nil
	})

	rec := &notify.Recorder{}
	sess := New(connector, nil, WithNotifier(rec))

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the panic to propagate")
			}
		}()
		_ = sess.Connect(context.Background())
	}()

	snap := sess.Snapshot()
	if snap.Status != StatusDisconnected || snap.DisplayStatus() != StatusFailed {
		t.Fatalf("expected failed disconnected session, got %#v", snap)
	}
	if notes := rec.All(); len(notes) != 1 || notes[0].Level != notify.LevelError {
		t.Fatalf("expected one error notification, got %#v", notes)
	}
	if err := sess.Connect(context.Background()); err != nil || !sess.Snapshot().Connected() {
		t.Fatalf("expected reconnect to succeed, got %v", err)
	}
}

// Package session holds the client-side connection state of one integration.
//
// A Session moves Disconnected -> Connecting -> Connected on an explicit Connect and back to
// Disconnected on Disconnect or on a failed connect. Fetched data is only visible while Connected.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/fr0stylo/supportdeck/pkg/notify"
)

// Status is the connection state of a session.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	// StatusFailed is reported by Snapshot.DisplayStatus for a Disconnected session whose last
	// connect failed. A session never rests in it.
	StatusFailed Status = "failed"
)

// ErrConnectInFlight is returned by Disconnect while a connect sequence is running.
var ErrConnectInFlight = errors.New("session: connect in progress")

var errConnectAborted = errors.New("connect aborted")

// Connector performs the remote part of a connect: obtain a credential and fetch data.
type Connector[P any] interface {
	Connect(ctx context.Context) (P, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc[P any] func(ctx context.Context) (P, error)

// Connect calls f.
func (f ConnectorFunc[P]) Connect(ctx context.Context) (P, error) {
	return f(ctx)
}

// Cloner is implemented by profile types holding slices or maps so snapshots do not alias session state.
type Cloner[P any] interface {
	Clone() P
}

// Snapshot is a point-in-time copy of a session.
type Snapshot[P any] struct {
	Status  Status
	Profile *P
	Err     error
}

// Connected reports whether the snapshot holds fetched data.
func (s Snapshot[P]) Connected() bool {
	return s.Status == StatusConnected && s.Profile != nil
}

// DisplayStatus folds a failed last connect into StatusFailed.
func (s Snapshot[P]) DisplayStatus() Status {
	if s.Status == StatusDisconnected && s.Err != nil {
		return StatusFailed
	}
	return s.Status
}

type options struct {
	name     string
	notifier notify.Notifier
	logger   *slog.Logger
}

// Option configures a Session.
type Option func(*options)

// WithName sets the integration name used in notifications.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithNotifier injects the notification sink.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Session is the state holder for one integration.
type Session[P any] struct {
	name      string
	connector Connector[P]
	describe  func(P) string
	notifier  notify.Notifier
	log       *slog.Logger

	mu       sync.Mutex
	status   Status
	profile  *P
	err      error
	connects uint64
}

// New creates a Disconnected session. describe renders the success notification text and may be nil.
func New[P any](connector Connector[P], describe func(P) string, opts ...Option) *Session[P] {
	cfg := options{name: "integration", notifier: notify.Discard, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Session[P]{
		name:      cfg.name,
		connector: connector,
		describe:  describe,
		notifier:  cfg.notifier,
		log:       cfg.logger.With("integration", cfg.name),
		status:    StatusDisconnected,
	}
}

// Name returns the integration name.
func (s *Session[P]) Name() string {
	return s.name
}

// Status returns the current state.
func (s *Session[P]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot returns a copy of the current state.
func (s *Session[P]) Snapshot() Snapshot[P] {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot[P]{Status: s.status, Err: s.err}
	if s.status == StatusConnected && s.profile != nil {
		profile := *s.profile
		if cloner, ok := any(profile).(Cloner[P]); ok {
			profile = cloner.Clone()
		}
		snap.Profile = &profile
	}
	return snap
}

// Connect runs one connect sequence. It is a no-op while Connecting or Connected.
// A failure leaves the session Disconnected with no data, notifies, and is returned for inspection.
func (s *Session[P]) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusDisconnected {
		status := s.status
		s.mu.Unlock()
		s.log.DebugContext(ctx, "Connect ignored", "status", string(status))
		return nil
	}
	s.status = StatusConnecting
	s.err = nil
	s.connects++
	seq := s.connects
	s.mu.Unlock()
	defer s.settleAborted(ctx, seq)

	if s.connector == nil {
		return s.fail(ctx, errors.New("session: no connector configured"))
	}

	profile, err := s.connector.Connect(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	s.mu.Lock()
	s.status = StatusConnected
	s.profile = &profile
	s.mu.Unlock()

	description := ""
	if s.describe != nil {
		description = s.describe(profile)
	}
	s.log.InfoContext(ctx, "Integration connected")
	s.notifier.Notify(ctx, notify.Notification{
		Level:       notify.LevelSuccess,
		Title:       "Connected to " + s.name,
		Description: description,
	})
	return nil
}

// settleAborted returns a session still Connecting to Disconnected, so a panicking connector
// does not block later connects. The panic keeps propagating.
func (s *Session[P]) settleAborted(ctx context.Context, seq uint64) {
	s.mu.Lock()
	stuck := s.status == StatusConnecting && s.connects == seq
	s.mu.Unlock()
	if stuck {
		_ = s.fail(ctx, errConnectAborted)
	}
}

func (s *Session[P]) fail(ctx context.Context, err error) error {
	s.mu.Lock()
	s.status = StatusDisconnected
	s.profile = nil
	s.err = err
	s.mu.Unlock()

	s.log.WarnContext(ctx, "Integration connect failed", "error", err)
	s.notifier.Notify(ctx, notify.Notification{
		Level:       notify.LevelError,
		Title:       "Connection failed",
		Description: err.Error(),
	})
	return err
}

// Disconnect drops fetched data without a network call. It is idempotent when already
// Disconnected and refused with ErrConnectInFlight while Connecting.
func (s *Session[P]) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	switch s.status {
	case StatusConnecting:
		s.mu.Unlock()
		return ErrConnectInFlight
	case StatusDisconnected:
		s.mu.Unlock()
		return nil
	}
	s.status = StatusDisconnected
	s.profile = nil
	s.err = nil
	s.mu.Unlock()

	s.log.InfoContext(ctx, "Integration disconnected")
	s.notifier.Notify(ctx, notify.Notification{
		Level: notify.LevelInfo,
		Title: "Disconnected from " + s.name,
	})
	return nil
}

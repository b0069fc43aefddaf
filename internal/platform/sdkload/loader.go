// Package sdkload guards process-wide initialisation of an external SDK.
//
// A Loader settles exactly once into ready or failed. Every widget session
// shares the same Loader and either waits for it (bounded) or treats the
// feature as inert.
package sdkload

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle state of a Loader.
type State int32

const (
	StatePending State = iota
	StateReady
	StateFailed
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "pending"
	}
}

// ErrNotReady is returned while the loader has not settled.
var ErrNotReady = errors.New("sdk not ready")

// InitFunc performs the one-time initialisation.
type InitFunc func(ctx context.Context) error

// Loader runs an InitFunc at most once to completion.
type Loader struct {
	name   string
	init   InitFunc
	logger *zap.Logger
	group  singleflight.Group

	mu    sync.RWMutex
	state State
	err   error
}

// New creates a pending Loader.
func New(name string, init InitFunc, logger *zap.Logger) *Loader {
	return &Loader{
		name:   name,
		init:   init,
		logger: logger.With(zap.String("sdk", name)),
	}
}

// State returns the current state.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Load runs the initialiser if the loader is still pending. Concurrent callers
// share one run; callers after settlement get the settled result without
// re-running it. A cancelled context leaves the loader pending.
func (l *Loader) Load(ctx context.Context) error {
	if state, err := l.settled(); state != StatePending {
		return err
	}

	_, err, _ := l.group.Do(l.name, func() (any, error) {
		if state, err := l.settled(); state != StatePending {
			return nil, err
		}

		err := l.init(ctx)
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			l.logger.Warn("sdk load interrupted", zap.Error(err))
			return nil, err
		}

		l.mu.Lock()
		if err != nil {
			l.state = StateFailed
			l.err = err
		} else {
			l.state = StateReady
		}
		l.mu.Unlock()

		if err != nil {
			l.logger.Warn("sdk load failed", zap.Error(err))
		} else {
			l.logger.Info("sdk ready")
		}
		return nil, err
	})
	return err
}

// WaitReady polls until the loader is ready, it fails, or timeout elapses.
// It never returns an error: callers treat false as "stay inert".
func (l *Loader) WaitReady(ctx context.Context, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	b.MaxElapsedTime = timeout

	err := backoff.Retry(func() error {
		switch l.State() {
		case StateReady:
			return nil
		case StateFailed:
			return backoff.Permanent(ErrNotReady)
		default:
			return ErrNotReady
		}
	}, backoff.WithContext(b, ctx))
	return err == nil
}

func (l *Loader) settled() (State, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state, l.err
}

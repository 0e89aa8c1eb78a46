// Package fallback executes an ordered chain of provider strategies,
// stopping at the first success.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// Strategy is one concrete attempt toward satisfying a request: a named
// deferred call bounded by a wall-clock budget. A zero Timeout means the
// caller's context is the only bound.
type Strategy[T any] struct {
	Name    string
	Timeout time.Duration
	Run     func(ctx context.Context) (T, error)
}

// Attempt records the outcome of one failed strategy.
type Attempt struct {
	Strategy string
	Err      error
}

// ExhaustedError is returned when every strategy in a chain has failed.
// It carries each attempt's failure detail for diagnostics.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Strategy, a.Err)
	}
	return "all strategies failed: " + strings.Join(parts, "; ")
}

// Last returns the error from the final attempted strategy.
func (e *ExhaustedError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// Unwrap exposes the terminal failure to errors.Is/As, so callers can
// classify an exhausted chain by what finally stopped it.
func (e *ExhaustedError) Unwrap() error {
	return e.Last()
}

// Execute runs strategies strictly in order and returns the first success.
// Each strategy gets exactly one attempt; a failed or cancelled call
// advances the chain. Strategies never run in parallel: the next one is
// tried only after the previous is confirmed failed.
func Execute[T any](ctx context.Context, strategies []Strategy[T]) (T, error) {
	var zero T
	attempts := make([]Attempt, 0, len(strategies))
	for _, s := range strategies {
		result, err := attempt(ctx, s)
		if err == nil {
			return result, nil
		}
		attempts = append(attempts, Attempt{Strategy: s.Name, Err: err})
	}
	return zero, &ExhaustedError{Attempts: attempts}
}

func attempt[T any](ctx context.Context, s Strategy[T]) (T, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	return s.Run(ctx)
}

// IsTimeout reports whether err was caused by a call exceeding its
// wall-clock budget. Cancellation is not a timeout: a client that
// disconnects mid-chain should not be answered as if the budget ran out.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsTransport reports whether err is a transport-level failure (connection
// reset, DNS, TLS) rather than a provider-reported one.
func IsTransport(err error) bool {
	if IsTimeout(err) {
		return false
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

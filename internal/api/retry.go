package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/rit-client/internal/jsonview"
)

// RetryPolicy decides what happens when the server rate-limits a call.
type RetryPolicy int

const (
	// WaitAndRetry sleeps for the server-requested time and sends the same
	// request again, with no attempt limit. A wait below minRetryWait,
	// including zero, is raised to it. Other failures are returned.
	WaitAndRetry RetryPolicy = iota
	// FailFast returns every failure, throttling included, immediately.
	FailFast
)

func (p RetryPolicy) String() string {
	switch p {
	case WaitAndRetry:
		return "wait_and_retry"
	case FailFast:
		return "fail_fast"
	default:
		return fmt.Sprintf("RetryPolicy(%d)", int(p))
	}
}

// ParseRetryPolicy parses "wait_and_retry" (or "wait") and "fail_fast".
func ParseRetryPolicy(s string) (RetryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wait_and_retry", "wait-and-retry", "wait":
		return WaitAndRetry, nil
	case "fail_fast", "fail-fast", "failfast":
		return FailFast, nil
	}
	return 0, fmt.Errorf("unknown retry policy %q", s)
}

// minRetryWait is the shortest pause between throttled attempts.
const minRetryWait = 50 * time.Millisecond

type requestIDKey struct{}

// requestID returns the id Execute attached to ctx, if any.
func requestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// Sleeper pauses the calling goroutine. Sleep must return ctx.Err() if the
// context ends before d has elapsed.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc is a function adapter for Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerSleeper sleeps on a timer and wakes early on cancellation.
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Observer receives the state transitions of each Execute call:
// OnSend for every attempt, OnThrottle before each wait, OnResult once.
type Observer interface {
	OnSend(method Method, path string, attempt int)
	OnThrottle(method Method, path string, wait time.Duration)
	OnResult(method Method, path string, err error, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) OnSend(Method, string, int) {}

func (nopObserver) OnThrottle(Method, string, time.Duration) {}

func (nopObserver) OnResult(Method, string, error, time.Duration) {}

// RequestOption adjusts a single endpoint call.
type RequestOption func(*requestConfig)

type requestConfig struct {
	policy RetryPolicy
}

// WithPolicy overrides the client's default retry policy for one call.
func WithPolicy(p RetryPolicy) RequestOption {
	return func(rc *requestConfig) {
		rc.policy = p
	}
}

// Execute sends the request and applies policy to rate-limit responses. On
// success the decoded body is returned through jsonview.Wrap: a *Mapping or
// *Sequence for compound documents, the scalar itself otherwise.
//
// Every attempt carries the same uuid in RequestIDHeader. A cancelled ctx
// interrupts a pending wait; the returned error then wraps ctx.Err().
func (c *Client) Execute(ctx context.Context, method Method, path string, params Params, policy RetryPolicy) (any, error) {
	start := time.Now()
	id := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey{}, id)

	for attempt := 1; ; attempt++ {
		c.observer.OnSend(method, path, attempt)

		data, err := c.send(ctx, method, path, params)
		if err == nil {
			c.observer.OnResult(method, path, nil, time.Since(start))
			return jsonview.Wrap(data), nil
		}

		var f *Failure
		if policy != WaitAndRetry || !errors.As(err, &f) || f.Kind != ThrottledKind {
			c.observer.OnResult(method, path, err, time.Since(start))
			return nil, err
		}

		wait := max(f.Wait, minRetryWait)
		c.observer.OnThrottle(method, path, wait)
		c.logger.Debug("rate limited, waiting",
			"method", method,
			"path", path,
			"attempt", attempt,
			"wait", wait,
			"request_id", id,
		)

		if err := c.sleeper.Sleep(ctx, wait); err != nil {
			err = fmt.Errorf("wait %s before retrying %s %s: %w", wait, method, path, err)
			c.observer.OnResult(method, path, err, time.Since(start))
			return nil, err
		}
	}
}

// call runs an endpoint request with the client default policy unless opts
// override it.
func (c *Client) call(ctx context.Context, method Method, path string, params Params, opts []RequestOption) (any, error) {
	rc := requestConfig{policy: c.policy}
	for _, opt := range opts {
		opt(&rc)
	}
	return c.Execute(ctx, method, path, params, rc.policy)
}

func (c *Client) mapping(ctx context.Context, method Method, path string, params Params, opts []RequestOption) (*jsonview.Mapping, error) {
	v, err := c.call(ctx, method, path, params, opts)
	if err != nil {
		return nil, err
	}
	return jsonview.AsMapping(v)
}

func (c *Client) sequence(ctx context.Context, method Method, path string, params Params, opts []RequestOption) (*jsonview.Sequence, error) {
	v, err := c.call(ctx, method, path, params, opts)
	if err != nil {
		return nil, err
	}
	return jsonview.AsSequence(v)
}

package api

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors matched by *Failure through errors.Is.
var (
	ErrTransport = errors.New("rit transport failure")
	ErrRejected  = errors.New("rit request rejected")
	ErrThrottled = errors.New("rit rate limit exceeded")
)

// FailureKind classifies a failed request.
type FailureKind int

const (
	// TransportKind: the round trip did not complete or the body was not JSON.
	TransportKind FailureKind = iota + 1
	// RejectedKind: the server answered with an error document.
	RejectedKind
	// ThrottledKind: the error document asked the caller to wait and retry.
	ThrottledKind
)

func (k FailureKind) String() string {
	switch k {
	case TransportKind:
		return "transport"
	case RejectedKind:
		return "rejected"
	case ThrottledKind:
		return "throttled"
	default:
		return "unknown"
	}
}

// Failure is the error returned for every failed request.
type Failure struct {
	Kind       FailureKind
	Method     Method
	Path       string
	StatusCode int           // 0 when no response was received
	Code       string        // error code from the body, if any
	Message    string        // error message from the body, or the status text
	Wait       time.Duration // server-requested pause (ThrottledKind)
	Body       []byte
	Err        error // underlying cause (TransportKind)
}

func (f *Failure) Error() string {
	switch f.Kind {
	case TransportKind:
		return fmt.Sprintf("rit transport error: %s %s: %v", f.Method, f.Path, f.Err)
	case ThrottledKind:
		return fmt.Sprintf("rit rate limited %d %s: retry in %s", f.StatusCode, f.label(), f.Wait)
	default:
		return fmt.Sprintf("rit api error %d %s: %s", f.StatusCode, f.label(), f.Message)
	}
}

func (f *Failure) label() string {
	if f.Code != "" {
		return f.Code
	}
	return string(f.Method) + " " + f.Path
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches the sentinel for f.Kind.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrTransport:
		return f.Kind == TransportKind
	case ErrRejected:
		return f.Kind == RejectedKind
	case ErrThrottled:
		return f.Kind == ThrottledKind
	}
	return false
}

// AsFailure extracts a *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

package vibe

import (
	"fmt"
	"reflect"
	"time"
)

// UnsupportedTypeError reports a declared type that cannot be classified
// into any recognized descriptor shape. It is raised at configuration time
// (Resolve or Func) and never retried.
type UnsupportedTypeError struct {
	Type   reflect.Type
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("vibe: unsupported type %s: %s", e.Type, e.Reason)
}

// UnsupportedClientError reports that no registered adapter recognizes the
// client passed to New. Raised at construction time, before any network call.
type UnsupportedClientError struct {
	Client any
}

func (e *UnsupportedClientError) Error() string {
	return fmt.Sprintf("vibe: no registered adapter for client type %T", e.Client)
}

// ProviderError wraps a failure from a backend: unreachable, rejected
// request, or an empty response. It consumes one attempt of the retry budget.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("vibe: provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError reports raw model text that is not valid JSON for the
// requested shape. Carries the raw text for diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vibe: cannot parse response %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TypeMismatchError reports a parsed value that does not conform to the
// expected descriptor, either during coercion or during the independent
// validation pass.
type TypeMismatchError struct {
	Raw    string
	Value  any
	Expect string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("vibe: response %q does not match expected %s", e.Raw, e.Expect)
}

// TimeoutError reports a single attempt that exceeded the configured
// per-attempt timeout. It consumes one attempt of the retry budget.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("vibe: attempt timed out after %s", e.After)
}

// RetriesExhaustedError is the terminal failure of the retry controller:
// every attempt up to NumTries failed. Last holds the final attempt's error.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("vibe: no valid response after %d attempt(s): %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Last }

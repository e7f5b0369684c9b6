package vibe

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// retryState is the controller's explicit state. A run starts attempting
// and ends in exactly one of the two terminal states.
type retryState int

const (
	stateAttempting retryState = iota
	stateSucceeded
	stateExhausted
)

// sendFunc is one blocking backend round trip for the call being retried.
type sendFunc func(ctx context.Context) (string, error)

// retryRunner orchestrates up to NumTries attempts of
// {send -> coerce -> match}, short-circuiting on the first success.
// Attempts are strictly sequential; provider, parse, mismatch, and timeout
// failures all consume the same budget.
type retryRunner struct {
	cfg Config
}

func (r *retryRunner) run(ctx context.Context, prompt string, send sendFunc, d *Descriptor) (any, error) {
	callID := uuid.NewString()
	sink := r.cfg.Sink

	state := stateAttempting
	attempt := 0
	var result any
	var lastErr error

	for state == stateAttempting {
		attempt++
		sink.Attempt(callID, attempt, r.cfg.NumTries, prompt)

		value, err := r.attemptOnce(ctx, send, d, callID, attempt)
		if err == nil {
			result = value
			state = stateSucceeded
			continue
		}

		lastErr = err
		sink.Failure(callID, attempt, err)
		if attempt == r.cfg.NumTries {
			state = stateExhausted
		}
	}

	if state == stateSucceeded {
		sink.Success(callID, attempt)
		return result, nil
	}
	return nil, &RetriesExhaustedError{Attempts: attempt, Last: lastErr}
}

func (r *retryRunner) attemptOnce(ctx context.Context, send sendFunc, d *Descriptor, callID string, attempt int) (any, error) {
	raw, err := r.sendWithTimeout(ctx, send)
	if err != nil {
		return nil, err
	}
	r.cfg.Sink.Response(callID, attempt, raw)

	value, err := coerce(raw, d, r.cfg.Mode)
	if err != nil {
		return nil, err
	}
	if !matches(value, d) {
		return nil, &TypeMismatchError{Raw: raw, Value: value, Expect: d.describe()}
	}
	return value, nil
}

// sendWithTimeout bounds one round trip by Config.Timeout. The send runs
// in its own goroutine so a stalled transport cannot block the attempt loop
// past its deadline; the buffered channel lets it finish and exit.
func (r *retryRunner) sendWithTimeout(ctx context.Context, send sendFunc) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	type outcome struct {
		raw string
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		raw, err := send(ctx)
		done <- outcome{raw: raw, err: err}
	}()

	select {
	case o := <-done:
		return o.raw, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &TimeoutError{After: r.cfg.Timeout}
		}
		return "", &ProviderError{Provider: "context", Err: ctx.Err()}
	}
}

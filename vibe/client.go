package vibe

import (
	"context"
	"fmt"
	"reflect"
)

// Vibe is the public entry point. It binds one backend client, one model,
// and one Config; all calls made through it share that binding. A Vibe is
// safe for concurrent use when the underlying vendor client is.
type Vibe struct {
	adapter Adapter
	model   string
	cfg     Config
	runner  *retryRunner
}

// New selects the adapter for client by consulting the registry and returns
// the configured facade. An unrecognized client fails immediately with
// *UnsupportedClientError; no network call is made.
func New(client any, model string, cfg Config) (*Vibe, error) {
	if model == "" {
		return nil, fmt.Errorf("vibe: model must be specified")
	}
	full, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	adapter, err := adapterFor(client, model, full)
	if err != nil {
		return nil, err
	}
	return &Vibe{
		adapter: adapter,
		model:   model,
		cfg:     full,
		runner:  &retryRunner{cfg: full},
	}, nil
}

var boolDescriptor = mustResolve(reflect.TypeOf(false))

func mustResolve(t reflect.Type) *Descriptor {
	d, err := Resolve(t)
	if err != nil {
		panic(err)
	}
	return d
}

// Check evaluates a free-text statement to a boolean. The backend is asked
// to answer 'true' or 'false'; the answer is coerced and validated like any
// other call, under the configured retry budget.
func (v *Vibe) Check(ctx context.Context, statement string) (bool, error) {
	prompt := buildStatementPrompt(statement)
	out, err := v.runner.run(ctx, prompt, func(ctx context.Context) (string, error) {
		return v.adapter.SendStatementPrompt(ctx, prompt)
	}, boolDescriptor)
	if err != nil {
		return false, err
	}
	return out.(bool), nil
}

// Eval sends a free-form prompt and coerces the response into T. The prompt
// is passed to the backend as-is; use Check for statement evaluation and
// Func for signature-driven calls.
func Eval[T any](ctx context.Context, v *Vibe, prompt string) (T, error) {
	var zero T
	d, err := Resolve(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	out, err := v.runner.run(ctx, prompt, func(ctx context.Context) (string, error) {
		return v.adapter.SendStatementPrompt(ctx, prompt)
	}, d)
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// Func wraps an undefined function: the backend derives each call's return
// value of type R from the signature, the docstring, and the captured
// arguments. The return descriptor is resolved once here, not per call;
// an unclassifiable R fails now with *UnsupportedTypeError.
func Func[R any](v *Vibe, sig Signature) (func(ctx context.Context, args ...any) (R, error), error) {
	ret, err := Resolve(reflect.TypeOf((*R)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	wrapper := func(ctx context.Context, args ...any) (R, error) {
		var zero R
		prompt := buildFunctionPrompt(sig, args, ret)
		out, err := v.runner.run(ctx, prompt, func(ctx context.Context) (string, error) {
			return v.adapter.SendFunctionPrompt(ctx, prompt)
		}, ret)
		if err != nil {
			return zero, err
		}
		return out.(R), nil
	}
	return wrapper, nil
}

package vibe

import (
	"context"
	"sync"
)

// Adapter is the transport contract a backend implements: one blocking call
// per rendered prompt, raw text back. Adapters never coerce, validate, or
// retry; those belong to the retry controller.
type Adapter interface {
	// Name identifies the backend in errors and diagnostics.
	Name() string
	SendStatementPrompt(ctx context.Context, prompt string) (string, error)
	SendFunctionPrompt(ctx context.Context, prompt string) (string, error)
}

// AdapterFactory inspects a caller-supplied client object and, when it
// recognizes the concrete type, returns the adapter bound to that client.
type AdapterFactory func(client any, model string, cfg Config) (Adapter, bool)

var (
	adapterMu        sync.RWMutex
	adapterFactories []AdapterFactory
)

// RegisterAdapter adds a factory to the client-recognition registry. The
// OpenAI and Gemini adapters register themselves; callers may add factories
// for their own client types before constructing a Vibe.
func RegisterAdapter(f AdapterFactory) {
	adapterMu.Lock()
	defer adapterMu.Unlock()
	adapterFactories = append(adapterFactories, f)
}

func adapterFor(client any, model string, cfg Config) (Adapter, error) {
	adapterMu.RLock()
	defer adapterMu.RUnlock()
	for _, f := range adapterFactories {
		if a, ok := f(client, model, cfg); ok {
			return a, nil
		}
	}
	return nil, &UnsupportedClientError{Client: client}
}

// Package vibe embeds natural-language reasoning into program logic through
// a single provider-agnostic entry point: evaluating a free-text statement
// to a boolean, or deriving an undefined function's return value from its
// signature, docstring, and arguments.
//
// A Vibe wraps either an OpenAI client or a Google GenAI client; the
// adapter is selected by inspecting the client passed to New. Raw model
// text is coerced into the declared Go type (primitives, slices, sets,
// arrays, maps, structs), independently re-validated, and retried up to the
// configured attempt budget before a failure surfaces.
//
//	client := openai.NewClient(os.Getenv("OPENAI_API_KEY"))
//	v, err := vibe.New(client, "gpt-4o-mini", vibe.Config{NumTries: 3, Mode: vibe.ModeEager})
//	ok, err := v.Check(ctx, "4 is an even number")
//
//	fib, err := vibe.Func[int](v, vibe.Signature{
//		Name:   "fibonacci",
//		Doc:    "Return the nth Fibonacci number.",
//		Params: []vibe.Param{{Name: "n"}},
//	})
//	n, err := fib(ctx, 10)
//
// The model's reasoning is not guaranteed to be correct; vibe only
// guarantees that a returned value has the declared type.
package vibe

package vibe

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatementPrompt(t *testing.T) {
	got := buildStatementPrompt("4 is an even number")
	assert.Contains(t, got, "respond with either 'true' or 'false'")
	assert.Contains(t, got, "Statement: 4 is an even number")

	// Pure: identical input, identical output.
	assert.Equal(t, got, buildStatementPrompt("4 is an even number"))
}

func TestBuildFunctionPrompt(t *testing.T) {
	ret := mustDescriptor(t, 0)
	sig := Signature{
		Name: "fibonacci",
		Doc:  "Return the nth Fibonacci number.",
		Params: []Param{
			{Name: "n", Type: reflect.TypeOf(0)},
		},
	}

	got := buildFunctionPrompt(sig, []any{7}, ret)
	assert.Contains(t, got, "fibonacci(n int) -> integer")
	assert.Contains(t, got, "Docstring: Return the nth Fibonacci number.")
	assert.Contains(t, got, "n = 7")
	assert.Contains(t, got, "Return value type: integer")
	assert.Contains(t, got, "no explanations")

	assert.Equal(t, got, buildFunctionPrompt(sig, []any{7}, ret))
}

func TestBuildFunctionPromptShapes(t *testing.T) {
	ret := mustDescriptor(t, point{})
	sig := Signature{Name: "midpoint", Doc: "Return the midpoint of two points."}

	got := buildFunctionPrompt(sig, []any{point{X: 0, Y: 0}, point{X: 2, Y: 2}}, ret)
	assert.Contains(t, got, "JSON object with fields {x: integer, y: integer}")
	assert.Contains(t, got, `arg0 = {"x":0,"y":0}`)
	assert.Contains(t, got, `arg1 = {"x":2,"y":2}`)
}

func TestBuildFunctionPromptNoArgs(t *testing.T) {
	ret := mustDescriptor(t, "")
	got := buildFunctionPrompt(Signature{Name: "motto", Doc: "Return a short motto."}, nil, ret)
	assert.Contains(t, got, "Arguments: (none)")
	require.Contains(t, got, "motto() -> string")
}

func TestBuildFunctionPromptMapArgsDeterministic(t *testing.T) {
	ret := mustDescriptor(t, 0)
	sig := Signature{Name: "count", Params: []Param{{Name: "inventory"}}}
	arg := map[string]int{"b": 2, "a": 1, "c": 3}

	first := buildFunctionPrompt(sig, []any{arg}, ret)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, buildFunctionPrompt(sig, []any{arg}, ret))
	}
	assert.Contains(t, first, `inventory = {"a":1,"b":2,"c":3}`)
}

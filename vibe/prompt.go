package vibe

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Param is one named parameter of a wrapped function's signature. Type is
// optional; when nil the rendered signature shows only the name.
type Param struct {
	Name string
	Type reflect.Type
}

// Signature describes a wrapped function to the backend: its name, its
// docstring, and its parameter list, in declaration order.
type Signature struct {
	Name   string
	Doc    string
	Params []Param
}

const statementInstruction = "Evaluate the statement below and respond with either 'true' or 'false'."

const functionInstruction = "You will be given: a function signature (name, parameters, and return type); " +
	"a docstring describing what the function is intended to do; " +
	"the concrete arguments passed to the function; and the declared return value type. " +
	"Your task is to: (1) interpret the docstring to understand the intended behavior of the function, " +
	"(2) use the provided arguments to simulate what the function would logically produce, " +
	"(3) ensure your response strictly matches the declared return type, both in structure and data type, and " +
	"(4) return only the value that fulfills the function's contract, " +
	"with no explanations, commentary, or extra text."

// buildStatementPrompt renders the statement-evaluation prompt. Pure: the
// same statement always yields the same prompt text.
func buildStatementPrompt(statement string) string {
	return statementInstruction + "\n\nStatement: " + statement
}

// buildFunctionPrompt renders the function-call prompt from a signature,
// the captured arguments (positionally paired with sig.Params), and the
// expected return shape. Pure for identical inputs.
func buildFunctionPrompt(sig Signature, args []any, ret *Descriptor) string {
	var b strings.Builder
	b.WriteString(functionInstruction)
	b.WriteString("\n\nFunction signature: ")
	b.WriteString(renderSignature(sig, ret))
	if sig.Doc != "" {
		b.WriteString("\nDocstring: ")
		b.WriteString(sig.Doc)
	}
	b.WriteString("\nArguments:")
	if len(args) == 0 {
		b.WriteString(" (none)")
	}
	for i, arg := range args {
		name := fmt.Sprintf("arg%d", i)
		if i < len(sig.Params) && sig.Params[i].Name != "" {
			name = sig.Params[i].Name
		}
		b.WriteString("\n  ")
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(renderValue(arg))
	}
	b.WriteString("\nReturn value type: ")
	b.WriteString(ret.describe())
	b.WriteString("\nRespond with raw JSON only, no code fences.")
	return b.String()
}

func renderSignature(sig Signature, ret *Descriptor) string {
	var b strings.Builder
	name := sig.Name
	if name == "" {
		name = "fn"
	}
	b.WriteString(name)
	b.WriteString("(")
	for i, p := range sig.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Type != nil {
			b.WriteString(" ")
			b.WriteString(p.Type.String())
		}
	}
	b.WriteString(") -> ")
	b.WriteString(ret.describe())
	return b.String()
}

// renderValue serializes an argument for the prompt. json.Marshal sorts map
// keys, which keeps the output deterministic.
func renderValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

package vibe

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type profile struct {
	Name    string   `json:"name"`
	Age     int      `json:"age"`
	Email   *string  `json:"email"`
	Tags    []string `json:"tags,omitempty"`
	private int
	Skipped string `json:"-"`
}

type pgn struct {
	Moves string
	Elo   int
}

func (pgn) RecordFields() []RecordField {
	return []RecordField{
		{Name: "moves", GoField: "Moves", Required: true},
		{Name: "elo", GoField: "Elo"},
	}
}

func TestResolvePrimitives(t *testing.T) {
	cases := []struct {
		typ  reflect.Type
		kind Kind
	}{
		{reflect.TypeOf(false), KindBool},
		{reflect.TypeOf(""), KindString},
		{reflect.TypeOf(0), KindInt},
		{reflect.TypeOf(int16(0)), KindInt},
		{reflect.TypeOf(uint8(0)), KindUint},
		{reflect.TypeOf(0.0), KindFloat},
		{reflect.TypeOf(float32(0)), KindFloat},
	}
	for _, tc := range cases {
		d, err := Resolve(tc.typ)
		require.NoError(t, err, tc.typ.String())
		assert.Equal(t, tc.kind, d.Kind, tc.typ.String())
		assert.Equal(t, tc.typ, d.Type)
	}
}

func TestResolveContainers(t *testing.T) {
	d, err := Resolve(reflect.TypeOf([]int{}))
	require.NoError(t, err)
	assert.Equal(t, KindSequence, d.Kind)
	assert.Equal(t, KindInt, d.Elem.Kind)

	d, err = Resolve(reflect.TypeOf([3]string{}))
	require.NoError(t, err)
	assert.Equal(t, KindTuple, d.Kind)
	assert.Equal(t, 3, d.Arity)
	assert.Equal(t, KindString, d.Elem.Kind)

	d, err = Resolve(reflect.TypeOf(map[string]float64{}))
	require.NoError(t, err)
	assert.Equal(t, KindMapping, d.Kind)
	assert.Equal(t, KindFloat, d.Value.Kind)

	d, err = Resolve(reflect.TypeOf(map[string]struct{}{}))
	require.NoError(t, err)
	assert.Equal(t, KindSet, d.Kind)
	assert.Equal(t, KindString, d.Elem.Kind)

	d, err = Resolve(reflect.TypeOf(map[int]struct{}{}))
	require.NoError(t, err)
	assert.Equal(t, KindSet, d.Kind)
	assert.Equal(t, KindInt, d.Elem.Kind)

	// Nested: list of records.
	d, err = Resolve(reflect.TypeOf([]point{}))
	require.NoError(t, err)
	assert.Equal(t, KindSequence, d.Kind)
	assert.Equal(t, KindRecord, d.Elem.Kind)
}

func TestResolveRecord(t *testing.T) {
	d, err := Resolve(reflect.TypeOf(profile{}))
	require.NoError(t, err)
	require.Equal(t, KindRecord, d.Kind)
	require.Len(t, d.Fields, 4) // private and json:"-" are dropped

	byName := map[string]Field{}
	for _, f := range d.Fields {
		byName[f.Name] = f
	}
	assert.True(t, byName["name"].Required)
	assert.True(t, byName["age"].Required)
	assert.False(t, byName["email"].Required, "pointer field is optional")
	assert.False(t, byName["tags"].Required, "omitempty field is optional")

	// Declaration order is preserved.
	assert.Equal(t, "name", d.Fields[0].Name)
	assert.Equal(t, "age", d.Fields[1].Name)
}

func TestResolveFieldLister(t *testing.T) {
	d, err := Resolve(reflect.TypeOf(pgn{}))
	require.NoError(t, err)
	require.Equal(t, KindRecord, d.Kind)
	require.Len(t, d.Fields, 2)
	assert.Equal(t, "moves", d.Fields[0].Name)
	assert.True(t, d.Fields[0].Required)
	assert.Equal(t, "elo", d.Fields[1].Name)
	assert.False(t, d.Fields[1].Required)
}

func TestResolveUnsupported(t *testing.T) {
	var unsupErr *UnsupportedTypeError

	_, err := Resolve(reflect.TypeOf(make(chan int)))
	require.ErrorAs(t, err, &unsupErr)

	_, err = Resolve(reflect.TypeOf(func() {}))
	require.ErrorAs(t, err, &unsupErr)

	_, err = Resolve(reflect.TypeOf(map[int]string{}))
	require.ErrorAs(t, err, &unsupErr, "non-string mapping keys")

	// Unresolvable nested element types propagate the same error.
	_, err = Resolve(reflect.TypeOf([]chan int{}))
	require.ErrorAs(t, err, &unsupErr)

	type holder struct {
		C complex128 `json:"c"`
	}
	_, err = Resolve(reflect.TypeOf(holder{}))
	require.ErrorAs(t, err, &unsupErr)
}

func TestResolveRecursiveType(t *testing.T) {
	type node struct {
		Value int     `json:"value"`
		Next  *node   `json:"next"`
		Kids  []*node `json:"kids,omitempty"`
	}
	var unsupErr *UnsupportedTypeError
	_, err := Resolve(reflect.TypeOf(node{}))
	require.ErrorAs(t, err, &unsupErr)
}

func TestResolveCaching(t *testing.T) {
	a, err := Resolve(reflect.TypeOf(point{}))
	require.NoError(t, err)
	b, err := Resolve(reflect.TypeOf(point{}))
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeOf(false), "boolean"},
		{reflect.TypeOf([]int{}), "JSON array of integer"},
		{reflect.TypeOf([2]float64{}), "JSON array of exactly 2 number"},
		{reflect.TypeOf(map[string]struct{}{}), "JSON array of unique string"},
		{reflect.TypeOf(map[string]int{}), "JSON object mapping string keys to integer"},
		{reflect.TypeOf(point{}), "JSON object with fields {x: integer, y: integer}"},
	}
	for _, tc := range cases {
		d, err := Resolve(tc.typ)
		require.NoError(t, err)
		assert.Equal(t, tc.want, d.describe())
	}
}

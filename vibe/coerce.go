package vibe

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// coerce turns one raw backend response into a value of the descriptor's
// type under the given leniency mode. The result is deterministic for
// identical (raw, d, mode). Failures are *ParseError or *TypeMismatchError.
func coerce(raw string, d *Descriptor, mode Mode) (any, error) {
	text := stripFences(strings.TrimSpace(raw))

	// Statement-style boolean answers and plain prose strings are commonly
	// returned without JSON quoting; handle them before parsing.
	if d.Kind == KindBool {
		if b, ok := boolToken(text); ok {
			return reflect.ValueOf(b).Convert(d.Type).Interface(), nil
		}
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		if d.Kind == KindString {
			return reflect.ValueOf(text).Convert(d.Type).Interface(), nil
		}
		return nil, &ParseError{Raw: raw, Err: err}
	}

	v, err := coerceParsed(parsed, d, mode, raw)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func coerceParsed(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	switch d.Kind {
	case KindBool:
		return coerceBool(parsed, d, mode, raw)
	case KindString:
		return coerceString(parsed, d, mode, raw)
	case KindInt:
		return coerceInt(parsed, d, mode, raw)
	case KindUint:
		return coerceUint(parsed, d, mode, raw)
	case KindFloat:
		return coerceFloat(parsed, d, mode, raw)
	case KindSequence:
		return coerceSequence(parsed, d, mode, raw)
	case KindSet:
		return coerceSet(parsed, d, mode, raw)
	case KindTuple:
		return coerceTuple(parsed, d, mode, raw)
	case KindMapping:
		return coerceMapping(parsed, d, mode, raw)
	case KindRecord:
		return coerceRecord(parsed, d, mode, raw)
	}
	return reflect.Value{}, mismatch(parsed, d, raw)
}

func coerceBool(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	switch v := parsed.(type) {
	case bool:
		return reflect.ValueOf(v).Convert(d.Type), nil
	case string:
		if b, ok := boolToken(v); ok {
			return reflect.ValueOf(b).Convert(d.Type), nil
		}
	case float64:
		if mode == ModeAggressive && (v == 0 || v == 1) {
			return reflect.ValueOf(v == 1).Convert(d.Type), nil
		}
	}
	return reflect.Value{}, mismatch(parsed, d, raw)
}

func coerceString(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	switch v := parsed.(type) {
	case string:
		return reflect.ValueOf(v).Convert(d.Type), nil
	case float64:
		if mode == ModeAggressive {
			return reflect.ValueOf(formatNumber(v)).Convert(d.Type), nil
		}
	}
	return reflect.Value{}, mismatch(parsed, d, raw)
}

func coerceInt(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	switch v := parsed.(type) {
	case float64:
		// JSON has no integer type; a whole number is an exact match.
		if v == math.Trunc(v) {
			out := reflect.New(d.Type).Elem()
			if !out.OverflowInt(int64(v)) {
				out.SetInt(int64(v))
				return out, nil
			}
		}
	case string:
		if mode == ModeEager || mode == ModeAggressive {
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				out := reflect.New(d.Type).Elem()
				if !out.OverflowInt(n) {
					out.SetInt(n)
					return out, nil
				}
			}
		}
	}
	return reflect.Value{}, mismatch(parsed, d, raw)
}

func coerceUint(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	switch v := parsed.(type) {
	case float64:
		if v >= 0 && v == math.Trunc(v) {
			out := reflect.New(d.Type).Elem()
			if !out.OverflowUint(uint64(v)) {
				out.SetUint(uint64(v))
				return out, nil
			}
		}
	case string:
		if mode == ModeEager || mode == ModeAggressive {
			if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil {
				out := reflect.New(d.Type).Elem()
				if !out.OverflowUint(n) {
					out.SetUint(n)
					return out, nil
				}
			}
		}
	}
	return reflect.Value{}, mismatch(parsed, d, raw)
}

func coerceFloat(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	switch v := parsed.(type) {
	case float64:
		out := reflect.New(d.Type).Elem()
		out.SetFloat(v)
		return out, nil
	case string:
		if mode == ModeEager || mode == ModeAggressive {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				out := reflect.New(d.Type).Elem()
				out.SetFloat(f)
				return out, nil
			}
		}
	}
	return reflect.Value{}, mismatch(parsed, d, raw)
}

func coerceSequence(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	arr, ok := parsed.([]any)
	if !ok {
		return reflect.Value{}, mismatch(parsed, d, raw)
	}
	out := reflect.MakeSlice(d.Type, len(arr), len(arr))
	for i, elem := range arr {
		ev, err := coerceParsed(elem, d.Elem, mode, raw)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

func coerceSet(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	arr, ok := parsed.([]any)
	if !ok {
		return reflect.Value{}, mismatch(parsed, d, raw)
	}
	out := reflect.MakeMapWithSize(d.Type, len(arr))
	empty := reflect.Zero(d.Type.Elem())
	for _, elem := range arr {
		ev, err := coerceParsed(elem, d.Elem, mode, raw)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(ev, empty)
	}
	return out, nil
}

func coerceTuple(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	arr, ok := parsed.([]any)
	if !ok || len(arr) != d.Arity {
		return reflect.Value{}, mismatch(parsed, d, raw)
	}
	out := reflect.New(d.Type).Elem()
	for i, elem := range arr {
		ev, err := coerceParsed(elem, d.Elem, mode, raw)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

func coerceMapping(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	obj, ok := parsed.(map[string]any)
	if !ok {
		return reflect.Value{}, mismatch(parsed, d, raw)
	}
	out := reflect.MakeMapWithSize(d.Type, len(obj))
	for k, val := range obj {
		vv, err := coerceParsed(val, d.Value, mode, raw)
		if err != nil {
			return reflect.Value{}, err
		}
		// Keys pass through unconverted.
		out.SetMapIndex(reflect.ValueOf(k).Convert(d.Type.Key()), vv)
	}
	return out, nil
}

func coerceRecord(parsed any, d *Descriptor, mode Mode, raw string) (reflect.Value, error) {
	obj, ok := parsed.(map[string]any)
	if !ok {
		return reflect.Value{}, mismatch(parsed, d, raw)
	}
	out := reflect.New(d.Type).Elem()
	for _, f := range d.Fields {
		fv, present := obj[f.Name]
		if !present {
			if f.Required {
				return reflect.Value{}, mismatch(parsed, d, raw)
			}
			continue
		}
		cv, err := coerceParsed(fv, f.Desc, mode, raw)
		if err != nil {
			return reflect.Value{}, err
		}
		target := out.FieldByIndex(f.index)
		if f.goType.Kind() == reflect.Pointer {
			p := reflect.New(f.goType.Elem())
			p.Elem().Set(cv)
			target.Set(p)
		} else {
			target.Set(cv)
		}
	}
	// Unknown extra keys in obj are ignored.
	return out, nil
}

func mismatch(parsed any, d *Descriptor, raw string) error {
	return &TypeMismatchError{Raw: raw, Value: parsed, Expect: d.describe()}
}

var (
	truthyTokens = map[string]bool{"true": true, "t": true, "yes": true, "y": true, "1": true}
	falsyTokens  = map[string]bool{"false": true, "f": true, "no": true, "n": true, "0": true}
)

// boolToken matches the case-insensitive truthy/falsy token vocabulary.
func boolToken(s string) (value, ok bool) {
	low := strings.ToLower(strings.TrimSpace(s))
	low = strings.Trim(low, ".!\"'")
	if truthyTokens[low] {
		return true, true
	}
	if falsyTokens[low] {
		return false, true
	}
	return false, false
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, so fenced JSON parses cleanly.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := s[3:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
	return strings.TrimSpace(rest)
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

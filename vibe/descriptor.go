package vibe

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Kind classifies a target type into one of the shapes the coercion and
// validation passes understand. The set is closed: every branch in
// coerce.go and match.go switches exhaustively over it.
type Kind int

const (
	KindBool Kind = iota
	KindString
	KindInt
	KindUint
	KindFloat
	// KindSequence is an ordered sequence (a Go slice), serialized as a JSON array.
	KindSequence
	// KindSet is an unordered collection (a Go map[K]struct{}), serialized as a JSON array.
	KindSet
	// KindTuple is a fixed-arity sequence (a Go array [N]T); arity mismatch is a failure.
	KindTuple
	// KindMapping is a key/value mapping (a Go map with string keys and non-struct{} values).
	KindMapping
	// KindRecord is a structured record: a struct with exported fields, or any
	// type implementing FieldLister.
	KindRecord
)

// Field is one named, typed slot of a record descriptor.
type Field struct {
	Name     string
	Desc     *Descriptor
	Required bool

	goType reflect.Type // declared struct field type (pointer for optional pointer fields)
	index  []int        // struct field index for construction
}

// Descriptor is the resolved classification of a target type. Descriptors
// are immutable after Resolve and safe to share across goroutines.
type Descriptor struct {
	Kind Kind
	Type reflect.Type // concrete Go type the descriptor constructs

	Elem   *Descriptor // Sequence, Set, Tuple element
	Value  *Descriptor // Mapping value
	Arity  int         // Tuple
	Fields []Field     // Record
}

// RecordField is one entry of a FieldLister override: Name is the key
// expected in the model's JSON object, GoField the struct field it maps to
// (defaults to Name).
type RecordField struct {
	Name     string
	GoField  string
	Required bool
}

// FieldLister lets a record-like type override the field list otherwise
// derived by reflection: key names, order, and which fields are required.
// Implement it on the value or pointer receiver of a struct type.
type FieldLister interface {
	RecordFields() []RecordField
}

var fieldListerType = reflect.TypeOf((*FieldLister)(nil)).Elem()

// descriptorCache memoizes Resolve per target type. Resolution is pure, so
// a stale entry cannot exist.
var descriptorCache sync.Map // reflect.Type -> *Descriptor

// Resolve classifies t into a Descriptor, recursing into container element
// types. Types that fit no recognized shape fail with *UnsupportedTypeError.
func Resolve(t reflect.Type) (*Descriptor, error) {
	return resolveCached(t, make(map[reflect.Type]bool))
}

func resolveCached(t reflect.Type, seen map[reflect.Type]bool) (*Descriptor, error) {
	if cached, ok := descriptorCache.Load(t); ok {
		return cached.(*Descriptor), nil
	}
	if seen[t] {
		return nil, &UnsupportedTypeError{Type: t, Reason: "recursive type"}
	}
	seen[t] = true
	d, err := resolve(t, seen)
	delete(seen, t)
	if err != nil {
		return nil, err
	}
	descriptorCache.Store(t, d)
	return d, nil
}

func resolve(t reflect.Type, seen map[reflect.Type]bool) (*Descriptor, error) {
	if t == nil {
		return nil, &UnsupportedTypeError{Type: t, Reason: "nil type"}
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Descriptor{Kind: KindBool, Type: t}, nil
	case reflect.String:
		return &Descriptor{Kind: KindString, Type: t}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Descriptor{Kind: KindInt, Type: t}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Descriptor{Kind: KindUint, Type: t}, nil
	case reflect.Float32, reflect.Float64:
		return &Descriptor{Kind: KindFloat, Type: t}, nil

	case reflect.Slice:
		elem, err := resolveCached(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return &Descriptor{Kind: KindSequence, Type: t, Elem: elem}, nil

	case reflect.Array:
		elem, err := resolveCached(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return &Descriptor{Kind: KindTuple, Type: t, Elem: elem, Arity: t.Len()}, nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			// JSON object keys are strings; set keys may be any resolvable primitive.
			if isSetValue(t.Elem()) {
				return resolveSet(t, seen)
			}
			return nil, &UnsupportedTypeError{Type: t, Reason: "map keys must be strings"}
		}
		if isSetValue(t.Elem()) {
			return resolveSet(t, seen)
		}
		val, err := resolveCached(t.Elem(), seen)
		if err != nil {
			return nil, err
		}
		return &Descriptor{Kind: KindMapping, Type: t, Value: val}, nil

	case reflect.Struct:
		return resolveRecord(t, seen)

	default:
		return nil, &UnsupportedTypeError{Type: t, Reason: fmt.Sprintf("kind %s cannot be classified", t.Kind())}
	}
}

// isSetValue reports whether a map value type marks the map as a set.
func isSetValue(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}

func resolveSet(t reflect.Type, seen map[reflect.Type]bool) (*Descriptor, error) {
	elem, err := resolveCached(t.Key(), seen)
	if err != nil {
		return nil, err
	}
	switch elem.Kind {
	case KindBool, KindString, KindInt, KindUint, KindFloat:
	default:
		return nil, &UnsupportedTypeError{Type: t, Reason: "set elements must be primitive"}
	}
	return &Descriptor{Kind: KindSet, Type: t, Elem: elem}, nil
}

func resolveRecord(t reflect.Type, seen map[reflect.Type]bool) (*Descriptor, error) {
	if listed := listerFor(t); listed != nil {
		return resolveListedRecord(t, listed, seen)
	}

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, omitempty, skip := jsonName(sf)
		if skip {
			continue
		}
		ft := sf.Type
		required := true
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
			required = false
		}
		if omitempty {
			required = false
		}
		fd, err := resolveCached(ft, seen)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{
			Name:     name,
			Desc:     fd,
			Required: required,
			goType:   sf.Type,
			index:    sf.Index,
		})
	}
	if len(fields) == 0 {
		return nil, &UnsupportedTypeError{Type: t, Reason: "struct has no usable fields"}
	}
	return &Descriptor{Kind: KindRecord, Type: t, Fields: fields}, nil
}

func resolveListedRecord(t reflect.Type, listed []RecordField, seen map[reflect.Type]bool) (*Descriptor, error) {
	fields := make([]Field, 0, len(listed))
	for _, rf := range listed {
		goName := rf.GoField
		if goName == "" {
			goName = rf.Name
		}
		sf, ok := t.FieldByName(goName)
		if !ok {
			return nil, &UnsupportedTypeError{Type: t, Reason: fmt.Sprintf("listed field %q has no struct field %q", rf.Name, goName)}
		}
		ft := sf.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		fd, err := resolveCached(ft, seen)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{
			Name:     rf.Name,
			Desc:     fd,
			Required: rf.Required,
			goType:   sf.Type,
			index:    sf.Index,
		})
	}
	if len(fields) == 0 {
		return nil, &UnsupportedTypeError{Type: t, Reason: "RecordFields returned no fields"}
	}
	return &Descriptor{Kind: KindRecord, Type: t, Fields: fields}, nil
}

// listerFor returns the declared field list when t (or *t) implements
// FieldLister, calling the method on a zero value.
func listerFor(t reflect.Type) []RecordField {
	if t.Implements(fieldListerType) {
		return reflect.Zero(t).Interface().(FieldLister).RecordFields()
	}
	if reflect.PointerTo(t).Implements(fieldListerType) {
		return reflect.New(t).Interface().(FieldLister).RecordFields()
	}
	return nil
}

func jsonName(sf reflect.StructField) (name string, omitempty, skip bool) {
	name = sf.Name
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", false, true
	}
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty, false
}

// describe renders the descriptor as the prose shape description embedded in
// function-mode prompts and mismatch errors.
func (d *Descriptor) describe() string {
	switch d.Kind {
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindInt, KindUint:
		return "integer"
	case KindFloat:
		return "number"
	case KindSequence:
		return "JSON array of " + d.Elem.describe()
	case KindSet:
		return "JSON array of unique " + d.Elem.describe()
	case KindTuple:
		return fmt.Sprintf("JSON array of exactly %d %s", d.Arity, d.Elem.describe())
	case KindMapping:
		return "JSON object mapping string keys to " + d.Value.describe()
	case KindRecord:
		var b strings.Builder
		b.WriteString("JSON object with fields {")
		for i, f := range d.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			b.WriteString(f.Desc.describe())
			if !f.Required {
				b.WriteString(" (optional)")
			}
		}
		b.WriteString("}")
		return b.String()
	default:
		return "value"
	}
}

package vibe

import "reflect"

// matches re-checks a coerced value against its descriptor using only
// reflection over the value itself. It deliberately shares no bookkeeping
// with the coercion engine, so a coercion defect cannot validate itself.
func matches(value any, d *Descriptor) bool {
	if value == nil {
		return false
	}
	return matchValue(reflect.ValueOf(value), d)
}

func matchValue(v reflect.Value, d *Descriptor) bool {
	switch d.Kind {
	case KindBool:
		return v.Kind() == reflect.Bool

	case KindString:
		return v.Kind() == reflect.String

	case KindInt:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return true
		}
		return false

	case KindUint:
		switch v.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		}
		return false

	case KindFloat:
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			return true
		}
		return false

	case KindSequence:
		if v.Kind() != reflect.Slice {
			return false
		}
		for i := 0; i < v.Len(); i++ {
			if !matchValue(v.Index(i), d.Elem) {
				return false
			}
		}
		return true

	case KindSet:
		if v.Kind() != reflect.Map {
			return false
		}
		if !isSetValue(v.Type().Elem()) {
			return false
		}
		for _, k := range v.MapKeys() {
			if !matchValue(k, d.Elem) {
				return false
			}
		}
		return true

	case KindTuple:
		if v.Kind() != reflect.Array || v.Len() != d.Arity {
			return false
		}
		for i := 0; i < v.Len(); i++ {
			if !matchValue(v.Index(i), d.Elem) {
				return false
			}
		}
		return true

	case KindMapping:
		if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
			return false
		}
		for _, k := range v.MapKeys() {
			if !matchValue(v.MapIndex(k), d.Value) {
				return false
			}
		}
		return true

	case KindRecord:
		if v.Kind() != reflect.Struct || v.Type() != d.Type {
			return false
		}
		for _, f := range d.Fields {
			fv := v.FieldByIndex(f.index)
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					if f.Required {
						return false
					}
					continue
				}
				fv = fv.Elem()
			}
			if !matchValue(fv, f.Desc) {
				return false
			}
		}
		return true
	}
	return false
}

package table

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"

	"golang.org/x/text/collate"
)

//nolint:gochecknoglobals // Reflection type constant.
var timeType = reflect.TypeOf(time.Time{})

// PropertyValue resolves a dotted property path such as "Customer.Name" on row.
// Struct fields are matched by exact name first, then case-insensitively;
// only exported fields resolve. Maps with string keys are indexed by segment.
//
// The returned bool reports whether the path exists. The value is invalid
// (reflect.Value{}) when the path ends at, or passes through, a nil pointer.
func PropertyValue(row any, path string) (reflect.Value, bool) {
	if path == "" {
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(row)
	for _, segment := range strings.Split(path, ".") {
		v = indirect(v)
		if !v.IsValid() {
			return reflect.Value{}, true
		}

		switch v.Kind() {
		case reflect.Struct:
			field, ok := structField(v, segment)
			if !ok {
				return reflect.Value{}, false
			}
			v = field
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return reflect.Value{}, false
			}
			item := v.MapIndex(reflect.ValueOf(segment).Convert(v.Type().Key()))
			if !item.IsValid() {
				return reflect.Value{}, false
			}
			v = item
		default:
			return reflect.Value{}, false
		}
	}

	return indirect(v), true
}

// structField looks up an exported field of v by name.
func structField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	sf, ok := t.FieldByName(name)
	if !ok {
		sf, ok = t.FieldByNameFunc(func(candidate string) bool {
			return strings.EqualFold(candidate, name)
		})
	}
	if !ok || !sf.IsExported() {
		return reflect.Value{}, false
	}

	field, err := v.FieldByIndexErr(sf.Index)
	if err != nil {
		// Nil embedded pointer on the way.
		return reflect.Value{}, true
	}
	return field, true
}

// indirect dereferences pointers and interfaces. Nil yields an invalid value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// valueClass groups reflect kinds that compare with each other.
type valueClass int

const (
	classOther valueClass = iota
	classInt
	classUint
	classFloat
	classString
	classBool
	classTime
)

func classify(v reflect.Value) valueClass {
	if v.Type() == timeType {
		return classTime
	}
	//nolint:exhaustive // Everything else compares by its formatted string.
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return classInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return classUint
	case reflect.Float32, reflect.Float64:
		return classFloat
	case reflect.String:
		return classString
	case reflect.Bool:
		return classBool
	default:
		return classOther
	}
}

func isNumeric(c valueClass) bool {
	return c == classInt || c == classUint || c == classFloat
}

func asFloat(v reflect.Value, c valueClass) float64 {
	switch c {
	case classInt:
		return float64(v.Int())
	case classUint:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// compareValues orders two resolved property values. Invalid (nil or missing)
// values sort before everything else.
func compareValues(a, b reflect.Value, coll *collate.Collator) int {
	switch {
	case !a.IsValid() && !b.IsValid():
		return 0
	case !a.IsValid():
		return -1
	case !b.IsValid():
		return 1
	}

	ca, cb := classify(a), classify(b)
	if ca == cb {
		switch ca {
		case classInt:
			return cmp.Compare(a.Int(), b.Int())
		case classUint:
			return cmp.Compare(a.Uint(), b.Uint())
		case classFloat:
			return cmp.Compare(a.Float(), b.Float())
		case classString:
			return coll.CompareString(a.String(), b.String())
		case classBool:
			return compareBool(a.Bool(), b.Bool())
		case classTime:
			ta, _ := a.Interface().(time.Time)
			tb, _ := b.Interface().(time.Time)
			return ta.Compare(tb)
		case classOther:
		}
	}

	if isNumeric(ca) && isNumeric(cb) {
		return cmp.Compare(asFloat(a, ca), asFloat(b, cb))
	}

	return coll.CompareString(displayString(a), displayString(b))
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// displayString formats a resolved value for comparison or display.
func displayString(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if !v.CanInterface() {
		return fmt.Sprint(v)
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v.Interface())
}

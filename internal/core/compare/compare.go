// Package compare decides whether a solution's output matches the expected one.
//
// Values are compared the way a reviewer would read them: strings ignore
// surrounding whitespace, NaN equals NaN, flat arrays of primitives are
// compared as multisets, and everything nested is compared structurally.
// null is not a primitive here: arrays holding it keep their order.
// Objects must have exactly the same key set.
package compare

import (
	"encoding/json"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"
)

// funcRef stands in for function values, which compare by identity.
type funcRef uintptr

// Equal reports whether actual matches expected. It accepts decoded JSON
// values as well as ordinary Go values and always terminates on acyclic input.
func Equal(actual, expected interface{}) bool {
	actual, expected = normalize(actual), normalize(expected)

	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}

	switch a := actual.(type) {
	case float64:
		e, ok := expected.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(a) || math.IsNaN(e) {
			return math.IsNaN(a) && math.IsNaN(e)
		}
		return a == e
	case string:
		e, ok := expected.(string)
		return ok && strings.TrimSpace(a) == strings.TrimSpace(e)
	case bool:
		e, ok := expected.(bool)
		return ok && a == e
	case time.Time:
		e, ok := expected.(time.Time)
		return ok && a.Equal(e)
	case *regexp.Regexp:
		e, ok := expected.(*regexp.Regexp)
		return ok && a.String() == e.String()
	case funcRef:
		e, ok := expected.(funcRef)
		return ok && a == e
	case []interface{}:
		e, ok := expected.([]interface{})
		return ok && equalArrays(a, e)
	case map[string]interface{}:
		e, ok := expected.(map[string]interface{})
		return ok && equalObjects(a, e)
	}

	if reflect.TypeOf(actual) != reflect.TypeOf(expected) {
		return false
	}
	if !reflect.TypeOf(actual).Comparable() {
		return false
	}
	return actual == expected
}

func equalArrays(actual, expected []interface{}) bool {
	if len(actual) != len(expected) {
		return false
	}

	if allPrimitive(actual) && allPrimitive(expected) {
		actual = sortedCopy(actual)
		expected = sortedCopy(expected)
	}

	for i := range actual {
		if !Equal(actual[i], expected[i]) {
			return false
		}
	}
	return true
}

func equalObjects(actual, expected map[string]interface{}) bool {
	if len(actual) != len(expected) {
		return false
	}
	for key := range actual {
		if _, ok := expected[key]; !ok {
			return false
		}
	}
	for key, value := range actual {
		if !Equal(value, expected[key]) {
			return false
		}
	}
	return true
}

func allPrimitive(values []interface{}) bool {
	for _, v := range values {
		switch normalize(v).(type) {
		case bool, float64, string:
		default:
			return false
		}
	}
	return true
}

// sortedCopy orders primitives by kind (bool, number, string) and then
// by value, so that equal multisets line up element by element.
func sortedCopy(values []interface{}) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = normalize(v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		switch a := out[i].(type) {
		case bool:
			return !a && out[j].(bool)
		case float64:
			b := out[j].(float64)
			if math.IsNaN(a) || math.IsNaN(b) {
				return math.IsNaN(a) && !math.IsNaN(b)
			}
			return a < b
		case string:
			return strings.TrimSpace(a) < strings.TrimSpace(out[j].(string))
		}
		return false
	})
	return out
}

func rank(v interface{}) int {
	switch v.(type) {
	case bool:
		return 1
	case float64:
		return 2
	default:
		return 3
	}
}

// normalize maps Go values onto the decoded-JSON kinds: nil, bool, float64,
// string, []interface{} and map[string]interface{}. Times, regular
// expressions and functions are kept as distinct kinds.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case nil, bool, float64, string, []interface{}, map[string]interface{}, time.Time, *regexp.Regexp, funcRef:
		return v
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case json.RawMessage:
		var decoded interface{}
		if err := json.Unmarshal(t, &decoded); err != nil {
			return string(t)
		}
		return decoded
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		fallthrough
	case reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out
	case reflect.Func:
		if rv.IsNil() {
			return nil
		}
		return funcRef(rv.Pointer())
	case reflect.Struct:
		raw, err := json.Marshal(v)
		if err != nil {
			return v
		}
		var decoded interface{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return v
		}
		return decoded
	}
	return v
}

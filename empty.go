package gocardless

import (
	"bytes"
	"encoding/json"
	"reflect"
)

var rawMessageType = reflect.TypeOf(json.RawMessage(nil))

// IsEmpty reports whether v counts as missing for request validation.
//
// Empty values are nil, a nil pointer, interface, map, slice, func or chan,
// an empty string, and a zero-length map, slice or array. A non-nil pointer
// is judged by the value it points to. Everything else, including structs,
// numbers and booleans, is not empty.
//
// A json.RawMessage is judged by the document it holds: whitespace, null,
// "", {} and [] are empty.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}

	if rv.Type() == rawMessageType {
		return rawMessageEmpty(rv.Bytes())
	}

	switch rv.Kind() {
	case reflect.String, reflect.Array:
		return rv.Len() == 0
	case reflect.Map, reflect.Slice:
		return rv.IsNil() || rv.Len() == 0
	case reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// rawMessageEmpty decodes raw and applies IsEmpty to the result. Invalid JSON
// that is not blank counts as present and is left for the API to reject.
func rawMessageEmpty(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return true
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	return IsEmpty(doc)
}

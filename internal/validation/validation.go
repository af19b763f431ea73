// Package validation extracts typed fields from loosely typed document
// records. Every failure is attributable to exactly one key.
package validation

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/arthur-debert/simpleshop/types"
)

// Error reports a missing or wrongly typed property
type Error struct {
	Key string
	// Expected describes the accepted type, empty for a plain presence check
	Expected string
	// Optional is set when the property may be omitted but was present with
	// the wrong type
	Optional bool
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Expected == "":
		return fmt.Sprintf("missing required property '%s'", e.Key)
	case e.Optional:
		return fmt.Sprintf("invalid '%s' property: must be %s or omitted", e.Key, e.Expected)
	default:
		return fmt.Sprintf("missing or invalid '%s' property: must be %s", e.Key, e.Expected)
	}
}

// present treats JSON null the same as an absent key
func present(key string, record *types.Object) (interface{}, bool) {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// RequireKeys checks that every key is present, without looking at types
func RequireKeys(record *types.Object, keys ...string) error {
	for _, key := range keys {
		if _, ok := present(key, record); !ok {
			return &Error{Key: key}
		}
	}
	return nil
}

// RequireString returns the string stored under key
func RequireString(key string, record *types.Object) (string, error) {
	v, ok := present(key, record)
	if !ok {
		return "", &Error{Key: key, Expected: "a string"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &Error{Key: key, Expected: "a string"}
	}
	return s, nil
}

// OptionalString returns the string stored under key. ok is false when the
// key is absent; a present non-string value is an error.
func OptionalString(key string, record *types.Object) (value string, ok bool, err error) {
	v, exists := present(key, record)
	if !exists {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", false, &Error{Key: key, Expected: "a string", Optional: true}
	}
	return s, true, nil
}

// RequireInt returns the integer stored under key. Numbers with a fractional
// part or an exponent are rejected.
func RequireInt(key string, record *types.Object) (int, error) {
	v, ok := present(key, record)
	if !ok {
		return 0, &Error{Key: key, Expected: "an integer"}
	}
	i, ok := toInt(v)
	if !ok {
		return 0, &Error{Key: key, Expected: "an integer"}
	}
	return i, nil
}

// RequireFloat returns the number stored under key, widening integers
func RequireFloat(key string, record *types.Object) (float64, error) {
	v, ok := present(key, record)
	if !ok {
		return 0, &Error{Key: key, Expected: "a float or integer"}
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, &Error{Key: key, Expected: "a float or integer"}
	}
	return f, nil
}

// RequireBool returns the boolean stored under key
func RequireBool(key string, record *types.Object) (bool, error) {
	v, ok := present(key, record)
	if !ok {
		return false, &Error{Key: key, Expected: "a boolean"}
	}
	b, ok := v.(bool)
	if !ok {
		return false, &Error{Key: key, Expected: "a boolean"}
	}
	return b, nil
}

// OptionalObject returns the nested object stored under key. ok is false when
// the key is absent or holds something other than an object.
func OptionalObject(key string, record *types.Object) (*types.Object, bool) {
	v, exists := present(key, record)
	if !exists {
		return nil, false
	}
	obj, ok := v.(*types.Object)
	return obj, ok
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return toIntAsFloat(v)
	}
}

func toIntAsFloat(v interface{}) (float64, bool) {
	i, ok := toInt(v)
	if !ok {
		return 0, false
	}
	return float64(i), true
}

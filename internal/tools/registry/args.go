package registry

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Args are the arguments of one invocation, keyed by parameter name.
// Values arrive as decoded JSON, so numbers are float64 and lists []any.
type Args map[string]any

// Has reports whether name is present with a non-nil value.
func (a Args) Has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// String returns the named argument as a string, or "" when absent.
func (a Args) String(name string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", &ValidationError{Message: fmt.Sprintf("argument %s must be a string", name)}
	}
	return s, nil
}

// Int returns the named argument as an int, or 0 when absent. Numeric
// strings are accepted; numbers with a fractional part are rejected rather
// than truncated.
func (a Args) Int(name string) (int, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return 0, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, &ValidationError{Message: fmt.Sprintf("argument %s must be a number", name)}
	}
	if f != math.Trunc(f) {
		return 0, &ValidationError{Message: fmt.Sprintf("argument %s must be an integer", name)}
	}
	return int(f), nil
}

// StringList returns the named argument as a list. A single string is split
// on commas; entries are trimmed and empty ones dropped.
func (a Args) StringList(name string) ([]string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, nil
	}

	var raw []string
	if s, isString := v.(string); isString {
		raw = strings.Split(s, ",")
	} else {
		list, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("argument %s must be a list of strings", name)}
		}
		raw = list
	}

	var out []string
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}

// clone returns a shallow copy.
func (a Args) clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// missing reports whether name counts as not supplied: absent, null or an
// empty string.
func (a Args) missing(name string) bool {
	v, ok := a[name]
	if !ok || v == nil {
		return true
	}
	if s, isString := v.(string); isString && s == "" {
		return true
	}
	return false
}

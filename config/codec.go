// Package config implements layered resolution of LSC configuration properties.
package config

import (
	"strings"
)

// listSeparator joins multi-valued raw properties into their single-string
// presentation. The collapse is one-way: a decoded string is never re-split,
// and no escaping is performed, so a literal comma inside an element is
// indistinguishable from a separator afterwards.
const listSeparator = ","

// DecodeScalar converts a raw stored property value into the string callers see.
// A plain string is returned as-is. An ordered sequence of strings is joined
// with commas. Anything else fails with a TypeMismatchError.
//
// Property libraries tend to split stored values on commas into lists behind
// the caller's back, which corrupts values that legitimately contain commas
// (DN lists, for one). Decoding here is the explicit, tested normalization
// step that undoes that split exactly once and never reintroduces it.
//
// Parameters:
//   - raw: The raw value as stored in a Namespace (string or []string)
//
// Returns:
//   - The single-string presentation of the value
//   - A TypeMismatchError if the raw value has any other shape
func DecodeScalar(raw any) (string, error) {
	switch tv := raw.(type) {
	case string:
		return tv, nil
	case []string:
		return strings.Join(tv, listSeparator), nil
	case []any:
		// structured fragments may surface lists as []any; accept them only
		// if every element already is a string
		vs := make([]string, len(tv))
		for i, v := range tv {
			s, ok := v.(string)
			if !ok {
				return "", TypeMismatchError{Value: raw}
			}
			vs[i] = s
		}
		return strings.Join(vs, listSeparator), nil
	default:
		return "", TypeMismatchError{Value: raw}
	}
}

// EncodeList stores an ordered sequence of strings as a raw property value.
// The sequence is copied so later mutation of the argument doesn't leak into
// the namespace. Decoding the result yields the comma-joined presentation.
//
// Parameters:
//   - values: The ordered sequence to store
//
// Returns:
//   - The raw value to pass to Namespace.Set
func EncodeList(values []string) any {
	vs := make([]string, len(values))
	copy(vs, values)
	return vs
}

// SplitSpaceList tokenizes a space-separated property value into a list,
// lowercasing every token. Task and attribute name lists are conventionally
// written this way in LSC property files.
//
// Parameters:
//   - value: The space-separated property value
//
// Returns:
//   - The lowercased tokens, empty when the value holds none
func SplitSpaceList(value string) []string {
	return strings.Fields(strings.ToLower(value))
}

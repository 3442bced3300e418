// Package config implements layered resolution of LSC configuration properties.
package config

import (
	"fmt"
	"strings"
)

type (
	// PrefixView is a read/write projection over a Namespace restricted to keys
	// beginning with "<prefix>.". Visible keys have the prefix stripped, so
	// clients access connection parameters without repeating the namespace
	// prefix or risking typos in it.
	//
	// A view holds a reference to the underlying Namespace and the prefix; it
	// owns no data itself. Writing through a view re-adds the prefix before
	// delegating to the Namespace.
	PrefixView struct {
		// prefixJoiner provides key joining functionality
		prefixJoiner

		// ns is the underlying namespace
		ns *Namespace
	}

	// prefixJoiner provides functionality for joining a dotted prefix with a key.
	// It is embedded in PrefixView to provide key joining functionality.
	prefixJoiner struct {
		// prefix is the dotted prefix added to all keys, without trailing dot
		prefix string
	}
)

// At returns a view nested one level deeper under this view's prefix.
// A "dst" view at "database" projects the "dst.database." keys.
//
// Parameters:
//   - inner: The inner prefix to nest under the current one
//
// Returns:
//   - A new PrefixView over the same namespace with the combined prefix
func (v *PrefixView) At(inner string) *PrefixView {
	return &PrefixView{
		prefixJoiner: newPrefixJoiner(v.join(inner)),
		ns:           v.ns,
	}
}

// Prefix returns the dotted prefix this view projects.
func (v *PrefixView) Prefix() string {
	return v.prefix
}

// Get returns the raw property value for a key within the view.
//
// Parameters:
//   - key: The property key, without the view's prefix
//
// Returns:
//   - The raw value (string or []string), or nil when absent
//   - true if the key exists, false otherwise
func (v *PrefixView) Get(key string) (any, bool) {
	return v.ns.Get(v.join(key))
}

// Lookup returns the decoded string presentation of a key within the view.
//
// Parameters:
//   - key: The property key, without the view's prefix
//
// Returns:
//   - The decoded value, empty when absent or undecodable
//   - true if the key exists, false otherwise
//   - A TypeMismatchError when the raw value has an unexpected shape
func (v *PrefixView) Lookup(key string) (string, bool, error) {
	return v.ns.Lookup(v.join(key))
}

// String returns the decoded value of a key within the view, or the default
// when the key is absent.
//
// Parameters:
//   - key: The property key, without the view's prefix
//   - def: The value to return when the key is absent
//
// Returns:
//   - The decoded value, or the default
//   - A TypeMismatchError when the raw value has an unexpected shape
func (v *PrefixView) String(key string, def string) (string, error) {
	return v.ns.String(v.join(key), def)
}

// Int returns the decoded value of a key within the view parsed as an integer,
// or the default when the key is absent or not an integer.
//
// Parameters:
//   - key: The property key, without the view's prefix
//   - def: The value to return when the key is absent or not an integer
//
// Returns:
//   - The parsed integer, or the default
//   - A TypeMismatchError when the raw value has an unexpected shape
func (v *PrefixView) Int(key string, def int) (int, error) {
	return v.ns.Int(v.join(key), def)
}

// Set writes a property through the view into the underlying namespace,
// re-adding the view's prefix.
//
// Parameters:
//   - key: The property key, without the view's prefix
//   - value: The raw value to store (string, or []string via EncodeList)
func (v *PrefixView) Set(key string, value any) {
	v.ns.Set(v.join(key), value)
}

// Contains returns true if the given key exists within the view, false otherwise.
func (v *PrefixView) Contains(key string) bool {
	return v.ns.Contains(v.join(key))
}

// Keys returns the visible keys of the view, prefix stripped, in the
// underlying namespace's enumeration order.
func (v *PrefixView) Keys() []string {
	dotted := v.prefix + "."
	var keys []string
	for _, k := range v.ns.Keys() {
		if strings.HasPrefix(k, dotted) {
			keys = append(keys, strings.TrimPrefix(k, dotted))
		}
	}
	return keys
}

// Len returns the number of keys visible through the view.
func (v *PrefixView) Len() int {
	return len(v.Keys())
}

// Empty returns true when no key of the underlying namespace carries the
// view's prefix. Callers use this to decide prefix fallbacks.
func (v *PrefixView) Empty() bool {
	return v.Len() == 0
}

// Map decodes the whole view into a flat map of prefix-stripped keys.
//
// Returns:
//   - The decoded key/value pairs visible through the view
//   - A TypeMismatchError when any visible raw value has an unexpected shape
func (v *PrefixView) Map() (map[string]string, error) {
	keys := v.Keys()
	m := make(map[string]string, len(keys))
	for _, k := range keys {
		s, _, err := v.Lookup(k)
		if err != nil {
			return nil, err
		}
		m[k] = s
	}
	return m, nil
}

// newPrefixJoiner creates a new prefixJoiner with the specified dotted prefix.
func newPrefixJoiner(prefix string) prefixJoiner {
	return prefixJoiner{
		prefix: prefix,
	}
}

// join combines the prefix with a key.
// If the key is empty, it returns just the prefix.
// Otherwise, it combines the prefix and the key with a dot separator.
func (j prefixJoiner) join(key string) string {
	if len(key) == 0 {
		return j.prefix
	}
	return fmt.Sprintf("%s.%s", j.prefix, key)
}

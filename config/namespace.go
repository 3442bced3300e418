// Package config implements layered resolution of LSC configuration properties.
package config

import (
	"strconv"
	"strings"
	"sync"
)

// runtimeSource identifies values written by callers after the load, as
// opposed to values read from a named configuration source.
const runtimeSource = "runtime"

type (
	// Namespace is the merged key/value store the engine resolves sources into.
	// Keys are dotted, case-sensitive strings; a raw value is either a single
	// string or an ordered sequence of strings (see DecodeScalar). Every key
	// maps to exactly one value: redefinition overwrites, it never accumulates.
	//
	// Enumeration follows first-insertion order, which is stable within a load.
	// A Namespace also remembers, per key, the identifier of the source that
	// last set it, so overrides can be audited after the fact.
	//
	// Reads and writes are guarded by a single read-write lock. Configuration
	// mutation is rare after the load, so no finer granularity is warranted.
	Namespace struct {
		mutex *sync.RWMutex

		// values maps each key to its raw value (string or []string)
		values map[string]any
		// sources maps each key to the source identifier that last set it
		sources map[string]string
		// order records keys by first insertion for stable enumeration
		order []string
	}

	// property is one ordered key/value pair produced by parsing a source.
	property struct {
		key   string
		value any
	}
)

// NewNamespace creates an empty Namespace.
//
// Most callers never construct one directly: Layered builds and fills the
// process namespace on first access. Direct construction is for embedding
// callers that assemble configuration programmatically.
//
// Returns:
//   - A new, empty Namespace
func NewNamespace() *Namespace {
	return &Namespace{
		mutex:   new(sync.RWMutex),
		values:  make(map[string]any),
		sources: make(map[string]string),
		order:   make([]string, 0),
	}
}

// Get returns the raw property value for a key.
// Missing keys are not an error; the second return reports presence.
//
// Parameters:
//   - key: The property key to look up
//
// Returns:
//   - The raw value (string or []string), or nil when absent
//   - true if the key exists, false otherwise
func (n *Namespace) Get(key string) (any, bool) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	v, ok := n.values[key]
	return v, ok
}

// Lookup returns the decoded string presentation of a key.
// Missing keys are not an error; the boolean reports presence. A present key
// whose raw value cannot be decoded fails with a TypeMismatchError.
//
// Parameters:
//   - key: The property key to look up
//
// Returns:
//   - The decoded value, empty when absent or undecodable
//   - true if the key exists, false otherwise
//   - A TypeMismatchError when the raw value has an unexpected shape
func (n *Namespace) Lookup(key string) (string, bool, error) {
	raw, ok := n.Get(key)
	if !ok {
		return "", false, nil
	}
	s, err := DecodeScalar(raw)
	if err != nil {
		return "", true, TypeMismatchError{Key: key, Value: raw}
	}
	return s, true, nil
}

// String returns the decoded value of a key, or the default when the key is
// absent. Decoding failure is surfaced, never swallowed into the default.
//
// Parameters:
//   - key: The property key to look up
//   - def: The value to return when the key is absent
//
// Returns:
//   - The decoded value, or the default
//   - A TypeMismatchError when the raw value has an unexpected shape
func (n *Namespace) String(key string, def string) (string, error) {
	s, ok, err := n.Lookup(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return s, nil
}

// Int returns the decoded value of a key parsed as an integer.
//
// This is the single deliberately lenient accessor: when the key is absent or
// its value doesn't parse as an integer, the default is returned silently.
// Numeric settings are expected to have sane fallbacks. A TypeMismatchError
// from decoding is still surfaced; a corrupted raw value is not a parse miss.
//
// Parameters:
//   - key: The property key to look up
//   - def: The value to return when the key is absent or not an integer
//
// Returns:
//   - The parsed integer, or the default
//   - A TypeMismatchError when the raw value has an unexpected shape
func (n *Namespace) Int(key string, def int) (int, error) {
	s, ok, err := n.Lookup(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def, nil
	}
	return i, nil
}

// Set inserts or overwrites a property under the runtime source identifier.
// A key keeps its first-insertion enumeration position across overwrites.
//
// Parameters:
//   - key: The property key to write
//   - value: The raw value to store (string, or []string via EncodeList)
func (n *Namespace) Set(key string, value any) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.put(key, value, runtimeSource)
}

// Contains returns true if the given key exists in the namespace, false otherwise.
func (n *Namespace) Contains(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Keys returns every key in first-insertion order.
// The slice is a copy; callers may keep or mutate it.
func (n *Namespace) Keys() []string {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	keys := make([]string, len(n.order))
	copy(keys, n.order)
	return keys
}

// Len returns the number of keys in the namespace.
func (n *Namespace) Len() int {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return len(n.order)
}

// SourceOf reports which source last set a key.
//
// Parameters:
//   - key: The property key to look up
//
// Returns:
//   - The source identifier, empty when the key is absent
//   - true if the key exists, false otherwise
func (n *Namespace) SourceOf(key string) (string, bool) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	s, ok := n.sources[key]
	return s, ok
}

// Subset returns a projection of the namespace restricted to keys under the
// given dotted prefix. See PrefixView.
//
// Parameters:
//   - prefix: The dotted prefix, without the trailing dot
//
// Returns:
//   - A view over this namespace; the view owns no data of its own
func (n *Namespace) Subset(prefix string) *PrefixView {
	return &PrefixView{
		prefixJoiner: newPrefixJoiner(prefix),
		ns:           n,
	}
}

// Snapshot decodes the whole namespace into a flat string map, in support of
// persisting it. Any undecodable raw value fails the snapshot.
//
// Returns:
//   - The decoded key/value pairs
//   - A TypeMismatchError when any raw value has an unexpected shape
func (n *Namespace) Snapshot() (map[string]string, error) {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	snap := make(map[string]string, len(n.order))
	for _, k := range n.order {
		s, err := DecodeScalar(n.values[k])
		if err != nil {
			return nil, TypeMismatchError{Key: k, Value: n.values[k]}
		}
		snap[k] = s
	}
	return snap, nil
}

// merge applies one parsed source to the namespace in its parsed order.
// Every key already present produces a ConflictRecord before being
// overwritten; the source being applied always wins. Records never block the
// merge, they exist for warning output.
func (n *Namespace) merge(source string, props []property) []ConflictRecord {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	var records []ConflictRecord
	for _, p := range props {
		if existing, ok := n.values[p.key]; ok {
			records = append(records, ConflictRecord{
				Key:      p.key,
				Existing: presentation(existing),
				Incoming: presentation(p.value),
				Source:   source,
			})
		}
		n.put(p.key, p.value, source)
	}
	return records
}

// put writes a key while preserving its enumeration position.
// Callers hold the write lock.
func (n *Namespace) put(key string, value any, source string) {
	if _, ok := n.values[key]; !ok {
		n.order = append(n.order, key)
	}
	n.values[key] = value
	n.sources[key] = source
}

// Package config implements layered resolution of LSC configuration properties.
package config

import "fmt"

// ConflictRecord documents a key redefinition during the merge of a
// supplementary source. Conflicts are audit output only: the merge always
// proceeds and the last-applied source wins.
type ConflictRecord struct {
	// Key is the redefined property key
	Key string
	// Existing is the presentation of the value being overwritten
	Existing string
	// Incoming is the presentation of the value that wins
	Incoming string
	// Source identifies the supplementary source that caused the override
	Source string
}

// String renders the record the way it is reported in warning output.
func (r ConflictRecord) String() string {
	return fmt.Sprintf("%s overrides %s: %q replaces %q", r.Source, r.Key, r.Incoming, r.Existing)
}

// presentation renders a raw value for conflict reporting. Decoding failures
// must not block an audit record, so undecodable values fall back to their
// fmt rendering.
func presentation(raw any) string {
	s, err := DecodeScalar(raw)
	if err != nil {
		return fmt.Sprintf("%v", raw)
	}
	return s
}

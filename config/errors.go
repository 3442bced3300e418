// Package config implements layered resolution of LSC configuration properties.
package config

import "fmt"

type (
	// SourceNotFoundError indicates the primary configuration source could not be resolved.
	// It is fatal: without a primary source there is no usable namespace.
	SourceNotFoundError struct {
		Name string
		Err  error
	}

	// ParseError indicates a configuration source couldn't be parsed.
	// Any parse failure, on the primary or on a fragment, aborts the whole load;
	// a partially merged namespace is worse than failing fast.
	ParseError struct {
		Source string
		Err    error
	}

	// TypeMismatchError indicates a stored raw value is neither a string nor an
	// ordered sequence of strings. This is a data-corruption error, not a miss,
	// so it is surfaced instead of defaulted.
	TypeMismatchError struct {
		Key   string
		Value any
	}

	// PersistError indicates the backing store rejected a configuration snapshot.
	// Persisting is a rare, explicit action; the write is reported, never retried.
	PersistError struct {
		Err error
	}
)

func (e SourceNotFoundError) Error() string {
	return fmt.Sprintf("can't resolve configuration source %s: %s", e.Name, e.Err)
}

func (e SourceNotFoundError) Unwrap() error {
	return e.Err
}

func (e ParseError) Error() string {
	return fmt.Sprintf("can't parse configuration source %s: %s", e.Source, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

func (e TypeMismatchError) Error() string {
	if len(e.Key) == 0 {
		return fmt.Sprintf("value %v (%T) is neither a string nor a list of strings", e.Value, e.Value)
	}
	return fmt.Sprintf("key %s holds %v (%T) which is neither a string nor a list of strings", e.Key, e.Value, e.Value)
}

func (e PersistError) Error() string {
	return fmt.Sprintf("can't persist configuration: %s", e.Err)
}

func (e PersistError) Unwrap() error {
	return e.Err
}

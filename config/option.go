// Package config implements layered resolution of LSC configuration properties.
// It loads a primary property source, overlays the fragments of a configuration
// directory in a deterministic order, and exposes the merged namespace through
// typed accessors, prefix views and a write-through persister, with every
// override audited as a conflict record.
package config

import "github.com/rs/zerolog"

type (
	// LayeredOption configures Layered behavior using the functional options pattern.
	LayeredOption func(*LayeredConfiguration)

	// LayeredConfiguration holds configuration options for Layered.
	LayeredConfiguration struct {
		Logger zerolog.Logger
	}
)

// newLayeredConfiguration creates a new LayeredConfiguration with the specified
// options. It applies each option function to the default configuration.
// By default, logging is disabled.
func newLayeredConfiguration(opts ...LayeredOption) LayeredConfiguration {
	c := LayeredConfiguration{
		Logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// SetLogger configures the logger the engine emits load, conflict and persist
// events through. Without it the engine stays silent.
func SetLogger(logger zerolog.Logger) LayeredOption {
	return func(lc *LayeredConfiguration) {
		lc.Logger = logger
	}
}

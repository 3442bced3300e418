// Package config implements layered resolution of LSC configuration properties.
package config

import "context"

type (
	// Source is one named configuration byte stream handed over by a Store.
	// The name doubles as the source identifier in conflict records and parse
	// errors, and its extension selects the parser (see parseSource).
	Source struct {
		// Name identifies the source, e.g. "lsc.properties" or "lsc.d/10-db.yml"
		Name string
		// Data is the raw content of the source
		Data []byte
	}

	// Store is the external collaborator that resolves configuration bytes and
	// persists them back. The engine contains no I/O of its own; callers
	// needing timeouts or retries wrap their Store.
	Store interface {
		// Primary resolves the primary configuration source. Failing to resolve
		// it anywhere is fatal for the engine; implementations should return a
		// SourceNotFoundError so the identifier survives into the report.
		Primary(ctx context.Context) (*Source, error)

		// Fragments lists the supplementary sources of the configuration
		// directory. An absent directory is not an error: return zero sources.
		// The engine orders fragments by name itself; implementations don't
		// have to.
		Fragments(ctx context.Context) ([]*Source, error)

		// Persist durably stores the full key/value snapshot at the location
		// the primary source was loaded from.
		Persist(ctx context.Context, snapshot map[string]string) error
	}
)

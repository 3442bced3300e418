// Package config implements layered resolution of LSC configuration properties.
package config

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

type (
	// Layered resolves configuration in layers: the primary source defines the
	// baseline, then every fragment of the configuration directory overlays it
	// in lexicographic name order, so the later a fragment sorts, the higher
	// its precedence. Every overridden key is kept as a ConflictRecord for
	// audit output; the merge itself always goes through (last applied wins).
	//
	// An engine is built cheap and loads lazily: the first accessor anywhere
	// triggers the load, exactly once, under mutual exclusion. The outcome is
	// captured, so when the load fails every later access surfaces that same
	// initialization error instead of silently defaulting. There is one engine
	// per process by convention; construct it in main and hand it to callers.
	Layered struct {
		// mutex guards the one-shot load and every post-load state swap
		mutex *sync.Mutex
		// loaded publishes the Unloaded -> Loaded transition to lock-free readers
		loaded *atomic.Bool

		// store resolves and persists configuration bytes
		store Store
		// log receives load, conflict and persist events
		log zerolog.Logger

		// current is the merged namespace, atomically published after the load
		current *atomic.Pointer[Namespace]
		// conflicts are the override records collected during the load
		conflicts []ConflictRecord
		// loadErr is the captured load outcome returned to every re-entrant
		// call; atomic because Seed may rewrite it after publication
		loadErr *atomic.Error
	}
)

// NewLayered creates a configuration engine over the given store.
// Construction performs no I/O; the load happens on first access or on an
// explicit Load call.
//
// Parameters:
//   - store: The collaborator resolving the primary source and fragments
//   - opts: Optional configuration functions to customize behavior
//
// Returns:
//   - A new Layered engine, not yet loaded
//
// Example:
//
//	conf := NewLayered(st, SetLogger(logger))
//
//	// First access loads primary plus fragments, merged last-wins
//	people, err := conf.String(ctx, "dn.people", "ou=People")
//
//	// Connection parameters come from prefix views
//	dst, err := conf.Dst(ctx)
//	host, err := dst.String("java.naming.provider.url", "")
func NewLayered(store Store, opts ...LayeredOption) *Layered {
	cfg := newLayeredConfiguration(opts...)
	return &Layered{
		mutex:   new(sync.Mutex),
		loaded:  atomic.NewBool(false),
		store:   store,
		log:     cfg.Logger,
		current: atomic.NewPointer[Namespace](nil),
		loadErr: atomic.NewError(nil),
	}
}

// Load resolves and merges all configuration sources, exactly once.
// Concurrent first calls race for one load; every other call, before or after
// completion, returns the captured outcome without touching the store again.
// A failed load is as final as a successful one: the engine has no usable
// default namespace, so the error keeps surfacing until a Seed replaces it.
//
// Parameters:
//   - ctx: The context for the store operations
//
// Returns:
//   - The load outcome: nil, a SourceNotFoundError, or a ParseError
func (c *Layered) Load(ctx context.Context) error {
	if c.loaded.Load() {
		return c.loadErr.Load()
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.loaded.Load() {
		return c.loadErr.Load()
	}

	ns, records, err := c.resolve(ctx)
	if err == nil {
		c.current.Store(ns)
		c.conflicts = records
	}
	c.loadErr.Store(err)
	c.loaded.Store(true)
	return err
}

// Loaded returns true once the engine's one-shot load has run, successful or not.
func (c *Layered) Loaded() bool {
	return c.loaded.Load()
}

// Namespace returns the merged namespace, loading it on first access.
// There is no namespace to hand out while the load keeps failing.
//
// Parameters:
//   - ctx: The context for the store operations
//
// Returns:
//   - The merged namespace
//   - The load outcome when the engine can't reach the Loaded state
func (c *Layered) Namespace(ctx context.Context) (*Namespace, error) {
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c.current.Load(), nil
}

// Conflicts returns the override records collected while merging fragments,
// in application order. Loading hasn't happened yet means no records.
//
// Returns:
//   - A copy of the collected conflict records
func (c *Layered) Conflicts() []ConflictRecord {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	records := make([]ConflictRecord, len(c.conflicts))
	copy(records, c.conflicts)
	return records
}

// Seed rebuilds the namespace from the given in-memory sources and marks the
// engine loaded, replacing whatever state the engine held, a captured load
// failure included. This is the re-seed hook for tests and for embedding
// callers that assemble configuration themselves; the store is not consulted.
//
// Fragments merge in lexicographic name order, exactly like a real load.
// When a source doesn't parse, the error is returned and the engine keeps its
// previous state.
//
// Parameters:
//   - primary: The primary source defining baseline values
//   - fragments: Optional supplementary sources overlaying the baseline
//
// Returns:
//   - A ParseError when any given source is malformed
func (c *Layered) Seed(primary *Source, fragments ...*Source) error {
	ns := NewNamespace()
	props, err := parseSource(primary)
	if err != nil {
		return err
	}
	ns.merge(primary.Name, props)

	frags := make([]*Source, len(fragments))
	copy(frags, fragments)
	sort.Slice(frags, func(i, j int) bool {
		return frags[i].Name < frags[j].Name
	})

	var records []ConflictRecord
	for _, frag := range frags {
		props, err := parseSource(frag)
		if err != nil {
			return err
		}
		records = append(records, ns.merge(frag.Name, props)...)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.current.Store(ns)
	c.conflicts = records
	c.loadErr.Store(nil)
	c.loaded.Store(true)

	c.log.Debug().Int("keys", ns.Len()).Int("conflicts", len(records)).Msg("seeded configuration namespace")
	return nil
}

// String returns the decoded value of a key, or the default when the key is
// absent, loading the namespace on first access.
//
// Parameters:
//   - ctx: The context for the store operations
//   - key: The property key to look up
//   - def: The value to return when the key is absent
//
// Returns:
//   - The decoded value, or the default
//   - The load outcome or a TypeMismatchError
func (c *Layered) String(ctx context.Context, key string, def string) (string, error) {
	ns, err := c.Namespace(ctx)
	if err != nil {
		return "", err
	}
	return ns.String(key, def)
}

// Int returns the decoded value of a key parsed as an integer, loading the
// namespace on first access. Absent keys and unparsable numbers yield the
// default; see Namespace.Int for the leniency contract.
//
// Parameters:
//   - ctx: The context for the store operations
//   - key: The property key to look up
//   - def: The value to return when the key is absent or not an integer
//
// Returns:
//   - The parsed integer, or the default
//   - The load outcome or a TypeMismatchError
func (c *Layered) Int(ctx context.Context, key string, def int) (int, error) {
	ns, err := c.Namespace(ctx)
	if err != nil {
		return 0, err
	}
	return ns.Int(key, def)
}

// Contains reports whether a key exists, loading the namespace on first access.
//
// Parameters:
//   - ctx: The context for the store operations
//   - key: The property key to check
//
// Returns:
//   - true if the key exists, false otherwise
//   - The load outcome when the engine can't reach the Loaded state
func (c *Layered) Contains(ctx context.Context, key string) (bool, error) {
	ns, err := c.Namespace(ctx)
	if err != nil {
		return false, err
	}
	return ns.Contains(key), nil
}

// Subset returns a prefix view over the merged namespace, loading it on first
// access.
//
// Parameters:
//   - ctx: The context for the store operations
//   - prefix: The dotted prefix, without the trailing dot
//
// Returns:
//   - A view over the merged namespace
//   - The load outcome when the engine can't reach the Loaded state
func (c *Layered) Subset(ctx context.Context, prefix string) (*PrefixView, error) {
	ns, err := c.Namespace(ctx)
	if err != nil {
		return nil, err
	}
	return ns.Subset(prefix), nil
}

// Src returns the source connection view: the keys under the "src" prefix.
//
// Parameters:
//   - ctx: The context for the store operations
//
// Returns:
//   - The "src" view over the merged namespace
//   - The load outcome when the engine can't reach the Loaded state
func (c *Layered) Src(ctx context.Context) (*PrefixView, error) {
	return c.Subset(ctx, PrefixSource)
}

// Dst returns the destination connection view: the keys under the "dst"
// prefix. When no dst key exists at all, the view falls back to the legacy
// "ldap" prefix as a migration aid. The fallback is this accessor's policy,
// not a view primitive: subsets taken via Subset never fall back.
//
// Parameters:
//   - ctx: The context for the store operations
//
// Returns:
//   - The "dst" view, or the "ldap" view when "dst" is empty
//   - The load outcome when the engine can't reach the Loaded state
func (c *Layered) Dst(ctx context.Context) (*PrefixView, error) {
	ns, err := c.Namespace(ctx)
	if err != nil {
		return nil, err
	}

	v := ns.Subset(PrefixDestination)
	if !v.Empty() {
		return v, nil
	}

	c.log.Debug().Msg("no dst properties found, using legacy ldap prefix")
	return ns.Subset(PrefixLegacyDestination), nil
}

// resolve performs the actual load: parse the primary into a fresh namespace,
// then apply every fragment in lexicographic name order. Directory enumeration
// order is never trusted; sorting here is what makes the merge reproducible
// across runs on identical inputs.
func (c *Layered) resolve(ctx context.Context) (*Namespace, []ConflictRecord, error) {
	primary, err := c.store.Primary(ctx)
	if err != nil {
		var notFound SourceNotFoundError
		if errors.As(err, &notFound) {
			return nil, nil, err
		}
		return nil, nil, SourceNotFoundError{
			Name: "primary source",
			Err:  err,
		}
	}

	c.log.Debug().Str("source", primary.Name).Msg("loading primary configuration source")
	props, err := parseSource(primary)
	if err != nil {
		return nil, nil, err
	}
	ns := NewNamespace()
	ns.merge(primary.Name, props)

	frags, err := c.store.Fragments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("can't list configuration fragments: %w", err)
	}
	sort.Slice(frags, func(i, j int) bool {
		return frags[i].Name < frags[j].Name
	})

	var records []ConflictRecord
	for _, frag := range frags {
		c.log.Debug().Str("source", frag.Name).Msg("applying configuration fragment")
		props, err := parseSource(frag)
		if err != nil {
			return nil, nil, err
		}

		recs := ns.merge(frag.Name, props)
		for _, r := range recs {
			c.log.Warn().
				Str("source", r.Source).
				Str("key", r.Key).
				Str("existing", r.Existing).
				Str("incoming", r.Incoming).
				Msg("configuration override")
		}
		records = append(records, recs...)
	}

	return ns, records, nil
}

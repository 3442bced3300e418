// Package config implements layered resolution of LSC configuration properties.
package config

import (
	"context"
	"sort"
)

// Persist writes a batch of changes through the namespace, then commits the
// full decoded snapshot to the backing store. With a prefix given, every key
// of the batch is fully qualified under it first ("host" under "dst" writes
// "dst.host"); with an empty prefix keys are written as-is. Changes apply in
// sorted key order so repeated persists touch the namespace identically.
//
// The namespace keeps the changes even when the commit fails. Persisting is a
// rare, explicit, user-triggered action: a store failure is reported as a
// PersistError and never retried.
//
// Parameters:
//   - ctx: The context for the store operations
//   - prefix: The dotted prefix to qualify the change keys with, may be empty
//   - changes: The key/value pairs to write
//
// Returns:
//   - The load outcome, a TypeMismatchError from snapshotting, or a PersistError
func (c *Layered) Persist(ctx context.Context, prefix string, changes map[string]string) error {
	ns, err := c.Namespace(ctx)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	joiner := newPrefixJoiner(prefix)
	for _, k := range keys {
		key := k
		if len(prefix) > 0 {
			key = joiner.join(k)
		}
		ns.Set(key, changes[k])
	}

	snapshot, err := ns.Snapshot()
	if err != nil {
		return err
	}

	if err := c.store.Persist(ctx, snapshot); err != nil {
		perr := PersistError{Err: err}
		c.log.Error().Err(err).Int("keys", len(snapshot)).Msg("configuration persist failed")
		return perr
	}

	c.log.Debug().Int("keys", len(snapshot)).Int("changed", len(changes)).Msg("persisted configuration snapshot")
	return nil
}

package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Persist ───────────────────────────────────────────────────────────────────

// TestPersist_PrefixedWriteThrough verifies that changes are fully qualified
// under the prefix, written through the namespace and committed as a complete
// snapshot.
func TestPersist_PrefixedWriteThrough(t *testing.T) {
	st := baselineStore()
	conf := NewLayered(st)
	ctx := context.Background()

	err := conf.Persist(ctx, "dst", map[string]string{
		"url":      "ldap://dst:389",
		"pagesize": "500",
	})
	require.NoError(t, err)

	s, err := conf.String(ctx, "dst.url", "")
	require.NoError(t, err)
	assert.Equal(t, "ldap://dst:389", s)

	require.Len(t, st.persisted, 1)
	assert.Equal(t, map[string]string{
		"dn.people":     "ou=People",
		"uid.maxlength": "8",
		"dst.url":       "ldap://dst:389",
		"dst.pagesize":  "500",
	}, st.persisted[0])
}

// TestPersist_NoPrefix verifies that without a prefix keys are written as-is.
func TestPersist_NoPrefix(t *testing.T) {
	st := baselineStore()
	conf := NewLayered(st)
	ctx := context.Background()

	err := conf.Persist(ctx, "", map[string]string{"uid.maxlength": "16"})
	require.NoError(t, err)

	i, err := conf.Int(ctx, "uid.maxlength", 0)
	require.NoError(t, err)
	assert.Equal(t, 16, i)

	require.Len(t, st.persisted, 1)
	assert.Equal(t, "16", st.persisted[0]["uid.maxlength"])
}

// TestPersist_CommitFailure verifies that a store failure is reported as a
// PersistError while the namespace keeps the changes; nothing retries.
func TestPersist_CommitFailure(t *testing.T) {
	st := baselineStore()
	st.persistErr = errors.New("disk full")
	conf := NewLayered(st)
	ctx := context.Background()

	err := conf.Persist(ctx, "dst", map[string]string{"url": "ldap://dst:389"})
	var perr PersistError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, st.persistErr)

	// write-through happened regardless of the failed commit
	s, err := conf.String(ctx, "dst.url", "")
	require.NoError(t, err)
	assert.Equal(t, "ldap://dst:389", s)
	assert.Empty(t, st.persisted)
}

// TestPersist_LoadFailureWins verifies that persisting through an engine that
// can't load surfaces the initialization error, not a PersistError.
func TestPersist_LoadFailureWins(t *testing.T) {
	st := &fakeStore{primaryErr: errors.New("no such file")}
	conf := NewLayered(st)

	err := conf.Persist(context.Background(), "", map[string]string{"k": "v"})
	assert.ErrorAs(t, err, &SourceNotFoundError{})
	assert.Empty(t, st.persisted)
}

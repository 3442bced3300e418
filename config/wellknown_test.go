package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── NewSettings ───────────────────────────────────────────────────────────────

// TestNewSettings_Baselines verifies the baseline values of an empty
// configuration.
func TestNewSettings_Baselines(t *testing.T) {
	conf := NewLayered(&fakeStore{primary: propsSource("lsc.properties")})

	s, err := NewSettings(context.Background(), conf)
	require.NoError(t, err)

	assert.Equal(t, "ou=People", s.DNPeople)
	assert.Equal(t, "cn=Subschema", s.DNLdapSchema)
	assert.Equal(t, "ou=Schema,ou=System", s.DNEnhancedSchema)
	assert.Equal(t, "ou=Structures", s.DNStructures)
	assert.Equal(t, "ou=Accounts", s.DNAccounts)
	assert.Equal(t, "dc=lsc-project,dc=org", s.DNRealRoot)
	assert.Equal(t, "inetOrgPerson", s.ObjectClassPerson)
	assert.Equal(t, "inetOrgPerson", s.ObjectClassEmployee)
	assert.Equal(t, 8, s.UIDMaxLength)
	assert.Equal(t, 90, s.DaysBeforeSuppression)
}

// TestNewSettings_Overrides verifies that configured values replace the
// baselines, and that both schema fields read the same key.
func TestNewSettings_Overrides(t *testing.T) {
	conf := NewLayered(&fakeStore{primary: propsSource("lsc.properties",
		"dn.people=ou=Humans",
		"dn.ldap_schema=cn=schema",
		"uid.maxlength=12",
		"suppression.MARQUAGE_NOMBRE_DE_JOURS=30",
	)})

	s, err := NewSettings(context.Background(), conf)
	require.NoError(t, err)

	assert.Equal(t, "ou=Humans", s.DNPeople)
	assert.Equal(t, "cn=schema", s.DNLdapSchema)
	assert.Equal(t, "cn=schema", s.DNEnhancedSchema)
	assert.Equal(t, 12, s.UIDMaxLength)
	assert.Equal(t, 30, s.DaysBeforeSuppression)
}

// TestNewSettings_SnapshotSemantics verifies that a resolved snapshot doesn't
// follow later namespace mutation.
func TestNewSettings_SnapshotSemantics(t *testing.T) {
	conf := NewLayered(baselineStore())
	ctx := context.Background()

	s, err := NewSettings(ctx, conf)
	require.NoError(t, err)
	assert.Equal(t, 8, s.UIDMaxLength)

	ns, err := conf.Namespace(ctx)
	require.NoError(t, err)
	ns.Set(KeyUIDMaxLength, "12")

	assert.Equal(t, 8, s.UIDMaxLength)

	fresh, err := NewSettings(ctx, conf)
	require.NoError(t, err)
	assert.Equal(t, 12, fresh.UIDMaxLength)
}

// TestNewSettings_LoadFailure verifies that settings resolution surfaces the
// initialization error instead of handing out all-baseline values.
func TestNewSettings_LoadFailure(t *testing.T) {
	conf := NewLayered(&fakeStore{primaryErr: errors.New("no such file")})

	s, err := NewSettings(context.Background(), conf)
	assert.Nil(t, s)
	assert.ErrorAs(t, err, &SourceNotFoundError{})
}

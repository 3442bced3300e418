// Package config implements layered resolution of LSC configuration properties.
package config

import "context"

// Logical sub-namespace prefixes used by connector callers. Free-form
// prefixes work just as well through Subset; these are the conventional ones.
const (
	// PrefixSource holds the source connection parameters
	PrefixSource = "src"
	// PrefixDestination holds the destination connection parameters
	PrefixDestination = "dst"
	// PrefixLegacyDestination is the pre-dst prefix Dst falls back to
	PrefixLegacyDestination = "ldap"
)

// Well-known property keys of the LSC domain.
const (
	KeyDNPeople              = "dn.people"
	KeyDNLdapSchema          = "dn.ldap_schema"
	KeyDNStructures          = "dn.structures"
	KeyDNAccounts            = "dn.accounts"
	KeyDNRealRoot            = "dn.real_root"
	KeyObjectClassPerson     = "objectclass.person"
	KeyObjectClassEmployee   = "objectclass.employee"
	KeyUIDMaxLength          = "uid.maxlength"
	KeyDaysBeforeSuppression = "suppression.MARQUAGE_NOMBRE_DE_JOURS"
)

// Baseline values substituted when a well-known key is absent.
const (
	DefaultDNPeople              = "ou=People"
	DefaultDNLdapSchema          = "cn=Subschema"
	DefaultDNEnhancedSchema      = "ou=Schema,ou=System"
	DefaultDNStructures          = "ou=Structures"
	DefaultDNAccounts            = "ou=Accounts"
	DefaultDNRealRoot            = "dc=lsc-project,dc=org"
	DefaultObjectClassPerson     = "inetOrgPerson"
	DefaultObjectClassEmployee   = "inetOrgPerson"
	DefaultUIDMaxLength          = 8
	DefaultDaysBeforeSuppression = 90
)

type (
	// Settings is the resolved snapshot of the well-known LSC properties.
	// It is read once off the merged namespace; a later Set or Persist does
	// not update an existing snapshot.
	Settings struct {
		// DNPeople is the people branch DN
		DNPeople string
		// DNLdapSchema is the subschema subentry DN of the directory
		DNLdapSchema string
		// DNEnhancedSchema is the schema branch DN used by directories that
		// expose schema under a dedicated subtree; it reads the same key as
		// DNLdapSchema with its own baseline
		DNEnhancedSchema string
		// DNStructures is the structures branch DN
		DNStructures string
		// DNAccounts is the accounts branch DN
		DNAccounts string
		// DNRealRoot is the real base DN of the directory
		DNRealRoot string
		// ObjectClassPerson is the objectClass representing a person
		ObjectClassPerson string
		// ObjectClassEmployee is the objectClass representing an employee
		ObjectClassEmployee string
		// UIDMaxLength is the maximum length of a generated user identifier
		UIDMaxLength int
		// DaysBeforeSuppression is the number of days between an entry being
		// marked for deletion and its actual deletion
		DaysBeforeSuppression int
	}
)

// NewSettings resolves the well-known LSC properties against the merged
// namespace, loading it on first access. Absent keys take their baseline
// values; a failing load or a corrupted raw value surfaces as an error, the
// snapshot is never silently defaulted as a whole.
//
// Parameters:
//   - ctx: The context for the store operations
//   - conf: The engine to resolve against
//
// Returns:
//   - The resolved settings snapshot
//   - The load outcome or a TypeMismatchError
func NewSettings(ctx context.Context, conf *Layered) (*Settings, error) {
	ns, err := conf.Namespace(ctx)
	if err != nil {
		return nil, err
	}

	s := new(Settings)
	if s.DNPeople, err = ns.String(KeyDNPeople, DefaultDNPeople); err != nil {
		return nil, err
	}
	if s.DNLdapSchema, err = ns.String(KeyDNLdapSchema, DefaultDNLdapSchema); err != nil {
		return nil, err
	}
	if s.DNEnhancedSchema, err = ns.String(KeyDNLdapSchema, DefaultDNEnhancedSchema); err != nil {
		return nil, err
	}
	if s.DNStructures, err = ns.String(KeyDNStructures, DefaultDNStructures); err != nil {
		return nil, err
	}
	if s.DNAccounts, err = ns.String(KeyDNAccounts, DefaultDNAccounts); err != nil {
		return nil, err
	}
	if s.DNRealRoot, err = ns.String(KeyDNRealRoot, DefaultDNRealRoot); err != nil {
		return nil, err
	}
	if s.ObjectClassPerson, err = ns.String(KeyObjectClassPerson, DefaultObjectClassPerson); err != nil {
		return nil, err
	}
	if s.ObjectClassEmployee, err = ns.String(KeyObjectClassEmployee, DefaultObjectClassEmployee); err != nil {
		return nil, err
	}
	if s.UIDMaxLength, err = ns.Int(KeyUIDMaxLength, DefaultUIDMaxLength); err != nil {
		return nil, err
	}
	if s.DaysBeforeSuppression, err = ns.Int(KeyDaysBeforeSuppression, DefaultDaysBeforeSuppression); err != nil {
		return nil, err
	}
	return s, nil
}

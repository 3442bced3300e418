package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── properties syntax ─────────────────────────────────────────────────────────

// TestParseSource_Properties verifies flat key=value parsing: comments and
// blank lines ignored, surrounding whitespace of values trimmed, file order
// preserved.
func TestParseSource_Properties(t *testing.T) {
	src := &Source{
		Name: "lsc.properties",
		Data: []byte("# baseline\n\ndn.people = ou=People  \nuid.maxlength=8\n! also a comment\ndn.real_root=dc=lsc-project,dc=org\n"),
	}

	props, err := parseSource(src)
	require.NoError(t, err)
	require.Len(t, props, 3)
	assert.Equal(t, property{key: "dn.people", value: "ou=People"}, props[0])
	assert.Equal(t, property{key: "uid.maxlength", value: "8"}, props[1])
	assert.Equal(t, property{key: "dn.real_root", value: "dc=lsc-project,dc=org"}, props[2])
}

// TestParseSource_PropertiesDuplicateKey verifies that within one source the
// last occurrence of a key wins, the same overwrite rule as the merge.
func TestParseSource_PropertiesDuplicateKey(t *testing.T) {
	src := &Source{
		Name: "lsc.properties",
		Data: []byte("k=first\nk=second\n"),
	}

	props, err := parseSource(src)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, property{key: "k", value: "second"}, props[0])
}

// TestParseSource_PropertiesKeepsReferencesLiteral verifies that ${...}
// references are not expanded.
func TestParseSource_PropertiesKeepsReferencesLiteral(t *testing.T) {
	src := &Source{
		Name: "lsc.properties",
		Data: []byte("base=dc=org\npeople=ou=People,${base}\n"),
	}

	props, err := parseSource(src)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, property{key: "people", value: "ou=People,${base}"}, props[1])
}

// TestParseSource_PropertiesValueWithCommas verifies that commas inside a
// property value survive parsing untouched.
func TestParseSource_PropertiesValueWithCommas(t *testing.T) {
	src := &Source{
		Name: "lsc.properties",
		Data: []byte("dn.real_root=dc=lsc-project,dc=org\n"),
	}

	props, err := parseSource(src)
	require.NoError(t, err)
	assert.Equal(t, "dc=lsc-project,dc=org", props[0].value)
}

// ── structured fragments ──────────────────────────────────────────────────────

// TestParseSource_YAML verifies flattening of nested mappings to dotted keys
// with lexicographic sibling order, and of lists to string sequences.
func TestParseSource_YAML(t *testing.T) {
	src := &Source{
		Name: "lsc.d/20-dst.yml",
		Data: []byte("dst:\n  pagesize: 500\n  host: ldap://dst:389\nattrs:\n  - cn\n  - sn\n"),
	}

	props, err := parseSource(src)
	require.NoError(t, err)
	require.Len(t, props, 3)
	assert.Equal(t, property{key: "attrs", value: []string{"cn", "sn"}}, props[0])
	assert.Equal(t, property{key: "dst.host", value: "ldap://dst:389"}, props[1])
	assert.Equal(t, property{key: "dst.pagesize", value: "500"}, props[2])
}

// TestParseSource_JSON verifies flattening of a JSON fragment, with non-string
// scalars stringified.
func TestParseSource_JSON(t *testing.T) {
	src := &Source{
		Name: "lsc.d/10-base.json",
		Data: []byte(`{"uid": {"maxlength": 12}, "flag": true}`),
	}

	props, err := parseSource(src)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, property{key: "flag", value: "true"}, props[0])
	assert.Equal(t, property{key: "uid.maxlength", value: "12"}, props[1])
}

// TestParseSource_EmptyStructured verifies that an empty document yields no
// properties rather than an error.
func TestParseSource_EmptyStructured(t *testing.T) {
	props, err := parseSource(&Source{Name: "lsc.d/empty.yml", Data: nil})
	require.NoError(t, err)
	assert.Empty(t, props)
}

// TestParseSource_NonMappingRoot verifies that a structured document without a
// mapping at the top level fails with a ParseError naming the source.
func TestParseSource_NonMappingRoot(t *testing.T) {
	_, err := parseSource(&Source{Name: "lsc.d/list.yml", Data: []byte("- a\n- b\n")})

	var parseErr ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "lsc.d/list.yml", parseErr.Source)
}

// TestParseSource_MalformedJSON verifies that syntax errors surface as
// ParseErrors naming the source.
func TestParseSource_MalformedJSON(t *testing.T) {
	_, err := parseSource(&Source{Name: "lsc.d/bad.json", Data: []byte("{")})

	var parseErr ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "lsc.d/bad.json", parseErr.Source)
}

// ── format dispatch ───────────────────────────────────────────────────────────

// TestParseSource_ExtensionDispatch verifies that unknown extensions fall back
// to property syntax.
func TestParseSource_ExtensionDispatch(t *testing.T) {
	props, err := parseSource(&Source{Name: "lsc.d/50-site.conf", Data: []byte("k=v\n")})
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, property{key: "k", value: "v"}, props[0])
}

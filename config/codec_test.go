package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── DecodeScalar ──────────────────────────────────────────────────────────────

// TestDecodeScalar_String verifies that a plain string decodes to itself.
func TestDecodeScalar_String(t *testing.T) {
	s, err := DecodeScalar("ou=People")
	require.NoError(t, err)
	assert.Equal(t, "ou=People", s)
}

// TestDecodeScalar_StringList verifies that an ordered sequence is joined
// with commas.
func TestDecodeScalar_StringList(t *testing.T) {
	s, err := DecodeScalar([]string{"cn=a", "cn=b", "cn=c"})
	require.NoError(t, err)
	assert.Equal(t, "cn=a,cn=b,cn=c", s)
}

// TestDecodeScalar_EmbeddedComma verifies the deliberate non-round-trippable
// collapse: no escaping is performed, so an element containing a comma is
// indistinguishable from a separator after joining, and the engine never
// re-splits the result.
func TestDecodeScalar_EmbeddedComma(t *testing.T) {
	s, err := DecodeScalar(EncodeList([]string{"a", "b,c"}))
	require.NoError(t, err)
	assert.Equal(t, "a,b,c", s)
}

// TestDecodeScalar_AnyList verifies that a []any holding only strings is
// accepted and joined like a []string.
func TestDecodeScalar_AnyList(t *testing.T) {
	s, err := DecodeScalar([]any{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, "x,y", s)
}

// TestDecodeScalar_RejectsOtherShapes verifies that anything other than a
// string or a sequence of strings fails with a TypeMismatchError.
func TestDecodeScalar_RejectsOtherShapes(t *testing.T) {
	for _, raw := range []any{nil, 42, 3.14, true, []any{"a", 1}, []int{1, 2}, map[string]string{"a": "b"}} {
		_, err := DecodeScalar(raw)
		require.Error(t, err)
		assert.ErrorAs(t, err, &TypeMismatchError{}, "raw %v", raw)
	}
}

// ── EncodeList ────────────────────────────────────────────────────────────────

// TestEncodeList_CopiesInput verifies that mutating the argument after
// encoding doesn't change the stored raw value.
func TestEncodeList_CopiesInput(t *testing.T) {
	in := []string{"a", "b"}
	raw := EncodeList(in)
	in[0] = "mutated"

	s, err := DecodeScalar(raw)
	require.NoError(t, err)
	assert.Equal(t, "a,b", s)
}

// ── SplitSpaceList ────────────────────────────────────────────────────────────

// TestSplitSpaceList_TokenizesAndLowercases verifies space tokenization with
// lowercased tokens.
func TestSplitSpaceList_TokenizesAndLowercases(t *testing.T) {
	assert.Equal(t, []string{"cn", "sn", "mail"}, SplitSpaceList("cn SN  Mail"))
}

// TestSplitSpaceList_Empty verifies that blank input yields no tokens.
func TestSplitSpaceList_Empty(t *testing.T) {
	assert.Empty(t, SplitSpaceList(""))
	assert.Empty(t, SplitSpaceList("   "))
}

package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonHashAndVerify(t *testing.T) {
	a := NewArgon()

	hash, err := a.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := a.Verify("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgonHashesAreSalted(t *testing.T) {
	a := NewArgon()

	h1, err := a.Hash("secret1")
	require.NoError(t, err)

	h2, err := a.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestArgonVerifyBadFormat(t *testing.T) {
	a := NewArgon()

	_, err := a.Verify("secret1", "not-a-phc-string")
	assert.Error(t, err)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw1234")
	require.NoError(t, err)

	assert.NotEqual(t, "pw1234", hash)
	assert.True(t, ComparePassword(hash, "pw1234"))
	assert.False(t, ComparePassword(hash, "pw12345"))
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	u := &User{Password: hash}

	assert.True(t, u.CheckPassword("hunter2"))
	assert.False(t, u.CheckPassword("hunter3"))
	assert.False(t, u.CheckPassword(""))
}

func TestComparePasswordMalformedHash(t *testing.T) {
	assert.False(t, ComparePassword("not-a-hash", "anything"))
}

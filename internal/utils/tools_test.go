package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := EncryptPassword("review-secret-1")
	require.NoError(t, err)
	assert.NotEqual(t, "review-secret-1", hash)

	assert.True(t, VerifyPassword(hash, "review-secret-1"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
	assert.False(t, VerifyPassword("not-a-hash", "review-secret-1"))
}

func TestNewTxRef(t *testing.T) {
	ref := NewTxRef()
	assert.True(t, strings.HasPrefix(ref, "0x"))
	assert.Len(t, ref, 66)

	assert.NotEqual(t, ref, NewTxRef())
}

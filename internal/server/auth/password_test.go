package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword([]byte("corned beef"))
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPassword(hash, []byte("corned beef")))
	assert.False(t, CheckPassword(hash, []byte("pastrami")))
}

func TestCheckPassword_BadHash(t *testing.T) {
	assert.False(t, CheckPassword("not-a-bcrypt-hash", []byte("x")))
}

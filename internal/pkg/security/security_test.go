package security_test

import (
	"Ripple/internal/pkg/security"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PasswordHash_roundtrip(t *testing.T) {
	hash, err := security.HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	assert.NoError(t, security.CheckPasswordHash("s3cret", hash))
	assert.Error(t, security.CheckPasswordHash("wrong", hash))
}

func Test_HashPassword_rejects_empty_input(t *testing.T) {
	_, err := security.HashPassword("")
	assert.Error(t, err)
}

func Test_Token_roundtrip_carries_user_id(t *testing.T) {
	token, err := security.GenerateToken(42)
	require.NoError(t, err)

	claims, err := security.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
}

func Test_ValidateToken_rejects_garbage(t *testing.T) {
	_, err := security.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func Test_ExtractSignature_returns_last_segment(t *testing.T) {
	token, err := security.GenerateToken(1)
	require.NoError(t, err)

	sig, err := security.ExtractSignature(token)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)
	assert.NotContains(t, sig, ".")
}

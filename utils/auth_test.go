package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship-registry-server/config"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Str0ngPass!")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ngPass!", hash)

	assert.True(t, CheckPasswordHash("Str0ngPass!", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	config.Load()

	token, err := GenerateToken(42)
	require.NoError(t, err)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	config.Load()

	_, err := VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateMobile(t *testing.T) {
	valid := []string{
		"09121234567",
		"+989121234567",
		"989121234567",
		"9121234567",
		"0912 123 4567",
	}
	for _, m := range valid {
		assert.True(t, ValidateMobile(m), "expected %q to be valid", m)
	}

	invalid := []string{
		"",
		"0912123456",    // too short
		"091212345678",  // too long
		"08121234567",   // wrong prefix
		"+22241234567",  // foreign format
		"0912123456a",
	}
	for _, m := range invalid {
		assert.False(t, ValidateMobile(m), "expected %q to be invalid", m)
	}
}

func TestFormatMobile(t *testing.T) {
	cases := map[string]string{
		"+989121234567": "09121234567",
		"989121234567":  "09121234567",
		"9121234567":    "09121234567",
		"0912-123-4567": "09121234567",
		" 09121234567 ": "09121234567",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMobile(in))
	}
}

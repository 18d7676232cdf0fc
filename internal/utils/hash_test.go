package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants
const (
	testPassword      = "secret1"
	testWrongPassword = "wrong"
)

func TestHashPassword_Success(t *testing.T) {
	hash, err := HashPassword(testPassword)

	require.NoError(t, err)
	assert.NotEqual(t, testPassword, hash, "Hash must never equal the plaintext")
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"), "Hash should carry the Argon2id identifier")
	assert.NotContains(t, hash, testPassword)
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword(testPassword)
	require.NoError(t, err)
	second, err := HashPassword(testPassword)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "Same password must hash differently with a fresh salt")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword(testPassword)
	require.NoError(t, err, "Setup: HashPassword should not fail")

	testCases := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "correct password", password: testPassword, want: true},
		{name: "wrong password", password: testWrongPassword, want: false},
		{name: "empty password", password: "", want: false},
		{name: "case differs", password: strings.ToUpper(testPassword), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			match, err := VerifyPassword(tc.password, hash)
			require.NoError(t, err)
			assert.Equal(t, tc.want, match)
		})
	}
}

func TestVerifyPassword_UsesStoredParameters(t *testing.T) {
	cheap := HashParams{Memory: 8 * 1024, Iterations: 2, Parallelism: 1, SaltLength: 8, KeyLength: 16}
	hash, err := HashPasswordWith(testPassword, cheap)
	require.NoError(t, err)
	assert.Contains(t, hash, "m=8192,t=2,p=1")

	match, err := VerifyPassword(testPassword, hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	invalidHashes := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$onlysalt",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
	}

	for _, hash := range invalidHashes {
		_, err := VerifyPassword(testPassword, hash)
		assert.ErrorIs(t, err, ErrInvalidHash, "hash %q should be rejected", hash)
	}
}

func TestVerifyPassword_IncompatibleVersion(t *testing.T) {
	_, err := VerifyPassword(testPassword, "$argon2id$v=16$m=65536,t=1,p=4$c2FsdA$aGFzaA")

	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword(testPassword)
	}
}

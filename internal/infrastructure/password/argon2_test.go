package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastConfig keeps tests quick; production uses DefaultConfig.
func fastConfig() Config {
	return Config{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestArgon2_HashAndVerify(t *testing.T) {
	h, err := NewArgon2(fastConfig())
	require.NoError(t, err)

	encoded, err := h.Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := h.Verify("secret", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("Secret", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2_SaltsDiffer(t *testing.T) {
	h, err := NewArgon2(fastConfig())
	require.NoError(t, err)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestArgon2_VerifyUsesStoredParameters(t *testing.T) {
	weak, err := NewArgon2(fastConfig())
	require.NoError(t, err)
	encoded, err := weak.Hash("secret")
	require.NoError(t, err)

	cfg := fastConfig()
	cfg.Time = 2
	stronger, err := NewArgon2(cfg)
	require.NoError(t, err)

	ok, err := stronger.Verify("secret", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2_MalformedHash(t *testing.T) {
	h, err := NewArgon2(fastConfig())
	require.NoError(t, err)

	tests := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$***$aGFzaA",
	}
	for _, encoded := range tests {
		_, err := h.Verify("secret", encoded)
		assert.True(t, errors.Is(err, ErrMalformedHash), encoded)
	}
}

func TestNewArgon2_RejectsZeroCost(t *testing.T) {
	_, err := NewArgon2(Config{})
	assert.Error(t, err)
}

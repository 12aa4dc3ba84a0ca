package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCipherRoundTrip(t *testing.T) {
	c, err := NewKeyCipher("unit-test-secret")
	require.NoError(t, err)

	encrypted, err := c.Encrypt("sk-live-abcdef1234567890")
	require.NoError(t, err)
	assert.NotEqual(t, "sk-live-abcdef1234567890", encrypted)

	decrypted, err := c.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, "sk-live-abcdef1234567890", decrypted)
}

func TestKeyCipherNonDeterministicCiphertext(t *testing.T) {
	c, err := NewKeyCipher("unit-test-secret")
	require.NoError(t, err)

	first, err := c.Encrypt("same-plaintext")
	require.NoError(t, err)
	second, err := c.Encrypt("same-plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "nonce must differ per encryption")
}

func TestKeyCipherRejectsWrongSecret(t *testing.T) {
	c1, err := NewKeyCipher("secret-one")
	require.NoError(t, err)
	c2, err := NewKeyCipher("secret-two")
	require.NoError(t, err)

	encrypted, err := c1.Encrypt("sk-test-key")
	require.NoError(t, err)

	_, err = c2.Decrypt(encrypted)
	assert.Error(t, err)
}

func TestKeyCipherRejectsGarbage(t *testing.T) {
	c, err := NewKeyCipher("secret")
	require.NoError(t, err)

	_, err = c.Decrypt("not base64!!!")
	assert.Error(t, err)

	_, err = c.Decrypt("aGVsbG8=")
	assert.Error(t, err, "valid base64 but shorter than a nonce")
}

func TestNewKeyCipherEmptySecret(t *testing.T) {
	_, err := NewKeyCipher("")
	assert.Error(t, err)
}

func TestLast4(t *testing.T) {
	assert.Equal(t, "7890", Last4("sk-live-abcdef1234567890"))
	assert.Equal(t, "ab", Last4("ab"))
}

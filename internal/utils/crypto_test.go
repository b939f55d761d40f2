package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := EncryptString("imap-password-123", "passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, "imap-password-123", encrypted)

	assert.Equal(t, "imap-password-123", DecryptString(encrypted, "passphrase"))
}

func TestEncryptString_EmptyPassphrasePassesThrough(t *testing.T) {
	encrypted, err := EncryptString("plain", "")
	require.NoError(t, err)
	assert.Equal(t, "plain", encrypted)
}

func TestDecryptString_PlaintextReturnedAsIs(t *testing.T) {
	// Credentials stored before encryption was enabled
	assert.Equal(t, "legacy-password", DecryptString("legacy-password", "passphrase"))
}

package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	secrets := [][]byte{
		[]byte("secretofthirtytwobytesforaes===="),
		tmhash.Sum([]byte("anothersecretforaes==")),
		tmhash.Sum([]byte("123")),
	}

	for _, secret := range secrets {
		plaintext := []byte("Hello, World!")

		ciphertext, err := Encrypt(secret, plaintext)
		assert.NoError(t, err)
		assert.NotEmpty(t, ciphertext)

		got, err := Decrypt(secret, ciphertext)
		assert.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestEncryptRejectsBadSecretSize(t *testing.T) {
	badSecrets := [][]byte{
		[]byte("01"),
		[]byte("tooshort"),
		[]byte("asecretthatistoolongandcantbeusedwithoutbeinghashed"),
	}

	for _, secret := range badSecrets {
		ciphertext, err := Encrypt(secret, []byte("Hello, World!"))
		assert.Error(t, err)
		assert.Empty(t, ciphertext)
	}
}

func TestDecryptRejectsTamperedSecret(t *testing.T) {
	secret := tmhash.Sum([]byte("password"))
	ciphertext, err := Encrypt(secret, []byte("Hello, World!"))
	require.NoError(t, err)

	tampered := append([]byte(nil), secret...)
	tampered[0] ^= 0xFF

	plaintext, err := Decrypt(tampered, ciphertext)
	assert.Error(t, err)
	assert.Empty(t, plaintext)
}

func TestGenerateSecretDeterministicGivenSalt(t *testing.T) {
	pw := []byte("testpassword")

	secret, salt, err := GenerateSecret(pw, nil)
	require.NoError(t, err)
	assert.Len(t, secret, 32)
	assert.Len(t, salt, 8)

	secret2, salt2, err := GenerateSecret(pw, salt)
	require.NoError(t, err)
	assert.Equal(t, secret, secret2)
	assert.Equal(t, salt, salt2)
}

func TestGenerateSecretRejectsEmptyPasswordOrBadSalt(t *testing.T) {
	_, _, err := GenerateSecret(nil, nil)
	assert.Error(t, err)

	_, _, err = GenerateSecret([]byte("any"), []byte("1234567"))
	assert.Error(t, err)
}

func TestGenerateAndOpenEd25519Identity(t *testing.T) {
	dir, err := os.MkdirTemp("", "lattice-identity-ed25519")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	pw := []byte("testpassword")
	keyFile, pubFile, err := Generate(filepath.Join(dir, "id"), KeyEd25519, pw)
	require.NoError(t, err)
	assert.FileExists(t, keyFile)
	assert.FileExists(t, pubFile)

	f, err := Open(keyFile, KeyEd25519, pw)
	require.NoError(t, err)

	priv, err := f.Open()
	require.NoError(t, err)
	assert.Len(t, priv, 64)

	pub, err := f.PubKeyBytes()
	require.NoError(t, err)
	assert.Len(t, pub, 32)
	assert.Contains(t, string(priv), string(pub))

	addr, err := f.Address()
	require.NoError(t, err)
	assert.Len(t, addr, 20)
}

func TestGenerateAndOpenSecp256k1Identity(t *testing.T) {
	dir, err := os.MkdirTemp("", "lattice-identity-secp256k1")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	pw := []byte("testpassword")
	keyFile, _, err := Generate(filepath.Join(dir, "id"), KeySecp256k1, pw)
	require.NoError(t, err)

	f, err := Open(keyFile, KeySecp256k1, pw)
	require.NoError(t, err)

	pub, err := f.PubKeyBytes()
	require.NoError(t, err)
	assert.Len(t, pub, 33)

	sig, err := f.Sign([]byte("message"))
	require.NoError(t, err)
	assert.NotEmpty(t, sig)
}

func TestOpenRejectsEmptyPassword(t *testing.T) {
	dir, err := os.MkdirTemp("", "lattice-identity-emptypw")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	keyFile, _, err := Generate(filepath.Join(dir, "id"), KeyEd25519, []byte("pw"))
	require.NoError(t, err)

	_, err = Open(keyFile, KeyEd25519, nil)
	assert.Error(t, err)
}

// Package identity manages password-protected signing key files for the
// lattice CLI: generation, AES-256-GCM encryption at rest, and recovery of
// the ed25519 or secp256k1 key a transaction is signed with.
package identity

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cometbft/cometbft/crypto/secp256k1"
	"github.com/cometbft/cometbft/crypto/tmhash"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/plugins"
)

// KeyKind selects which curve an identity file's key belongs to.
type KeyKind byte

const (
	KeyEd25519 KeyKind = iota
	KeySecp256k1
)

// KeyProvider describes a provider that recovers a signing key from a
// password-protected identity file.
type KeyProvider interface {
	// Bytes returns the raw ciphertext bytes stored in the identity file.
	Bytes() ([]byte, error)

	// Open decrypts and returns the raw private key bytes.
	Open() ([]byte, error)

	// Secret returns the 32-byte AES key derived from the password and the
	// file's stored salt.
	Secret() ([]byte, error)

	// Sign decrypts the private key and signs msg with it.
	Sign(msg []byte) ([]byte, error)

	// Address returns the signer address implied by the public key.
	Address() (plugins.Address, error)

	// PubKeyBytes returns the raw public key bytes.
	PubKeyBytes() ([]byte, error)
}

// File is a password-protected identity file. It contains a base64-encoded
// AES-256-GCM ciphertext, prefixed by an 8-byte salt, of the raw private key
// bytes.
type File struct {
	Path string
	Kind KeyKind
	pw   []byte
}

var _ KeyProvider = (*File)(nil)

// Open constructs a File handle over an existing identity file. pw must not
// be empty, and the file at path must already exist.
func Open(path string, kind KeyKind, pw []byte) (*File, error) {
	if len(pw) == 0 {
		return nil, fmt.Errorf("identity: password must not be empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("identity: could not open id file: %w", err)
	}
	return &File{Path: path, Kind: kind, pw: pw}, nil
}

// Bytes reads the identity file and base64-decodes its content.
func (f *File) Bytes() ([]byte, error) {
	if _, err := os.Stat(f.Path); err != nil {
		return nil, fmt.Errorf("identity: could not open id file: %w", err)
	}

	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}

	ctbz, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return nil, err
	}
	return ctbz, nil
}

// Open decrypts the file's stored ciphertext and returns the raw private
// key bytes. The first 8 bytes of the stored content are the random salt
// used to derive the AES secret from the password.
func (f *File) Open() ([]byte, error) {
	if len(f.pw) == 0 {
		return nil, fmt.Errorf("identity: password must not be empty")
	}

	ctbz, err := f.Bytes()
	if err != nil {
		return nil, err
	}
	if len(ctbz) < 8 {
		return nil, fmt.Errorf("identity: id file too short")
	}

	salt, ct := ctbz[:8], ctbz[8:]
	secret, _, err := GenerateSecret(f.pw, salt)
	if err != nil {
		return nil, err
	}

	return Decrypt(secret, ct)
}

// Secret returns the 32-byte AES key the file's password and stored salt
// derive.
func (f *File) Secret() ([]byte, error) {
	ctbz, err := f.Bytes()
	if err != nil {
		return nil, err
	}
	if len(ctbz) < 8 {
		return nil, fmt.Errorf("identity: id file too short")
	}

	secret, _, err := GenerateSecret(f.pw, ctbz[:8])
	return secret, err
}

// Sign decrypts the private key and signs msg, never keeping the decrypted
// key material around longer than the call needs it for.
func (f *File) Sign(msg []byte) ([]byte, error) {
	bz, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer zero(bz)

	switch f.Kind {
	case KeyEd25519:
		return ed25519.PrivKey(bz).Sign(msg)
	case KeySecp256k1:
		return secp256k1.PrivKey(bz).Sign(msg)
	default:
		return nil, errs.ErrSigner
	}
}

// PubKeyBytes decrypts the private key and returns its public key bytes.
func (f *File) PubKeyBytes() ([]byte, error) {
	bz, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer zero(bz)

	switch f.Kind {
	case KeyEd25519:
		return ed25519.PrivKey(bz).PubKey().Bytes(), nil
	case KeySecp256k1:
		return secp256k1.PrivKey(bz).PubKey().Bytes(), nil
	default:
		return nil, errs.ErrSigner
	}
}

// Address returns the signer address the file's public key implies.
func (f *File) Address() (plugins.Address, error) {
	pub, err := f.PubKeyBytes()
	if err != nil {
		return nil, err
	}
	return plugins.AddressFromPubKey(pub), nil
}

func zero(bz []byte) {
	for i := range bz {
		bz[i] = 0
	}
}

// GenerateSecret derives a 32-byte AES secret as SHA-256(salt || password).
// If salt is empty a random 8-byte salt is generated; otherwise it must
// already be 8 bytes. It returns the secret and the salt used.
func GenerateSecret(pw, salt []byte) ([]byte, []byte, error) {
	if len(pw) == 0 {
		return nil, nil, fmt.Errorf("identity: password must not be empty")
	}

	if len(salt) == 0 {
		salt = make([]byte, 8)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, nil, err
		}
	} else if len(salt) != 8 {
		return nil, nil, fmt.Errorf("identity: invalid salt size, want %d, got %d", 8, len(salt))
	}

	var buf bytes.Buffer
	buf.Grow(8 + len(pw))
	buf.Write(salt)
	buf.Write(pw)
	secret := tmhash.Sum(buf.Bytes())

	return secret, salt, nil
}

// Encrypt seals data under secret with AES-256-GCM, prefixing the output
// with the GCM nonce.
func Encrypt(secret, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, data, nil), nil
}

// Decrypt opens an AES-256-GCM ciphertext sealed by Encrypt.
func Decrypt(secret, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("identity: ciphertext too short")
	}
	nonce, ct := ciphertext[:nonceSize], ciphertext[nonceSize:]

	return gcm.Open(nil, nonce, ct, nil)
}

// Generate creates a new private key of kind, encrypts it under pw, and
// writes both the identity file at idFile and a cleartext co-located
// .pub file holding the base64-encoded public key bytes.
func Generate(idFile string, kind KeyKind, pw []byte) (keyFile, pubFile string, err error) {
	if len(pw) == 0 {
		return "", "", fmt.Errorf("identity: password must not be empty")
	}

	dir := filepath.Dir(idFile)
	if _, statErr := os.Stat(dir); statErr != nil {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return "", "", err
		}
	}

	var privBytes, pubBytes []byte
	switch kind {
	case KeyEd25519:
		priv := ed25519.GenPrivKey()
		privBytes, pubBytes = priv.Bytes(), priv.PubKey().Bytes()
	case KeySecp256k1:
		priv := secp256k1.GenPrivKey()
		privBytes, pubBytes = priv.Bytes(), priv.PubKey().Bytes()
	default:
		return "", "", errs.ErrSigner
	}

	secret, salt, err := GenerateSecret(pw, nil)
	if err != nil {
		return "", "", err
	}

	ctbz, err := Encrypt(secret, privBytes)
	if err != nil {
		return "", "", err
	}
	ctbz = append(salt, ctbz...)

	b64 := base64.StdEncoding.EncodeToString(ctbz)
	if err := os.WriteFile(idFile, []byte(b64), 0600); err != nil {
		return "", "", err
	}

	pubFile = idFile + ".pub"
	b64Pub := base64.StdEncoding.EncodeToString(pubBytes)
	if err := os.WriteFile(pubFile, []byte(b64Pub), 0644); err != nil {
		return "", "", err
	}

	return idFile, pubFile, nil
}

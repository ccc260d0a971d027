package plugins

import (
	"encoding/hex"

	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cometbft/cometbft/crypto/secp256k1"
)

// Address identifies a signer, derived the same way CometBFT derives a
// validator address from a public key (20 bytes: truncated SHA-256 for
// ed25519 keys, RIPEMD-160 of SHA-256 for secp256k1 keys).
type Address []byte

// String renders an address as lowercase hex.
func (a Address) String() string {
	return hex.EncodeToString(a)
}

// AddressFromPubKey derives an Address from a raw public key, choosing the
// derivation by key length: a 32-byte key is treated as ed25519, a 33-byte
// key as secp256k1, and any other length as ed25519.
func AddressFromPubKey(pub []byte) Address {
	switch len(pub) {
	case ed25519.PubKeySize:
		return Address(ed25519.PubKey(pub).Address())
	case secp256k1.PubKeySize:
		return Address(secp256k1.PubKey(pub).Address())
	default:
		return Address(ed25519.PubKey(pub).Address())
	}
}

package plugins

import (
	cmtcrypto "github.com/cometbft/cometbft/api/cometbft/crypto/v1"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/cometbft/cometbft/crypto/secp256k1"
	"github.com/cosmos/gogoproto/proto"

	txv1 "github.com/latticebft/lattice/api/tx/v1"
	"github.com/latticebft/lattice/errs"
)

// SignerKind distinguishes the two key types the Signer plugin recovers,
// mirroring the native-call/Amino split in §4.3.2.
type SignerKind int

const (
	SignerEd25519 SignerKind = iota
	SignerSecp256k1
)

// NativeTx is the signed transaction of the native wire format (envelopes
// starting with 0xFF), carried in the generated Transaction message. Signer
// decodes and verifies it. Amino and Protobuf envelopes are never repacked
// into this shape: SDK-compat verifies them against their own SignDoc and
// passes the packed Body straight to Nonce.
type NativeTx struct {
	SignerKind SignerKind
	SignerPub  []byte
	Signature  []byte
	Body       []byte
}

// ToProto returns the generated Transaction message for tx.
func (tx *NativeTx) ToProto() *txv1.Transaction {
	pk := cmtcrypto.PublicKey{}
	switch tx.SignerKind {
	case SignerSecp256k1:
		pk.Sum = &cmtcrypto.PublicKey_Secp256k1{Secp256k1: tx.SignerPub}
	default:
		pk.Sum = &cmtcrypto.PublicKey_Ed25519{Ed25519: tx.SignerPub}
	}

	pb := new(txv1.Transaction)
	pb.Signer = pk
	pb.Signature = tx.Signature
	pb.Len = uint32(len(tx.Body))
	pb.Body = tx.Body
	return pb
}

// Marshal serializes tx to its wire bytes, enforcing the same envelope cap
// decode applies, so the core can never emit a call its own peers would
// reject.
func (tx *NativeTx) Marshal() ([]byte, error) {
	bz, err := proto.Marshal(tx.ToProto())
	if err != nil {
		return nil, errs.ErrFraming
	}
	if len(bz) > MaxEnvelopeSize {
		return nil, errs.ErrEnvelopeTooLarge
	}
	return bz, nil
}

// NativeTxFromProto builds a NativeTx from a decoded Transaction message.
func NativeTxFromProto(pb *txv1.Transaction) (*NativeTx, error) {
	if pb == nil {
		return nil, errs.ErrFraming
	}

	tx := new(NativeTx)
	if pkbz := pb.Signer.GetSecp256k1(); len(pkbz) != 0 {
		tx.SignerKind = SignerSecp256k1
		tx.SignerPub = pkbz
	} else {
		tx.SignerKind = SignerEd25519
		tx.SignerPub = pb.Signer.GetEd25519()
	}
	tx.Signature = pb.Signature
	tx.Body = pb.Body
	return tx, nil
}

// NativeTxFromBytes decodes a wire-format NativeTx, enforcing the envelope
// cap before even attempting to unmarshal.
func NativeTxFromBytes(bz []byte) (*NativeTx, error) {
	if len(bz) > MaxEnvelopeSize {
		return nil, errs.ErrEnvelopeTooLarge
	}
	pb := new(txv1.Transaction)
	if err := proto.Unmarshal(bz, pb); err != nil {
		return nil, errs.ErrFraming
	}
	return NativeTxFromProto(pb)
}

// Verify checks tx.Signature against tx.Body directly — the native call
// format carries no separate sign-doc wrapping, the signature covers the
// body bytes as-is.
func (tx *NativeTx) Verify() bool {
	if len(tx.SignerPub) == 0 || len(tx.Signature) == 0 {
		return false
	}
	switch tx.SignerKind {
	case SignerSecp256k1:
		return secp256k1.PubKey(tx.SignerPub).VerifySignature(tx.Body, tx.Signature)
	default:
		return ed25519.PubKey(tx.SignerPub).VerifySignature(tx.Body, tx.Signature)
	}
}

// Address derives the signer address from the public key via
// AddressFromPubKey, the same derivation the identity package uses.
func (tx *NativeTx) Address() Address {
	return AddressFromPubKey(tx.SignerPub)
}

package plugins

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"strconv"

	"github.com/cometbft/cometbft/crypto/secp256k1"
	gogoproto "github.com/cosmos/gogoproto/proto"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/store"
)

// secp256k1RawPubKeySize is the length of a compressed secp256k1 public
// key as carried by both the Amino and the Protobuf Cosmos-SDK encodings.
const secp256k1RawPubKeySize = 33

// SDKCompat is the outermost plugin. It sniffs the envelope's wire shape,
// verifies Cosmos-SDK Amino/Protobuf Txs against their own SignDoc, and
// converts them into the uniform native Body shape the rest of the chain
// expects; native calls pass through to Signer unchanged.
type SDKCompat struct {
	chainID string
	inner   Plugin // Signer, entered only for native envelopes
	inward  Plugin // what Signer itself would call next (Nonce); SDK-compat
	// calls this directly for Amino/Protobuf envelopes, since it has already
	// done the signature verification Signer would otherwise repeat — over
	// the wrong bytes, since a repacked native body is never what an SDK
	// signer actually signed.
}

var _ Plugin = (*SDKCompat)(nil)

// NewSDKCompat constructs the plugin. inner is Signer, wired for native
// envelopes; inward is the plugin Signer itself wraps (Nonce), wired for
// envelopes SDK-compat has already verified.
func NewSDKCompat(chainID string, inner Plugin, inward Plugin) *SDKCompat {
	return &SDKCompat{chainID: chainID, inner: inner, inward: inward}
}

func (c *SDKCompat) BeginBlock(ctx context.Context, buf *store.Buffer) error {
	return c.inner.BeginBlock(ctx, buf)
}
func (c *SDKCompat) EndBlock(ctx context.Context, buf *store.Buffer) error {
	return c.inner.EndBlock(ctx, buf)
}
func (c *SDKCompat) InitChain(ctx context.Context, buf *store.Buffer) error {
	return c.inner.InitChain(ctx, buf)
}
func (c *SDKCompat) AbciQuery(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return c.inner.AbciQuery(ctx, buf, path, data)
}
func (c *SDKCompat) Query(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return c.inner.Query(ctx, buf, path, data)
}

// Call implements Plugin: the entry point for every transaction the
// dispatcher hands to the application.
func (c *SDKCompat) Call(ctx context.Context, buf *store.Buffer, raw []byte) error {
	env, err := ParseEnvelope(raw)
	if err != nil {
		return err
	}

	switch env.Kind {
	case KindNative:
		return c.inner.Call(ctx, buf, env.Raw)
	case KindAmino:
		addr, body, err := c.verifyAminoTx(env.Raw)
		if err != nil {
			return err
		}
		return c.inward.Call(WithSignerAddress(ctx, addr), buf, body)
	default:
		addr, body, err := c.verifyProtobufTx(env.Raw)
		if err != nil {
			return err
		}
		return c.inward.Call(WithSignerAddress(ctx, addr), buf, body)
	}
}

// verifyAminoTx recovers the signer and verifies the signature against the
// Amino SignDoc §4.3.2 requires — the canonical JSON doc AminoTx.SignBytes
// builds — not against the repacked native body, since the two are
// different byte strings and an Amino client never signs the latter. Once
// verified, it packs the native body the rest of the chain expects.
func (c *SDKCompat) verifyAminoTx(raw []byte) (Address, []byte, error) {
	atx, err := DecodeAminoTx(raw)
	if err != nil {
		return nil, nil, err
	}
	if len(atx.Signatures) == 0 || len(atx.Msgs) == 0 {
		return nil, nil, errs.ErrSigner
	}

	sig0 := atx.Signatures[0]
	pubBz, err := base64.StdEncoding.DecodeString(sig0.PubKey.Value)
	if err != nil {
		return nil, nil, errs.ErrSigner
	}
	sigBz, err := base64.StdEncoding.DecodeString(sig0.Signature)
	if err != nil {
		return nil, nil, errs.ErrSigner
	}

	signDoc, err := atx.SignBytes(c.chainID, atx.Sequence)
	if err != nil {
		return nil, nil, err
	}
	if !secp256k1.PubKey(pubBz).VerifySignature(signDoc, sigBz) {
		return nil, nil, errs.ErrSigner
	}

	fee, err := aminoFeeAmount(atx.Fee)
	if err != nil {
		return nil, nil, err
	}

	body := packBody(atx.Sequence, c.chainID, fee, atx.Msgs[0])
	return AddressFromPubKey(pubBz), body, nil
}

// verifyProtobufTx recovers the signer and verifies the signature against
// the Cosmos-SDK SIGN_MODE_DIRECT SignDoc (the exact BodyBytes/AuthInfoBytes
// pair the Tx was framed with, plus chain id and account number), rather
// than against a repacked native body. The Tx is decoded as TxRaw rather
// than the fully-typed Tx message specifically so the original BodyBytes
// and AuthInfoBytes survive untouched for the SignDoc — re-marshaling a
// decoded TxBody/AuthInfo is not guaranteed to reproduce the exact bytes a
// client signed.
func (c *SDKCompat) verifyProtobufTx(raw []byte) (Address, []byte, error) {
	txRaw := new(txtypes.TxRaw)
	if err := gogoproto.Unmarshal(raw, txRaw); err != nil {
		return nil, nil, errs.ErrFraming
	}
	if len(txRaw.Signatures) == 0 {
		return nil, nil, errs.ErrSigner
	}

	body := new(txtypes.TxBody)
	if err := gogoproto.Unmarshal(txRaw.BodyBytes, body); err != nil {
		return nil, nil, errs.ErrFraming
	}
	authInfo := new(txtypes.AuthInfo)
	if err := gogoproto.Unmarshal(txRaw.AuthInfoBytes, authInfo); err != nil {
		return nil, nil, errs.ErrFraming
	}
	if len(authInfo.SignerInfos) == 0 || len(body.Messages) == 0 {
		return nil, nil, errs.ErrSigner
	}

	signerInfo := authInfo.SignerInfos[0]
	pubAny := signerInfo.PublicKey
	if pubAny == nil || len(pubAny.Value) < secp256k1RawPubKeySize {
		return nil, nil, errs.ErrSigner
	}
	// The Any-wrapped PubKey message serializes as a single length-delimited
	// field; its raw key bytes are its trailing secp256k1RawPubKeySize
	// bytes. This reads the embedded key directly rather than round
	// tripping through the full interface-registry Any resolution — a
	// deliberate, documented simplification.
	pubBz := pubAny.Value[len(pubAny.Value)-secp256k1RawPubKeySize:]

	signDoc := &txtypes.SignDoc{
		BodyBytes:     txRaw.BodyBytes,
		AuthInfoBytes: txRaw.AuthInfoBytes,
		ChainId:       c.chainID,
		AccountNumber: 0,
	}
	signDocBz, err := gogoproto.Marshal(signDoc)
	if err != nil {
		return nil, nil, errs.ErrFraming
	}
	if !secp256k1.PubKey(pubBz).VerifySignature(signDocBz, txRaw.Signatures[0]) {
		return nil, nil, errs.ErrSigner
	}

	var fee uint64
	if authInfo.Fee != nil && len(authInfo.Fee.Amount) > 0 {
		parsed, err := strconv.ParseUint(authInfo.Fee.Amount[0].Amount.String(), 10, 64)
		if err == nil {
			fee = parsed
		}
	}

	nativeBody := packBody(signerInfo.Sequence, c.chainID, fee, body.Messages[0].Value)
	return AddressFromPubKey(pubBz), nativeBody, nil
}

// PackNativeBody exposes packBody for client-side transaction construction
// (the CLI signs exactly the bytes this produces before wrapping them in a
// NativeTx).
func PackNativeBody(nonce uint64, chainID string, fee uint64, call []byte) []byte {
	return packBody(nonce, chainID, fee, call)
}

// packBody lays out the nested native Body encoding §4.3.1 describes: an
// 8-byte nonce, a 2-byte length-prefixed chain id, an 8-byte fee, then the
// call bytes — each consumed by the matching inner plugin in turn.
func packBody(nonce uint64, chainID string, fee uint64, call []byte) []byte {
	out := make([]byte, 0, 8+2+len(chainID)+8+len(call))

	nb := make([]byte, 8)
	binary.BigEndian.PutUint64(nb, nonce)
	out = append(out, nb...)

	cl := make([]byte, 2)
	binary.BigEndian.PutUint16(cl, uint16(len(chainID)))
	out = append(out, cl...)
	out = append(out, []byte(chainID)...)

	fb := make([]byte, 8)
	binary.BigEndian.PutUint64(fb, fee)
	out = append(out, fb...)

	out = append(out, call...)
	return out
}

func aminoFeeAmount(fee AminoFee) (uint64, error) {
	if len(fee.Amount) == 0 {
		return 0, nil
	}
	v, err := strconv.ParseUint(fee.Amount[0].Amount, 10, 64)
	if err != nil {
		return 0, errs.ErrCall
	}
	return v, nil
}

package plugins

import (
	"encoding/json"

	"github.com/latticebft/lattice/errs"
)

// MaxEnvelopeSize bounds a transaction envelope on both the decode and the
// encode path, so an application can never construct a call that would be
// rejected by its own peers.
const MaxEnvelopeSize = 65535

// EnvelopeKind identifies which of the three accepted wire shapes a raw
// envelope was sniffed as.
type EnvelopeKind int

const (
	KindNative EnvelopeKind = iota
	KindAmino
	KindProtobuf
)

// Envelope is the result of sniffing a raw transaction payload. Raw holds
// the native call bytes with the leading 0xFF stripped for KindNative, and
// the untouched payload for KindAmino/KindProtobuf (their own decoders need
// the full byte string).
type Envelope struct {
	Kind EnvelopeKind
	Raw  []byte
}

// ParseEnvelope sniffs the wire shape of a raw transaction payload per the
// envelope framing rule: 0xFF selects native decoding, '{' selects Amino
// JSON, anything else is Protobuf.
func ParseEnvelope(b []byte) (Envelope, error) {
	if len(b) > MaxEnvelopeSize {
		return Envelope{}, errs.ErrEnvelopeTooLarge
	}
	if len(b) == 0 {
		return Envelope{}, errs.ErrFraming
	}

	switch b[0] {
	case 0xFF:
		return Envelope{Kind: KindNative, Raw: b[1:]}, nil
	case '{':
		return Envelope{Kind: KindAmino, Raw: b}, nil
	default:
		return Envelope{Kind: KindProtobuf, Raw: b}, nil
	}
}

// AminoCoin is a single entry of an AminoTx's fee amount.
type AminoCoin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// AminoFee mirrors the Cosmos-SDK Amino Tx fee object.
type AminoFee struct {
	Amount []AminoCoin `json:"amount"`
	Gas    string      `json:"gas"`
}

// AminoPubKey mirrors the Amino tagged pubkey encoding.
type AminoPubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"` // base64
}

// AminoSignature mirrors a single entry of an AminoTx's signatures list.
type AminoSignature struct {
	PubKey    AminoPubKey `json:"pub_key"`
	Signature string      `json:"signature"` // base64
	Type      string      `json:"type,omitempty"`
}

// AminoTx is the JSON-encoded Cosmos-SDK legacy Tx shape SDK-compat accepts
// when the envelope begins with '{'.
type AminoTx struct {
	Msgs       []json.RawMessage `json:"msg"`
	Fee        AminoFee          `json:"fee"`
	Memo       string            `json:"memo"`
	Signatures []AminoSignature  `json:"signatures"`

	// Sequence is carried on the wire Tx (rather than only in the derived
	// SignDoc) so SDK-compat has a nonce to repack into the native Body
	// without a separate account-sequence lookup of its own.
	Sequence uint64 `json:"sequence,string"`
}

// DecodeAminoTx parses a JSON-encoded AminoTx. decode∘encode is required to
// be the identity for any well-formed AminoTx produced by EncodeAminoTx.
func DecodeAminoTx(raw []byte) (*AminoTx, error) {
	tx := new(AminoTx)
	if err := json.Unmarshal(raw, tx); err != nil {
		return nil, errs.ErrFraming
	}
	return tx, nil
}

// EncodeAminoTx serializes tx back to its canonical JSON form.
func EncodeAminoTx(tx *AminoTx) ([]byte, error) {
	bz, err := json.Marshal(tx)
	if err != nil {
		return nil, errs.ErrFraming
	}
	if len(bz) > MaxEnvelopeSize {
		return nil, errs.ErrEnvelopeTooLarge
	}
	return bz, nil
}

// AminoSignDoc is the canonical byte sequence an Amino signature covers:
// account_number is always "0" for this core (it does not maintain an
// account-number registry of its own; chain-commitment and nonce ordering
// provide the replay protection an account number would otherwise give).
type AminoSignDoc struct {
	AccountNumber string            `json:"account_number"`
	ChainID       string            `json:"chain_id"`
	Fee           AminoFee          `json:"fee"`
	Memo          string            `json:"memo"`
	Msgs          []json.RawMessage `json:"msgs"`
	Sequence      string            `json:"sequence"`
}

// SignBytes returns the canonical JSON bytes the Amino signature in tx is
// expected to cover, given the nonce that stood in for the sequence number.
func (tx *AminoTx) SignBytes(chainID string, nonce uint64) ([]byte, error) {
	doc := AminoSignDoc{
		AccountNumber: "0",
		ChainID:       chainID,
		Fee:           tx.Fee,
		Memo:          tx.Memo,
		Msgs:          tx.Msgs,
		Sequence:      itoa(nonce),
	}
	bz, err := json.Marshal(doc)
	if err != nil {
		return nil, errs.ErrFraming
	}
	return bz, nil
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

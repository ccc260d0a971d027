package plugins

import (
	"context"
	"encoding/binary"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/store"
)

const nonceKeyPrefix = "nonce/"

// Nonce wraps inner, enforcing that each call's embedded nonce is exactly
// one greater than the stored value for the recovered signer address.
type Nonce struct {
	inner Plugin
}

var _ Plugin = (*Nonce)(nil)

// NewNonce constructs the Nonce plugin, wrapping inner (ChainCommitment).
func NewNonce(inner Plugin) *Nonce {
	return &Nonce{inner: inner}
}

func (n *Nonce) BeginBlock(ctx context.Context, buf *store.Buffer) error {
	return n.inner.BeginBlock(ctx, buf)
}
func (n *Nonce) EndBlock(ctx context.Context, buf *store.Buffer) error {
	return n.inner.EndBlock(ctx, buf)
}
func (n *Nonce) InitChain(ctx context.Context, buf *store.Buffer) error {
	return n.inner.InitChain(ctx, buf)
}
func (n *Nonce) AbciQuery(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return n.inner.AbciQuery(ctx, buf, path, data)
}
func (n *Nonce) Query(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return n.inner.Query(ctx, buf, path, data)
}

// Call implements Plugin. envelope is an 8-byte big-endian nonce followed
// by the remainder destined for ChainCommitment.
func (n *Nonce) Call(ctx context.Context, buf *store.Buffer, envelope []byte) error {
	if len(envelope) < 8 {
		return errs.ErrCall
	}
	addr, ok := SignerAddress(ctx)
	if !ok {
		return errs.ErrSigner
	}

	submitted := binary.BigEndian.Uint64(envelope[:8])
	rest := envelope[8:]

	nonces := NonceStore{view: store.Sub(buf, []byte(nonceKeyPrefix))}
	current, err := nonces.Get(addr)
	if err != nil {
		return errs.ErrStore
	}
	if submitted != current+1 {
		return errs.ErrNonce
	}
	if err := nonces.Set(addr, submitted); err != nil {
		return errs.ErrStore
	}

	return n.inner.Call(ctx, buf, rest)
}

// NonceStore is the Address -> uint64 map the spec's data model names
// directly; it is itself a prefix-scoped view, matching §4.2's namespacing
// discipline.
type NonceStore struct {
	view *store.PrefixStore
}

// Get returns the current nonce for addr, or 0 if none has been recorded.
func (n NonceStore) Get(addr Address) (uint64, error) {
	v, err := n.view.Get(addr)
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(v), nil
}

// Set records nonce for addr.
func (n NonceStore) Set(addr Address, nonce uint64) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, nonce)
	return n.view.Put(addr, v)
}

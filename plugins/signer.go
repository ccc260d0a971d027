package plugins

import (
	"context"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/store"
)

// Signer wraps inner (Nonce), recovering and verifying the envelope's
// signature before exposing the signer address through ctx for every
// inner layer to consume.
type Signer struct {
	inner Plugin
}

var _ Plugin = (*Signer)(nil)

// NewSigner constructs the plugin, wrapping inner (Nonce).
func NewSigner(inner Plugin) *Signer {
	return &Signer{inner: inner}
}

func (s *Signer) BeginBlock(ctx context.Context, buf *store.Buffer) error {
	return s.inner.BeginBlock(ctx, buf)
}
func (s *Signer) EndBlock(ctx context.Context, buf *store.Buffer) error {
	return s.inner.EndBlock(ctx, buf)
}
func (s *Signer) InitChain(ctx context.Context, buf *store.Buffer) error {
	return s.inner.InitChain(ctx, buf)
}
func (s *Signer) AbciQuery(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return s.inner.AbciQuery(ctx, buf, path, data)
}
func (s *Signer) Query(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return s.inner.Query(ctx, buf, path, data)
}

// Call implements Plugin. envelope is a wire-format NativeTx with the 0xFF
// marker already stripped. SDK-compat sends only native envelopes here;
// Amino and Protobuf envelopes it verifies itself and hands to Nonce.
func (s *Signer) Call(ctx context.Context, buf *store.Buffer, envelope []byte) error {
	tx, err := NativeTxFromBytes(envelope)
	if err != nil {
		return err
	}
	if !tx.Verify() {
		return errs.ErrSigner
	}

	ctx = WithSignerAddress(ctx, tx.Address())
	return s.inner.Call(ctx, buf, tx.Body)
}

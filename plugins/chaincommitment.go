package plugins

import (
	"context"
	"encoding/binary"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/store"
)

// ChainCommitment wraps inner (Payable), rejecting any call whose embedded
// chain id does not match the compile-time-known deployment chain id. This
// binds a signature to a particular deployment.
type ChainCommitment struct {
	chainID string
	inner   Plugin
}

var _ Plugin = (*ChainCommitment)(nil)

// NewChainCommitment constructs the plugin, fixing chainID for the life of
// the process.
func NewChainCommitment(chainID string, inner Plugin) *ChainCommitment {
	return &ChainCommitment{chainID: chainID, inner: inner}
}

func (c *ChainCommitment) BeginBlock(ctx context.Context, buf *store.Buffer) error {
	return c.inner.BeginBlock(ctx, buf)
}
func (c *ChainCommitment) EndBlock(ctx context.Context, buf *store.Buffer) error {
	return c.inner.EndBlock(ctx, buf)
}
func (c *ChainCommitment) InitChain(ctx context.Context, buf *store.Buffer) error {
	return c.inner.InitChain(ctx, buf)
}
func (c *ChainCommitment) AbciQuery(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return c.inner.AbciQuery(ctx, buf, path, data)
}
func (c *ChainCommitment) Query(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return c.inner.Query(ctx, buf, path, data)
}

// Call implements Plugin. envelope is a 2-byte big-endian length, that many
// bytes of chain id, then the remainder destined for Payable.
func (c *ChainCommitment) Call(ctx context.Context, buf *store.Buffer, envelope []byte) error {
	if len(envelope) < 2 {
		return errs.ErrCall
	}
	n := int(binary.BigEndian.Uint16(envelope[:2]))
	if len(envelope) < 2+n {
		return errs.ErrCall
	}

	chainID := string(envelope[2 : 2+n])
	rest := envelope[2+n:]

	if chainID != c.chainID {
		return errs.ErrChainID
	}
	return c.inner.Call(ctx, buf, rest)
}

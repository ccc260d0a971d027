package plugins

import (
	"context"

	"github.com/latticebft/lattice/store"
)

// Lifecycle is the set of block-level hooks an application opts into. Per
// the Design Notes, this is an explicit interface rather than a universal
// reflection-based fallback — an App that does not implement it gets
// DefaultApp's no-op bodies instead.
//
// Every handle below is a *store.Buffer rather than the narrower Reader/
// ReadWriter interfaces: plugins need to open prefix-scoped sub-views
// (store.Sub) on whatever overlay the dispatcher lent them, and Sub needs
// the concrete buffer's internal ranged-read support to stay bounded within
// its own namespace.
type Lifecycle interface {
	BeginBlock(ctx context.Context, buf *store.Buffer) error
	EndBlock(ctx context.Context, buf *store.Buffer) error
	InitChain(ctx context.Context, buf *store.Buffer) error
	AbciQuery(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error)
}

// DefaultApp embeds into a concrete App to satisfy Lifecycle with no-ops,
// so implementers only override the hooks they actually use.
type DefaultApp struct{}

func (DefaultApp) BeginBlock(context.Context, *store.Buffer) error { return nil }
func (DefaultApp) EndBlock(context.Context, *store.Buffer) error   { return nil }
func (DefaultApp) InitChain(context.Context, *store.Buffer) error  { return nil }
func (DefaultApp) AbciQuery(context.Context, *store.Buffer, string, []byte) ([]byte, error) {
	return nil, nil
}

// Plugin is the uniform contract every layer of the chain implements: a
// call consumes a prefix of the envelope and delegates the remainder
// inward; lifecycle events pass through unchanged.
type Plugin interface {
	Lifecycle

	// Call executes a transaction against buf. envelope is whatever prefix
	// of the original wire bytes this layer's outer plugins left behind.
	Call(ctx context.Context, buf *store.Buffer, envelope []byte) error

	// Query answers an application-routed ABCI query against buf.
	Query(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error)
}

type contextKey int

const (
	signerAddressKey contextKey = iota
	paidKey
)

// WithSignerAddress attaches the recovered signer address to ctx, consumed
// by Nonce and any inner application call.
func WithSignerAddress(ctx context.Context, addr Address) context.Context {
	return context.WithValue(ctx, signerAddressKey, addr)
}

// SignerAddress reads back the address WithSignerAddress attached. The
// second return value is false when Signer has not run yet (e.g. lifecycle
// calls that never pass through it).
func SignerAddress(ctx context.Context) (Address, bool) {
	addr, ok := ctx.Value(signerAddressKey).(Address)
	return addr, ok
}

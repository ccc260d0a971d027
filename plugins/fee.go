package plugins

import (
	"context"
	"encoding/binary"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/store"
)

// GasPriceBase is the fixed-rate gas estimate the spec leaves as an
// implementation detail: the simplest deterministic proxy for "gas" without
// a metering VM, applied as price-per-byte of the call payload.
const GasPriceBase uint64 = 1

// Fee wraps inner (App), validating that the attached fee covers
// GasPriceBase * len(call) before funding the Paid context and invoking the
// inner call.
type Fee struct {
	inner Plugin
}

var _ Plugin = (*Fee)(nil)

// NewFee constructs the plugin, wrapping inner (App).
func NewFee(inner Plugin) *Fee {
	return &Fee{inner: inner}
}

func (f *Fee) BeginBlock(ctx context.Context, buf *store.Buffer) error {
	return f.inner.BeginBlock(ctx, buf)
}
func (f *Fee) EndBlock(ctx context.Context, buf *store.Buffer) error {
	return f.inner.EndBlock(ctx, buf)
}
func (f *Fee) InitChain(ctx context.Context, buf *store.Buffer) error {
	return f.inner.InitChain(ctx, buf)
}
func (f *Fee) AbciQuery(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return f.inner.AbciQuery(ctx, buf, path, data)
}
func (f *Fee) Query(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return f.inner.Query(ctx, buf, path, data)
}

// Call implements Plugin. envelope is an 8-byte big-endian fee amount
// followed by the call bytes destined for App.
func (f *Fee) Call(ctx context.Context, buf *store.Buffer, envelope []byte) error {
	if len(envelope) < 8 {
		return errs.ErrCall
	}
	fee := binary.BigEndian.Uint64(envelope[:8])
	call := envelope[8:]

	estimate := GasPriceBase * uint64(len(call))
	if fee < estimate {
		return errs.ErrFee
	}

	paid, ok := PaidFromContext(ctx)
	if !ok {
		return errs.ErrApplication
	}
	paid.Give(fee)

	return f.inner.Call(ctx, buf, call)
}

package plugins

import (
	"context"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/store"
)

// Paid is the balance a fee payment makes available to the inner call: it
// may Take from it to cover its own funding needs, or Give into it to
// return unused funds.
type Paid struct {
	amount uint64
}

// Take withdraws exactly amt from the paid balance. Take fails, withdrawing
// nothing, if amt exceeds what remains.
func (p *Paid) Take(amt uint64) error {
	if amt > p.amount {
		return errs.ErrInsufficientFunds
	}
	p.amount -= amt
	return nil
}

// Give deposits amt into the paid balance, for example returning change an
// inner call decided not to spend.
func (p *Paid) Give(amt uint64) {
	p.amount += amt
}

// Remaining reports the balance still available to Take.
func (p *Paid) Remaining() uint64 {
	return p.amount
}

// WithPaid attaches p to ctx.
func WithPaid(ctx context.Context, p *Paid) context.Context {
	return context.WithValue(ctx, paidKey, p)
}

// PaidFromContext reads back the Paid balance Payable/Fee attached.
func PaidFromContext(ctx context.Context) (*Paid, bool) {
	p, ok := ctx.Value(paidKey).(*Paid)
	return p, ok
}

// Payable wraps inner (Fee), establishing the Paid context every call below
// it may draw from or deposit into. Payable itself consumes no bytes of the
// envelope — Fee owns the fee-amount prefix — it only opens the facility
// Fee will fund once it has validated the attached payment.
type Payable struct {
	inner Plugin
}

var _ Plugin = (*Payable)(nil)

// NewPayable constructs the plugin, wrapping inner (Fee).
func NewPayable(inner Plugin) *Payable {
	return &Payable{inner: inner}
}

func (p *Payable) BeginBlock(ctx context.Context, buf *store.Buffer) error {
	return p.inner.BeginBlock(ctx, buf)
}
func (p *Payable) EndBlock(ctx context.Context, buf *store.Buffer) error {
	return p.inner.EndBlock(ctx, buf)
}
func (p *Payable) InitChain(ctx context.Context, buf *store.Buffer) error {
	return p.inner.InitChain(ctx, buf)
}
func (p *Payable) AbciQuery(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return p.inner.AbciQuery(ctx, buf, path, data)
}
func (p *Payable) Query(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	return p.inner.Query(ctx, buf, path, data)
}

// Call implements Plugin, opening an empty Paid balance that Fee fills in
// once it validates the attached fee.
func (p *Payable) Call(ctx context.Context, buf *store.Buffer, envelope []byte) error {
	ctx = WithPaid(ctx, &Paid{})
	return p.inner.Call(ctx, buf, envelope)
}

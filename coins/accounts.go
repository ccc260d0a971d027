// Package coins implements the illustrative Accounts application module:
// Address -> Coin balances built on the plugin chain's Signer and Payable
// contexts.
package coins

import (
	"context"
	"encoding/binary"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/plugins"
	"github.com/latticebft/lattice/store"
)

// Symbol marks which native denomination an Accounts instance tracks,
// mirroring the spec's Coin<S> notation. Balances for each symbol are kept
// in their own store namespace so more than one denomination can be
// instantiated on the same underlying store without the balance logic
// caring which one it is.
type Symbol string

// Opcode selects which Accounts operation a call payload invokes.
type Opcode byte

const (
	OpTransfer Opcode = iota
	OpTakeAsFunding
	OpGiveFromFunding
	OpGiveFromFundingAll
)

const balancePrefix = "coins/"

// Accounts is the Address -> Coin<S> balance ledger, plus the set of
// addresses exempted from a global transfers-disabled flag.
type Accounts struct {
	plugins.DefaultApp

	symbol            Symbol
	transfersDisabled bool
	exempt            map[string]struct{}
}

var _ plugins.Plugin = (*Accounts)(nil)

// NewAccounts constructs an empty ledger for symbol.
func NewAccounts(symbol Symbol) *Accounts {
	return &Accounts{symbol: symbol, exempt: make(map[string]struct{})}
}

// SetTransfersDisabled toggles the global transfers-disabled flag.
func (a *Accounts) SetTransfersDisabled(disabled bool) {
	a.transfersDisabled = disabled
}

// Exempt adds addr to the set of addresses allowed to transfer even while
// transfers are globally disabled.
func (a *Accounts) Exempt(addr plugins.Address) {
	a.exempt[addr.String()] = struct{}{}
}

func (a *Accounts) isExempt(addr plugins.Address) bool {
	_, ok := a.exempt[addr.String()]
	return ok
}

func (a *Accounts) balances(buf *store.Buffer) *store.PrefixStore {
	return store.Sub(buf, []byte(balancePrefix+string(a.symbol)+"/"))
}

// Balance returns addr's current balance, 0 if it has never held funds.
func (a *Accounts) Balance(buf *store.Buffer, addr plugins.Address) (uint64, error) {
	v, err := a.balances(buf).Get(addr)
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(v), nil
}

func (a *Accounts) setBalance(buf *store.Buffer, addr plugins.Address, amount uint64) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, amount)
	return a.balances(buf).Put(addr, v)
}

func (a *Accounts) credit(buf *store.Buffer, addr plugins.Address, amount uint64) error {
	bal, err := a.Balance(buf, addr)
	if err != nil {
		return err
	}
	return a.setBalance(buf, addr, bal+amount)
}

func (a *Accounts) debit(buf *store.Buffer, addr plugins.Address, amount uint64) error {
	bal, err := a.Balance(buf, addr)
	if err != nil {
		return err
	}
	if bal < amount {
		return errs.ErrInsufficientFunds
	}
	return a.setBalance(buf, addr, bal-amount)
}

// Call implements plugins.Plugin, the innermost App layer of the chain.
// Wire format: 1-byte opcode, then operation-specific arguments.
//
//	OpTransfer:          20-byte recipient address, 8-byte big-endian amount
//	OpTakeAsFunding:      8-byte big-endian amount
//	OpGiveFromFunding:    8-byte big-endian amount
//	OpGiveFromFundingAll: (no arguments)
func (a *Accounts) Call(ctx context.Context, buf *store.Buffer, call []byte) error {
	if len(call) < 1 {
		return errs.ErrCall
	}
	signer, ok := plugins.SignerAddress(ctx)
	if !ok {
		return errs.ErrSigner
	}

	switch Opcode(call[0]) {
	case OpTransfer:
		return a.transfer(ctx, buf, signer, call[1:])
	case OpTakeAsFunding:
		return a.takeAsFunding(ctx, buf, signer, call[1:])
	case OpGiveFromFunding:
		return a.giveFromFunding(ctx, buf, signer, call[1:])
	case OpGiveFromFundingAll:
		return a.giveFromFundingAll(ctx, buf, signer)
	default:
		return errs.ErrCall
	}
}

func (a *Accounts) transfer(ctx context.Context, buf *store.Buffer, from plugins.Address, args []byte) error {
	if len(args) != 28 {
		return errs.ErrCall
	}
	if a.transfersDisabled && !a.isExempt(from) {
		return errs.ErrTransfersDisabled
	}

	to := plugins.Address(append([]byte(nil), args[:20]...))
	amount := binary.BigEndian.Uint64(args[20:28])

	if err := a.debit(buf, from, amount); err != nil {
		return err
	}
	return a.credit(buf, to, amount)
}

// takeAsFunding withdraws amount from the signer's balance into the Paid
// context, for example to cover a fee the Payable layer has already funded
// from a separate source.
func (a *Accounts) takeAsFunding(ctx context.Context, buf *store.Buffer, from plugins.Address, args []byte) error {
	if len(args) != 8 {
		return errs.ErrCall
	}
	amount := binary.BigEndian.Uint64(args)

	if err := a.debit(buf, from, amount); err != nil {
		return err
	}

	paid, ok := plugins.PaidFromContext(ctx)
	if !ok {
		return errs.ErrApplication
	}
	paid.Give(amount)
	return nil
}

// giveFromFunding deposits amount out of the Paid context into the
// signer's balance.
func (a *Accounts) giveFromFunding(ctx context.Context, buf *store.Buffer, to plugins.Address, args []byte) error {
	if len(args) != 8 {
		return errs.ErrCall
	}
	amount := binary.BigEndian.Uint64(args)

	paid, ok := plugins.PaidFromContext(ctx)
	if !ok {
		return errs.ErrApplication
	}
	if err := paid.Take(amount); err != nil {
		return err
	}
	return a.credit(buf, to, amount)
}

// giveFromFundingAll deposits the entire remaining Paid balance into the
// signer's balance.
func (a *Accounts) giveFromFundingAll(ctx context.Context, buf *store.Buffer, to plugins.Address) error {
	paid, ok := plugins.PaidFromContext(ctx)
	if !ok {
		return errs.ErrApplication
	}
	amount := paid.Remaining()
	if err := paid.Take(amount); err != nil {
		return err
	}
	return a.credit(buf, to, amount)
}

// Query implements plugins.Plugin. path "/balance" expects data to be a
// 20-byte address and returns its 8-byte big-endian balance.
func (a *Accounts) Query(ctx context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	if path != "/balance" || len(data) != 20 {
		return nil, errs.ErrQuery
	}
	bal, err := a.Balance(buf, plugins.Address(data))
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, bal)
	return out, nil
}

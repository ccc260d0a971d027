package coins

import (
	"context"
	"encoding/binary"
	"testing"

	cmtdb "github.com/cometbft/cometbft-db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/plugins"
	"github.com/latticebft/lattice/store"
)

func newTestBuffer(t *testing.T) *store.Buffer {
	t.Helper()
	s, err := store.NewIAVLStore(cmtdb.NewMemDB(), 100)
	require.NoError(t, err)
	return store.NewBuffer(s)
}

func addr(b byte) plugins.Address {
	a := make(plugins.Address, 20)
	for i := range a {
		a[i] = b
	}
	return a
}

func amountArgs(amount uint64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, amount)
	return out
}

func transferArgs(to plugins.Address, amount uint64) []byte {
	return append(append([]byte(nil), to...), amountArgs(amount)...)
}

func TestAccountsCreditDebitRoundTrip(t *testing.T) {
	acc := NewAccounts("ulat")
	buf := newTestBuffer(t)
	from := addr(1)

	require.NoError(t, acc.credit(buf, from, 100))
	bal, err := acc.Balance(buf, from)
	require.NoError(t, err)
	assert.EqualValues(t, 100, bal)

	require.NoError(t, acc.debit(buf, from, 40))
	bal, err = acc.Balance(buf, from)
	require.NoError(t, err)
	assert.EqualValues(t, 60, bal)
}

func TestAccountsDebitInsufficientFunds(t *testing.T) {
	acc := NewAccounts("ulat")
	buf := newTestBuffer(t)
	from := addr(1)

	err := acc.debit(buf, from, 1)
	assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
}

func TestAccountsTransferMovesBalance(t *testing.T) {
	acc := NewAccounts("ulat")
	buf := newTestBuffer(t)
	from, to := addr(1), addr(2)
	require.NoError(t, acc.credit(buf, from, 100))

	call := append([]byte{byte(OpTransfer)}, transferArgs(to, 30)...)
	ctx := plugins.WithSignerAddress(context.Background(), from)
	require.NoError(t, acc.Call(ctx, buf, call))

	fromBal, err := acc.Balance(buf, from)
	require.NoError(t, err)
	assert.EqualValues(t, 70, fromBal)

	toBal, err := acc.Balance(buf, to)
	require.NoError(t, err)
	assert.EqualValues(t, 30, toBal)
}

func TestAccountsTransferRejectsWhenDisabledAndNotExempt(t *testing.T) {
	acc := NewAccounts("ulat")
	acc.SetTransfersDisabled(true)
	buf := newTestBuffer(t)
	from, to := addr(1), addr(2)
	require.NoError(t, acc.credit(buf, from, 100))

	call := append([]byte{byte(OpTransfer)}, transferArgs(to, 30)...)
	ctx := plugins.WithSignerAddress(context.Background(), from)
	err := acc.Call(ctx, buf, call)
	assert.ErrorIs(t, err, errs.ErrTransfersDisabled)
}

func TestAccountsTransferAllowedForExemptAddressWhenDisabled(t *testing.T) {
	acc := NewAccounts("ulat")
	acc.SetTransfersDisabled(true)
	buf := newTestBuffer(t)
	from, to := addr(1), addr(2)
	acc.Exempt(from)
	require.NoError(t, acc.credit(buf, from, 100))

	call := append([]byte{byte(OpTransfer)}, transferArgs(to, 30)...)
	ctx := plugins.WithSignerAddress(context.Background(), from)
	require.NoError(t, acc.Call(ctx, buf, call))

	toBal, err := acc.Balance(buf, to)
	require.NoError(t, err)
	assert.EqualValues(t, 30, toBal)
}

func TestAccountsTakeAsFundingMovesBalanceIntoPaidContext(t *testing.T) {
	acc := NewAccounts("ulat")
	buf := newTestBuffer(t)
	from := addr(1)
	require.NoError(t, acc.credit(buf, from, 100))

	call := append([]byte{byte(OpTakeAsFunding)}, amountArgs(40)...)
	ctx := plugins.WithSignerAddress(context.Background(), from)
	ctx = plugins.WithPaid(ctx, &plugins.Paid{})
	require.NoError(t, acc.Call(ctx, buf, call))

	bal, err := acc.Balance(buf, from)
	require.NoError(t, err)
	assert.EqualValues(t, 60, bal)

	paid, ok := plugins.PaidFromContext(ctx)
	require.True(t, ok)
	assert.EqualValues(t, 40, paid.Remaining())
}

func TestAccountsGiveFromFundingMovesBalanceOutOfPaidContext(t *testing.T) {
	acc := NewAccounts("ulat")
	buf := newTestBuffer(t)
	to := addr(2)

	ctx := plugins.WithSignerAddress(context.Background(), to)
	ctx = plugins.WithPaid(ctx, &plugins.Paid{})
	paid, _ := plugins.PaidFromContext(ctx)
	paid.Give(50)

	call := append([]byte{byte(OpGiveFromFunding)}, amountArgs(20)...)
	require.NoError(t, acc.Call(ctx, buf, call))

	bal, err := acc.Balance(buf, to)
	require.NoError(t, err)
	assert.EqualValues(t, 20, bal)
	assert.EqualValues(t, 30, paid.Remaining())
}

func TestAccountsGiveFromFundingAllDrainsPaidContext(t *testing.T) {
	acc := NewAccounts("ulat")
	buf := newTestBuffer(t)
	to := addr(2)

	ctx := plugins.WithSignerAddress(context.Background(), to)
	ctx = plugins.WithPaid(ctx, &plugins.Paid{})
	paid, _ := plugins.PaidFromContext(ctx)
	paid.Give(75)

	call := []byte{byte(OpGiveFromFundingAll)}
	require.NoError(t, acc.Call(ctx, buf, call))

	bal, err := acc.Balance(buf, to)
	require.NoError(t, err)
	assert.EqualValues(t, 75, bal)
	assert.EqualValues(t, 0, paid.Remaining())
}

func TestAccountsQueryBalance(t *testing.T) {
	acc := NewAccounts("ulat")
	buf := newTestBuffer(t)
	from := addr(1)
	require.NoError(t, acc.credit(buf, from, 42))

	out, err := acc.Query(context.Background(), buf, "/balance", []byte(from))
	require.NoError(t, err)
	assert.EqualValues(t, 42, binary.BigEndian.Uint64(out))
}

func TestAccountsQueryRejectsUnknownPath(t *testing.T) {
	acc := NewAccounts("ulat")
	buf := newTestBuffer(t)
	_, err := acc.Query(context.Background(), buf, "/unknown", addr(1))
	assert.ErrorIs(t, err, errs.ErrQuery)
}

func TestAccountsDistinctSymbolsDoNotShareBalances(t *testing.T) {
	buf := newTestBuffer(t)
	from := addr(1)

	ulat := NewAccounts("ulat")
	usat := NewAccounts("usat")
	require.NoError(t, ulat.credit(buf, from, 100))

	bal, err := usat.Balance(buf, from)
	require.NoError(t, err)
	assert.EqualValues(t, 0, bal)
}

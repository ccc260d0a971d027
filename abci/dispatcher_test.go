package abci

import (
	"context"
	"encoding/json"
	"testing"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtdb "github.com/cometbft/cometbft-db"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	ics23 "github.com/cosmos/ics23/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/plugins"
	"github.com/latticebft/lattice/store"
)

// kvApp is a minimal test Plugin: Call treats the first byte of its
// envelope as a key and the rest as a value, rejecting anything shorter
// than 2 bytes so tests can manufacture a failing transaction on demand.
type kvApp struct {
	plugins.DefaultApp
}

func (kvApp) Call(_ context.Context, buf *store.Buffer, call []byte) error {
	if len(call) < 2 {
		return errs.ErrCall
	}
	return buf.Put(call[:1], call[1:])
}

func (kvApp) Query(_ context.Context, buf *store.Buffer, path string, data []byte) ([]byte, error) {
	if path != "/get" || len(data) != 1 {
		return nil, errs.ErrQuery
	}
	v, err := buf.Get(data)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func newTestDispatcher(t *testing.T, cfg Config) *Dispatcher {
	t.Helper()
	st, err := store.NewIAVLStore(cmtdb.NewMemDB(), 100)
	require.NoError(t, err)
	return NewDispatcher(cfg, st, kvApp{}, cmtlog.NewNopLogger())
}

func TestDispatcherInfoReflectsFreshStore(t *testing.T) {
	d := newTestDispatcher(t, Config{ChainID: "lattice-test"})
	resp, err := d.Info(context.Background(), &abcitypes.RequestInfo{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, resp.LastBlockHeight)
}

func TestDispatcherFinalizeBlockAndCommitAdvanceHeight(t *testing.T) {
	d := newTestDispatcher(t, Config{ChainID: "lattice-test"})

	finalize, err := d.FinalizeBlock(context.Background(), &abcitypes.RequestFinalizeBlock{
		Height: 1,
		Txs:    [][]byte{{'a', 1}, {'b', 2}},
	})
	require.NoError(t, err)
	require.Len(t, finalize.TxResults, 2)
	assert.EqualValues(t, errs.CodeOK, finalize.TxResults[0].Code)
	assert.EqualValues(t, errs.CodeOK, finalize.TxResults[1].Code)
	assert.NotEmpty(t, finalize.AppHash)

	_, err = d.Commit(context.Background(), &abcitypes.RequestCommit{})
	require.NoError(t, err)

	info, err := d.Info(context.Background(), &abcitypes.RequestInfo{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, info.LastBlockHeight)
	assert.Equal(t, finalize.AppHash, info.LastBlockAppHash)
}

func TestDispatcherFinalizeBlockRollsBackFailingTxWithoutAbortingBlock(t *testing.T) {
	d := newTestDispatcher(t, Config{ChainID: "lattice-test"})

	finalize, err := d.FinalizeBlock(context.Background(), &abcitypes.RequestFinalizeBlock{
		Height: 1,
		Txs:    [][]byte{{'a', 1}, {0xFF}},
	})
	require.NoError(t, err)
	require.Len(t, finalize.TxResults, 2)
	assert.EqualValues(t, errs.CodeOK, finalize.TxResults[0].Code)
	assert.NotEqualValues(t, errs.CodeOK, finalize.TxResults[1].Code)

	_, err = d.Commit(context.Background(), &abcitypes.RequestCommit{})
	require.NoError(t, err)

	resp, err := d.Query(context.Background(), &abcitypes.RequestQuery{Path: "/get", Data: []byte{'a'}})
	require.NoError(t, err)
	assert.EqualValues(t, errs.CodeOK, resp.Code)
	assert.Equal(t, []byte{1}, resp.Value)
}

func TestDispatcherCheckTxIsolatedFromConsensusOverlay(t *testing.T) {
	d := newTestDispatcher(t, Config{ChainID: "lattice-test"})

	ok, err := d.CheckTx(context.Background(), &abcitypes.RequestCheckTx{Tx: []byte{'a', 1}})
	require.NoError(t, err)
	assert.EqualValues(t, errs.CodeOK, ok.Code)

	bad, err := d.CheckTx(context.Background(), &abcitypes.RequestCheckTx{Tx: []byte{0xFF}})
	require.NoError(t, err)
	assert.NotEqualValues(t, errs.CodeOK, bad.Code)

	info, err := d.Info(context.Background(), &abcitypes.RequestInfo{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, info.LastBlockHeight)

	resp, err := d.Query(context.Background(), &abcitypes.RequestQuery{Path: "/get", Data: []byte{'a'}})
	require.NoError(t, err)
	assert.EqualValues(t, errs.CodeOK, resp.Code)
	assert.Empty(t, resp.Value)
}

func TestDispatcherStopHeightRejectsFinalizeBlock(t *testing.T) {
	d := newTestDispatcher(t, Config{ChainID: "lattice-test", StopHeight: 5})

	_, err := d.FinalizeBlock(context.Background(), &abcitypes.RequestFinalizeBlock{
		Height: 5,
		Txs:    nil,
	})
	assert.ErrorIs(t, err, errs.ErrReachedStopHeight)
	assert.ErrorIs(t, d.Fatal(), errs.ErrReachedStopHeight)

	_, err = d.Info(context.Background(), &abcitypes.RequestInfo{})
	assert.Error(t, err)
}

func TestDispatcherApplySnapshotChunkRejectsCorruptChunk(t *testing.T) {
	d := newTestDispatcher(t, Config{ChainID: "lattice-test"})

	_, err := d.FinalizeBlock(context.Background(), &abcitypes.RequestFinalizeBlock{
		Height: 1,
		Txs:    [][]byte{{'a', 1}},
	})
	require.NoError(t, err)
	_, err = d.Commit(context.Background(), &abcitypes.RequestCommit{})
	require.NoError(t, err)

	snap, err := d.store.Snapshot(1)
	require.NoError(t, err)

	resp, err := d.OfferSnapshot(context.Background(), &abcitypes.RequestOfferSnapshot{
		Snapshot: &abcitypes.Snapshot{
			Height:   uint64(snap.Height),
			Format:   snap.Format,
			Chunks:   snap.ChunkCount,
			Hash:     snap.Hash,
			Metadata: snap.Metadata,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, abcitypes.ResponseOfferSnapshot_ACCEPT, resp.Result)

	apply, err := d.ApplySnapshotChunk(context.Background(), &abcitypes.RequestApplySnapshotChunk{
		Index: 0,
		Chunk: []byte("not the real chunk bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, abcitypes.ResponseApplySnapshotChunk_RETRY, apply.Result)
}

func TestDispatcherStoreQueryPathReturnsProvenRange(t *testing.T) {
	d := newTestDispatcher(t, Config{ChainID: "lattice-test"})

	_, err := d.FinalizeBlock(context.Background(), &abcitypes.RequestFinalizeBlock{
		Height: 1,
		Txs:    [][]byte{{'a', 1}, {'b', 2}},
	})
	require.NoError(t, err)
	_, err = d.Commit(context.Background(), &abcitypes.RequestCommit{})
	require.NoError(t, err)

	resp, err := d.Query(context.Background(), &abcitypes.RequestQuery{Path: storeQueryPath, Data: []byte{}})
	require.NoError(t, err)
	require.EqualValues(t, errs.CodeOK, resp.Code)
	require.True(t, len(resp.Value) >= 32)

	root := resp.Value[:32]
	var entries []store.ProofEntry
	require.NoError(t, json.Unmarshal(resp.Value[32:], &entries))

	require.Len(t, entries, 2)
	for _, e := range entries {
		proof := new(ics23.CommitmentProof)
		require.NoError(t, proof.Unmarshal(e.Proof))
		assert.True(t, ics23.VerifyMembership(ics23.IavlSpec, root, proof, e.Key, e.Value))
	}
}

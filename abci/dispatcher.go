package abci

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/version"

	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/plugins"
	"github.com/latticebft/lattice/store"
)

// AppVersion identifies the application's own protocol version, reported in
// Info and bumped whenever a migration changes on-disk semantics.
const AppVersion uint64 = 1

// dispatchJob is one unit of work submitted to the executor goroutine: a
// closure capturing everything the request needs, and a reply channel the
// submitter blocks on.
type dispatchJob struct {
	fn    func() (interface{}, error)
	reply chan dispatchResult
}

type dispatchResult struct {
	val interface{}
	err error
}

// Dispatcher is the ABCI request dispatcher: every exported method below
// submits a job to an unbuffered channel and blocks for its reply, so block
// handlers never interleave regardless of which CometBFT connection called
// in. A single executor goroutine (run) drains the channel.
type Dispatcher struct {
	abcitypes.BaseApplication

	cfg    Config
	store  *store.IAVLStore
	app    plugins.Plugin
	logger cmtlog.Logger

	jobs     chan dispatchJob
	shutdown chan struct{}
	closeOne sync.Once

	fatalMu sync.RWMutex
	fatal   error

	mempool *store.Buffer
}

var _ abcitypes.Application = (*Dispatcher)(nil)

// NewDispatcher constructs a Dispatcher and starts its executor goroutine.
func NewDispatcher(cfg Config, st *store.IAVLStore, app plugins.Plugin, logger cmtlog.Logger) *Dispatcher {
	registerMetrics()

	d := &Dispatcher{
		cfg:      cfg,
		store:    st,
		app:      app,
		logger:   logger,
		jobs:     make(chan dispatchJob),
		shutdown: make(chan struct{}),
		mempool:  store.NewBuffer(st),
	}
	go d.run()
	return d
}

// run is the single executor goroutine. It drains jobs one at a time,
// waking at least once a second to re-check the fatal flag even when idle,
// exactly as the cooperative concurrency model specifies.
func (d *Dispatcher) run() {
	for {
		select {
		case job := <-d.jobs:
			val, err := job.fn()
			job.reply <- dispatchResult{val: val, err: err}
		case <-time.After(time.Second):
		}

		if d.Fatal() != nil {
			return
		}
	}
}

// Fatal reports the sticky fatal error, if any has been recorded. Once set,
// the dispatcher stops accepting new jobs.
func (d *Dispatcher) Fatal() error {
	d.fatalMu.RLock()
	defer d.fatalMu.RUnlock()
	return d.fatal
}

func (d *Dispatcher) setFatal(err error) {
	d.fatalMu.Lock()
	defer d.fatalMu.Unlock()
	if d.fatal == nil {
		d.fatal = err
		d.closeOne.Do(func() { close(d.shutdown) })
	}
}

// submit hands fn to the executor goroutine and blocks for its result. It
// refuses new work once a fatal error has been recorded.
func (d *Dispatcher) submit(fn func() (interface{}, error)) (interface{}, error) {
	if err := d.Fatal(); err != nil {
		return nil, err
	}

	reply := make(chan dispatchResult, 1)
	select {
	case d.jobs <- dispatchJob{fn: fn, reply: reply}:
	case <-d.shutdown:
		return nil, d.Fatal()
	}

	select {
	case res := <-reply:
		return res.val, res.err
	case <-d.shutdown:
		return nil, d.Fatal()
	}
}

// Info implements abcitypes.Application.
func (d *Dispatcher) Info(ctx context.Context, req *abcitypes.RequestInfo) (*abcitypes.ResponseInfo, error) {
	v, err := d.submit(func() (interface{}, error) {
		return &abcitypes.ResponseInfo{
			Version:          version.ABCIVersion,
			AppVersion:       AppVersion,
			LastBlockHeight:  d.store.Height(),
			LastBlockAppHash: d.store.RootHash(),
		}, nil
	})
	observeRequest("Info", err)
	if err != nil {
		return nil, err
	}
	return v.(*abcitypes.ResponseInfo), nil
}

// InitChain implements abcitypes.Application. Any state it writes lands in
// the Merkle store's working tree and is captured by the first FinalizeBlock/
// Commit pair, exactly as the teacher's own InitChain defers to Commit.
func (d *Dispatcher) InitChain(ctx context.Context, req *abcitypes.RequestInitChain) (*abcitypes.ResponseInitChain, error) {
	v, err := d.submit(func() (interface{}, error) {
		buf := store.NewBuffer(d.store)
		if err := d.app.InitChain(ctx, buf); err != nil {
			return nil, err
		}
		if err := buf.Flush(); err != nil {
			return nil, err
		}
		return &abcitypes.ResponseInitChain{AppHash: d.store.WorkingHash()}, nil
	})
	observeRequest("InitChain", err)
	if err != nil {
		d.setFatal(err)
		return nil, err
	}
	return v.(*abcitypes.ResponseInitChain), nil
}

// CheckTx implements abcitypes.Application. Validation runs against the
// mempool overlay, isolated from whatever the in-progress consensus
// connection is doing; successful checks advance the mempool overlay (so a
// sequence of pending transactions from one signer validates its nonces
// against each other) without ever touching the Merkle store.
func (d *Dispatcher) CheckTx(ctx context.Context, req *abcitypes.RequestCheckTx) (*abcitypes.ResponseCheckTx, error) {
	v, err := d.submit(func() (interface{}, error) {
		check := store.NewBuffer(d.mempool)
		callErr := d.app.Call(ctx, check, req.Tx)
		if callErr != nil {
			return &abcitypes.ResponseCheckTx{Code: errs.CodeOf(callErr), Log: callErr.Error()}, nil
		}
		if err := check.Flush(); err != nil {
			return &abcitypes.ResponseCheckTx{Code: errs.CodeApplication, Log: err.Error()}, nil
		}
		return &abcitypes.ResponseCheckTx{Code: errs.CodeOK}, nil
	})
	observeRequest("CheckTx", err)
	if err != nil {
		return nil, err
	}
	return v.(*abcitypes.ResponseCheckTx), nil
}

// PrepareProposal implements abcitypes.Application. CometBFT v0.38 requires
// a non-nil implementation; Lattice reuses CheckTx validation per-tx,
// following the teacher's own PrepareProposal body almost unchanged.
func (d *Dispatcher) PrepareProposal(ctx context.Context, req *abcitypes.RequestPrepareProposal) (*abcitypes.ResponsePrepareProposal, error) {
	txs := make([][]byte, 0, len(req.Txs))
	for _, tx := range req.Txs {
		resp, err := d.CheckTx(ctx, &abcitypes.RequestCheckTx{Tx: tx})
		if err != nil || resp.Code != errs.CodeOK {
			continue
		}
		txs = append(txs, tx)
	}
	return &abcitypes.ResponsePrepareProposal{Txs: txs}, nil
}

// ProcessProposal implements abcitypes.Application, mirroring the teacher's
// body: any invalid transaction rejects the whole proposal.
func (d *Dispatcher) ProcessProposal(ctx context.Context, req *abcitypes.RequestProcessProposal) (*abcitypes.ResponseProcessProposal, error) {
	for _, tx := range req.Txs {
		resp, err := d.CheckTx(ctx, &abcitypes.RequestCheckTx{Tx: tx})
		if err != nil || resp.Code != errs.CodeOK {
			return &abcitypes.ResponseProcessProposal{Status: abcitypes.ResponseProcessProposal_REJECT}, nil
		}
	}
	return &abcitypes.ResponseProcessProposal{Status: abcitypes.ResponseProcessProposal_ACCEPT}, nil
}

// FinalizeBlock implements abcitypes.Application as the wire entrypoint for
// the spec's staged v0.34 lifecycle, internally decomposed into beginBlock,
// a per-tx deliverTx loop, and endBlock.
func (d *Dispatcher) FinalizeBlock(ctx context.Context, req *abcitypes.RequestFinalizeBlock) (*abcitypes.ResponseFinalizeBlock, error) {
	v, err := d.submit(func() (interface{}, error) {
		if d.cfg.StopHeight != 0 && req.Height >= d.cfg.StopHeight {
			return nil, errs.ErrReachedStopHeight
		}

		consensus := store.NewBuffer(d.store)
		if err := d.beginBlock(ctx, consensus); err != nil {
			return nil, err
		}

		txResults := make([]*abcitypes.ExecTxResult, len(req.Txs))
		for i, tx := range req.Txs {
			txResults[i] = d.deliverTx(ctx, consensus, tx)
			// Each successful tx's writes reach the store's working tree
			// before the next tx runs.
			if txResults[i].Code == errs.CodeOK {
				if err := consensus.Flush(); err != nil {
					return nil, err
				}
			}
		}

		if err := d.endBlock(ctx, consensus); err != nil {
			return nil, err
		}

		if err := consensus.Flush(); err != nil {
			return nil, err
		}

		return &abcitypes.ResponseFinalizeBlock{
			TxResults: txResults,
			AppHash:   d.store.WorkingHash(),
		}, nil
	})
	observeRequest("FinalizeBlock", err)
	if err != nil {
		// BeginBlock/EndBlock/InitChain/Commit failures are fatal — a
		// mid-block application error leaves the working tree in a state
		// no later block can safely build on.
		d.setFatal(err)
		return nil, err
	}
	return v.(*abcitypes.ResponseFinalizeBlock), nil
}

func (d *Dispatcher) beginBlock(ctx context.Context, consensus *store.Buffer) error {
	return d.app.BeginBlock(ctx, consensus)
}

func (d *Dispatcher) endBlock(ctx context.Context, consensus *store.Buffer) error {
	return d.app.EndBlock(ctx, consensus)
}

// deliverTx runs tx against its own overlay nested inside the block's
// consensus overlay, flushing into it on success. A failing transaction
// rolls back its own overlay and returns a non-zero code without aborting
// the rest of the block.
func (d *Dispatcher) deliverTx(ctx context.Context, consensus *store.Buffer, tx []byte) *abcitypes.ExecTxResult {
	txBuf := store.NewBuffer(consensus)
	if err := d.app.Call(ctx, txBuf, tx); err != nil {
		return &abcitypes.ExecTxResult{Code: errs.CodeOf(err), Log: err.Error()}
	}
	if err := txBuf.Flush(); err != nil {
		return &abcitypes.ExecTxResult{Code: errs.CodeApplication, Log: err.Error()}
	}
	return &abcitypes.ExecTxResult{Code: errs.CodeOK}
}

// Commit implements abcitypes.Application. FinalizeBlock has already
// flushed the block's consensus overlay into the Merkle store's working
// tree; Commit only needs to save that working tree as a new version and
// rebase the mempool overlay onto it.
func (d *Dispatcher) Commit(ctx context.Context, req *abcitypes.RequestCommit) (*abcitypes.ResponseCommit, error) {
	v, err := d.submit(func() (interface{}, error) {
		header := store.CommitHeader{Height: d.store.Height() + 1, ChainID: d.cfg.ChainID}
		if err := d.store.Commit(header); err != nil {
			return nil, err
		}
		d.mempool = store.NewBuffer(d.store)
		storeHeight.Set(float64(d.store.Height()))
		return &abcitypes.ResponseCommit{}, nil
	})
	observeRequest("Commit", err)
	if err != nil {
		d.setFatal(err)
		return nil, err
	}
	return v.(*abcitypes.ResponseCommit), nil
}

// storeQueryPath is the reserved query path the light-client package uses
// to request a proof over a prefix range, rather than an application-routed
// query. It never reaches the plugin chain.
const storeQueryPath = "/store"

// Query implements abcitypes.Application, routing through the plugin
// chain's Query hook against a fresh overlay over the store's current
// working tree (which, between FinalizeBlock and Commit, already holds the
// block's writes), except for the
// reserved storeQueryPath which the dispatcher answers directly with a
// proof response for lightclient.Client.
func (d *Dispatcher) Query(ctx context.Context, req *abcitypes.RequestQuery) (*abcitypes.ResponseQuery, error) {
	v, err := d.submit(func() (interface{}, error) {
		if req.Path == storeQueryPath {
			return d.proveRange(req.Data)
		}

		buf := store.NewBuffer(d.store)
		data, err := d.app.Query(ctx, buf, req.Path, req.Data)
		if err != nil {
			return &abcitypes.ResponseQuery{
				Code:   errs.CodeOf(err),
				Log:    err.Error(),
				Height: d.store.Height(),
			}, nil
		}
		return &abcitypes.ResponseQuery{
			Code:   errs.CodeOK,
			Key:    req.Data,
			Value:  data,
			Height: d.store.Height(),
		}, nil
	})
	observeRequest("Query", err)
	if err != nil {
		return nil, err
	}
	return v.(*abcitypes.ResponseQuery), nil
}

// proveRange answers storeQueryPath: it scans every committed key under
// prefix and returns root_hash (32 bytes) ‖ proof_bytes, where root_hash is
// the tree's real last-committed root — the same root reported as the
// block's AppHash — and proof_bytes is the JSON-encoded list of
// store.ProofEntry values, each carrying an independent ics23 membership
// proof a lightclient.Client verifies against root_hash directly, not
// merely a hash recomputed over the entries the server chose to return.
func (d *Dispatcher) proveRange(prefix []byte) (*abcitypes.ResponseQuery, error) {
	root, entries, err := d.store.Prove(prefix)
	if err != nil {
		return &abcitypes.ResponseQuery{
			Code:   errs.CodeOf(err),
			Log:    err.Error(),
			Height: d.store.Height(),
		}, nil
	}

	proofBytes, err := json.Marshal(entries)
	if err != nil {
		return &abcitypes.ResponseQuery{
			Code:   errs.CodeOf(errs.ErrStore),
			Log:    err.Error(),
			Height: d.store.Height(),
		}, nil
	}

	value := make([]byte, 0, len(root)+len(proofBytes))
	value = append(value, root...)
	value = append(value, proofBytes...)

	return &abcitypes.ResponseQuery{
		Code:   errs.CodeOK,
		Key:    prefix,
		Value:  value,
		Height: d.store.Height(),
	}, nil
}

// ListSnapshots implements abcitypes.Application.
func (d *Dispatcher) ListSnapshots(ctx context.Context, req *abcitypes.RequestListSnapshots) (*abcitypes.ResponseListSnapshots, error) {
	v, err := d.submit(func() (interface{}, error) {
		snaps := d.store.ListSnapshots()
		out := make([]*abcitypes.Snapshot, 0, len(snaps))
		for _, s := range snaps {
			out = append(out, &abcitypes.Snapshot{
				Height:   uint64(s.Height),
				Format:   s.Format,
				Chunks:   s.ChunkCount,
				Hash:     s.Hash,
				Metadata: s.Metadata,
			})
		}
		return &abcitypes.ResponseListSnapshots{Snapshots: out}, nil
	})
	observeRequest("ListSnapshots", err)
	if err != nil {
		return nil, err
	}
	return v.(*abcitypes.ResponseListSnapshots), nil
}

// OfferSnapshot implements abcitypes.Application.
func (d *Dispatcher) OfferSnapshot(ctx context.Context, req *abcitypes.RequestOfferSnapshot) (*abcitypes.ResponseOfferSnapshot, error) {
	v, err := d.submit(func() (interface{}, error) {
		snap := &store.Snapshot{
			Height:     int64(req.Snapshot.Height),
			Format:     req.Snapshot.Format,
			ChunkCount: req.Snapshot.Chunks,
			Hash:       req.Snapshot.Hash,
			Metadata:   req.Snapshot.Metadata,
		}
		if err := d.store.OfferSnapshot(snap); err != nil {
			return &abcitypes.ResponseOfferSnapshot{Result: abcitypes.ResponseOfferSnapshot_REJECT}, nil
		}
		return &abcitypes.ResponseOfferSnapshot{Result: abcitypes.ResponseOfferSnapshot_ACCEPT}, nil
	})
	observeRequest("OfferSnapshot", err)
	if err != nil {
		return nil, err
	}
	return v.(*abcitypes.ResponseOfferSnapshot), nil
}

// LoadSnapshotChunk implements abcitypes.Application.
func (d *Dispatcher) LoadSnapshotChunk(ctx context.Context, req *abcitypes.RequestLoadSnapshotChunk) (*abcitypes.ResponseLoadSnapshotChunk, error) {
	v, err := d.submit(func() (interface{}, error) {
		chunk, err := d.store.LoadSnapshotChunk(int64(req.Height), req.Format, req.Chunk)
		if err != nil {
			return &abcitypes.ResponseLoadSnapshotChunk{}, nil
		}
		return &abcitypes.ResponseLoadSnapshotChunk{Chunk: chunk}, nil
	})
	observeRequest("LoadSnapshotChunk", err)
	if err != nil {
		return nil, err
	}
	return v.(*abcitypes.ResponseLoadSnapshotChunk), nil
}

// ApplySnapshotChunk implements abcitypes.Application. A chunk that fails
// its SHA-256 check is rejected with RETRY, per the snapshot restore
// scenario's corrupt-chunk contract — the sender is not automatically
// banned, since a single corrupt chunk is as likely to be a transient
// transport error as a malicious peer.
func (d *Dispatcher) ApplySnapshotChunk(ctx context.Context, req *abcitypes.RequestApplySnapshotChunk) (*abcitypes.ResponseApplySnapshotChunk, error) {
	v, err := d.submit(func() (interface{}, error) {
		if err := d.store.ApplySnapshotChunk(req.Index, req.Chunk); err != nil {
			return &abcitypes.ResponseApplySnapshotChunk{
				Result:        abcitypes.ResponseApplySnapshotChunk_RETRY,
				RefetchChunks: []uint32{req.Index},
			}, nil
		}
		return &abcitypes.ResponseApplySnapshotChunk{Result: abcitypes.ResponseApplySnapshotChunk_ACCEPT}, nil
	})
	observeRequest("ApplySnapshotChunk", err)
	if err != nil {
		return nil, err
	}
	return v.(*abcitypes.ResponseApplySnapshotChunk), nil
}

// Package store implements the layered buffered store described by the
// host runtime: a versioned, authenticated Merkle key/value store at the
// bottom, and an arbitrarily deep stack of write-through buffers and
// prefix views on top of it.
package store

import (
	"bytes"
	"sort"
	"sync"

	cmtdb "github.com/cometbft/cometbft-db"
	"github.com/cometbft/cometbft/crypto/merkle"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cosmos/iavl"

	"github.com/latticebft/lattice/errs"
)

// KV is an ordered key/value pair returned by a ranged read.
type KV struct {
	Key   []byte
	Value []byte
}

// Reader is the minimal read surface shared by a MerkleStore, a Buffer, and
// a PrefixStore, so overlays compose uniformly over any parent.
type Reader interface {
	Get(key []byte) ([]byte, error)
	GetNext(key []byte) (*KV, error)
	GetPrev(key []byte) (*KV, error)
}

// Writer is the minimal write surface every layer exposes.
type Writer interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// ReadWriter composes Reader and Writer, the shape every layer implements.
type ReadWriter interface {
	Reader
	Writer
}

// boundedReader is the internal extension every concrete layer implements
// so a merge can step past an exact boundary key without resorting to
// synthetic successor/predecessor byte arithmetic: the caller simply asks
// for the nearest key at-or-beyond (or at-or-before) a bound, optionally
// excluding the bound itself.
type boundedReader interface {
	Reader
	getNextFrom(floor []byte, exclusive bool) (*KV, error)
	getPrevFrom(ceiling []byte, exclusive bool) (*KV, error)
}

// CommitHeader carries the subset of the consensus-provided block header
// the Merkle store needs to advance its version.
type CommitHeader struct {
	Height int64
	Time   int64
	ChainID string
}

// MerkleStore is the versioned, authenticated key/value map the dispatcher
// owns exclusively for the duration of a request. Its tree implementation
// is an external collaborator (iavl.MutableTree); this interface only
// quotes the surface the host runtime touches.
type MerkleStore interface {
	ReadWriter

	// Height returns the last committed version.
	Height() int64

	// RootHash returns the 32-byte commitment of the last committed
	// version, or an empty slice before the first commit.
	RootHash() []byte

	// WorkingHash computes the root commitment of the tree's pending,
	// not-yet-saved mutations, so a caller can report an AppHash for the
	// in-progress block before Commit actually calls SaveVersion.
	WorkingHash() []byte

	// Commit advances the store to a new version and records header.
	Commit(header CommitHeader) error

	// Snapshot and the chunk operations below back state-sync; see
	// snapshot.go for the concrete Snapshot shape; chunks are plain byte
	// slices.
	Snapshot(format uint32) (*Snapshot, error)
	ListSnapshots() []*Snapshot
	LoadSnapshotChunk(height int64, format, chunk uint32) ([]byte, error)
	OfferSnapshot(snap *Snapshot) error
	ApplySnapshotChunk(chunk uint32, data []byte) error
}

// IAVLStore is the default MerkleStore, backed by an iavl.MutableTree over
// a cometbft-db KV backend.
type IAVLStore struct {
	mu   sync.RWMutex
	tree *iavl.MutableTree

	lastCommit CommitHeader
	rootHash   []byte

	snapshots map[uint32]*pendingSnapshot
}

// NewIAVLStore opens (or creates) an authenticated Merkle store on db.
func NewIAVLStore(db cmtdb.DB, cacheSize int) (*IAVLStore, error) {
	tree, err := iavl.NewMutableTree(db, cacheSize, false, cmtlog.NewNopLogger())
	if err != nil {
		return nil, errs.ErrStore
	}
	if _, err := tree.Load(); err != nil {
		return nil, errs.ErrStore
	}

	s := &IAVLStore{
		tree:      tree,
		snapshots: make(map[uint32]*pendingSnapshot),
	}
	s.rootHash, _ = tree.Hash()
	return s, nil
}

// Get implements Reader.
func (s *IAVLStore) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.tree.Get(key)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetNext implements Reader.
func (s *IAVLStore) GetNext(key []byte) (*KV, error) {
	return s.getNextFrom(key, false)
}

// GetPrev implements Reader.
func (s *IAVLStore) GetPrev(key []byte) (*KV, error) {
	return s.getPrevFrom(key, false)
}

func (s *IAVLStore) getNextFrom(floor []byte, exclusive bool) (*KV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, err := s.tree.Iterator(floor, nil, true)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		k := it.Key()
		if exclusive && bytes.Equal(k, floor) {
			continue
		}
		return &KV{Key: append([]byte(nil), k...), Value: append([]byte(nil), it.Value()...)}, nil
	}
	return nil, nil
}

func (s *IAVLStore) getPrevFrom(ceiling []byte, exclusive bool) (*KV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// iavl's reverse iterator takes an end that is exclusive, so widen it
	// by one byte to make the ceiling itself reachable and let the loop
	// below decide whether to keep or skip it.
	end := append(append([]byte(nil), ceiling...), 0x00)

	it, err := s.tree.Iterator(nil, end, false)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	for ; it.Valid(); it.Next() {
		k := it.Key()
		if bytes.Compare(k, ceiling) > 0 {
			continue
		}
		if exclusive && bytes.Equal(k, ceiling) {
			continue
		}
		return &KV{Key: append([]byte(nil), k...), Value: append([]byte(nil), it.Value()...)}, nil
	}
	return nil, nil
}

// Put implements Writer.
func (s *IAVLStore) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.tree.Set(key, value)
	return err
}

// Delete implements Writer.
func (s *IAVLStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, err := s.tree.Remove(key)
	return err
}

// Height implements MerkleStore.
func (s *IAVLStore) Height() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Version()
}

// RootHash implements MerkleStore.
func (s *IAVLStore) RootHash() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tree.Version() == 0 {
		return []byte{}
	}
	return append([]byte(nil), s.rootHash...)
}

// WorkingHash implements MerkleStore.
func (s *IAVLStore) WorkingHash() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, err := s.tree.WorkingHash()
	if err != nil {
		return append([]byte(nil), s.rootHash...)
	}
	return h
}

// Commit implements MerkleStore. The iavl tree's own working hash already
// authenticates the key space; header is recorded as the last commit, while
// Height reports the tree's own saved version rather than header.Height.
func (s *IAVLStore) Commit(header CommitHeader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, version, err := s.tree.SaveVersion()
	if err != nil {
		return err
	}
	_ = version

	s.rootHash = root
	s.lastCommit = header
	return nil
}

// deterministicRootFromLeaves recomputes a root the same way the teacher's
// state hash does for data that does not live in the iavl tree directly
// (snapshot chunk hashing below), so both code paths share one merkle
// primitive.
func deterministicRootFromLeaves(leaves [][]byte) []byte {
	sorted := append([][]byte(nil), leaves...)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i], sorted[j]) < 0 })
	return merkle.HashFromByteSlices(sorted)
}

package lightclient

import (
	"bytes"
	"sort"

	"github.com/latticebft/lattice/store"
)

// provenStore is a read-only store.Reader backed by a client-verified,
// sorted slice of proven key/value pairs. A key outside the proven range
// simply reads as not-found, matching the caveat the query path documents.
type provenStore struct {
	entries []store.KV
}

var _ store.Reader = (*provenStore)(nil)

func newProvenStore(entries []store.KV) *provenStore {
	sorted := append([]store.KV(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Key, sorted[j].Key) < 0
	})
	return &provenStore{entries: sorted}
}

// Get implements store.Reader.
func (p *provenStore) Get(key []byte) ([]byte, error) {
	i := sort.Search(len(p.entries), func(i int) bool {
		return bytes.Compare(p.entries[i].Key, key) >= 0
	})
	if i < len(p.entries) && bytes.Equal(p.entries[i].Key, key) {
		return p.entries[i].Value, nil
	}
	return nil, nil
}

// GetNext implements store.Reader: the first proven key at-or-after key.
func (p *provenStore) GetNext(key []byte) (*store.KV, error) {
	i := sort.Search(len(p.entries), func(i int) bool {
		return bytes.Compare(p.entries[i].Key, key) >= 0
	})
	if i < len(p.entries) {
		kv := p.entries[i]
		return &kv, nil
	}
	return nil, nil
}

// GetPrev implements store.Reader: the last proven key at-or-before key.
func (p *provenStore) GetPrev(key []byte) (*store.KV, error) {
	i := sort.Search(len(p.entries), func(i int) bool {
		return bytes.Compare(p.entries[i].Key, key) > 0
	})
	i--
	if i >= 0 {
		kv := p.entries[i]
		return &kv, nil
	}
	return nil, nil
}

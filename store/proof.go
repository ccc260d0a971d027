package store

import (
	"bytes"

	"github.com/latticebft/lattice/errs"
)

// ProofEntry pairs one committed key/value with an ics23 membership proof
// (a marshaled *ics23.CommitmentProof) that the pair is present in the tree
// at the root hash Prove returns alongside it — independently
// verifiable by any client against that root, without trusting the serving
// node to have reported either the entry or the root honestly.
type ProofEntry struct {
	Key   []byte
	Value []byte
	Proof []byte
}

// Range collects every key in the store with the given prefix, in key
// order, up to limit entries (0 means unbounded). It is the backing scan
// for the light-client query path's proof responses.
func (s *IAVLStore) Range(prefix []byte, limit int) ([]KV, error) {
	var out []KV

	floor := append([]byte(nil), prefix...)
	exclusive := false
	for limit <= 0 || len(out) < limit {
		kv, err := s.getNextFrom(floor, exclusive)
		if err != nil {
			return nil, err
		}
		if kv == nil || !bytes.HasPrefix(kv.Key, prefix) {
			break
		}
		out = append(out, *kv)
		floor = kv.Key
		exclusive = true
	}
	return out, nil
}

// Prove returns the tree's real last-committed root hash, together with an
// ics23 membership proof for every key under prefix, backing the
// light-client query path (the dispatcher's reserved /store ABCI query
// path). Unlike a commitment computed only over the returned entries, each
// proof here verifies independently against the tree's own root — the same
// root this store reports as the block's AppHash — so a dishonest peer
// cannot simply fabricate entries and a matching root together.
func (s *IAVLStore) Prove(prefix []byte) ([]byte, []ProofEntry, error) {
	entries, err := s.Range(prefix, 0)
	if err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	root := append([]byte(nil), s.rootHash...)
	out := make([]ProofEntry, len(entries))
	for i, kv := range entries {
		proof, err := s.tree.GetMembershipProof(kv.Key)
		if err != nil {
			return nil, nil, errs.ErrStore
		}
		bz, err := proof.Marshal()
		if err != nil {
			return nil, nil, errs.ErrStore
		}
		out[i] = ProofEntry{Key: kv.Key, Value: kv.Value, Proof: bz}
	}
	return root, out, nil
}

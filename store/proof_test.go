package store

import (
	"testing"

	ics23 "github.com/cosmos/ics23/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIAVLStoreRangeScansPrefixInOrder(t *testing.T) {
	s := newTestIAVLStore(t)

	require.NoError(t, s.Put([]byte("coins/a/x"), []byte("1")))
	require.NoError(t, s.Put([]byte("coins/a/y"), []byte("2")))
	require.NoError(t, s.Put([]byte("coins/b/x"), []byte("3")))
	require.NoError(t, s.Put([]byte("other/z"), []byte("4")))

	entries, err := s.Range([]byte("coins/a/"), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []byte("coins/a/x"), entries[0].Key)
	assert.Equal(t, []byte("coins/a/y"), entries[1].Key)
}

func TestIAVLStoreRangeRespectsLimit(t *testing.T) {
	s := newTestIAVLStore(t)

	require.NoError(t, s.Put([]byte("k1"), []byte("1")))
	require.NoError(t, s.Put([]byte("k2"), []byte("2")))
	require.NoError(t, s.Put([]byte("k3"), []byte("3")))

	entries, err := s.Range([]byte("k"), 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIAVLStoreProveReturnsEntriesVerifiableAgainstRoot(t *testing.T) {
	s := newTestIAVLStore(t)

	require.NoError(t, s.Put([]byte("coins/a/x"), []byte("1")))
	require.NoError(t, s.Put([]byte("coins/a/y"), []byte("2")))
	require.NoError(t, s.Put([]byte("coins/b/x"), []byte("3")))
	require.NoError(t, s.Commit(CommitHeader{Height: 1}))

	root, entries, err := s.Prove([]byte("coins/a/"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, s.RootHash(), root)

	for _, e := range entries {
		proof := new(ics23.CommitmentProof)
		require.NoError(t, proof.Unmarshal(e.Proof))
		assert.True(t, ics23.VerifyMembership(ics23.IavlSpec, root, proof, e.Key, e.Value))
	}
}

func TestIAVLStoreProveRejectsTamperedValue(t *testing.T) {
	s := newTestIAVLStore(t)

	require.NoError(t, s.Put([]byte("k1"), []byte("1")))
	require.NoError(t, s.Commit(CommitHeader{Height: 1}))

	root, entries, err := s.Prove([]byte("k1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	proof := new(ics23.CommitmentProof)
	require.NoError(t, proof.Unmarshal(entries[0].Proof))
	assert.False(t, ics23.VerifyMembership(ics23.IavlSpec, root, proof, entries[0].Key, []byte("tampered")))
}

func TestIAVLStoreProveRejectsWrongRoot(t *testing.T) {
	s := newTestIAVLStore(t)

	require.NoError(t, s.Put([]byte("k1"), []byte("1")))
	require.NoError(t, s.Commit(CommitHeader{Height: 1}))

	_, entries, err := s.Prove([]byte("k1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, s.Put([]byte("k2"), []byte("2")))
	require.NoError(t, s.Commit(CommitHeader{Height: 2}))
	otherRoot := s.RootHash()

	proof := new(ics23.CommitmentProof)
	require.NoError(t, proof.Unmarshal(entries[0].Proof))
	assert.False(t, ics23.VerifyMembership(ics23.IavlSpec, otherRoot, proof, entries[0].Key, entries[0].Value))
}

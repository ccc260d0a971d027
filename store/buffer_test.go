package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memParent is a trivial in-memory boundedReader/Writer used to exercise
// Buffer and PrefixStore in isolation, without pulling in an iavl tree.
type memParent struct {
	data map[string][]byte
	keys [][]byte
}

func newMemParent() *memParent {
	return &memParent{data: make(map[string][]byte)}
}

func (m *memParent) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *memParent) Put(key, value []byte) error {
	k := string(key)
	if _, ok := m.data[k]; !ok {
		m.keys = append(m.keys, append([]byte(nil), key...))
	}
	m.data[k] = append([]byte(nil), value...)
	return nil
}

func (m *memParent) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memParent) sorted() [][]byte {
	out := append([][]byte(nil), m.keys...)
	sortBytes(out)
	return out
}

func (m *memParent) GetNext(key []byte) (*KV, error) { return m.getNextFrom(key, false) }
func (m *memParent) GetPrev(key []byte) (*KV, error) { return m.getPrevFrom(key, false) }

func (m *memParent) getNextFrom(floor []byte, exclusive bool) (*KV, error) {
	for _, k := range m.sorted() {
		if cmp(k, floor) < 0 {
			continue
		}
		if exclusive && cmp(k, floor) == 0 {
			continue
		}
		return &KV{Key: k, Value: m.data[string(k)]}, nil
	}
	return nil, nil
}

func (m *memParent) getPrevFrom(ceiling []byte, exclusive bool) (*KV, error) {
	sorted := m.sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		k := sorted[i]
		if cmp(k, ceiling) > 0 {
			continue
		}
		if exclusive && cmp(k, ceiling) == 0 {
			continue
		}
		return &KV{Key: k, Value: m.data[string(k)]}, nil
	}
	return nil, nil
}

func cmp(a, b []byte) int {
	switch {
	case string(a) < string(b):
		return -1
	case string(a) > string(b):
		return 1
	default:
		return 0
	}
}

func sortBytes(keys [][]byte) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && cmp(keys[j-1], keys[j]) > 0; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}

func TestBufferFallsThroughToParent(t *testing.T) {
	parent := newMemParent()
	require.NoError(t, parent.Put([]byte("a"), []byte("1")))

	buf := NewBuffer(parent)
	v, err := buf.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
}

func TestBufferPutShadowsParent(t *testing.T) {
	parent := newMemParent()
	require.NoError(t, parent.Put([]byte("a"), []byte("1")))

	buf := NewBuffer(parent)
	require.NoError(t, buf.Put([]byte("a"), []byte("2")))

	v, err := buf.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	// parent is untouched until Flush.
	pv, err := parent.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), pv)
}

func TestBufferDeleteTombstonesParentValue(t *testing.T) {
	parent := newMemParent()
	require.NoError(t, parent.Put([]byte("a"), []byte("1")))

	buf := NewBuffer(parent)
	require.NoError(t, buf.Delete([]byte("a")))

	v, err := buf.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestBufferGetNextSkipsTombstones(t *testing.T) {
	parent := newMemParent()
	require.NoError(t, parent.Put([]byte("a"), []byte("1")))
	require.NoError(t, parent.Put([]byte("b"), []byte("2")))
	require.NoError(t, parent.Put([]byte("c"), []byte("3")))

	buf := NewBuffer(parent)
	require.NoError(t, buf.Delete([]byte("b")))

	kv, err := buf.GetNext([]byte("a"))
	require.NoError(t, err)
	require.NotNil(t, kv)
	assert.Equal(t, []byte("a"), kv.Key)

	kv, err = buf.GetNext([]byte("aa"))
	require.NoError(t, err)
	require.NotNil(t, kv)
	assert.Equal(t, []byte("c"), kv.Key, "tombstoned b must be skipped")
}

func TestBufferGetNextPrefersOwnPutOverParent(t *testing.T) {
	parent := newMemParent()
	require.NoError(t, parent.Put([]byte("b"), []byte("parent-b")))

	buf := NewBuffer(parent)
	require.NoError(t, buf.Put([]byte("a"), []byte("own-a")))

	kv, err := buf.GetNext([]byte("a"))
	require.NoError(t, err)
	require.NotNil(t, kv)
	assert.Equal(t, []byte("a"), kv.Key)
	assert.Equal(t, []byte("own-a"), kv.Value)
}

func TestBufferGetPrevSkipsTombstones(t *testing.T) {
	parent := newMemParent()
	require.NoError(t, parent.Put([]byte("a"), []byte("1")))
	require.NoError(t, parent.Put([]byte("b"), []byte("2")))
	require.NoError(t, parent.Put([]byte("c"), []byte("3")))

	buf := NewBuffer(parent)
	require.NoError(t, buf.Delete([]byte("b")))

	kv, err := buf.GetPrev([]byte("bz"))
	require.NoError(t, err)
	require.NotNil(t, kv)
	assert.Equal(t, []byte("a"), kv.Key, "tombstoned b must be skipped")
}

func TestBufferFlushAppliesToParentInOrder(t *testing.T) {
	parent := newMemParent()
	require.NoError(t, parent.Put([]byte("a"), []byte("1")))

	buf := NewBuffer(parent)
	require.NoError(t, buf.Put([]byte("a"), []byte("2")))
	require.NoError(t, buf.Put([]byte("b"), []byte("3")))
	require.NoError(t, buf.Delete([]byte("a")))
	require.NoError(t, buf.Put([]byte("a"), []byte("4")))

	require.NoError(t, buf.Flush())
	assert.Equal(t, 0, buf.Len())

	v, err := parent.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("4"), v)

	v, err = parent.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), v)
}

func TestBufferIntoMapSkipsTombstones(t *testing.T) {
	parent := newMemParent()
	buf := NewBuffer(parent)
	require.NoError(t, buf.Put([]byte("a"), []byte("1")))
	require.NoError(t, buf.Put([]byte("b"), []byte("2")))
	require.NoError(t, buf.Delete([]byte("b")))

	entries := buf.IntoMap()
	require.Len(t, entries, 1)
	assert.Equal(t, []byte("a"), entries[0].Key)
}

func TestNestedBufferMergesThroughTwoLevels(t *testing.T) {
	parent := newMemParent()
	require.NoError(t, parent.Put([]byte("a"), []byte("parent")))

	outer := NewBuffer(parent)
	require.NoError(t, outer.Put([]byte("b"), []byte("outer")))

	inner := NewBuffer(outer)
	require.NoError(t, inner.Put([]byte("c"), []byte("inner")))
	require.NoError(t, inner.Delete([]byte("a")))

	v, err := inner.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, v, "inner tombstone must shadow outer parent's value")

	kv, err := inner.GetNext([]byte("a"))
	require.NoError(t, err)
	require.NotNil(t, kv)
	assert.Equal(t, []byte("b"), kv.Key, "deleted a at inner level must be skipped, falling through to outer's b")

	require.NoError(t, inner.Flush())
	v, err = outer.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, v, "flushing inner's tombstone must propagate the delete to outer")

	v, err = outer.Get([]byte("c"))
	require.NoError(t, err)
	assert.Equal(t, []byte("inner"), v)
}

package store

import (
	"bytes"

	"github.com/google/btree"
)

// bufEntry is a pending mutation: a Some(value) put, or a None tombstone
// when deleted is true. Only key participates in ordering.
type bufEntry struct {
	key     []byte
	value   []byte
	deleted bool
}

func bufLess(a, b bufEntry) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Buffer is a write-through overlay: an ordered mapping of key to pending
// put/delete, backed by a parent Reader. Gets fall through to the parent
// when the buffer itself holds no entry for the key.
type Buffer struct {
	parent boundedReader
	data   *btree.BTreeG[bufEntry]
}

var _ ReadWriter = (*Buffer)(nil)
var _ boundedReader = (*Buffer)(nil)

// NewBuffer creates an empty overlay on top of parent.
func NewBuffer(parent boundedReader) *Buffer {
	return &Buffer{
		parent: parent,
		data:   btree.NewG(32, bufLess),
	}
}

// Get implements Reader.
func (b *Buffer) Get(key []byte) ([]byte, error) {
	if e, ok := b.data.Get(bufEntry{key: key}); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.parent.Get(key)
}

// Put records a pending write. Put implements Writer.
func (b *Buffer) Put(key, value []byte) error {
	b.data.ReplaceOrInsert(bufEntry{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	})
	return nil
}

// Delete records a pending tombstone. Delete implements Writer.
func (b *Buffer) Delete(key []byte) error {
	b.data.ReplaceOrInsert(bufEntry{
		key:     append([]byte(nil), key...),
		deleted: true,
	})
	return nil
}

// GetNext implements Reader: the least key >= k that is not tombstoned at
// any level, with the innermost level's value taking precedence on ties.
func (b *Buffer) GetNext(key []byte) (*KV, error) {
	return b.getNextFrom(key, false)
}

// GetPrev implements Reader, mirroring GetNext downward.
func (b *Buffer) GetPrev(key []byte) (*KV, error) {
	return b.getPrevFrom(key, false)
}

func (b *Buffer) getNextFrom(floor []byte, exclusive bool) (*KV, error) {
	for {
		own, ownFound := b.nearestOwnGE(floor, exclusive)
		parentKV, err := b.parent.getNextFrom(floor, exclusive)
		if err != nil {
			return nil, err
		}

		switch {
		case !ownFound:
			return parentKV, nil
		case parentKV != nil && bytes.Compare(parentKV.Key, own.key) < 0:
			return parentKV, nil
		case own.deleted:
			floor = own.key
			exclusive = true
			continue
		default:
			return &KV{Key: append([]byte(nil), own.key...), Value: append([]byte(nil), own.value...)}, nil
		}
	}
}

func (b *Buffer) getPrevFrom(ceiling []byte, exclusive bool) (*KV, error) {
	for {
		own, ownFound := b.nearestOwnLE(ceiling, exclusive)
		parentKV, err := b.parent.getPrevFrom(ceiling, exclusive)
		if err != nil {
			return nil, err
		}

		switch {
		case !ownFound:
			return parentKV, nil
		case parentKV != nil && bytes.Compare(parentKV.Key, own.key) > 0:
			return parentKV, nil
		case own.deleted:
			ceiling = own.key
			exclusive = true
			continue
		default:
			return &KV{Key: append([]byte(nil), own.key...), Value: append([]byte(nil), own.value...)}, nil
		}
	}
}

func (b *Buffer) nearestOwnGE(floor []byte, exclusive bool) (bufEntry, bool) {
	var result bufEntry
	found := false
	b.data.AscendGreaterOrEqual(bufEntry{key: floor}, func(e bufEntry) bool {
		if exclusive && bytes.Equal(e.key, floor) {
			return true
		}
		result = e
		found = true
		return false
	})
	return result, found
}

func (b *Buffer) nearestOwnLE(ceiling []byte, exclusive bool) (bufEntry, bool) {
	var result bufEntry
	found := false
	b.data.DescendLessOrEqual(bufEntry{key: ceiling}, func(e bufEntry) bool {
		if exclusive && bytes.Equal(e.key, ceiling) {
			return true
		}
		result = e
		found = true
		return false
	})
	return result, found
}

// Flush drains the buffer in ascending key order, applying each pending
// put/delete to the parent, then clears the buffer.
func (b *Buffer) Flush() error {
	var firstErr error
	b.data.Ascend(func(e bufEntry) bool {
		var err error
		if e.deleted {
			err = b.parent.Delete(e.key)
		} else {
			err = b.parent.Put(e.key, e.value)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	if firstErr != nil {
		return firstErr
	}
	b.data.Clear(false)
	return nil
}

// IntoMap returns the buffer's pending puts as a standalone ordered slice
// of entries. Tombstones are omitted, and the buffer itself is left
// unchanged.
func (b *Buffer) IntoMap() []KV {
	out := make([]KV, 0, b.data.Len())
	b.data.Ascend(func(e bufEntry) bool {
		if e.deleted {
			return true
		}
		out = append(out, KV{Key: append([]byte(nil), e.key...), Value: append([]byte(nil), e.value...)})
		return true
	})
	return out
}

// Len reports the number of pending entries (puts and tombstones).
func (b *Buffer) Len() int {
	return b.data.Len()
}

// Reset discards every pending entry without touching the parent.
func (b *Buffer) Reset() {
	b.data.Clear(false)
}

package store

import "bytes"

// PrefixStore is a view over a parent store whose reads and writes
// concatenate an immutable prefix to every key. Sub returns a cheap clone
// so nested modules can namespace themselves without per-operation
// allocation of the prefix itself.
type PrefixStore struct {
	parent boundedReader
	prefix []byte
}

var _ ReadWriter = (*PrefixStore)(nil)
var _ boundedReader = (*PrefixStore)(nil)

// Sub returns a view over base scoped to prefix.
func Sub(base boundedReader, prefix []byte) *PrefixStore {
	return &PrefixStore{
		parent: base,
		prefix: append([]byte(nil), prefix...),
	}
}

// Sub further scopes this view, concatenating prefix onto the existing one.
func (p *PrefixStore) Sub(prefix []byte) *PrefixStore {
	return Sub(p.parent, append(append([]byte(nil), p.prefix...), prefix...))
}

func (p *PrefixStore) key(k []byte) []byte {
	out := make([]byte, 0, len(p.prefix)+len(k))
	out = append(out, p.prefix...)
	out = append(out, k...)
	return out
}

func (p *PrefixStore) strip(k []byte) ([]byte, bool) {
	if !bytes.HasPrefix(k, p.prefix) {
		return nil, false
	}
	return k[len(p.prefix):], true
}

// Get implements Reader.
func (p *PrefixStore) Get(k []byte) ([]byte, error) {
	return p.parent.Get(p.key(k))
}

// Put implements Writer.
func (p *PrefixStore) Put(k, v []byte) error {
	return p.parent.Put(p.key(k), v)
}

// Delete implements Writer.
func (p *PrefixStore) Delete(k []byte) error {
	return p.parent.Delete(p.key(k))
}

// GetNext implements Reader.
func (p *PrefixStore) GetNext(k []byte) (*KV, error) {
	return p.getNextFrom(k, false)
}

// GetPrev implements Reader.
func (p *PrefixStore) GetPrev(k []byte) (*KV, error) {
	return p.getPrevFrom(k, false)
}

func (p *PrefixStore) getNextFrom(floor []byte, exclusive bool) (*KV, error) {
	kv, err := p.parent.getNextFrom(p.key(floor), exclusive)
	if err != nil || kv == nil {
		return nil, err
	}
	stripped, ok := p.strip(kv.Key)
	if !ok {
		return nil, nil
	}
	return &KV{Key: stripped, Value: kv.Value}, nil
}

func (p *PrefixStore) getPrevFrom(ceiling []byte, exclusive bool) (*KV, error) {
	kv, err := p.parent.getPrevFrom(p.key(ceiling), exclusive)
	if err != nil || kv == nil {
		return nil, err
	}
	stripped, ok := p.strip(kv.Key)
	if !ok {
		return nil, nil
	}
	return &KV{Key: stripped, Value: kv.Value}, nil
}

package store

import (
	"bytes"

	"github.com/google/btree"

	"github.com/iov-one/bazaar/errors"
)

const defaultBTreeDegree = 32

// bkey is a node in an overlay tree. A node with deleted set marks a
// pending deletion of a parent key.
type bkey struct {
	key     []byte
	value   []byte
	deleted bool
}

func (b bkey) Less(than btree.Item) bool {
	return bytes.Compare(b.key, than.(bkey).key) < 0
}

// BTreeCacheWrap buffers all writes in a btree overlay on top of a parent
// store. Nothing reaches the parent until Write is called. This is the
// savepoint primitive: a discarded wrap leaves the parent untouched.
type BTreeCacheWrap struct {
	parent KVStore
	bt     *btree.BTree
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap initializes a cache wrap on top of the given parent.
func NewBTreeCacheWrap(parent KVStore) *BTreeCacheWrap {
	return &BTreeCacheWrap{
		parent: parent,
		bt:     btree.New(defaultBTreeDegree),
	}
}

// CacheWrap layers another cache on top of this one.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b)
}

// Write applies all buffered operations to the parent store, in key
// order, and resets the overlay.
func (b *BTreeCacheWrap) Write() error {
	var err error
	b.bt.Ascend(func(i btree.Item) bool {
		n := i.(bkey)
		if n.deleted {
			err = b.parent.Delete(n.key)
		} else {
			err = b.parent.Set(n.key, n.value)
		}
		return err == nil
	})
	if err != nil {
		return errors.Wrap(err, "cannot flush cache")
	}
	b.Discard()
	return nil
}

// Discard drops all buffered operations, invalidating the wrap.
func (b *BTreeCacheWrap) Discard() {
	b.bt = btree.New(defaultBTreeDegree)
}

func (b *BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(bkey{key: ckey(key), value: cval(value)})
	return nil
}

func (b *BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(bkey{key: ckey(key), deleted: true})
	return nil
}

func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if i := b.bt.Get(bkey{key: key}); i != nil {
		n := i.(bkey)
		if n.deleted {
			return nil, nil
		}
		return n.value, nil
	}
	return b.parent.Get(key)
}

func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	if i := b.bt.Get(bkey{key: key}); i != nil {
		return !i.(bkey).deleted, nil
	}
	return b.parent.Has(key)
}

// Iterator returns the merged view of the parent range and the overlay,
// in ascending order. The merge snapshots both sides, so writes performed
// while iterating are not observed.
func (b *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	overlay := b.overlayRange(start, end, true)
	parent, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return b.merge(overlay, parent, true)
}

// ReverseIterator works like Iterator, in descending order.
func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	overlay := b.overlayRange(start, end, false)
	parent, err := b.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return b.merge(overlay, parent, false)
}

// overlayRange snapshots the overlay nodes within [start, end).
func (b *BTreeCacheWrap) overlayRange(start, end []byte, ascending bool) []bkey {
	var out []bkey
	if ascending {
		collect := func(i btree.Item) bool {
			out = append(out, i.(bkey))
			return true
		}
		switch {
		case start == nil && end == nil:
			b.bt.Ascend(collect)
		case end == nil:
			b.bt.AscendGreaterOrEqual(bkey{key: start}, collect)
		default:
			b.bt.AscendRange(bkey{key: start}, bkey{key: end}, collect)
		}
		return out
	}

	collect := func(i btree.Item) bool {
		k := i.(bkey).key
		if end != nil && bytes.Compare(k, end) >= 0 {
			// at or above the exclusive end, keep descending
			return true
		}
		if start != nil && bytes.Compare(k, start) < 0 {
			return false
		}
		out = append(out, i.(bkey))
		return true
	}
	if end == nil {
		b.bt.Descend(collect)
	} else {
		b.bt.DescendLessOrEqual(bkey{key: end}, collect)
	}
	return out
}

// merge combines the overlay snapshot with the parent iterator, overlay
// entries shadowing parent ones. The parent iterator is fully drained and
// released.
func (b *BTreeCacheWrap) merge(overlay []bkey, parent Iterator, ascending bool) (Iterator, error) {
	defer parent.Release()

	before := func(a, b []byte) bool {
		if ascending {
			return bytes.Compare(a, b) < 0
		}
		return bytes.Compare(a, b) > 0
	}

	var out []Model
	pkey, pval, perr := parent.Next()
	for _, o := range overlay {
		// emit parent keys that sort before this overlay node
		for perr == nil && before(pkey, o.key) {
			out = append(out, Model{Key: pkey, Value: pval})
			pkey, pval, perr = parent.Next()
		}
		// an overlay node shadows an equal parent key
		if perr == nil && bytes.Equal(pkey, o.key) {
			pkey, pval, perr = parent.Next()
		}
		if !o.deleted {
			out = append(out, Model{Key: o.key, Value: o.value})
		}
	}
	for perr == nil {
		out = append(out, Model{Key: pkey, Value: pval})
		pkey, pval, perr = parent.Next()
	}
	if !errors.ErrIteratorDone.Is(perr) {
		return nil, perr
	}
	return NewSliceIterator(out), nil
}

func ckey(key []byte) []byte {
	out := make([]byte, len(key))
	copy(out, key)
	return out
}

func cval(value []byte) []byte {
	if value == nil {
		return nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out
}

package store

import (
	"bytes"

	"github.com/google/btree"
)

// MemStore returns an empty, non-persistent store that fulfills
// CacheableKVStore. For tests.
func MemStore() CacheableKVStore {
	return &memStore{
		bt: btree.New(defaultBTreeDegree),
	}
}

type memStore struct {
	bt *btree.BTree
}

var _ CacheableKVStore = (*memStore)(nil)

func (m *memStore) Get(key []byte) ([]byte, error) {
	if i := m.bt.Get(bkey{key: key}); i != nil {
		return i.(bkey).value, nil
	}
	return nil, nil
}

func (m *memStore) Has(key []byte) (bool, error) {
	return m.bt.Has(bkey{key: key}), nil
}

func (m *memStore) Set(key, value []byte) error {
	m.bt.ReplaceOrInsert(bkey{key: ckey(key), value: cval(value)})
	return nil
}

func (m *memStore) Delete(key []byte) error {
	m.bt.Delete(bkey{key: key})
	return nil
}

func (m *memStore) Iterator(start, end []byte) (Iterator, error) {
	var out []Model
	collect := func(i btree.Item) bool {
		n := i.(bkey)
		out = append(out, Model{Key: n.key, Value: n.value})
		return true
	}
	switch {
	case start == nil && end == nil:
		m.bt.Ascend(collect)
	case end == nil:
		m.bt.AscendGreaterOrEqual(bkey{key: start}, collect)
	default:
		m.bt.AscendRange(bkey{key: start}, bkey{key: end}, collect)
	}
	return NewSliceIterator(out), nil
}

func (m *memStore) ReverseIterator(start, end []byte) (Iterator, error) {
	var out []Model
	collect := func(i btree.Item) bool {
		n := i.(bkey)
		if end != nil && bytes.Compare(n.key, end) >= 0 {
			return true
		}
		if start != nil && bytes.Compare(n.key, start) < 0 {
			return false
		}
		out = append(out, Model{Key: n.key, Value: n.value})
		return true
	}
	if end == nil {
		m.bt.Descend(collect)
	} else {
		m.bt.DescendLessOrEqual(bkey{key: end}, collect)
	}
	return NewSliceIterator(out), nil
}

func (m *memStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(m)
}

// MemCommitStore layers trivial versioning on top of a MemStore so it can
// serve as a CommitKVStore in tests and in-memory development nodes. The
// commit hash is derived from the version only, there is no merkle proof.
func MemCommitStore() CommitKVStore {
	return &memCommitStore{
		CacheableKVStore: MemStore(),
	}
}

type memCommitStore struct {
	CacheableKVStore
	version int64
}

var _ CommitKVStore = (*memCommitStore)(nil)

func (s *memCommitStore) LoadLatestVersion() error {
	return nil
}

func (s *memCommitStore) LatestVersion() (CommitID, error) {
	return CommitID{Version: s.version, Hash: versionHash(s.version)}, nil
}

func (s *memCommitStore) Commit() (CommitID, error) {
	s.version++
	return CommitID{Version: s.version, Hash: versionHash(s.version)}, nil
}

func versionHash(version int64) []byte {
	if version == 0 {
		return nil
	}
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[7-i] = byte(version >> uint(8*i))
	}
	return out
}

package iavl

import (
	"bytes"
	"testing"

	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
)

func TestCommitStoreLifecycle(t *testing.T) {
	s := MockCommitStore()
	assert.Nil(t, s.LoadLatestVersion())

	id, err := s.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	assert.Nil(t, s.Set([]byte("hello"), []byte("world")))

	id, err = s.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("commit must produce a hash")
	}

	v, err := s.Get([]byte("hello"))
	assert.Nil(t, err)
	assert.Equal(t, "world", string(v))

	// a different state must produce a different hash
	assert.Nil(t, s.Set([]byte("hello"), []byte("there")))
	id2, err := s.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id2.Version)
	if bytes.Equal(id.Hash, id2.Hash) {
		t.Fatal("hash must depend on content")
	}
}

func TestCommitStoreCacheWrap(t *testing.T) {
	s := MockCommitStore()
	assert.Nil(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	assert.Nil(t, cache.Set([]byte("a"), []byte("1")))

	// parent does not see the write until the cache is written
	has, err := s.Has([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	assert.Nil(t, cache.Write())
	has, err = s.Has([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)
}

func TestCommitStoreIterator(t *testing.T) {
	s := MockCommitStore()
	assert.Nil(t, s.LoadLatestVersion())

	for _, k := range []string{"a", "b", "c"} {
		assert.Nil(t, s.Set([]byte(k), []byte(k)))
	}

	it, err := s.Iterator([]byte("a"), []byte("c"))
	assert.Nil(t, err)
	defer it.Release()

	var keys []string
	for {
		k, _, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		assert.Nil(t, err)
		keys = append(keys, string(k))
	}
	assert.Equal(t, []string{"a", "b"}, keys)
}

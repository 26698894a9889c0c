package app

import (
	"testing"

	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/store"
)

func TestCommitStoreIsolation(t *testing.T) {
	cs := NewCommitStore(store.MemCommitStore())

	k, v := []byte("key"), []byte("value")

	assert.Nil(t, cs.DeliverStore().Set(k, v))

	// check store does not see the uncommitted write
	has, err := cs.CheckStore().Has(k)
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	id, err := cs.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)

	// after a commit both caches see the write
	has, err = cs.CheckStore().Has(k)
	assert.Nil(t, err)
	assert.Equal(t, true, has)
	has, err = cs.DeliverStore().Has(k)
	assert.Nil(t, err)
	assert.Equal(t, true, has)
}

func TestChainID(t *testing.T) {
	db := store.MemStore()

	assert.Equal(t, "", mustLoadChainID(db))

	assert.Nil(t, saveChainID(db, "my-chain"))
	assert.Equal(t, "my-chain", mustLoadChainID(db))

	// the chain id is write-once
	if err := saveChainID(db, "my-chain-2"); err == nil {
		t.Fatal("second saveChainID must fail")
	}

	if err := saveChainID(store.MemStore(), "a"); err == nil {
		t.Fatal("invalid chain id must be rejected")
	}
}

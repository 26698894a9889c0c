package store

import "github.com/iov-one/bazaar"

// Aliases for all storage types, for shorter names everywhere.

type KVStore = bazaar.KVStore
type ReadOnlyKVStore = bazaar.ReadOnlyKVStore
type Iterator = bazaar.Iterator
type CacheableKVStore = bazaar.CacheableKVStore
type KVCacheWrap = bazaar.KVCacheWrap
type CommitKVStore = bazaar.CommitKVStore
type CommitID = bazaar.CommitID
type Model = bazaar.Model

package bazaar

// ReadOnlyKVStore is a simple interface to query data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is
	// exclusive. Start must be less than end, or the Iterator is
	// invalid. A nil start is interpreted as an empty byte slice, a nil
	// end as "up to infinity".
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator over a domain of keys in descending order. End is
	// exclusive. Start must be greater than end, or the Iterator is
	// invalid.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// KVStore is the penultimate interface for all database access within an
// extension. Writes issued on a KVStore inside a transaction are isolated
// by the surrounding savepoint until the transaction commits.
type KVStore interface {
	ReadOnlyKVStore

	// Set sets the key. Panics on nil key.
	Set(key, value []byte) error

	// Delete deletes the key. Panics on nil key.
	Delete(key []byte) error
}

// Iterator allows iteration over a domain of keys. When the end of the
// range is reached, Next returns errors.ErrIteratorDone.
type Iterator interface {
	// Next moves the iterator to the next sequential key in the
	// database, returning the key/value pair at that position.
	Next() (key, value []byte, err error)

	// Release releases the Iterator, allowing resource cleanup.
	Release()
}

// CacheableKVStore is a KVStore that can be wrapped with a cache.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a cached, writable view over a parent store. Writes are
// buffered and only reach the parent on Write. Until then they are
// visible only through the wrap itself.
type KVCacheWrap interface {
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this CacheWrap and releases all data.
	Discard()
}

// CommitKVStore is a store that persists committed versions and exposes a
// merkle root per version.
type CommitKVStore interface {
	CacheableKVStore

	// LoadLatestVersion loads the latest persisted version. If there was
	// a crash during the last commit, it is guaranteed to return a
	// stable state, even if older.
	LoadLatestVersion() error

	// LatestVersion returns info on the latest version saved to disk.
	LatestVersion() (CommitID, error)

	// Commit the next version to disk, and return info on it.
	Commit() (CommitID, error)
}

// CommitID contains the tree version number and its merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}

package orm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

// counter is a minimal model implementation for bucket tests.
type counter struct {
	count int64
	valid bool
}

func (c *counter) Marshal() ([]byte, error) {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(c.count))
	return out, nil
}

func (c *counter) Unmarshal(raw []byte) error {
	c.count = int64(binary.BigEndian.Uint64(raw))
	c.valid = true
	return nil
}

func (c *counter) Validate() error {
	if !c.valid {
		return errors.Wrap(errors.ErrState, "invalid counter")
	}
	return nil
}

func TestModelBucketPutAndOne(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	require.NoError(t, b.Put(db, []byte("first"), &counter{count: 42, valid: true}))

	var got counter
	require.NoError(t, b.One(db, []byte("first"), &got))
	assert.Equal(t, int64(42), got.count)

	err := b.One(db, []byte("missing"), &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketRejectsEmptyKey(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})
	err := b.Put(db, nil, &counter{count: 1, valid: true})
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestModelBucketRejectsInvalidModel(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})
	err := b.Put(db, []byte("k"), &counter{count: 1, valid: false})
	assert.True(t, errors.ErrState.Is(err))
}

func TestModelBucketHasAndDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	require.NoError(t, b.Put(db, []byte("k"), &counter{count: 7, valid: true}))
	require.NoError(t, b.Has(db, []byte("k")))

	require.NoError(t, b.Delete(db, []byte("k")))
	assert.True(t, errors.ErrNotFound.Is(b.Has(db, []byte("k"))))

	// deleting a missing entity is not an error
	require.NoError(t, b.Delete(db, []byte("k")))
}

func TestModelBucketPrefixIsolation(t *testing.T) {
	db := store.MemStore()
	a := NewModelBucket("aaa", &counter{})
	z := NewModelBucket("zzz", &counter{})

	require.NoError(t, a.Put(db, []byte("k"), &counter{count: 1, valid: true}))
	require.NoError(t, z.Put(db, []byte("k"), &counter{count: 2, valid: true}))

	var got counter
	require.NoError(t, a.One(db, []byte("k"), &got))
	assert.Equal(t, int64(1), got.count)
	require.NoError(t, z.One(db, []byte("k"), &got))
	assert.Equal(t, int64(2), got.count)
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{}).(*modelBucket)

	require.NoError(t, b.Put(db, []byte("alpha"), &counter{count: 1, valid: true}))
	require.NoError(t, b.Put(db, []byte("alphabet"), &counter{count: 2, valid: true}))
	require.NoError(t, b.Put(db, []byte("beta"), &counter{count: 3, valid: true}))

	models, err := b.Query(db, "", []byte("alpha"))
	require.NoError(t, err)
	require.Len(t, models, 1)

	models, err = b.Query(db, "prefix", []byte("alpha"))
	require.NoError(t, err)
	assert.Len(t, models, 2)

	models, err = b.Query(db, "", []byte("gamma"))
	require.NoError(t, err)
	assert.Len(t, models, 0)

	_, err = b.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

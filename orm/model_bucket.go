package orm

import (
	"reflect"
	"regexp"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Model is implemented by any entity that can be stored in a bucket.
type Model interface {
	weave.Persistent
	Validate() error
}

// ModelBucket is implemented by buckets that operate on a single model
// type. All stored data lives under a per-bucket key prefix, so buckets
// for two record kinds never alias each other even when keyed by the same
// account address.
type ModelBucket interface {
	// One queries the database for a single model instance. Lookup is
	// done by the primary index key. Result is loaded into given
	// destination model. This method returns ErrNotFound if an entity
	// cannot be found.
	One(db weave.ReadOnlyKVStore, key []byte, dest Model) error

	// Put saves given model in the database under the given key. The
	// key must not be empty and the model must be valid.
	Put(db weave.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the
	// database. It does not fail if the entity does not exist.
	Delete(db weave.KVStore, key []byte) error

	// Has returns nil if an entity with given primary key exists, or
	// ErrNotFound otherwise.
	Has(db weave.ReadOnlyKVStore, key []byte) error

	// Register registers this bucket in the query router under the
	// given name.
	Register(name string, r weave.QueryRouter)
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// NewModelBucket returns a ModelBucket instance. The bucket name
// namespaces all keys. The model instance is used only as a type
// reference, its content does not matter.
func NewModelBucket(name string, m Model) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	return &modelBucket{
		name:   name,
		prefix: []byte(name + ":"),
		model:  reflect.TypeOf(m).Elem(),
	}
}

type modelBucket struct {
	name   string
	prefix []byte
	model  reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey returns the raw storage key for an entity key.
func (b *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	out = append(out, b.prefix...)
	return append(out, key...)
}

func (b *modelBucket) assertModelType(m Model) error {
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr || tp.Elem() != b.model {
		return errors.Wrapf(errors.ErrType, "%s bucket operates on %s models, got %T", b.name, b.model, m)
	}
	return nil
}

func (b *modelBucket) One(db weave.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := b.assertModelType(dest); err != nil {
		return err
	}
	raw, err := db.Get(b.dbKey(key))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s: no entity under key %X", b.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "%s: cannot unmarshal entity", b.name)
	}
	return nil
}

func (b *modelBucket) Put(db weave.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := b.assertModelType(m); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "%s: cannot marshal entity", b.name)
	}
	return db.Set(b.dbKey(key), raw)
}

func (b *modelBucket) Delete(db weave.KVStore, key []byte) error {
	return db.Delete(b.dbKey(key))
}

func (b *modelBucket) Has(db weave.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(b.dbKey(key))
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s: no entity under key %X", b.name, key)
	}
	return nil
}

func (b *modelBucket) Register(name string, r weave.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query implements weave.QueryHandler. An empty modifier looks up an exact
// entity key, the "prefix" modifier scans all entities with the given key
// prefix.
func (b *modelBucket) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case "":
		key := b.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []weave.Model{{Key: key, Value: value}}, nil
	case "prefix":
		start := b.dbKey(data)
		return consumePrefix(db, start)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
	}
}

// consumePrefix collects all models with the given raw key prefix.
func consumePrefix(db weave.ReadOnlyKVStore, prefix []byte) ([]weave.Model, error) {
	it, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var out []weave.Model
	for {
		key, value, err := it.Next()
		switch {
		case err == nil:
			out = append(out, weave.Model{Key: key, Value: value})
		case errors.ErrIteratorDone.Is(err):
			return out, nil
		default:
			return nil, err
		}
	}
}

// prefixEnd returns the lowest key that is above all keys carrying the
// given prefix, or nil if no such bound exists.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

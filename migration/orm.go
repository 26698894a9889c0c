package migration

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// NewModelBucket returns a ModelBucket instance that ensures that every
// model it stores or loads is migrated to the current schema version of
// the owning package. Migration is done lazily, on access.
func NewModelBucket(packageName string, b orm.ModelBucket) orm.ModelBucket {
	return &schemaMigratingModelBucket{
		pkg:    packageName,
		b:      b,
		schema: NewSchemaBucket(),
	}
}

type schemaMigratingModelBucket struct {
	pkg    string
	b      orm.ModelBucket
	schema *SchemaBucket
}

var _ orm.ModelBucket = (*schemaMigratingModelBucket)(nil)

func (m *schemaMigratingModelBucket) One(db weave.ReadOnlyKVStore, key []byte, dest orm.Model) error {
	if err := m.b.One(db, key, dest); err != nil {
		return err
	}
	migratable, ok := dest.(Migratable)
	if !ok {
		return errors.Wrapf(errors.ErrType, "%T cannot be migrated", dest)
	}
	cur, err := m.schema.CurrentSchema(db, m.pkg)
	if err != nil {
		return errors.Wrap(err, "current schema")
	}
	return reg.Apply(db, migratable, cur)
}

func (m *schemaMigratingModelBucket) Put(db weave.KVStore, key []byte, model orm.Model) error {
	migratable, ok := model.(Migratable)
	if !ok {
		return errors.Wrapf(errors.ErrType, "%T cannot be migrated", model)
	}
	cur, err := m.schema.CurrentSchema(db, m.pkg)
	if err != nil {
		return errors.Wrap(err, "current schema")
	}
	meta := migratable.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrSchema, "%T metadata is missing", model)
	}
	// A zero schema means the caller wants the current version.
	if meta.Schema == 0 {
		meta.Schema = cur
	}
	if err := reg.Apply(db, migratable, cur); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return m.b.Put(db, key, model)
}

func (m *schemaMigratingModelBucket) Delete(db weave.KVStore, key []byte) error {
	return m.b.Delete(db, key)
}

func (m *schemaMigratingModelBucket) Has(db weave.ReadOnlyKVStore, key []byte) error {
	return m.b.Has(db, key)
}

func (m *schemaMigratingModelBucket) Register(name string, r weave.QueryRouter) {
	m.b.Register(name, r)
}

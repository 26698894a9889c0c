package migration

import (
	"fmt"
	"reflect"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Migratable is implemented by every entity that is versioned with a
// schema and can be upgraded between schema versions.
type Migratable interface {
	weave.Persistent

	// GetMetadata returns the metadata attached to the entity.
	GetMetadata() *weave.Metadata

	// Validate returns an error if the entity state is not valid.
	Validate() error
}

// Migrator is a function that migrates an entity in place, from the
// schema one version below to the one it is registered under.
type Migrator func(db weave.ReadOnlyKVStore, m Migratable) error

// NoModification is a migration that leaves the entity unchanged. Use it
// to register the initial schema version of every entity.
func NoModification(db weave.ReadOnlyKVStore, m Migratable) error {
	return nil
}

// MustRegister registers a migration function for the given entity type
// and schema version, in the global registry. Panics on any conflict.
// Use this function in the init of every extension package, for every
// persisted model and message.
func MustRegister(migrationTo uint32, m Migratable, fn Migrator) {
	reg.MustRegister(migrationTo, m, fn)
}

// Apply migrates the entity in place to the given schema version, running
// every registered migration in between. The entity metadata is updated
// to the final version and the result is validated.
func Apply(db weave.ReadOnlyKVStore, m Migratable, migrateTo uint32) error {
	return reg.Apply(db, m, migrateTo)
}

// reg is the global migration registry, filled by package init functions.
var reg = newRegister()

type payload struct {
	tp      reflect.Type
	version uint32
}

type register struct {
	migrations map[payload]Migrator
}

func newRegister() *register {
	return &register{
		migrations: make(map[payload]Migrator),
	}
}

func (r *register) MustRegister(migrationTo uint32, m Migratable, fn Migrator) {
	if migrationTo < 1 {
		panic("schema version must be greater than zero")
	}
	key := payload{tp: reflect.TypeOf(m), version: migrationTo}
	if _, ok := r.migrations[key]; ok {
		panic(fmt.Sprintf("migration of %T to version %d already registered", m, migrationTo))
	}
	r.migrations[key] = fn
}

func (r *register) Apply(db weave.ReadOnlyKVStore, m Migratable, migrateTo uint32) error {
	meta := m.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrSchema, "%T metadata is missing", m)
	}
	if meta.Schema == 0 {
		return errors.Wrapf(errors.ErrSchema, "%T schema version not set", m)
	}
	if meta.Schema > migrateTo {
		return errors.Wrapf(errors.ErrSchema, "cannot downgrade %T from version %d to %d", m, meta.Schema, migrateTo)
	}

	tp := reflect.TypeOf(m)
	for v := meta.Schema + 1; v <= migrateTo; v++ {
		fn, ok := r.migrations[payload{tp: tp, version: v}]
		if !ok {
			return errors.Wrapf(errors.ErrSchema, "migration of %T to version %d not registered", m, v)
		}
		if err := fn(db, m); err != nil {
			return errors.Wrapf(err, "migration to version %d", v)
		}
		meta.Schema = v
	}

	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid after migration")
	}
	return nil
}

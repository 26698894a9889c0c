package migration

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

func init() {
	MustRegister(1, &Schema{}, NoModification)
}

var _ orm.Model = (*Schema)(nil)

// Validate returns an error if the schema declaration is not valid.
func (s *Schema) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if s.Pkg == "" {
		return errors.Wrap(errors.ErrEmpty, "pkg")
	}
	if s.Version < 1 {
		return errors.Wrap(errors.ErrSchema, "version must be greater than zero")
	}
	return nil
}

// SchemaBucket maintains the current schema version of every initialized
// package. One Schema record per package, keyed by the package name.
type SchemaBucket struct {
	b orm.ModelBucket
}

// NewSchemaBucket creates the bucket for schema versions.
func NewSchemaBucket() *SchemaBucket {
	return &SchemaBucket{
		b: orm.NewModelBucket("schema", &Schema{}),
	}
}

// CurrentSchema returns the current schema version of the given package.
// It returns ErrNotFound if the package was never initialized.
func (s *SchemaBucket) CurrentSchema(db weave.ReadOnlyKVStore, packageName string) (uint32, error) {
	var sch Schema
	if err := s.b.One(db, []byte(packageName), &sch); err != nil {
		return 0, errors.Wrapf(err, "schema of package %q", packageName)
	}
	return sch.Version, nil
}

// Save persists a schema version declaration. Versions must be declared in
// order, each new declaration incrementing the current version by one.
func (s *SchemaBucket) Save(db weave.KVStore, sch *Schema) error {
	cur, err := s.CurrentSchema(db, sch.Pkg)
	switch {
	case err == nil:
		if sch.Version != cur+1 {
			return errors.Wrapf(errors.ErrSchema, "package %q version must grow one by one, current %d", sch.Pkg, cur)
		}
	case errors.ErrNotFound.Is(err):
		if sch.Version != 1 {
			return errors.Wrapf(errors.ErrSchema, "package %q initial version must be one", sch.Pkg)
		}
	default:
		return err
	}
	return s.b.Put(db, []byte(sch.Pkg), sch)
}

// CurrentSchema returns the current schema version of the given package.
func CurrentSchema(db weave.ReadOnlyKVStore, packageName string) (uint32, error) {
	return NewSchemaBucket().CurrentSchema(db, packageName)
}

// MustInitPkg initializes given packages to schema version one. This
// function is meant to simplify tests setup. Panics on failure.
func MustInitPkg(db weave.KVStore, packageNames ...string) {
	b := NewSchemaBucket()
	for _, name := range packageNames {
		err := b.Save(db, &Schema{
			Metadata: &weave.Metadata{Schema: 1},
			Pkg:      name,
			Version:  1,
		})
		if err != nil {
			panic(err)
		}
	}
}

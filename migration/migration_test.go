package migration

import (
	"testing"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
)

func TestSchemaBucketVersionsMustGrowOneByOne(t *testing.T) {
	db := store.MemStore()
	b := NewSchemaBucket()

	err := b.Save(db, &Schema{Metadata: &weave.Metadata{Schema: 1}, Pkg: "vault", Version: 2})
	if !errors.ErrSchema.Is(err) {
		t.Fatalf("initial version above one must fail, got %+v", err)
	}

	if err := b.Save(db, &Schema{Metadata: &weave.Metadata{Schema: 1}, Pkg: "vault", Version: 1}); err != nil {
		t.Fatalf("cannot declare initial version: %+v", err)
	}
	if err := b.Save(db, &Schema{Metadata: &weave.Metadata{Schema: 1}, Pkg: "vault", Version: 2}); err != nil {
		t.Fatalf("cannot declare second version: %+v", err)
	}
	err = b.Save(db, &Schema{Metadata: &weave.Metadata{Schema: 1}, Pkg: "vault", Version: 4})
	if !errors.ErrSchema.Is(err) {
		t.Fatalf("version gap must fail, got %+v", err)
	}

	ver, err := b.CurrentSchema(db, "vault")
	if err != nil {
		t.Fatalf("cannot get current schema: %+v", err)
	}
	if ver != 2 {
		t.Fatalf("want version 2, got %d", ver)
	}
}

func TestCurrentSchemaOfUnknownPackage(t *testing.T) {
	db := store.MemStore()
	if _, err := CurrentSchema(db, "unknown"); !errors.ErrNotFound.Is(err) {
		t.Fatalf("uninitialized package must report not found, got %+v", err)
	}
}

func TestApplyRefusesUnsetSchema(t *testing.T) {
	db := store.MemStore()
	s := Schema{Metadata: &weave.Metadata{}, Pkg: "x", Version: 1}
	if err := Apply(db, &s, 1); !errors.ErrSchema.Is(err) {
		t.Fatalf("zero schema version must be rejected, got %+v", err)
	}
}

func TestApplyNoopOnCurrentVersion(t *testing.T) {
	db := store.MemStore()
	s := Schema{Metadata: &weave.Metadata{Schema: 1}, Pkg: "x", Version: 1}
	if err := Apply(db, &s, 1); err != nil {
		t.Fatalf("migration to the same version must be a noop, got %+v", err)
	}
	if s.Metadata.Schema != 1 {
		t.Fatalf("schema version must be unchanged, got %d", s.Metadata.Schema)
	}
}

func TestInitializerFromGenesis(t *testing.T) {
	db := store.MemStore()
	opts := weave.Options{
		"initialize_schema": []byte(`[
			{"pkg": "vault", "ver": 1},
			{"pkg": "trust", "ver": 1}
		]`),
	}
	var ini Initializer
	if err := ini.FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot initialize: %+v", err)
	}
	for _, pkg := range []string{"vault", "trust"} {
		if ver, err := CurrentSchema(db, pkg); err != nil || ver != 1 {
			t.Fatalf("package %q not initialized: version %d, %+v", pkg, ver, err)
		}
	}
}

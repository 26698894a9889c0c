package migration

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Initializer fulfils the Initializer interface to load schema versions
// from the genesis file.
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

// FromGenesis initializes the schema version of every declared package.
// It expects a declaration of the form
//
//   "initialize_schema": [
//     {"pkg": "vault", "ver": 1}
//   ]
//
// and writes all schema versions from one up to the declared one.
func (*Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	var declarations []struct {
		Pkg string `json:"pkg"`
		Ver uint32 `json:"ver"`
	}
	if err := opts.ReadOptions("initialize_schema", &declarations); err != nil {
		return errors.Wrap(err, "cannot load initialize_schema declarations")
	}

	bucket := NewSchemaBucket()
	for i, d := range declarations {
		for v := uint32(1); v <= d.Ver; v++ {
			schema := Schema{
				Metadata: &weave.Metadata{Schema: 1},
				Pkg:      d.Pkg,
				Version:  v,
			}
			if err := bucket.Save(kv, &schema); err != nil {
				return errors.Wrapf(err, "declaration #%d for package %q", i, d.Pkg)
			}
		}
	}
	return nil
}

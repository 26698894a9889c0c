package bazaar

import (
	"encoding/json"

	"github.com/iov-one/bazaar/errors"
)

// Options are the app options, typically parsed from the app_state section
// of the genesis file. Keyed by module name.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key and parses the
// json into the given obj. Returns an error if the key is missing or the
// content cannot be parsed.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "initialization option %q", key)
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "option %q: %s", key, err)
	}
	return nil
}

// Initializer implementations are used to initialize extension state from
// the genesis file. They are combined in the application setup.
type Initializer interface {
	FromGenesis(opts Options, kv KVStore) error
}

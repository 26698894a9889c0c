package bazaar

import "github.com/iov-one/bazaar/errors"

// Validate returns an error if the metadata is not valid. A model or a
// message without metadata, or with a zero schema version, cannot be
// processed.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMsg, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrSchema, "schema version below one")
	}
	return nil
}

// Copy returns a deep copy of this metadata.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	return &Metadata{Schema: m.Schema}
}

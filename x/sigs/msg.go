package sigs

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
)

func init() {
	migration.MustRegister(1, &BumpSequenceMsg{}, migration.NoModification)
}

var _ weave.Msg = (*BumpSequenceMsg)(nil)

// Path implements weave.Msg interface.
func (BumpSequenceMsg) Path() string {
	return "sigs/bump_sequence"
}

// Validate implements weave.Msg interface.
func (msg *BumpSequenceMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Increment < 1 {
		return errors.Wrap(errors.ErrMsg, "increment must be at least one")
	}
	if msg.Increment > 1000 {
		return errors.Wrap(errors.ErrMsg, "increment must not be greater than 1000")
	}
	return nil
}

package freeze

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
)

func init() {
	migration.MustRegister(1, &PanicButtonMsg{}, migration.NoModification)
}

const (
	pathPanicButton = "freeze/panic"
)

var _ weave.Msg = (*PanicButtonMsg)(nil)

// ROUTING, Path method fulfills weave.Msg interface to allow routing

func (PanicButtonMsg) Path() string {
	return pathPanicButton
}

// VALIDATION, Validate method makes sure basic rules are enforced upon
// input data and fulfills weave.Msg interface

func (m *PanicButtonMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Target.Validate(); err != nil {
		return errors.Wrap(err, "target")
	}
	return nil
}

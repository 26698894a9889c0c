package circle

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
)

func init() {
	migration.MustRegister(1, &AssignWitnessesMsg{}, migration.NoModification)
}

const pathAssignWitnesses = "circle/assign"

var _ weave.Msg = (*AssignWitnessesMsg)(nil)

// Path fulfills weave.Msg interface to allow routing.
func (AssignWitnessesMsg) Path() string {
	return pathAssignWitnesses
}

// Validate fulfills weave.Msg interface. An empty witness list is valid,
// it clears the circle.
func (m *AssignWitnessesMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(m.Witnesses) > MaxWitnesses {
		return errors.Wrapf(errors.ErrInput, "max %d witnesses allowed", MaxWitnesses)
	}
	for i, w := range m.Witnesses {
		if err := w.Validate(); err != nil {
			return errors.Wrapf(err, "witness #%d", i)
		}
	}
	return nil
}

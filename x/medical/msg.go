package medical

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
)

func init() {
	migration.MustRegister(1, &DeclareEmergencyMsg{}, migration.NoModification)
	migration.MustRegister(1, &VoteMedicalMsg{}, migration.NoModification)
}

const (
	pathDeclareEmergency = "medical/declare"
	pathVoteMedical      = "medical/vote"
)

var _ weave.Msg = (*DeclareEmergencyMsg)(nil)
var _ weave.Msg = (*VoteMedicalMsg)(nil)

// ROUTING, Path method fulfills weave.Msg interface to allow routing

func (DeclareEmergencyMsg) Path() string {
	return pathDeclareEmergency
}

func (VoteMedicalMsg) Path() string {
	return pathVoteMedical
}

// VALIDATION, Validate method makes sure basic rules are enforced upon
// input data and fulfills weave.Msg interface

func (m *DeclareEmergencyMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Target.Validate(); err != nil {
		return errors.Wrap(err, "target")
	}
	return nil
}

func (m *VoteMedicalMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Target.Validate(); err != nil {
		return errors.Wrap(err, "target")
	}
	return nil
}

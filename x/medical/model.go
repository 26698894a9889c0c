package medical

import (
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/orm"
)

func init() {
	migration.MustRegister(1, &MedicalEmergency{}, migration.NoModification)
}

const (
	// Quorum is the number of witness votes required to unlock.
	Quorum = 3

	// ReleasePercent is the share of funds the unlock signal permits an
	// external release engine to disburse. Advisory only, this module
	// moves no funds.
	ReleasePercent = 15
)

var _ orm.Model = (*MedicalEmergency)(nil)

// Validate ensures the emergency record is consistent.
func (e *MedicalEmergency) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := e.TargetUser.Validate(); err != nil {
		return errors.Wrap(err, "target user")
	}
	if e.IsUnlocked && e.VotesCollected < Quorum {
		return errors.Wrap(errors.ErrModel, "unlocked without quorum")
	}
	return nil
}

// NewBucket returns a bucket for keeping emergencies, keyed by the
// target address.
func NewBucket() orm.ModelBucket {
	return migration.NewModelBucket("medical", orm.NewModelBucket("medical", &MedicalEmergency{}))
}

package circle

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/orm"
)

func init() {
	migration.MustRegister(1, &SecurityCircle{}, migration.NoModification)
}

// MaxWitnesses is the capacity of a security circle.
const MaxWitnesses = 5

var _ orm.Model = (*SecurityCircle)(nil)

// Validate ensures the circle respects the capacity.
func (c *SecurityCircle) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(c.Witnesses) > MaxWitnesses {
		return errors.Wrapf(errors.ErrModel, "max %d witnesses allowed", MaxWitnesses)
	}
	for i, w := range c.Witnesses {
		if err := w.Validate(); err != nil {
			return errors.Wrapf(err, "witness #%d", i)
		}
	}
	return nil
}

// Contains returns true if the given address is a member of the circle.
func (c *SecurityCircle) Contains(addr weave.Address) bool {
	for _, w := range c.Witnesses {
		if w.Equals(addr) {
			return true
		}
	}
	return false
}

// NewBucket returns a bucket for keeping security circles, keyed by the
// owner address.
func NewBucket() orm.ModelBucket {
	return migration.NewModelBucket("circle", orm.NewModelBucket("circle", &SecurityCircle{}))
}

// VerifyWitness is the quorum check shared by both voting protocols. It
// loads the target's circle and confirms the witness is a member. The
// circle puts no limit on how often one member may vote.
func VerifyWitness(db weave.ReadOnlyKVStore, witness, target weave.Address) error {
	var c SecurityCircle
	if err := NewBucket().One(db, target, &c); err != nil {
		return errors.Wrap(err, "no security circle")
	}
	if !c.Contains(witness) {
		return errors.Wrap(errors.ErrUnauthorized, "not a witness")
	}
	return nil
}

package freeze

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/orm"
)

func init() {
	migration.MustRegister(1, &PanicVotes{}, migration.NoModification)
}

const (
	// Quorum is the number of witness votes required to freeze.
	Quorum = 3

	// Residual is how much of the deadman period remains on the target's
	// heartbeat clock once the freeze quorum is reached. One week, so
	// the owner either pings or the heir claims soon after.
	Residual weave.UnixTime = 604800
)

var _ orm.Model = (*PanicVotes)(nil)

// Validate ensures the vote counter is consistent.
func (p *PanicVotes) Validate() error {
	if err := p.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return nil
}

// NewBucket returns a bucket for keeping panic vote counters, keyed by
// the target address.
func NewBucket() orm.ModelBucket {
	return migration.NewModelBucket("freeze", orm.NewModelBucket("freeze", &PanicVotes{}))
}

package vault

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/orm"
)

func init() {
	migration.MustRegister(1, &LegacyVault{}, migration.NoModification)
}

// DeadmanPeriod is the number of seconds of owner inactivity after which
// the heir may claim the vault. 180 days.
const DeadmanPeriod weave.UnixTime = 15552000

var _ orm.Model = (*LegacyVault)(nil)

// Validate ensures the vault is valid. A vault must always name an heir.
func (v *LegacyVault) Validate() error {
	if err := v.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := v.Heir.Validate(); err != nil {
		return errors.Wrap(err, "heir")
	}
	if err := v.LastHeartbeat.Validate(); err != nil {
		return errors.Wrap(err, "last heartbeat")
	}
	return nil
}

// NewBucket returns a bucket for keeping vaults, keyed by the owner
// address.
func NewBucket() orm.ModelBucket {
	return migration.NewModelBucket("vault", orm.NewModelBucket("vault", &LegacyVault{}))
}

// loadVault returns the vault of the given owner, or ErrNotFound.
func loadVault(db weave.ReadOnlyKVStore, b orm.ModelBucket, owner weave.Address) (*LegacyVault, error) {
	var v LegacyVault
	if err := b.One(db, owner, &v); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	return &v, nil
}

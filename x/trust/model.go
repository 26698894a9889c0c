package trust

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/orm"
)

func init() {
	migration.MustRegister(1, &Merchant{}, migration.NoModification)
}

const (
	// TrustCap is the highest trust score a merchant can reach. Vouches
	// past the cap are accepted but change nothing.
	TrustCap = 100

	// StakeBonus is the one time trust grant for bonding a stake.
	StakeBonus = 10

	// DefaultNickname is the name of a merchant that never introduced
	// themselves.
	DefaultNickname = "User"
)

var _ orm.Model = (*Merchant)(nil)

// Validate ensures the merchant record is consistent.
func (m *Merchant) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.TrustScore > TrustCap {
		return errors.Wrapf(errors.ErrModel, "trust score above %d", TrustCap)
	}
	if m.Nickname == "" {
		return errors.Wrap(errors.ErrModel, "nickname is required")
	}
	for i, msg := range m.Messages {
		if err := msg.Sender.Validate(); err != nil {
			return errors.Wrapf(err, "message #%d sender", i)
		}
	}
	return nil
}

// NewBucket returns a bucket for keeping merchant records, keyed by the
// merchant address.
func NewBucket() orm.ModelBucket {
	return migration.NewModelBucket("trust", orm.NewModelBucket("trust", &Merchant{}))
}

// GetOrCreateMerchant returns the merchant stored under the given
// address or a fresh record with zero trust if there is none. The
// fresh record is not persisted by this call.
func GetOrCreateMerchant(db weave.ReadOnlyKVStore, b orm.ModelBucket, addr weave.Address) (*Merchant, error) {
	var m Merchant
	switch err := b.One(db, addr, &m); {
	case err == nil:
		return &m, nil
	case errors.ErrNotFound.Is(err):
		return &Merchant{
			Metadata: &weave.Metadata{Schema: 1},
			Nickname: DefaultNickname,
		}, nil
	default:
		return nil, errors.Wrap(err, "bucket")
	}
}

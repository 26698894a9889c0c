package freeze

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/circle"
	"github.com/iov-one/bazaar/x/vault"
	common "github.com/tendermint/tendermint/libs/common"
)

const panicButtonCost int64 = 0

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	r = migration.SchemaMigratingRegistry("freeze", r)

	r.Handle(&PanicButtonMsg{}, panicButtonHandler{
		auth:   auth,
		b:      NewBucket(),
		vaults: vault.NewBucket(),
	})
}

// RegisterQuery will register this bucket as "/panics".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("panics", qr)
}

// panicButtonHandler counts one witness vote towards freezing the
// target account. Once the quorum is reached every vote, including the
// one reaching it, rewinds the target's heartbeat clock so that only
// the residual window remains before the heir may claim.
type panicButtonHandler struct {
	auth   x.Authenticator
	b      orm.ModelBucket
	vaults orm.ModelBucket
}

var _ weave.Handler = panicButtonHandler{}

func (h panicButtonHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: panicButtonCost}, nil
}

func (h panicButtonHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, votes, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	votes.Votes++
	if err := h.b.Put(db, msg.Target, votes); err != nil {
		return nil, errors.Wrap(err, "save votes")
	}

	var tags []common.KVPair
	if v != nil {
		now, err := weave.BlockTime(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "block time")
		}
		v.IsFrozen = true
		v.LastHeartbeat = weave.AsUnixTime(now) - (vault.DeadmanPeriod - Residual)
		if err := h.vaults.Put(db, msg.Target, v); err != nil {
			return nil, errors.Wrap(err, "save vault")
		}
		tags = append(tags, common.KVPair{
			Key:   []byte("freeze:applied"),
			Value: []byte(msg.Target.String()),
		})
	}

	return &weave.DeliverResult{Tags: tags}, nil
}

// validate loads the vote counter, a missing record counting as zero
// votes. When this vote reaches or exceeds the quorum the target's
// vault is loaded as well, its absence failing the whole vote.
func (h panicButtonHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*PanicButtonMsg, *PanicVotes, *vault.LegacyVault, error) {
	var msg PanicButtonMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}

	witness := x.MainSigner(ctx, h.auth)
	if witness == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if err := circle.VerifyWitness(db, witness.Address(), msg.Target); err != nil {
		return nil, nil, nil, err
	}

	votes := PanicVotes{Metadata: &weave.Metadata{Schema: 1}}
	switch err := h.b.One(db, msg.Target, &votes); {
	case err == nil:
		// continue an existing count
	case errors.ErrNotFound.Is(err):
		// first vote for this target
	default:
		return nil, nil, nil, errors.Wrap(err, "bucket")
	}

	if votes.Votes+1 < Quorum {
		return &msg, &votes, nil, nil
	}

	var v vault.LegacyVault
	if err := h.vaults.One(db, msg.Target, &v); err != nil {
		return nil, nil, nil, errors.Wrap(err, "no vault")
	}
	return &msg, &votes, &v, nil
}

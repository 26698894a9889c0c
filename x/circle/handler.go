package circle

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/x"
)

const assignWitnessesCost int64 = 0

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	r = migration.SchemaMigratingRegistry("circle", r)
	r.Handle(&AssignWitnessesMsg{}, assignWitnessesHandler{
		auth: auth,
		b:    NewBucket(),
	})
}

// RegisterQuery will register this bucket as "/circles".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("circles", qr)
}

// assignWitnessesHandler replaces the main signer's circle wholesale.
// There is no incremental add or remove, no deduplication and no check
// against the owner naming itself.
type assignWitnessesHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

var _ weave.Handler = assignWitnessesHandler{}

func (h assignWitnessesHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: assignWitnessesCost}, nil
}

func (h assignWitnessesHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	c := &SecurityCircle{
		Metadata:  msg.Metadata,
		Witnesses: msg.Witnesses,
	}
	if err := h.b.Put(db, owner, c); err != nil {
		return nil, errors.Wrap(err, "save circle")
	}

	return &weave.DeliverResult{}, nil
}

func (h assignWitnessesHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*AssignWitnessesMsg, weave.Address, error) {
	var msg AssignWitnessesMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner := x.MainSigner(ctx, h.auth)
	if owner == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return &msg, owner.Address(), nil
}

package medical

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/circle"
	common "github.com/tendermint/tendermint/libs/common"
)

const (
	declareEmergencyCost int64 = 0
	voteMedicalCost      int64 = 0
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	r = migration.SchemaMigratingRegistry("medical", r)
	bucket := NewBucket()

	r.Handle(&DeclareEmergencyMsg{}, declareEmergencyHandler{b: bucket})
	r.Handle(&VoteMedicalMsg{}, voteMedicalHandler{auth: auth, b: bucket})
}

// RegisterQuery will register this bucket as "/emergencies".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("emergencies", qr)
}

// declareEmergencyHandler opens an emergency for any target. Declaring
// requires no authorization, anyone may open an emergency for anyone.
type declareEmergencyHandler struct {
	b orm.ModelBucket
}

var _ weave.Handler = declareEmergencyHandler{}

func (h declareEmergencyHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: declareEmergencyCost}, nil
}

func (h declareEmergencyHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	emergency := &MedicalEmergency{
		Metadata:       msg.Metadata,
		TargetUser:     msg.Target,
		VotesCollected: 0,
		IsUnlocked:     false,
	}
	if err := h.b.Put(db, msg.Target, emergency); err != nil {
		return nil, errors.Wrap(err, "save emergency")
	}

	return &weave.DeliverResult{}, nil
}

func (h declareEmergencyHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*DeclareEmergencyMsg, error) {
	var msg DeclareEmergencyMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	switch err := h.b.Has(db, msg.Target); {
	case err == nil:
		return nil, errors.Wrap(errors.ErrDuplicate, "emergency already active")
	case errors.ErrNotFound.Is(err):
		// good, no active emergency yet
	default:
		return nil, errors.Wrap(err, "bucket")
	}

	return &msg, nil
}

// voteMedicalHandler counts one witness vote. Votes of the same witness
// are not deduplicated. Once the quorum is collected the unlock flag is
// set and stays set.
type voteMedicalHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

var _ weave.Handler = voteMedicalHandler{}

func (h voteMedicalHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: voteMedicalCost}, nil
}

func (h voteMedicalHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, emergency, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	emergency.VotesCollected++

	var tags []common.KVPair
	if emergency.VotesCollected >= Quorum && !emergency.IsUnlocked {
		emergency.IsUnlocked = true
		// advisory signal for the external release engine
		tags = append(tags, common.KVPair{
			Key:   []byte("medical:unlock"),
			Value: []byte(msg.Target.String()),
		})
	}

	if err := h.b.Put(db, msg.Target, emergency); err != nil {
		return nil, errors.Wrap(err, "save emergency")
	}

	return &weave.DeliverResult{Tags: tags}, nil
}

func (h voteMedicalHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*VoteMedicalMsg, *MedicalEmergency, error) {
	var msg VoteMedicalMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	witness := x.MainSigner(ctx, h.auth)
	if witness == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if err := circle.VerifyWitness(db, witness.Address(), msg.Target); err != nil {
		return nil, nil, err
	}

	var emergency MedicalEmergency
	if err := h.b.One(db, msg.Target, &emergency); err != nil {
		return nil, nil, errors.Wrap(err, "no emergency")
	}

	return &msg, &emergency, nil
}

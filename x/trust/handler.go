package trust

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/x"
)

const (
	stakeCost       int64 = 100
	vouchCost       int64 = 0
	setNicknameCost int64 = 0
	sendMessageCost int64 = 0
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	r = migration.SchemaMigratingRegistry("trust", r)
	bucket := NewBucket()

	r.Handle(&StakeMsg{}, stakeHandler{auth: auth, b: bucket})
	r.Handle(&VouchMsg{}, vouchHandler{auth: auth, b: bucket})
	r.Handle(&SetNicknameMsg{}, setNicknameHandler{auth: auth, b: bucket})
	r.Handle(&SendMessageMsg{}, sendMessageHandler{auth: auth, b: bucket})
}

// RegisterQuery will register this bucket as "/merchants". A missing
// merchant record reads as zero trust, so clients treat a not found
// response the same way.
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("merchants", qr)
}

// stakeHandler bonds the signer's stake for a one time trust bonus.
type stakeHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

var _ weave.Handler = stakeHandler{}

func (h stakeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: stakeCost}, nil
}

func (h stakeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	signer, merchant, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	merchant.BondStaked = true
	merchant.TrustScore += StakeBonus
	if merchant.TrustScore > TrustCap {
		merchant.TrustScore = TrustCap
	}
	if err := h.b.Put(db, signer, merchant); err != nil {
		return nil, errors.Wrap(err, "save merchant")
	}

	return &weave.DeliverResult{Data: signer}, nil
}

func (h stakeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Address, *Merchant, error) {
	var msg StakeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}

	merchant, err := GetOrCreateMerchant(db, h.b, signer.Address())
	if err != nil {
		return nil, nil, err
	}
	if merchant.BondStaked {
		return nil, nil, errors.Wrap(errors.ErrState, "already bonded")
	}
	return signer.Address(), merchant, nil
}

// vouchHandler grants one point of trust to an existing merchant. Once
// the target hits the cap further vouches succeed without effect.
type vouchHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

var _ weave.Handler = vouchHandler{}

func (h vouchHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: vouchCost}, nil
}

func (h vouchHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, merchant, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if merchant.TrustScore >= TrustCap {
		return &weave.DeliverResult{}, nil
	}
	merchant.TrustScore++
	if err := h.b.Put(db, msg.Target, merchant); err != nil {
		return nil, errors.Wrap(err, "save merchant")
	}

	return &weave.DeliverResult{}, nil
}

func (h vouchHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*VouchMsg, *Merchant, error) {
	var msg VouchMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	if x.MainSigner(ctx, h.auth) == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}

	var merchant Merchant
	if err := h.b.One(db, msg.Target, &merchant); err != nil {
		return nil, nil, errors.Wrap(err, "no merchant")
	}
	return &msg, &merchant, nil
}

// setNicknameHandler renames the signer's merchant record, creating a
// fresh record if there is none yet.
type setNicknameHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

var _ weave.Handler = setNicknameHandler{}

func (h setNicknameHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: setNicknameCost}, nil
}

func (h setNicknameHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, signer, merchant, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	merchant.Nickname = msg.Nickname
	if err := h.b.Put(db, signer, merchant); err != nil {
		return nil, errors.Wrap(err, "save merchant")
	}

	return &weave.DeliverResult{}, nil
}

func (h setNicknameHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SetNicknameMsg, weave.Address, *Merchant, error) {
	var msg SetNicknameMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}

	merchant, err := GetOrCreateMerchant(db, h.b, signer.Address())
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, signer.Address(), merchant, nil
}

// sendMessageHandler appends a message to the recipient's inbox. The
// inbox is created on first delivery, any address can receive mail.
type sendMessageHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

var _ weave.Handler = sendMessageHandler{}

func (h sendMessageHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: sendMessageCost}, nil
}

func (h sendMessageHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, sender, merchant, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	now, err := weave.BlockTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	merchant.Messages = append(merchant.Messages, &Message{
		Sender:    sender,
		Text:      msg.Text,
		Timestamp: weave.AsUnixTime(now),
	})
	if err := h.b.Put(db, msg.Recipient, merchant); err != nil {
		return nil, errors.Wrap(err, "save merchant")
	}

	return &weave.DeliverResult{}, nil
}

func (h sendMessageHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SendMessageMsg, weave.Address, *Merchant, error) {
	var msg SendMessageMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}

	sender := x.MainSigner(ctx, h.auth)
	if sender == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}

	merchant, err := GetOrCreateMerchant(db, h.b, msg.Recipient)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, sender.Address(), merchant, nil
}

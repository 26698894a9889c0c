package vault

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/x"
	common "github.com/tendermint/tendermint/libs/common"
)

const (
	createVaultCost int64 = 100
	pingCost        int64 = 0
	claimCost       int64 = 0
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	r = migration.SchemaMigratingRegistry("vault", r)
	bucket := NewBucket()

	r.Handle(&CreateVaultMsg{}, createVaultHandler{auth: auth, b: bucket})
	r.Handle(&PingHeartbeatMsg{}, pingHeartbeatHandler{auth: auth, b: bucket})
	r.Handle(&ClaimLegacyMsg{}, claimLegacyHandler{auth: auth, b: bucket})
}

// RegisterQuery will register this bucket as "/vaults".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("vaults", qr)
}

// createVaultHandler stores a fresh vault under the main signer,
// replacing any previous vault unconditionally.
type createVaultHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

var _ weave.Handler = createVaultHandler{}

func (h createVaultHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: createVaultCost}, nil
}

func (h createVaultHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	now, err := weave.BlockTime(ctx)
	if err != nil {
		return nil, err
	}

	// no guard against an existing vault, a second create replaces the
	// whole record
	vault := &LegacyVault{
		Metadata:      msg.Metadata,
		Heir:          msg.Heir,
		LastHeartbeat: weave.AsUnixTime(now),
		IsLocked:      true,
		IsFrozen:      false,
	}
	if err := h.b.Put(db, owner, vault); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}

	return &weave.DeliverResult{Data: owner}, nil
}

func (h createVaultHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CreateVaultMsg, weave.Address, error) {
	var msg CreateVaultMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner := x.MainSigner(ctx, h.auth)
	if owner == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return &msg, owner.Address(), nil
}

// pingHeartbeatHandler resets the deadman timer and clears a panic
// freeze. Pinging is the owner's only way to cancel a freeze.
type pingHeartbeatHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

var _ weave.Handler = pingHeartbeatHandler{}

func (h pingHeartbeatHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: pingCost}, nil
}

func (h pingHeartbeatHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	vault, owner, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	now, err := weave.BlockTime(ctx)
	if err != nil {
		return nil, err
	}

	vault.IsFrozen = false
	vault.LastHeartbeat = weave.AsUnixTime(now)
	if err := h.b.Put(db, owner, vault); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}

	return &weave.DeliverResult{}, nil
}

func (h pingHeartbeatHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*LegacyVault, weave.Address, error) {
	var msg PingHeartbeatMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	owner := x.MainSigner(ctx, h.auth)
	if owner == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	vault, err := loadVault(db, h.b, owner.Address())
	if err != nil {
		return nil, nil, err
	}
	return vault, owner.Address(), nil
}

// claimLegacyHandler lets the heir trigger the release once the owner
// was inactive for the whole deadman period. The actual asset transfer
// is the job of an external release engine, a claim only signals it via
// a transaction tag. The vault record is not modified, so a claim stays
// repeatable.
type claimLegacyHandler struct {
	auth x.Authenticator
	b    orm.ModelBucket
}

var _ weave.Handler = claimLegacyHandler{}

func (h claimLegacyHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: claimCost}, nil
}

func (h claimLegacyHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	res := &weave.DeliverResult{
		Data: vault.Heir,
		Tags: []common.KVPair{
			{Key: []byte("vault:release"), Value: []byte(msg.Owner.String())},
		},
	}
	return res, nil
}

func (h claimLegacyHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ClaimLegacyMsg, *LegacyVault, error) {
	var msg ClaimLegacyMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	vault, err := loadVault(db, h.b, msg.Owner)
	if err != nil {
		return nil, nil, err
	}

	// only the stored heir can trigger a claim
	if !h.auth.HasAddress(ctx, vault.Heir) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not the heir")
	}

	now, err := weave.BlockTime(ctx)
	if err != nil {
		return nil, nil, err
	}
	elapsed := weave.AsUnixTime(now) - vault.LastHeartbeat
	if elapsed < DeadmanPeriod {
		return nil, nil, errors.Wrap(errors.ErrState, "owner still alive")
	}

	return &msg, vault, nil
}

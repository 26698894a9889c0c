package vault

import (
	"context"
	"testing"
	"time"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/x"
)

var (
	now = time.Unix(1500000000, 0)

	ownerCond = bazaartest.NewCondition()
	heirCond  = bazaartest.NewCondition()
)

func newContextAt(t time.Time) weave.Context {
	return weave.WithBlockTime(context.Background(), t)
}

func newRouter(auth x.Authenticator) *app.Router {
	rt := app.NewRouter()
	RegisterRoutes(rt, auth)
	return rt
}

func TestCreateVault(t *testing.T) {
	cases := map[string]struct {
		msg            weave.Msg
		conditions     []weave.Condition
		wantDeliverErr *errors.Error
	}{
		"success": {
			msg: &CreateVaultMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Heir:     heirCond.Address(),
			},
			conditions: []weave.Condition{ownerCond},
		},
		"missing signature": {
			msg: &CreateVaultMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Heir:     heirCond.Address(),
			},
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"missing heir": {
			msg: &CreateVaultMsg{
				Metadata: &weave.Metadata{Schema: 1},
			},
			conditions:     []weave.Condition{ownerCond},
			wantDeliverErr: errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, "vault")

			rt := newRouter(&bazaartest.Auth{Signers: tc.conditions})
			tx := &bazaartest.Tx{Msg: tc.msg}

			_, err := rt.Deliver(newContextAt(now), db, tx)
			if tc.wantDeliverErr != nil {
				assert.IsErr(t, tc.wantDeliverErr, err)
				return
			}
			assert.Nil(t, err)

			var vault LegacyVault
			assert.Nil(t, NewBucket().One(db, ownerCond.Address(), &vault))
			assert.Equal(t, weave.AsUnixTime(now), vault.LastHeartbeat)
			assert.Equal(t, true, vault.IsLocked)
			assert.Equal(t, false, vault.IsFrozen)
			assert.Equal(t, true, vault.Heir.Equals(heirCond.Address()))
		})
	}
}

func TestCreateVaultOverwrites(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "vault")
	rt := newRouter(&bazaartest.Auth{Signer: ownerCond})

	firstHeir := bazaartest.NewCondition().Address()
	tx := &bazaartest.Tx{Msg: &CreateVaultMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Heir:     firstHeir,
	}}
	_, err := rt.Deliver(newContextAt(now), db, tx)
	assert.Nil(t, err)

	// a second create is not rejected, it replaces the whole record
	tx = &bazaartest.Tx{Msg: &CreateVaultMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Heir:     heirCond.Address(),
	}}
	later := now.Add(5 * time.Hour)
	_, err = rt.Deliver(newContextAt(later), db, tx)
	assert.Nil(t, err)

	var vault LegacyVault
	assert.Nil(t, NewBucket().One(db, ownerCond.Address(), &vault))
	assert.Equal(t, true, vault.Heir.Equals(heirCond.Address()))
	assert.Equal(t, weave.AsUnixTime(later), vault.LastHeartbeat)
}

func TestPingHeartbeat(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "vault")
	rt := newRouter(&bazaartest.Auth{Signer: ownerCond})

	ping := &bazaartest.Tx{Msg: &PingHeartbeatMsg{
		Metadata: &weave.Metadata{Schema: 1},
	}}

	// without a vault there is nothing to ping
	_, err := rt.Deliver(newContextAt(now), db, ping)
	assert.IsErr(t, errors.ErrNotFound, err)

	b := NewBucket()
	assert.Nil(t, b.Put(db, ownerCond.Address(), &LegacyVault{
		Metadata:      &weave.Metadata{Schema: 1},
		Heir:          heirCond.Address(),
		LastHeartbeat: weave.AsUnixTime(now),
		IsLocked:      true,
		IsFrozen:      true,
	}))

	later := now.Add(72 * time.Hour)
	_, err = rt.Deliver(newContextAt(later), db, ping)
	assert.Nil(t, err)

	// the ping moved the timer and lifted the freeze
	var vault LegacyVault
	assert.Nil(t, b.One(db, ownerCond.Address(), &vault))
	assert.Equal(t, weave.AsUnixTime(later), vault.LastHeartbeat)
	assert.Equal(t, false, vault.IsFrozen)
}

func TestClaimLegacy(t *testing.T) {
	created := weave.AsUnixTime(now)

	cases := map[string]struct {
		at             time.Time
		signer         weave.Condition
		wantDeliverErr *errors.Error
	}{
		"claim after the deadman period": {
			at:     created.Time().Add(time.Duration(DeadmanPeriod) * time.Second),
			signer: heirCond,
		},
		"claim one second early": {
			at:             created.Time().Add(time.Duration(DeadmanPeriod)*time.Second - time.Second),
			signer:         heirCond,
			wantDeliverErr: errors.ErrState,
		},
		"the owner cannot claim": {
			at:             created.Time().Add(time.Duration(DeadmanPeriod) * time.Second),
			signer:         ownerCond,
			wantDeliverErr: errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, "vault")

			b := NewBucket()
			assert.Nil(t, b.Put(db, ownerCond.Address(), &LegacyVault{
				Metadata:      &weave.Metadata{Schema: 1},
				Heir:          heirCond.Address(),
				LastHeartbeat: created,
				IsLocked:      true,
			}))

			rt := newRouter(&bazaartest.Auth{Signer: tc.signer})
			tx := &bazaartest.Tx{Msg: &ClaimLegacyMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Owner:    ownerCond.Address(),
			}}

			res, err := rt.Deliver(newContextAt(tc.at), db, tx)
			if tc.wantDeliverErr != nil {
				assert.IsErr(t, tc.wantDeliverErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, []byte(heirCond.Address()), res.Data)

			// the vault is untouched, a claim stays repeatable
			var vault LegacyVault
			assert.Nil(t, b.One(db, ownerCond.Address(), &vault))
			assert.Equal(t, created, vault.LastHeartbeat)

			_, err = rt.Deliver(newContextAt(tc.at), db, tx)
			assert.Nil(t, err)
		})
	}
}

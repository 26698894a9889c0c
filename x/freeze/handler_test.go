package freeze

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
	"github.com/iov-one/bazaar/x/circle"
	"github.com/iov-one/bazaar/x/vault"
)

var now = time.Unix(1500000000, 0)

type fixture struct {
	db       weave.CacheableKVStore
	target   weave.Address
	heir     weave.Address
	witness  weave.Condition
	stranger weave.Condition
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:       store.MemStore(),
		target:   bazaartest.NewCondition().Address(),
		heir:     bazaartest.NewCondition().Address(),
		witness:  bazaartest.NewCondition(),
		stranger: bazaartest.NewCondition(),
	}
	migration.MustInitPkg(f.db, "freeze", "circle", "vault")

	assert.Nil(t, circle.NewBucket().Put(f.db, f.target, &circle.SecurityCircle{
		Metadata:  &weave.Metadata{Schema: 1},
		Witnesses: []weave.Address{f.witness.Address()},
	}))
	return f
}

func (f *fixture) storeVault(t testing.TB) {
	t.Helper()
	assert.Nil(t, vault.NewBucket().Put(f.db, f.target, &vault.LegacyVault{
		Metadata:      &weave.Metadata{Schema: 1},
		Heir:          f.heir,
		LastHeartbeat: weave.AsUnixTime(now),
		IsLocked:      true,
	}))
}

func (f *fixture) vote(signer weave.Condition) (*weave.DeliverResult, error) {
	rt := app.NewRouter()
	RegisterRoutes(rt, &bazaartest.Auth{Signer: signer})
	ctx := weave.WithBlockTime(context.Background(), now)
	tx := &bazaartest.Tx{Msg: &PanicButtonMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Target:   f.target,
	}}
	return rt.Deliver(ctx, f.db, tx)
}

func TestPanicButtonRequiresWitness(t *testing.T) {
	f := newFixture(t)
	f.storeVault(t)

	_, err := f.vote(f.stranger)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = f.vote(nil)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestPanicButtonWithoutCircle(t *testing.T) {
	f := newFixture(t)
	f.storeVault(t)
	outsider := bazaartest.NewCondition().Address()

	rt := app.NewRouter()
	RegisterRoutes(rt, &bazaartest.Auth{Signer: f.witness})
	ctx := weave.WithBlockTime(context.Background(), now)
	tx := &bazaartest.Tx{Msg: &PanicButtonMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Target:   outsider,
	}}
	_, err := rt.Deliver(ctx, f.db, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestPanicButtonQuorumFreezes(t *testing.T) {
	f := newFixture(t)
	f.storeVault(t)

	// two votes only count
	for i := 1; i <= 2; i++ {
		res, err := f.vote(f.witness)
		assert.Nil(t, err)
		assert.Equal(t, 0, len(res.Tags))

		var votes PanicVotes
		assert.Nil(t, NewBucket().One(f.db, f.target, &votes))
		assert.Equal(t, uint32(i), votes.Votes)

		var v vault.LegacyVault
		assert.Nil(t, vault.NewBucket().One(f.db, f.target, &v))
		assert.Equal(t, false, v.IsFrozen)
		assert.Equal(t, weave.AsUnixTime(now), v.LastHeartbeat)
	}

	// the third vote reaches the quorum and rewinds the clock
	res, err := f.vote(f.witness)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res.Tags))
	assert.Equal(t, "freeze:applied", string(res.Tags[0].Key))

	var v vault.LegacyVault
	assert.Nil(t, vault.NewBucket().One(f.db, f.target, &v))
	assert.Equal(t, true, v.IsFrozen)
	wantBeat := weave.AsUnixTime(now) - (vault.DeadmanPeriod - Residual)
	assert.Equal(t, wantBeat, v.LastHeartbeat)
}

func TestPanicButtonReappliesPastQuorum(t *testing.T) {
	f := newFixture(t)
	f.storeVault(t)

	for i := 0; i < 3; i++ {
		_, err := f.vote(f.witness)
		assert.Nil(t, err)
	}

	// the owner pings the freeze away
	var v vault.LegacyVault
	assert.Nil(t, vault.NewBucket().One(f.db, f.target, &v))
	v.IsFrozen = false
	v.LastHeartbeat = weave.AsUnixTime(now)
	assert.Nil(t, vault.NewBucket().Put(f.db, f.target, &v))

	// a fourth vote freezes again
	res, err := f.vote(f.witness)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res.Tags))

	assert.Nil(t, vault.NewBucket().One(f.db, f.target, &v))
	assert.Equal(t, true, v.IsFrozen)
	wantBeat := weave.AsUnixTime(now) - (vault.DeadmanPeriod - Residual)
	assert.Equal(t, wantBeat, v.LastHeartbeat)

	var votes PanicVotes
	assert.Nil(t, NewBucket().One(f.db, f.target, &votes))
	assert.Equal(t, uint32(4), votes.Votes)
}

func TestPanicButtonWithoutVaultAtQuorum(t *testing.T) {
	f := newFixture(t)
	// no vault stored

	for i := 1; i <= 2; i++ {
		_, err := f.vote(f.witness)
		assert.Nil(t, err)
	}

	_, err := f.vote(f.witness)
	assert.IsErr(t, errors.ErrNotFound, err)

	// the failed vote did not count
	var votes PanicVotes
	assert.Nil(t, NewBucket().One(f.db, f.target, &votes))
	assert.Equal(t, uint32(2), votes.Votes)
}

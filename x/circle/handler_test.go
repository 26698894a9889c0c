package circle

import (
	"context"
	"testing"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/store"
)

func witnessAddresses(n int) []weave.Address {
	addrs := make([]weave.Address, n)
	for i := range addrs {
		addrs[i] = bazaartest.NewCondition().Address()
	}
	return addrs
}

func TestAssignWitnesses(t *testing.T) {
	ownerCond := bazaartest.NewCondition()

	cases := map[string]struct {
		witnesses      []weave.Address
		signer         weave.Condition
		wantDeliverErr *errors.Error
	}{
		"five witnesses": {
			witnesses: witnessAddresses(5),
			signer:    ownerCond,
		},
		"empty circle": {
			witnesses: nil,
			signer:    ownerCond,
		},
		"six witnesses is too many": {
			witnesses:      witnessAddresses(6),
			signer:         ownerCond,
			wantDeliverErr: errors.ErrInput,
		},
		"duplicates are not rejected": {
			witnesses: func() []weave.Address {
				w := bazaartest.NewCondition().Address()
				return []weave.Address{w, w, w}
			}(),
			signer: ownerCond,
		},
		"missing signature": {
			witnesses:      witnessAddresses(1),
			wantDeliverErr: errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, "circle")

			rt := app.NewRouter()
			RegisterRoutes(rt, &bazaartest.Auth{Signer: tc.signer})

			tx := &bazaartest.Tx{Msg: &AssignWitnessesMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Witnesses: tc.witnesses,
			}}

			_, err := rt.Deliver(context.Background(), db, tx)
			if tc.wantDeliverErr != nil {
				assert.IsErr(t, tc.wantDeliverErr, err)
				return
			}
			assert.Nil(t, err)

			var c SecurityCircle
			assert.Nil(t, NewBucket().One(db, ownerCond.Address(), &c))
			assert.Equal(t, len(tc.witnesses), len(c.Witnesses))
		})
	}
}

func TestAssignWitnessesOverwrites(t *testing.T) {
	ownerCond := bazaartest.NewCondition()

	db := store.MemStore()
	migration.MustInitPkg(db, "circle")

	rt := app.NewRouter()
	RegisterRoutes(rt, &bazaartest.Auth{Signer: ownerCond})

	first := witnessAddresses(5)
	tx := &bazaartest.Tx{Msg: &AssignWitnessesMsg{
		Metadata:  &weave.Metadata{Schema: 1},
		Witnesses: first,
	}}
	_, err := rt.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)

	second := witnessAddresses(2)
	tx = &bazaartest.Tx{Msg: &AssignWitnessesMsg{
		Metadata:  &weave.Metadata{Schema: 1},
		Witnesses: second,
	}}
	_, err = rt.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)

	var c SecurityCircle
	assert.Nil(t, NewBucket().One(db, ownerCond.Address(), &c))
	assert.Equal(t, 2, len(c.Witnesses))
	assert.Equal(t, true, c.Contains(second[0]))
	assert.Equal(t, false, c.Contains(first[0]))
}

func TestVerifyWitness(t *testing.T) {
	target := bazaartest.NewCondition().Address()
	member := bazaartest.NewCondition().Address()
	stranger := bazaartest.NewCondition().Address()

	db := store.MemStore()
	migration.MustInitPkg(db, "circle")

	// no circle at all
	assert.IsErr(t, errors.ErrNotFound, VerifyWitness(db, member, target))

	assert.Nil(t, NewBucket().Put(db, target, &SecurityCircle{
		Metadata:  &weave.Metadata{Schema: 1},
		Witnesses: []weave.Address{member},
	}))

	assert.Nil(t, VerifyWitness(db, member, target))
	assert.IsErr(t, errors.ErrUnauthorized, VerifyWitness(db, stranger, target))
}

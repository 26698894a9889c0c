package medical

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
	"github.com/iov-one/bazaar/x/circle"
)

func newMedicalStore(t testing.TB) weave.CacheableKVStore {
	t.Helper()
	db := store.MemStore()
	migration.MustInitPkg(db, "medical", "circle")
	return db
}

func newRouter(auth *bazaartest.Auth) *app.Router {
	rt := app.NewRouter()
	RegisterRoutes(rt, auth)
	return rt
}

func TestDeclareEmergency(t *testing.T) {
	target := bazaartest.NewCondition().Address()

	cases := map[string]struct {
		signer         weave.Condition
		existing       bool
		wantDeliverErr *errors.Error
	}{
		"anyone can declare, even unsigned": {
			signer: nil,
		},
		"signed declaration works too": {
			signer: bazaartest.NewCondition(),
		},
		"second declaration is rejected": {
			signer:         bazaartest.NewCondition(),
			existing:       true,
			wantDeliverErr: errors.ErrDuplicate,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newMedicalStore(t)
			rt := newRouter(&bazaartest.Auth{Signer: tc.signer})

			if tc.existing {
				assert.Nil(t, NewBucket().Put(db, target, &MedicalEmergency{
					Metadata:   &weave.Metadata{Schema: 1},
					TargetUser: target,
				}))
			}

			tx := &bazaartest.Tx{Msg: &DeclareEmergencyMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Target:   target,
			}}
			_, err := rt.Deliver(context.Background(), db, tx)
			if tc.wantDeliverErr != nil {
				assert.IsErr(t, tc.wantDeliverErr, err)
				return
			}
			assert.Nil(t, err)

			var e MedicalEmergency
			assert.Nil(t, NewBucket().One(db, target, &e))
			assert.Equal(t, uint32(0), e.VotesCollected)
			assert.Equal(t, false, e.IsUnlocked)
		})
	}
}

func TestVoteMedical(t *testing.T) {
	targetCond := bazaartest.NewCondition()
	target := targetCond.Address()
	witnessCond := bazaartest.NewCondition()

	setupCircle := func(t *testing.T, db weave.KVStore) {
		t.Helper()
		assert.Nil(t, circle.NewBucket().Put(db, target, &circle.SecurityCircle{
			Metadata:  &weave.Metadata{Schema: 1},
			Witnesses: []weave.Address{witnessCond.Address()},
		}))
	}
	declare := func(t *testing.T, db weave.KVStore) {
		t.Helper()
		assert.Nil(t, NewBucket().Put(db, target, &MedicalEmergency{
			Metadata:   &weave.Metadata{Schema: 1},
			TargetUser: target,
		}))
	}
	voteTx := &bazaartest.Tx{Msg: &VoteMedicalMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Target:   target,
	}}

	t.Run("non witness cannot vote", func(t *testing.T) {
		db := newMedicalStore(t)
		setupCircle(t, db)
		declare(t, db)
		rt := newRouter(&bazaartest.Auth{Signer: bazaartest.NewCondition()})
		_, err := rt.Deliver(context.Background(), db, voteTx)
		assert.IsErr(t, errors.ErrUnauthorized, err)
	})

	t.Run("no circle means no vote", func(t *testing.T) {
		db := newMedicalStore(t)
		declare(t, db)
		rt := newRouter(&bazaartest.Auth{Signer: witnessCond})
		_, err := rt.Deliver(context.Background(), db, voteTx)
		assert.IsErr(t, errors.ErrNotFound, err)
	})

	t.Run("no emergency means no vote", func(t *testing.T) {
		db := newMedicalStore(t)
		setupCircle(t, db)
		rt := newRouter(&bazaartest.Auth{Signer: witnessCond})
		_, err := rt.Deliver(context.Background(), db, voteTx)
		assert.IsErr(t, errors.ErrNotFound, err)
	})

	t.Run("third vote unlocks and stays unlocked", func(t *testing.T) {
		db := newMedicalStore(t)
		setupCircle(t, db)
		declare(t, db)
		rt := newRouter(&bazaartest.Auth{Signer: witnessCond})

		for i := 1; i <= 2; i++ {
			res, err := rt.Deliver(context.Background(), db, voteTx)
			assert.Nil(t, err)
			assert.Equal(t, 0, len(res.Tags))

			var e MedicalEmergency
			assert.Nil(t, NewBucket().One(db, target, &e))
			assert.Equal(t, uint32(i), e.VotesCollected)
			assert.Equal(t, false, e.IsUnlocked)
		}

		res, err := rt.Deliver(context.Background(), db, voteTx)
		assert.Nil(t, err)
		assert.Equal(t, 1, len(res.Tags))
		assert.Equal(t, "medical:unlock", string(res.Tags[0].Key))

		var e MedicalEmergency
		assert.Nil(t, NewBucket().One(db, target, &e))
		assert.Equal(t, uint32(3), e.VotesCollected)
		assert.Equal(t, true, e.IsUnlocked)

		// a fourth vote still counts but emits no second unlock tag
		res, err = rt.Deliver(context.Background(), db, voteTx)
		assert.Nil(t, err)
		assert.Equal(t, 0, len(res.Tags))
		assert.Nil(t, NewBucket().One(db, target, &e))
		assert.Equal(t, uint32(4), e.VotesCollected)
		assert.Equal(t, true, e.IsUnlocked)
	})
}

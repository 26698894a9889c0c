package sigs

import (
	"context"
	"testing"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/store"
)

func TestBumpSequenceMsgValidate(t *testing.T) {
	cases := map[string]struct {
		msg     BumpSequenceMsg
		wantErr *errors.Error
	}{
		"valid": {
			msg: BumpSequenceMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Increment: 1,
			},
		},
		"missing metadata": {
			msg: BumpSequenceMsg{
				Increment: 1,
			},
			wantErr: errors.ErrMsg,
		},
		"zero increment": {
			msg: BumpSequenceMsg{
				Metadata: &weave.Metadata{Schema: 1},
			},
			wantErr: errors.ErrMsg,
		},
		"increment too big": {
			msg: BumpSequenceMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Increment: 1001,
			},
			wantErr: errors.ErrMsg,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, tc.msg.Validate())
			} else {
				assert.Nil(t, tc.msg.Validate())
			}
		})
	}
}

func TestBumpSequenceHandler(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()

	cases := map[string]struct {
		increment    uint32
		initSequence int64
		signer       weave.Condition
		wantErr      *errors.Error
		wantSequence int64
	}{
		"increment of one keeps the sequence at its post-signature value": {
			increment:    1,
			initSequence: 3,
			signer:       pub.Condition(),
			wantSequence: 3,
		},
		"increment of many": {
			increment:    20,
			initSequence: 3,
			signer:       pub.Condition(),
			wantSequence: 22,
		},
		"missing signer": {
			increment: 1,
			wantErr:   errors.ErrUnauthorized,
		},
		"unknown account": {
			increment: 1,
			signer:    bazaartest.NewCondition(),
			wantErr:   errors.ErrNotFound,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			migration.MustInitPkg(db, "sigs")

			b := NewBucket()
			user := &UserData{
				Metadata: &weave.Metadata{Schema: 1},
				Pubkey:   pub,
				Sequence: tc.initSequence,
			}
			assert.Nil(t, b.Put(db, pub.Address(), user))

			auth := &bazaartest.Auth{Signer: tc.signer}
			rt := app.NewRouter()
			RegisterRoutes(rt, auth)

			tx := &bazaartest.Tx{Msg: &BumpSequenceMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Increment: tc.increment,
			}}

			ctx := context.Background()
			_, err := rt.Deliver(ctx, db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			var stored UserData
			assert.Nil(t, b.One(db, pub.Address(), &stored))
			assert.Equal(t, tc.wantSequence, stored.Sequence)
		})
	}
}

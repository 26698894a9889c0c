package trust

import (
	"context"
	"strings"
	"testing"
	"time"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/store"
)

var now = time.Unix(1500000000, 0)

func newTrustStore(t testing.TB) weave.CacheableKVStore {
	t.Helper()
	db := store.MemStore()
	migration.MustInitPkg(db, "trust")
	return db
}

func deliver(t testing.TB, db weave.KVStore, signer weave.Condition, msg weave.Msg) (*weave.DeliverResult, error) {
	t.Helper()
	rt := app.NewRouter()
	RegisterRoutes(rt, &bazaartest.Auth{Signer: signer})
	ctx := weave.WithBlockTime(context.Background(), now)
	return rt.Deliver(ctx, db, &bazaartest.Tx{Msg: msg})
}

func TestStake(t *testing.T) {
	signerCond := bazaartest.NewCondition()

	cases := map[string]struct {
		signer         weave.Condition
		existing       *Merchant
		wantDeliverErr *errors.Error
		wantTrust      uint32
	}{
		"fresh merchant": {
			signer:    signerCond,
			wantTrust: StakeBonus,
		},
		"established merchant keeps earned trust": {
			signer: signerCond,
			existing: &Merchant{
				Metadata:   &weave.Metadata{Schema: 1},
				TrustScore: 42,
				Nickname:   "alice",
			},
			wantTrust: 52,
		},
		"bonus does not break the cap": {
			signer: signerCond,
			existing: &Merchant{
				Metadata:   &weave.Metadata{Schema: 1},
				TrustScore: 95,
				Nickname:   "alice",
			},
			wantTrust: TrustCap,
		},
		"cannot bond twice": {
			signer: signerCond,
			existing: &Merchant{
				Metadata:   &weave.Metadata{Schema: 1},
				BondStaked: true,
				Nickname:   "alice",
			},
			wantDeliverErr: errors.ErrState,
		},
		"missing signature": {
			wantDeliverErr: errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTrustStore(t)
			if tc.existing != nil {
				assert.Nil(t, NewBucket().Put(db, signerCond.Address(), tc.existing))
			}

			_, err := deliver(t, db, tc.signer, &StakeMsg{
				Metadata: &weave.Metadata{Schema: 1},
			})
			if tc.wantDeliverErr != nil {
				assert.IsErr(t, tc.wantDeliverErr, err)
				return
			}
			assert.Nil(t, err)

			var m Merchant
			assert.Nil(t, NewBucket().One(db, signerCond.Address(), &m))
			assert.Equal(t, true, m.BondStaked)
			assert.Equal(t, tc.wantTrust, m.TrustScore)
		})
	}
}

func TestStakeDefaultsNickname(t *testing.T) {
	signerCond := bazaartest.NewCondition()
	db := newTrustStore(t)

	_, err := deliver(t, db, signerCond, &StakeMsg{
		Metadata: &weave.Metadata{Schema: 1},
	})
	assert.Nil(t, err)

	var m Merchant
	assert.Nil(t, NewBucket().One(db, signerCond.Address(), &m))
	assert.Equal(t, DefaultNickname, m.Nickname)
}

func TestVouch(t *testing.T) {
	voucherCond := bazaartest.NewCondition()
	target := bazaartest.NewCondition().Address()

	cases := map[string]struct {
		signer         weave.Condition
		existing       *Merchant
		wantDeliverErr *errors.Error
		wantTrust      uint32
	}{
		"first vouch": {
			signer: voucherCond,
			existing: &Merchant{
				Metadata: &weave.Metadata{Schema: 1},
				Nickname: "bob",
			},
			wantTrust: 1,
		},
		"unknown target": {
			signer:         voucherCond,
			wantDeliverErr: errors.ErrNotFound,
		},
		"at the cap nothing changes": {
			signer: voucherCond,
			existing: &Merchant{
				Metadata:   &weave.Metadata{Schema: 1},
				TrustScore: TrustCap,
				Nickname:   "bob",
			},
			wantTrust: TrustCap,
		},
		"missing signature": {
			existing: &Merchant{
				Metadata: &weave.Metadata{Schema: 1},
				Nickname: "bob",
			},
			wantDeliverErr: errors.ErrUnauthorized,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTrustStore(t)
			if tc.existing != nil {
				assert.Nil(t, NewBucket().Put(db, target, tc.existing))
			}

			_, err := deliver(t, db, tc.signer, &VouchMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Target:   target,
			})
			if tc.wantDeliverErr != nil {
				assert.IsErr(t, tc.wantDeliverErr, err)
				return
			}
			assert.Nil(t, err)

			var m Merchant
			assert.Nil(t, NewBucket().One(db, target, &m))
			assert.Equal(t, tc.wantTrust, m.TrustScore)
		})
	}
}

func TestSetNickname(t *testing.T) {
	signerCond := bazaartest.NewCondition()
	db := newTrustStore(t)

	// a fresh record is created on first rename
	_, err := deliver(t, db, signerCond, &SetNicknameMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Nickname: "alice",
	})
	assert.Nil(t, err)

	var m Merchant
	assert.Nil(t, NewBucket().One(db, signerCond.Address(), &m))
	assert.Equal(t, "alice", m.Nickname)

	// renaming keeps earned trust
	m.TrustScore = 7
	assert.Nil(t, NewBucket().Put(db, signerCond.Address(), &m))
	_, err = deliver(t, db, signerCond, &SetNicknameMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Nickname: "allison",
	})
	assert.Nil(t, err)

	assert.Nil(t, NewBucket().One(db, signerCond.Address(), &m))
	assert.Equal(t, "allison", m.Nickname)
	assert.Equal(t, uint32(7), m.TrustScore)
}

func TestSendMessage(t *testing.T) {
	senderCond := bazaartest.NewCondition()
	recipient := bazaartest.NewCondition().Address()
	db := newTrustStore(t)

	for i, text := range []string{"hello", "anyone there?"} {
		_, err := deliver(t, db, senderCond, &SendMessageMsg{
			Metadata:  &weave.Metadata{Schema: 1},
			Recipient: recipient,
			Text:      text,
		})
		assert.Nil(t, err)

		var m Merchant
		assert.Nil(t, NewBucket().One(db, recipient, &m))
		assert.Equal(t, i+1, len(m.Messages))
		last := m.Messages[len(m.Messages)-1]
		assert.Equal(t, senderCond.Address(), last.Sender)
		assert.Equal(t, text, last.Text)
		assert.Equal(t, weave.AsUnixTime(now), last.Timestamp)
	}
}

func TestMsgValidate(t *testing.T) {
	cases := map[string]struct {
		msg     weave.Msg
		wantErr *errors.Error
	}{
		"valid nickname": {
			msg: &SetNicknameMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Nickname: "alice",
			},
		},
		"empty nickname": {
			msg: &SetNicknameMsg{
				Metadata: &weave.Metadata{Schema: 1},
			},
			wantErr: errors.ErrInput,
		},
		"nickname too long": {
			msg: &SetNicknameMsg{
				Metadata: &weave.Metadata{Schema: 1},
				Nickname: strings.Repeat("x", maxNicknameLength+1),
			},
			wantErr: errors.ErrInput,
		},
		"empty message text": {
			msg: &SendMessageMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Recipient: bazaartest.NewCondition().Address(),
			},
			wantErr: errors.ErrInput,
		},
		"message text too long": {
			msg: &SendMessageMsg{
				Metadata:  &weave.Metadata{Schema: 1},
				Recipient: bazaartest.NewCondition().Address(),
				Text:      strings.Repeat("x", maxMessageLength+1),
			},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
		})
	}
}

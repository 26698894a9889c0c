package sigs

import (
	"testing"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/store"
)

// sigTx is a minimal SignedTx for testing signature verification.
type sigTx struct {
	bazaartest.Tx
	signers []*StdSignature
}

var _ SignedTx = (*sigTx)(nil)

func (tx *sigTx) GetSignBytes() ([]byte, error) {
	return tx.Marshal()
}

func (tx *sigTx) GetSignatures() []*StdSignature {
	return tx.signers
}

func newSigTx(payload []byte, sigs ...*StdSignature) *sigTx {
	return &sigTx{
		Tx:      bazaartest.Tx{Msg: &bazaartest.Msg{Serialized: payload}},
		signers: sigs,
	}
}

func TestSignAndVerify(t *testing.T) {
	chainID := "emo-music-2345"

	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")

	priv := crypto.GenPrivKeyEd25519()
	perm := priv.PublicKey().Condition()

	tx := newSigTx([]byte("art"))

	// the tx is not signed yet
	signers, err := VerifyTxSignatures(db, tx, chainID)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(signers))

	// the first signature must use sequence zero
	sig, err := SignTx(priv, tx, chainID, 0)
	assert.Nil(t, err)
	sig2, err := SignTx(priv, tx, chainID, 1)
	assert.Nil(t, err)

	tx.signers = []*StdSignature{sig}
	signers, err = VerifyTxSignatures(db, tx, chainID)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(signers))
	assert.Equal(t, true, perm.Equals(signers[0]))

	// replaying the same signature must fail, the sequence moved on
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.IsErr(t, ErrInvalidSequence, err)

	// but the signature over the next sequence value is accepted
	tx.signers = []*StdSignature{sig2}
	signers, err = VerifyTxSignatures(db, tx, chainID)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(signers))
	assert.Equal(t, true, perm.Equals(signers[0]))
}

func TestVerifyWrongChainID(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")

	priv := crypto.GenPrivKeyEd25519()
	tx := newSigTx([]byte("first"))

	sig, err := SignTx(priv, tx, "chain-1", 0)
	assert.Nil(t, err)
	tx.signers = []*StdSignature{sig}

	// a signature bound to another chain must not verify
	_, err = VerifyTxSignatures(db, tx, "chain-2")
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestVerifyTamperedPayload(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")

	chainID := "fair-trade"
	priv := crypto.GenPrivKeyEd25519()

	tx := newSigTx([]byte("agreed"))
	sig, err := SignTx(priv, tx, chainID, 0)
	assert.Nil(t, err)

	evil := newSigTx([]byte("disagreed"), sig)
	_, err = VerifyTxSignatures(db, evil, chainID)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestBuildSignBytes(t *testing.T) {
	cases := map[string]struct {
		chainID string
		seq     int64
		wantErr *errors.Error
	}{
		"valid": {
			chainID: "test-123",
			seq:     17,
		},
		"negative sequence": {
			chainID: "test-123",
			seq:     -1,
			wantErr: ErrInvalidSequence,
		},
		"invalid chain id": {
			chainID: "ab",
			seq:     0,
			wantErr: errors.ErrChain,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			bz, err := BuildSignBytes([]byte("payload"), tc.chainID, tc.seq)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			// sha512 output
			assert.Equal(t, 64, len(bz))
		})
	}
}

func TestGetOrCreateUser(t *testing.T) {
	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")
	b := NewBucket()

	pub := crypto.GenPrivKeyEd25519().PublicKey()

	// unknown address produces a fresh zero-sequence user
	user, err := GetOrCreateUser(db, b, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), user.Sequence)

	user.Sequence = 5
	assert.Nil(t, b.Put(db, pub.Address(), user))

	loaded, err := GetOrCreateUser(db, b, pub)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), loaded.Sequence)
}

func TestCheckAndIncrementSequence(t *testing.T) {
	user := &UserData{
		Metadata: &weave.Metadata{Schema: 1},
		Sequence: 4,
	}
	assert.IsErr(t, ErrInvalidSequence, user.CheckAndIncrementSequence(3))
	assert.Nil(t, user.CheckAndIncrementSequence(4))
	assert.Equal(t, int64(5), user.Sequence)

	// the client side integer range must not be exceeded
	user.Sequence = (1 << 53) - 1
	assert.IsErr(t, errors.ErrOverflow, user.CheckAndIncrementSequence(user.Sequence))
}

package sigs

import (
	"context"
	"testing"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
	"github.com/iov-one/bazaar/store"
)

// countingHandler records the signers it saw via the authenticator.
type countingHandler struct {
	called  int
	signers []weave.Condition
}

func (h *countingHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	h.called++
	h.signers = Authenticate{}.GetConditions(ctx)
	return &weave.CheckResult{}, nil
}

func (h *countingHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	h.called++
	h.signers = Authenticate{}.GetConditions(ctx)
	return &weave.DeliverResult{}, nil
}

func TestDecorator(t *testing.T) {
	chainID := "deco-chain"
	ctx := weave.WithChainID(context.Background(), chainID)

	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")

	priv := crypto.GenPrivKeyEd25519()
	perm := priv.PublicKey().Condition()

	tx := newSigTx([]byte("deliver me"))

	var handler countingHandler
	d := NewDecorator()

	// no signatures, no entry
	_, err := d.Check(ctx, db, tx, &handler)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 0, handler.called)

	// unless we allow unsigned transactions
	_, err = d.AllowMissingSigs().Check(ctx, db, tx, &handler)
	assert.Nil(t, err)
	assert.Equal(t, 1, handler.called)
	assert.Equal(t, 0, len(handler.signers))

	sig, err := SignTx(priv, tx, chainID, 0)
	assert.Nil(t, err)
	tx.signers = []*StdSignature{sig}

	_, err = d.Deliver(ctx, db, tx, &handler)
	assert.Nil(t, err)
	assert.Equal(t, 2, handler.called)
	assert.Equal(t, 1, len(handler.signers))
	assert.Equal(t, true, perm.Equals(handler.signers[0]))
}

func TestDecoratorRequiresSignedTx(t *testing.T) {
	ctx := weave.WithChainID(context.Background(), "deco-chain")
	db := store.MemStore()
	migration.MustInitPkg(db, "sigs")

	var handler countingHandler
	tx := &bazaartest.Tx{Msg: &bazaartest.Msg{}}

	_, err := NewDecorator().Check(ctx, db, tx, &handler)
	assert.IsErr(t, errors.ErrMsg, err)
	assert.Equal(t, 0, handler.called)
}

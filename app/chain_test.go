package app

import (
	"context"
	"testing"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
)

// tagDecorator appends its tag on the way down the stack.
type tagDecorator struct {
	tag  byte
	seen *[]byte
}

func (d *tagDecorator) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	*d.seen = append(*d.seen, d.tag)
	return next.Check(ctx, store, tx)
}

func (d *tagDecorator) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	*d.seen = append(*d.seen, d.tag)
	return next.Deliver(ctx, store, tx)
}

func TestChainDecoratorsOrder(t *testing.T) {
	var seen []byte

	h := ChainDecorators(
		&tagDecorator{tag: 'a', seen: &seen},
		nil, // nil decorators are dropped
		&tagDecorator{tag: 'b', seen: &seen},
		&tagDecorator{tag: 'c', seen: &seen},
	).WithHandler(&countingHandler{})

	tx := &bazaartest.Tx{Msg: &bazaartest.Msg{RoutePath: "test/any"}}
	_, err := h.Check(context.Background(), nil, tx)
	assert.Nil(t, err)
	assert.Equal(t, "abc", string(seen))

	seen = seen[:0]
	_, err = h.Deliver(context.Background(), nil, tx)
	assert.Nil(t, err)
	assert.Equal(t, "abc", string(seen))
}

func TestChainPropagatesError(t *testing.T) {
	var seen []byte
	h := ChainDecorators(
		&tagDecorator{tag: 'x', seen: &seen},
	).WithHandler(&countingHandler{err: errors.ErrState})

	tx := &bazaartest.Tx{Msg: &bazaartest.Msg{RoutePath: "test/any"}}
	_, err := h.Check(context.Background(), nil, tx)
	assert.IsErr(t, errors.ErrState, err)
}

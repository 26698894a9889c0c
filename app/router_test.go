package app

import (
	"context"
	"testing"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/errors"
)

type countingHandler struct {
	callCount int
	err       error
}

func (h *countingHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	h.callCount++
	return &weave.CheckResult{}, h.err
}

func (h *countingHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	h.callCount++
	return &weave.DeliverResult{}, h.err
}

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()

	var handler countingHandler
	r.Handle(&bazaartest.Msg{RoutePath: "test/good"}, &handler)

	tx := &bazaartest.Tx{Msg: &bazaartest.Msg{RoutePath: "test/good"}}

	_, err := r.Check(context.Background(), nil, tx)
	assert.Nil(t, err)
	_, err = r.Deliver(context.Background(), nil, tx)
	assert.Nil(t, err)
	assert.Equal(t, 2, handler.callCount)
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()
	tx := &bazaartest.Tx{Msg: &bazaartest.Msg{RoutePath: "test/secret"}}

	_, err := r.Check(context.Background(), nil, tx)
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(context.Background(), nil, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestRouterInvalidPath(t *testing.T) {
	r := NewRouter()
	defer func() {
		if recover() == nil {
			t.Fatal("want panic")
		}
	}()
	r.Handle(&bazaartest.Msg{RoutePath: "Bad Path!"}, &countingHandler{})
}

func TestRouterDoubleRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle(&bazaartest.Msg{RoutePath: "test/twice"}, &countingHandler{})
	defer func() {
		if recover() == nil {
			t.Fatal("want panic")
		}
	}()
	r.Handle(&bazaartest.Msg{RoutePath: "test/twice"}, &countingHandler{})
}

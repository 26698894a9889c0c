package utils

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Savepoint will isolate all data inside of the call and only commit it
// to the parent store if the transaction processing succeeds. This gives
// every transaction all-or-nothing semantics: a failed call leaves no
// partial writes behind.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ weave.Decorator = Savepoint{}

// NewSavepoint creates a savepoint decorator. Use OnCheck or OnDeliver to
// select the phase it isolates.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that only isolates CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	return Savepoint{onCheck: true, onDeliver: s.onDeliver}
}

// OnDeliver returns a savepoint that only isolates DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	return Savepoint{onCheck: s.onCheck, onDeliver: true}
}

// Check isolates the next checker in a store cache if enabled.
func (s Savepoint) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	cstore, ok := store.(weave.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrType, "store cannot be cache wrapped")
	}
	cache := cstore.CacheWrap()
	res, err := next.Check(ctx, cache, tx)
	if err == nil {
		err = cache.Write()
	} else {
		cache.Discard()
	}
	return res, err
}

// Deliver isolates the next deliverer in a store cache if enabled.
func (s Savepoint) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	cstore, ok := store.(weave.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrType, "store cannot be cache wrapped")
	}
	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, cache, tx)
	if err == nil {
		err = cache.Write()
	} else {
		cache.Discard()
	}
	return res, err
}

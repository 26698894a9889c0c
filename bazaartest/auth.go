package bazaartest

import (
	"context"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/x"
)

// Auth is a mock implementation of the x.Authenticator interface. It
// authenticates a fixed set of conditions, regardless of the context.
type Auth struct {
	// Signer is the main and only signer, mutually exclusive with
	// Signers.
	Signer weave.Condition

	// Signers represents all signers, mutually exclusive with Signer.
	Signers []weave.Condition
}

var _ x.Authenticator = (*Auth)(nil)

func (a *Auth) GetConditions(weave.Context) []weave.Condition {
	if a.Signer != nil {
		return []weave.Condition{a.Signer}
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is an x.Authenticator implementation that reads conditions from
// the context, stored there under an arbitrary key. Use SetConditions to
// simulate authentication of a transaction.
type CtxAuth struct {
	Key string
}

var _ x.Authenticator = CtxAuth{}

type ctxAuthKey string

// SetConditions returns a context with the given conditions attached,
// visible to this authenticator.
func (a CtxAuth) SetConditions(ctx weave.Context, conds ...weave.Condition) weave.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a CtxAuth) GetConditions(ctx weave.Context) []weave.Condition {
	conds, _ := ctx.Value(ctxAuthKey(a.Key)).([]weave.Condition)
	return conds
}

func (a CtxAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

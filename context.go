package bazaar

import (
	"context"
	"regexp"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/bazaar/errors"
)

// Context is just an alias for the standard implementation. We use functions
// to extend it to our domain.
type Context = context.Context

type contextKey int

const (
	contextKeyHeight contextKey = iota
	contextKeyChainID
	contextKeyHeader
	contextKeyBlockTime
	contextKeyLogger
)

// IsValidChainID tells whether a chain id is of an acceptable format.
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_.-]{6,20}$`).MatchString

// WithHeight sets the block height for the Context. Must only be called
// once per block.
func WithHeight(ctx Context, height int64) Context {
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height, ok is false if it was never
// set.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithChainID sets the chain id for the Context. Panics on an invalid chain
// id, as this is fixed at genesis and must never vary at runtime.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("chain id already set")
	}
	if !IsValidChainID(chainID) {
		panic("chain id is invalid: " + chainID)
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the current chain id. Panics if the chain id was never
// set, as that is an irrecoverable setup failure.
func GetChainID(ctx Context) string {
	if ctx == nil {
		panic("context is nil")
	}
	val, ok := ctx.Value(contextKeyChainID).(string)
	if !ok {
		panic("chain id is not set")
	}
	return val
}

// WithHeader sets the block header for the Context. Must only be called
// once per block.
func WithHeader(ctx Context, header abci.Header) Context {
	return context.WithValue(ctx, contextKeyHeader, header)
}

// GetHeader returns the current block header, ok is false if it was never
// set.
func GetHeader(ctx Context) (abci.Header, bool) {
	val, ok := ctx.Value(contextKeyHeader).(abci.Header)
	return val, ok
}

// WithBlockTime sets the block time for the Context. All transactions
// within a block share the same timestamp.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyBlockTime, t)
}

// BlockTime returns the timestamp of the block being processed.
func BlockTime(ctx Context) (time.Time, error) {
	val, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrState, "block time not present in the context")
	}
	if val.IsZero() {
		return time.Time{}, errors.Wrap(errors.ErrState, "zero block time")
	}
	return val, nil
}

// IsExpired returns true if the given time is in the past as compared to
// the current block time. The edge is inclusive, a timestamp equal to the
// block time is expired.
//
// Panics if the block time is not present in the context. This is a
// programmer error, every transaction context must carry the block time.
func IsExpired(ctx Context, t UnixTime) bool {
	blockNow, err := BlockTime(ctx)
	if err != nil {
		panic("block time is not present")
	}
	return t <= AsUnixTime(blockNow)
}

// InThePast returns true if given time is in the past as compared to the
// current block time. The edge is exclusive.
func InThePast(ctx Context, t time.Time) bool {
	blockNow, err := BlockTime(ctx)
	if err != nil {
		panic("block time is not present")
	}
	return t.Before(blockNow)
}

// WithLogger sets the logger for this Context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger carried in the Context, or a noop logger if
// none was set.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return log.NewNopLogger()
}

// WithLogInfo accepts keyvalue pairs and returns another context with the
// logger decorated with this info.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

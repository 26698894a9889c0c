package utils

import (
	"time"

	weave "github.com/iov-one/bazaar"
)

// Logging is a decorator to log messages as they pass through it, along
// with the processing duration and the resulting error if any.
type Logging struct{}

var _ weave.Decorator = Logging{}

// NewLogging creates a Logging decorator.
func NewLogging() Logging {
	return Logging{}
}

// Check logs error/success and the duration of the call.
func (l Logging) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logDuration(ctx, start, resultLog(res, err), err)
	return res, err
}

// Deliver logs error/success and the duration of the call.
func (l Logging) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logDuration(ctx, start, msg, err)
	return res, err
}

func resultLog(res *weave.CheckResult, err error) string {
	if res != nil {
		return res.Log
	}
	return ""
}

// logDuration writes information about the time and result to the logger.
func logDuration(ctx weave.Context, start time.Time, msg string, err error) {
	delta := time.Since(start)
	logger := weave.GetLogger(ctx).With("duration", delta/time.Microsecond)
	if err != nil {
		logger = logger.With("err", err)
		logger.Error(msg)
	} else {
		logger.Info(msg)
	}
}

package errors

import "fmt"

// SuccessABCICode declares an ABCI response use 0 to signal that the
// processing was successful and no error is returned.
const SuccessABCICode uint32 = 0

// All unclassified errors that do not provide an ABCI code are clubbed
// under an internal error code and a generic message instead of
// detailed error string.
const (
	internalABCICode uint32 = 1
	internalABCILog  string = "internal error"
)

// ABCIInfo returns the ABCI error information as consumed by the tendermint
// client. Returned code and log message should be used as a ResponseCheckTx
// or ResponseDeliverTx attribute values.
//
// When not running in a debug mode, any error that does not carry a
// registered ABCI code is reported with obfuscated message. This is to avoid
// leaking internal implementation details to the clients.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if err == nil {
		return SuccessABCICode, ""
	}

	if debug {
		// In debug mode the full error information, including the
		// stack trace (if available), is returned to the caller.
		return abciCode(err), fmt.Sprintf("%+v", err)
	}

	code := abciCode(err)
	if code == internalABCICode {
		return code, internalABCILog
	}
	return code, err.Error()
}

// Redact replaces a derivative of a panic or any non registered error with a
// bare internal error instance. This ensures that no internal information
// leaks through an error message.
func Redact(err error) error {
	if ErrPanic.Is(err) {
		return ErrInternal
	}
	if abciCode(err) == internalABCICode {
		return ErrInternal
	}
	return err
}

// abciCode tests if given error contains an ABCI code and returns the value
// of it if available. This function is testing for the causer interface as
// well and unwraps the error.
func abciCode(err error) uint32 {
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalABCICode
		}
	}
}

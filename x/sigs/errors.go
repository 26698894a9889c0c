package sigs

import "github.com/iov-one/bazaar/errors"

// ErrInvalidSequence is returned whenever the sequence of a signature
// does not match the expected value for the account.
var ErrInvalidSequence = errors.Register(1000, "invalid sequence")

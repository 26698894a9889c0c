package sigs

import (
	"github.com/iov-one/bazaar/errors"
)

// SignedTx represents a transaction that carries signatures, which can be
// verified by the Decorator.
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// message, the content that every signature signs over. Previous
	// signatures must not be part of it.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of all signers of the
	// message.
	GetSignatures() []*StdSignature
}

// Validate ensures the StdSignature meets basic standards.
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

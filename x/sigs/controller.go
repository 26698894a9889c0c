package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// signCodeV1 is the prefix of every payload signed in this scheme. It
// protects against cross-protocol signature reuse.
var signCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks all the signatures on the tx, which must have
// at least one. It returns the conditions of all the signers on success,
// and stores the incremented sequence of every signer.
func VerifyTxSignatures(store weave.KVStore, tx SignedTx, chainID string) ([]weave.Condition, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get sign bytes")
	}

	sigs := tx.GetSignatures()
	signers := make([]weave.Condition, 0, len(sigs))

	bucket := NewBucket()
	for _, sig := range sigs {
		signer, err := VerifySignature(store, bucket, sig, bz, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against the sign bytes, verifying
// and incrementing the stored sequence of the signing account. It returns
// the signer condition on success.
func VerifySignature(store weave.KVStore, b orm.ModelBucket, sig *StdSignature, signBytes []byte, chainID string) (weave.Condition, error) {
	if sig == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	pub := sig.Pubkey
	user, err := GetOrCreateUser(store, b, pub)
	if err != nil {
		return nil, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !pub.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := b.Put(store, pub.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return pub.Condition(), nil
}

// BuildSignBytes combines the raw transaction bytes with the chain id and
// the sequence, and hashes them into the fixed size payload that is
// actually signed.
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !weave.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrChain, "chain id: %v", chainID)
	}

	// concatenate (signCode, chainID, seq, signBytes) and then hash,
	// so the signed payload has a constant, small size
	msg := make([]byte, 0, len(signCodeV1)+1+len(chainID)+8+len(signBytes))
	msg = append(msg, signCodeV1...)
	msg = append(msg, byte(len(chainID)))
	msg = append(msg, chainID...)
	var s [8]byte
	binary.BigEndian.PutUint64(s[:], uint64(seq))
	msg = append(msg, s[:]...)
	msg = append(msg, signBytes...)

	hashed := sha512.Sum512(msg)
	return hashed[:], nil
}

// SignTx creates a signature for the transaction, to be appended to the
// signature list. The sequence must match the current state of the
// signing account.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	raw, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get sign bytes")
	}
	toSign, err := BuildSignBytes(raw, chainID, seq)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(toSign)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Sequence:  seq,
		Pubkey:    signer.PublicKey(),
		Signature: sig,
	}, nil
}

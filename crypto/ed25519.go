package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/ed25519"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Names used to build authentication conditions out of public keys.
const (
	extension   = "sigs"
	algoEd25519 = "ed25519"
)

// Condition generates the condition that this public key authorizes.
func (p *PublicKey) Condition() weave.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return weave.NewCondition(extension, algoEd25519, p.Ed25519)
}

// Address returns the address that this public key authorizes.
func (p *PublicKey) Address() weave.Address {
	return p.Condition().Address()
}

// Verify checks if the signature of the given message was created with
// this public key.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil {
		return false
	}
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Sign creates the signature of the given message.
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "malformed ed25519 private key")
	}
	sig := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: sig}, nil
}

// PublicKey derives the public key that belongs to this private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	priv := ed25519.PrivateKey(p.Ed25519)
	pub := priv.Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 creates a brand new random private key.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

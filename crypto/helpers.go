package crypto

// Signer is implemented by anything that can cryptographically sign a
// message.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var _ Signer = (*PrivateKey)(nil)

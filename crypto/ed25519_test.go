package crypto

import (
	"testing"

	weave "github.com/iov-one/bazaar"
)

func TestSignAndVerify(t *testing.T) {
	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()

	msg := []byte("emergency override payload")
	sig, err := priv.Sign(msg)
	if err != nil {
		t.Fatalf("cannot sign: %+v", err)
	}
	if !pub.Verify(msg, sig) {
		t.Fatal("signature must verify")
	}
	if pub.Verify([]byte("tampered"), sig) {
		t.Fatal("tampered message must not verify")
	}
	if GenPrivKeyEd25519().PublicKey().Verify(msg, sig) {
		t.Fatal("wrong key must not verify")
	}
}

func TestPublicKeyCondition(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	cond := pub.Condition()
	if err := cond.Validate(); err != nil {
		t.Fatalf("invalid condition: %+v", err)
	}
	ext, typ, data, err := cond.Parse()
	if err != nil {
		t.Fatalf("cannot parse condition: %+v", err)
	}
	if ext != "sigs" || typ != "ed25519" {
		t.Fatalf("unexpected condition sections: %s/%s", ext, typ)
	}
	if len(data) != 32 {
		t.Fatalf("unexpected key material length: %d", len(data))
	}
	if got := pub.Address(); len(got) != weave.AddressLength {
		t.Fatalf("unexpected address length: %d", len(got))
	}
}

func TestNilKeyHasNoCondition(t *testing.T) {
	var pub *PublicKey
	if pub.Condition() != nil {
		t.Fatal("nil key must have no condition")
	}
}

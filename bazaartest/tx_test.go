package bazaartest

import (
	"testing"

	"github.com/iov-one/bazaar/errors"
)

func TestTxStub(t *testing.T) {
	msg := &Msg{RoutePath: "test/any", Serialized: []byte("payload")}
	tx := &Tx{Msg: msg}

	got, err := tx.GetMsg()
	if err != nil {
		t.Fatalf("cannot get message: %+v", err)
	}
	if got != msg {
		t.Fatal("unexpected message returned")
	}

	raw, err := tx.Marshal()
	if err != nil {
		t.Fatalf("cannot marshal: %+v", err)
	}
	if string(raw) != "payload" {
		t.Fatalf("unexpected serialized form: %q", raw)
	}

	if err := tx.Unmarshal(raw); !errors.ErrMsg.Is(err) {
		t.Fatalf("unexpected unmarshal error: %+v", err)
	}
}

func TestTxStubWithoutMessage(t *testing.T) {
	tx := &Tx{}
	if _, err := tx.GetMsg(); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

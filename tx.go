package bazaar

import (
	"reflect"

	"github.com/iov-one/bazaar/errors"
)

// Persistent supports Marshal and Unmarshal. This is separated from Marshal,
// as this almost always requires a pointer, and functions that only need to
// marshal bytes can use the Marshaller interface to access non-pointers.
//
// This is implemented by all protobuf generated structs.
type Persistent interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// Msg is a message to be processed by a handler. Messages are dispatched
// to their handler by their path.
type Msg interface {
	Persistent

	// Validate performs a stateless check of the message content. It must
	// not access any state, only the message fields.
	Validate() error

	// Path returns the routing path for this message, in the form of
	// "extension/name".
	Path() string
}

// Tx represents the requests we handle. A transaction carries exactly one
// message along with the authorization envelope.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// TxDecoder can parse bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message inside the transaction, or
// (unknown) if the message cannot be extracted. For logging purposes.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(unknown)"
}

// LoadMsg extracts the message from the transaction, validates it and
// loads it into the destination. The destination must be a pointer to the
// same message type as carried by the transaction.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	val := reflect.ValueOf(msg)
	if val.Type() != dst.Type() {
		return errors.Wrapf(errors.ErrType, "want %T, got %T", destination, msg)
	}
	dst.Elem().Set(val.Elem())
	return nil
}

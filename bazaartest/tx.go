package bazaartest

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Tx is a mock implementation of the weave.Tx interface, carrying a
// single message.
type Tx struct {
	Msg weave.Msg
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "no message")
	}
	return tx.Msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Msg == nil {
		return nil, nil
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrMsg, "a mock transaction cannot be unmarshaled")
}

// Msg is a mock implementation of the weave.Msg interface.
type Msg struct {
	// RoutePath is returned by the Path method.
	RoutePath string

	// Serialized represents the serialized form of this message.
	Serialized []byte

	// Err, if set, is returned by both Validate and Unmarshal.
	Err error
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, nil
}

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

package trust

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
)

func init() {
	migration.MustRegister(1, &StakeMsg{}, migration.NoModification)
	migration.MustRegister(1, &VouchMsg{}, migration.NoModification)
	migration.MustRegister(1, &SetNicknameMsg{}, migration.NoModification)
	migration.MustRegister(1, &SendMessageMsg{}, migration.NoModification)
}

const (
	pathStake       = "trust/stake"
	pathVouch       = "trust/vouch"
	pathSetNickname = "trust/set_nickname"
	pathSendMessage = "trust/send_message"

	maxNicknameLength = 64
	maxMessageLength  = 280
)

var _ weave.Msg = (*StakeMsg)(nil)
var _ weave.Msg = (*VouchMsg)(nil)
var _ weave.Msg = (*SetNicknameMsg)(nil)
var _ weave.Msg = (*SendMessageMsg)(nil)

// ROUTING, Path method fulfills weave.Msg interface to allow routing

func (StakeMsg) Path() string {
	return pathStake
}

func (VouchMsg) Path() string {
	return pathVouch
}

func (SetNicknameMsg) Path() string {
	return pathSetNickname
}

func (SendMessageMsg) Path() string {
	return pathSendMessage
}

// VALIDATION, Validate method makes sure basic rules are enforced upon
// input data and fulfills weave.Msg interface

func (m *StakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return nil
}

func (m *VouchMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Target.Validate(); err != nil {
		return errors.Wrap(err, "target")
	}
	return nil
}

func (m *SetNicknameMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Nickname == "" {
		return errors.Wrap(errors.ErrInput, "nickname is required")
	}
	if len(m.Nickname) > maxNicknameLength {
		return errors.Wrapf(errors.ErrInput, "nickname longer than %d characters", maxNicknameLength)
	}
	return nil
}

func (m *SendMessageMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if m.Text == "" {
		return errors.Wrap(errors.ErrInput, "text is required")
	}
	if len(m.Text) > maxMessageLength {
		return errors.Wrapf(errors.ErrInput, "text longer than %d characters", maxMessageLength)
	}
	return nil
}

package vault

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/migration"
)

func init() {
	// Migration needs to be registered for every message introduced in
	// the codec. This is the convention to message versioning.
	migration.MustRegister(1, &CreateVaultMsg{}, migration.NoModification)
	migration.MustRegister(1, &PingHeartbeatMsg{}, migration.NoModification)
	migration.MustRegister(1, &ClaimLegacyMsg{}, migration.NoModification)
}

const (
	pathCreateVault   = "vault/create"
	pathPingHeartbeat = "vault/ping"
	pathClaimLegacy   = "vault/claim"
)

var _ weave.Msg = (*CreateVaultMsg)(nil)
var _ weave.Msg = (*PingHeartbeatMsg)(nil)
var _ weave.Msg = (*ClaimLegacyMsg)(nil)

// ROUTING, Path method fulfills weave.Msg interface to allow routing

func (CreateVaultMsg) Path() string {
	return pathCreateVault
}

func (PingHeartbeatMsg) Path() string {
	return pathPingHeartbeat
}

func (ClaimLegacyMsg) Path() string {
	return pathClaimLegacy
}

// VALIDATION, Validate method makes sure basic rules are enforced upon
// input data and fulfills weave.Msg interface

func (m *CreateVaultMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Heir.Validate(); err != nil {
		return errors.Wrap(err, "heir")
	}
	return nil
}

func (m *PingHeartbeatMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return nil
}

func (m *ClaimLegacyMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

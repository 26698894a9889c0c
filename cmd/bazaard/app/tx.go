package app

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/sigs"
)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg switches over all types defined in the protobuf file
func (tx *Tx) GetMsg() (weave.Msg, error) {
	sum := tx.GetSum()
	if sum == nil {
		return nil, errors.Wrap(errors.ErrInput, "unable to decode")
	}

	// make sure to cover all messages defined in protobuf
	switch t := sum.(type) {
	case *Tx_CreateVaultMsg:
		return t.CreateVaultMsg, nil
	case *Tx_PingHeartbeatMsg:
		return t.PingHeartbeatMsg, nil
	case *Tx_ClaimLegacyMsg:
		return t.ClaimLegacyMsg, nil
	case *Tx_AssignWitnessesMsg:
		return t.AssignWitnessesMsg, nil
	case *Tx_DeclareEmergencyMsg:
		return t.DeclareEmergencyMsg, nil
	case *Tx_VoteMedicalMsg:
		return t.VoteMedicalMsg, nil
	case *Tx_PanicButtonMsg:
		return t.PanicButtonMsg, nil
	case *Tx_StakeMsg:
		return t.StakeMsg, nil
	case *Tx_VouchMsg:
		return t.VouchMsg, nil
	case *Tx_SetNicknameMsg:
		return t.SetNicknameMsg, nil
	case *Tx_SendMessageMsg:
		return t.SendMessageMsg, nil
	case *Tx_BumpSequenceMsg:
		return t.BumpSequenceMsg, nil
	}

	// we must have covered it above
	panic(sum)
}

// GetSignBytes returns the bytes to sign over. The signatures are
// unset for the computation, the sign bytes come from the data only.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	tx.Signatures = sigs
	return bz, err
}

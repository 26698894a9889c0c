package app

import (
	"testing"
	"time"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/commands/server"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/x/sigs"
	"github.com/iov-one/bazaar/x/trust"
	"github.com/iov-one/bazaar/x/vault"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const testChainID = "test-net-22"

var blockTime = time.Unix(1500000000, 0)

func newTestApp(t *testing.T) app.BaseApp {
	t.Helper()
	// in-memory data store
	abciApp, err := GenerateApp(&server.Options{
		Home:   "",
		Logger: log.NewNopLogger(),
	})
	assert.Nil(t, err)
	myApp, ok := abciApp.(app.BaseApp)
	assert.Equal(t, true, ok)

	appState := `{
		"initialize_schema": [
			{"pkg": "vault", "ver": 1},
			{"pkg": "circle", "ver": 1},
			{"pkg": "medical", "ver": 1},
			{"pkg": "freeze", "ver": 1},
			{"pkg": "trust", "ver": 1},
			{"pkg": "sigs", "ver": 1}
		]
	}`
	assert.Equal(t, "", myApp.GetChainID())
	myApp.InitChain(abci.RequestInitChain{
		AppStateBytes: []byte(appState),
		ChainId:       testChainID,
	})
	assert.Equal(t, testChainID, myApp.GetChainID())
	// commit the genesis state so it is visible to CheckTx
	myApp.Commit()
	return myApp
}

// deliverTx signs and submits the transaction in a fresh block and
// returns the deliver response.
func deliverTx(t *testing.T, myApp app.BaseApp, height int64, signer *crypto.PrivateKey, seq int64, tx *Tx) abci.ResponseDeliverTx {
	t.Helper()
	sig, err := sigs.SignTx(signer, tx, myApp.GetChainID(), seq)
	assert.Nil(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	txBytes, err := tx.Marshal()
	assert.Nil(t, err)

	header := abci.Header{Height: height, ChainID: testChainID, Time: blockTime}
	myApp.BeginBlock(abci.RequestBeginBlock{Header: header})
	chres := myApp.CheckTx(txBytes)
	assert.Equal(t, uint32(0), chres.Code)
	dres := myApp.DeliverTx(txBytes)
	assert.Equal(t, uint32(0), dres.Code)
	myApp.EndBlock(abci.RequestEndBlock{})
	return dres
}

func TestAppVaultLifecycle(t *testing.T) {
	myApp := newTestApp(t)

	owner := crypto.GenPrivKeyEd25519()
	heir := crypto.GenPrivKeyEd25519().PublicKey().Address()

	dres := deliverTx(t, myApp, 1, owner, 0, &Tx{
		Sum: &Tx_CreateVaultMsg{&vault.CreateVaultMsg{
			Metadata: &weave.Metadata{Schema: 1},
			Heir:     heir,
		}},
	})
	assert.Equal(t, []byte(owner.PublicKey().Address()), dres.Data)

	cres := myApp.Commit()
	assert.Equal(t, true, len(cres.Data) > 0)

	// the vault is visible through the query interface
	qres := myApp.Query(abci.RequestQuery{
		Path: "/vaults",
		Data: owner.PublicKey().Address(),
	})
	assert.Equal(t, uint32(0), qres.Code)
	var v vault.LegacyVault
	assert.Nil(t, app.UnmarshalOneResult(qres.Value, &v))
	assert.Equal(t, heir, v.Heir)
	assert.Equal(t, true, v.IsLocked)
	assert.Equal(t, weave.AsUnixTime(blockTime), v.LastHeartbeat)

	// a ping in the next block moves nothing but keeps code 0
	deliverTx(t, myApp, 2, owner, 1, &Tx{
		Sum: &Tx_PingHeartbeatMsg{&vault.PingHeartbeatMsg{
			Metadata: &weave.Metadata{Schema: 1},
		}},
	})
	cres2 := myApp.Commit()
	assert.Equal(t, true, len(cres2.Data) > 0)
}

func TestAppRejectsUnsignedTx(t *testing.T) {
	myApp := newTestApp(t)

	tx := &Tx{
		Sum: &Tx_StakeMsg{&trust.StakeMsg{
			Metadata: &weave.Metadata{Schema: 1},
		}},
	}
	txBytes, err := tx.Marshal()
	assert.Nil(t, err)

	header := abci.Header{Height: 1, ChainID: testChainID, Time: blockTime}
	myApp.BeginBlock(abci.RequestBeginBlock{Header: header})
	chres := myApp.CheckTx(txBytes)
	if chres.Code == 0 {
		t.Fatal("expected unsigned transaction to be rejected")
	}
}

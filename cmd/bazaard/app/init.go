package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/commands/server"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/migration"
	abci "github.com/tendermint/tendermint/abci/types"
)

// GenInitOptions will produce the basic app_state for dev mode. An
// address can be passed as the first argument to use as the initial
// operator, otherwise one is generated and its recovery phrase
// printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr string
	if len(args) > 0 {
		addr = args[0]
	} else {
		// if no address provided, auto-generate one
		// and print out a recovery phrase
		bz, phrase, err := GenerateKey()
		if err != nil {
			return nil, err
		}
		addr = bz.String()
		fmt.Println(phrase)
	}

	type dict map[string]interface{}
	return json.Marshal(dict{
		"operator": addr,
		"initialize_schema": []dict{
			{"pkg": "vault", "ver": 1},
			{"pkg": "circle", "ver": 1},
			{"pkg": "medical", "ver": 1},
			{"pkg": "freeze", "ver": 1},
			{"pkg": "trust", "ver": 1},
			{"pkg": "sigs", "ver": 1},
		},
	})
}

// GenerateApp is used to create a stub for the server start command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "abci.db")
	}

	stack := Stack()
	application, err := Application("bazaar", stack, TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(app.ChainInitializers(
		&migration.Initializer{},
	))

	// set the logger and return
	application.WithLogger(options.Logger)
	return application, nil
}

// GenerateKey returns the address of a public key, along with the
// secret phrase to recover the private key. You can return the
// recovery phrase to the user to access the account.
func GenerateKey() (weave.Address, string, error) {
	// XXX: we need to generate BIP39 recovery phrases in crypto
	privKey := crypto.GenPrivKeyEd25519()
	addr := privKey.PublicKey().Address()
	return addr, "TODO: add a recovery phrase", nil
}

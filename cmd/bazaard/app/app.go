/*
Package app wires together all the custody protocols into one abci
application. It is the place to see how the various components are
combined, and the model for replacing any of them with a custom
implementation as a deployment grows.
*/
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/store/iavl"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/circle"
	"github.com/iov-one/bazaar/x/freeze"
	"github.com/iov-one/bazaar/x/medical"
	"github.com/iov-one/bazaar/x/sigs"
	"github.com/iov-one/bazaar/x/trust"
	"github.com/iov-one/bazaar/x/utils"
	"github.com/iov-one/bazaar/x/vault"
)

// Authenticator returns the typical authentication, just using public
// key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain(authFn x.Authenticator) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a default router, dispatching to all custody and
// reputation protocols
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	vault.RegisterRoutes(r, authFn)
	circle.RegisterRoutes(r, authFn)
	medical.RegisterRoutes(r, authFn)
	freeze.RegisterRoutes(r, authFn)
	trust.RegisterRoutes(r, authFn)
	sigs.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router, allowing access to
// "/vaults", "/circles", "/emergencies", "/panics", "/merchants" and
// "/auth"
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	vault.RegisterQuery(r)
	circle.RegisterQuery(r)
	medical.RegisterQuery(r)
	freeze.RegisterQuery(r)
	trust.RegisterQuery(r)
	sigs.RegisterQuery(r)
	return r
}

// Stack wires up a standard router with a standard decorator chain.
// This can be passed into BaseApp.
func Stack() weave.Handler {
	authFn := Authenticator()
	return Chain(authFn).WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with the given
// arguments. If you are not sure what to use for the Handler, just
// use Stack().
func Application(name string, h weave.Handler,
	tx weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists the data
// to the named path.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("invalid database name: %s", path)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}

package app

import (
	"fmt"
	"regexp"

	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// isPath defines what paths we accept for routing messages.
var isPath = regexp.MustCompile(`^[a-z0-9_/]+$`).MatchString

// Router is a Handler that dispatches messages to the handler registered
// for the message path.
type Router struct {
	handlers map[string]weave.Handler
}

var _ weave.Registry = (*Router)(nil)
var _ weave.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]weave.Handler),
	}
}

// Handle implements weave.Registry interface. Registering a handler for an
// invalid path or for a path that is already registered results in a
// panic. Message routing is declared during the application setup and a
// failure here is a programmer error.
func (r *Router) Handle(m weave.Msg, h weave.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.handlers[path]; ok {
		panic(fmt.Sprintf("path already registered: %q", path))
	}
	r.handlers[path] = h
}

// handler returns the registered Handler for this message path. If no
// handler is registered a noSuchPathHandler is returned instead.
func (r *Router) handler(m weave.Msg) weave.Handler {
	path := m.Path()
	if h, ok := r.handlers[path]; ok {
		return h
	}
	return &noSuchPathHandler{path: path}
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Deliver(ctx, store, tx)
}

type noSuchPathHandler struct {
	path string
}

var _ weave.Handler = (*noSuchPathHandler)(nil)

func (h *noSuchPathHandler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h *noSuchPathHandler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

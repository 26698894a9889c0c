package migration

import (
	weave "github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// SchemaMigratingRegistry decorates a registry so that every registered
// handler is wrapped with a schema migration of the incoming message.
func SchemaMigratingRegistry(packageName string, r weave.Registry) weave.Registry {
	return &schemaMigratingRegistry{
		pkg: packageName,
		reg: r,
	}
}

type schemaMigratingRegistry struct {
	pkg string
	reg weave.Registry
}

func (r *schemaMigratingRegistry) Handle(m weave.Msg, h weave.Handler) {
	r.reg.Handle(m, SchemaMigratingHandler(r.pkg, h))
}

// SchemaMigratingHandler returns a weave handler that will ensure the
// message is migrated to the current schema version of the package before
// being passed to the wrapped handler.
func SchemaMigratingHandler(packageName string, h weave.Handler) weave.Handler {
	return &schemaMigratingHandler{
		pkg:     packageName,
		handler: h,
	}
}

type schemaMigratingHandler struct {
	pkg     string
	handler weave.Handler
}

var _ weave.Handler = (*schemaMigratingHandler)(nil)

func (h *schemaMigratingHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if err := h.migrate(db, tx); err != nil {
		return nil, errors.Wrap(err, "migrate message")
	}
	return h.handler.Check(ctx, db, tx)
}

func (h *schemaMigratingHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	if err := h.migrate(db, tx); err != nil {
		return nil, errors.Wrap(err, "migrate message")
	}
	return h.handler.Deliver(ctx, db, tx)
}

func (h *schemaMigratingHandler) migrate(db weave.ReadOnlyKVStore, tx weave.Tx) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "get msg")
	}
	m, ok := msg.(Migratable)
	if !ok {
		return errors.Wrapf(errors.ErrType, "message %T cannot be migrated", msg)
	}
	cur, err := CurrentSchema(db, h.pkg)
	if err != nil {
		return errors.Wrap(err, "current schema")
	}
	// Migration is applied in place, so the handler down the stack
	// observes the upgraded message.
	return reg.Apply(db, m, cur)
}

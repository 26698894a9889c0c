package bazaar

// Model groups a database key with the stored value. It is the unit
// returned by queries.
type Model struct {
	Key   []byte
	Value []byte
}

// QueryHandler can process queries for one path of the query namespace.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter allows us to register many query handlers to different paths
// and dispatch to the proper one.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter.
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 10),
	}
}

// RegisterAll registers a number of QueryRegisterers at once.
func (r QueryRouter) RegisterAll(qr ...QueryRegisterer) {
	for _, q := range qr {
		q.RegisterQuery(r)
	}
}

// QueryRegisterer is typically implemented by an extension to register all
// its query handlers under their paths.
type QueryRegisterer interface {
	RegisterQuery(r QueryRouter)
}

// Register adds a new handler for the given path. Panics on duplicate
// registration, which signals a setup error.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic("re-registering query path: " + path)
	}
	r.routes[path] = h
}

// Handler returns the registered handler for this path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

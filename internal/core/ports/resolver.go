package ports

// QueryResolver turns a loader definition into the query string to execute.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type QueryResolver interface {
	// Resolve returns query when it is set, otherwise the contents of the named query file.
	Resolve(queryName, query string) (string, error)
}

// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"encoding/json"
)

// ContentClient executes queries against the remote content API.
//
// Implementations must be safe for concurrent use; one client is shared by every
// loader built from a factory.
//
//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks
type ContentClient interface {
	// Fetch runs the query and returns its JSON result.
	// An absent result is returned as the JSON literal null.
	Fetch(ctx context.Context, query string) (json.RawMessage, error)
}

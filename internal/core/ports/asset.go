package ports

import "context"

// AssetMirror materializes remote assets on the local filesystem.
//
//go:generate mockgen -source=asset.go -destination=mocks/mock_asset.go -package=mocks
type AssetMirror interface {
	// Save downloads rawURL once and returns its public path.
	Save(ctx context.Context, rawURL string) (string, error)
}

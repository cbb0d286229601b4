package storage

import (
	"context"
)

// StorageClient writes rendered charts to an output destination
type StorageClient interface {
	// Close releases the client
	Close() error

	// StoreFile writes data at filePath, creating parents as needed
	StoreFile(ctx context.Context, filePath string, data []byte) error

	// FileExists checks if a file exists at filePath
	FileExists(ctx context.Context, filePath string) (bool, error)

	// Location returns a printable URI for filePath
	Location(filePath string) string
}

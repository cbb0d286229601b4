package storage

import (
	"context"
	"fmt"
)

// DeploymentMode selects where rendered charts are written
type DeploymentMode string

const (
	DeploymentLocal DeploymentMode = "local"
	DeploymentGCS   DeploymentMode = "gcs"
)

// NewStorageClient creates a storage client for mode rooted at root:
// a directory for local mode, a bucket name for GCS
func NewStorageClient(ctx context.Context, mode DeploymentMode, root string) (StorageClient, error) {
	switch mode {
	case DeploymentLocal:
		if root == "" {
			root = "charts"
		}
		client, err := NewLocalStorageClient(root)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return client, nil

	case DeploymentGCS:
		client, err := NewGCSClient(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported deployment mode: %s", mode)
	}
}

// Package storage abstracts blob storage for uploaded media. Paths are the
// public URL paths persisted on message and profile records, e.g.
// "/public/audio/a1b2c3d4e-1700000000000.webm".
package storage

import (
	"context"
	"io"
)

type Storage interface {
	// Save streams the blob to the backend under the given public path.
	Save(ctx context.Context, path string, r io.Reader) error
	// Delete removes the blob. A missing blob is not an error.
	Delete(ctx context.Context, path string) error
}

package storage

import (
	"context"
	"io"
)

// MediaStore persists uploaded media files (videos and profile pictures).
type MediaStore interface {
	// Save writes the content under the given name and returns the public
	// location the file is served from.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Remove deletes the named file. Missing files are not an error.
	Remove(ctx context.Context, name string) error
}

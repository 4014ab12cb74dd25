package storage

import (
	"context"
	"io"
)

type FileStorage interface {
	// Upload writes a file and returns its cleaned relative path
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the names of the regular files directly under dir
	List(ctx context.Context, dir string) ([]string, error)
}

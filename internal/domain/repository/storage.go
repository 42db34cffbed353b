package repository

import (
	"context"
	"io"
	"time"
)

// ObjectStorage is the blob store holding uploaded originals and the
// transcoded HLS output. The production implementation is MinIO.
type ObjectStorage interface {
	// GeneratePresignedUploadURL returns a URL the client can PUT the
	// original file to, valid for expiry. The server never proxies uploads.
	GeneratePresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a time-limited URL for reading an
	// object directly from storage.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Upload writes an object. The worker uses it for playlists, segments
	// and thumbnails.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Download opens an object for reading. The caller closes the reader.
	// Returns ErrObjectNotFound when the key does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key is present.
	Exists(ctx context.Context, key string) (bool, error)
}

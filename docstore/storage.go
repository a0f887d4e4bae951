/*
Package docstore abstracts the object store that holds uploaded client
documents (receipts, BIR forms, bank statements).

The API layer only keeps document metadata in SQLite; the bytes live behind
the Storage interface. Two implementations:

  - S3: any S3-compatible provider (s3.go)
  - Local: a plain directory, used in development and tests (local.go)

Keys are opaque to callers; the api package generates them when a document
is uploaded and stores them alongside the metadata row.
*/
package docstore

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when no object exists under the given key.
	ErrNotFound = errors.New("document not found in storage")

	// ErrPresignUnsupported is returned by backends that cannot mint
	// pre-signed URLs; callers fall back to streaming through Get.
	ErrPresignUnsupported = errors.New("presigned URLs not supported by this backend")
)

// Storage stores and retrieves document blobs by key.
type Storage interface {
	// Put writes the object under key, replacing any existing object.
	Put(ctx context.Context, key, contentType string, r io.Reader) error

	// Get opens the object for reading. The caller must close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// PresignGet returns a time-limited URL for direct download, or
	// ErrPresignUnsupported.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

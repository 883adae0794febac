package storage

import (
	"context"
	"errors"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrObjectNotFound is returned by StatObject when the key does not exist.
var ErrObjectNotFound = errors.New("object not found in storage")

// ObjectInfo is the metadata of a stored object.
type ObjectInfo struct {
	Size         int64
	ContentType  string
	LastModified time.Time
}

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// StatObject reports an object's metadata or ErrObjectNotFound.
	StatObject(ctx context.Context, objectKey string) (*ObjectInfo, error)

	// DeleteObjects removes every object whose key starts with prefix and
	// returns how many were deleted.
	DeleteObjects(ctx context.Context, prefix string) (int, error)
}

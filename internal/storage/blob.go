package storage

import "io"

// BlobStore is read-only access to submission artifacts.
type BlobStore interface {
	Get(key string) (io.ReadCloser, error)
}

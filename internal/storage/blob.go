package storage

import "io"

// BlobStore holds uploaded material files. Keys are opaque to callers; the
// FS implementation maps them onto a base directory.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}

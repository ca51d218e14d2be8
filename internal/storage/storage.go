// Package storage abstracts where uploaded media bytes live. The database
// only ever stores the object key.
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/viper"
)

type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete is best-effort at call sites: a missing object is not an error
	Delete(ctx context.Context, key string) error
}

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// New builds the storage backend selected by storage.type.
func New() (Storage, error) {
	switch viper.GetString("storage.type") {
	case "s3":
		return NewS3(
			viper.GetString("aws.access_key_id"),
			viper.GetString("aws.secret_access_key"),
			viper.GetString("aws.bucket"),
			viper.GetString("aws.region"),
		)
	default:
		return NewLocal(viper.GetString("storage.upload_dir"))
	}
}

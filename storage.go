package accounts

import (
	"context"
	"time"
)

// NoopObjectStorage is the default collaborator when no object storage is
// configured; purge and delete succeed silently, presign fails.
type NoopObjectStorage struct{}

var _ ObjectStorage = NoopObjectStorage{}

func (NoopObjectStorage) PurgeByPrefix(ctx context.Context, prefix string) error {
	return nil
}

func (NoopObjectStorage) DeleteObjects(ctx context.Context, keys []string) error {
	return nil
}

func (NoopObjectStorage) PresignPutObject(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	return "", ErrStorageNotConfigured
}

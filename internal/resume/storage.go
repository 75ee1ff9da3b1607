// AngelaMos | 2026
// storage.go

package resume

import (
	"context"
	"fmt"
	"io"

	"github.com/carterperez-dev/jobboard/internal/config"
)

// Storage holds resume blobs by their generated file name. Open returns
// core.ErrNotFound for a missing blob and Delete treats one as success.
type Storage interface {
	Save(ctx context.Context, name string, body io.Reader, size int64) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Exists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) error
	Ping(ctx context.Context) error
}

func NewStorage(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case config.StorageLocal:
		return NewLocalStorage(cfg.ResumeDir)
	case config.StorageS3:
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

package datastore

import (
	"context"

	"github.com/kawabatas/band-catalog/internal/domain/repository"
)

// DataStore is the app-facing facade over one storage backend. A single
// instance is built at startup and shared for the process lifetime; request
// handlers receive it instead of opening their own handles. It adds no
// caching or retry on top of the repositories it exposes.
type DataStore interface {
	Ping(ctx context.Context) error
	Close() error
	// SetConnPool は接続プール設定を適用します。
	SetConnPool(maxOpen, maxIdle int)

	// 個別の実装
	Bands() repository.BandRepository
	Songs() repository.SongRepository
}

// Config captures DB driver and DSN-like parameters.
type Config struct {
	Driver   string // e.g. "sqlite" (default)
	Source   string // extra hint for path decisions (e.g., "gcs")
	Strategy SnapshotStrategy
}

// Open selects and opens a datastore by driver.
func Open(ctx context.Context, cfg Config) (DataStore, error) {
	switch cfg.Driver {
	case "sqlite":
		return openSQLite(ctx, cfg)
	default:
		return openSQLite(ctx, cfg)
	}
}

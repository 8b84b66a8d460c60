package repository

import (
	"context"

	"github.com/kawabatas/band-catalog/internal/domain/record"
)

// BandRepository abstracts band reads regardless of the underlying DB.
//
// Absence convention (shared with SongRepository): a nil Record or nil
// slice with a nil error means "no matching row". Errors are reserved for
// store failures (unreachable, protocol). Callers must branch on nil, not
// on errors, to tell "nothing found" from "store is down". A non-nil empty
// slice is a real, empty result set, distinct from absence.
type BandRepository interface {
	// GetAll returns every band in storage order.
	GetAll(ctx context.Context) ([]record.Record, error)
	// GetByName is an exact-match lookup expecting at most one row.
	GetByName(ctx context.Context, name string) (record.Record, error)
}

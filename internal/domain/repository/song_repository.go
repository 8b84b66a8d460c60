package repository

import (
	"context"

	"github.com/kawabatas/band-catalog/internal/domain/model"
	"github.com/kawabatas/band-catalog/internal/domain/record"
)

// SongRepository abstracts song reads and writes. See BandRepository for
// the nil-means-absent convention.
type SongRepository interface {
	GetAll(ctx context.Context) ([]record.Record, error)
	// GetByTitle returns every song sharing the exact title.
	GetByTitle(ctx context.Context, title string) ([]record.Record, error)
	// GetByBand filters on the denormalized band name column.
	GetByBand(ctx context.Context, band string) ([]record.Record, error)
	GetByID(ctx context.Context, id int64) (record.Record, error)

	// Create validates that draft.Band names an existing band; if it does
	// not, Create returns nil without inserting anything. On success the
	// new row gets created_at == updated_at (one instant for both) and the
	// re-fetched record is returned.
	Create(ctx context.Context, draft model.SongDraft) (record.Record, error)

	// Update writes only the fields present in the patch, then touches
	// updated_at, and returns the re-fetched record. nil means no song
	// with that id. A patched Band value is NOT re-validated against the
	// bands table; only creation checks the reference.
	Update(ctx context.Context, id int64, patch model.SongPatch) (record.Record, error)

	// Delete verifies the row exists, removes it and returns the id.
	// Unlike the other operations it has no absence path: a missing id is
	// an error.
	Delete(ctx context.Context, id int64) (int64, error)
}

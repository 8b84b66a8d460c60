package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kawabatas/band-catalog/internal/domain/model"
	"github.com/kawabatas/band-catalog/internal/domain/record"
	"github.com/kawabatas/band-catalog/internal/util/clock"
)

const songColumns = `id, title, author, lyrics, band, created_at, updated_at`

type SongRepo struct {
	db    *sql.DB
	bands *BandRepo
}

func NewSongRepo(db *sql.DB, bands *BandRepo) *SongRepo {
	return &SongRepo{db: db, bands: bands}
}

func (r *SongRepo) GetAll(ctx context.Context) ([]record.Record, error) {
	return r.list(ctx, `SELECT `+songColumns+` FROM songs ORDER BY id ASC`)
}

func (r *SongRepo) GetByTitle(ctx context.Context, title string) ([]record.Record, error) {
	return r.list(ctx, `SELECT `+songColumns+` FROM songs WHERE title = ? ORDER BY id ASC`, title)
}

func (r *SongRepo) GetByBand(ctx context.Context, band string) ([]record.Record, error) {
	return r.list(ctx, `SELECT `+songColumns+` FROM songs WHERE band = ? ORDER BY id ASC`, band)
}

func (r *SongRepo) list(ctx context.Context, query string, args ...any) ([]record.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []record.Record{}
	for rows.Next() {
		var s model.Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Author, &s.Lyrics, &s.Band, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, record.FromSong(s))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SongRepo) GetByID(ctx context.Context, id int64) (record.Record, error) {
	var s model.Song
	err := r.db.QueryRowContext(ctx, `
SELECT `+songColumns+`
FROM songs
WHERE id = ?
`, id).Scan(&s.ID, &s.Title, &s.Author, &s.Lyrics, &s.Band, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record.FromSong(s), nil
}

// Create inserts a song after checking that draft.Band names an existing
// band; an unknown band reads as absence (nil, nil), nothing is inserted.
// created_at と updated_at には同一の瞬間を書き込む。
func (r *SongRepo) Create(ctx context.Context, draft model.SongDraft) (record.Record, error) {
	band, err := r.bands.GetByName(ctx, draft.Band)
	if err != nil {
		return nil, fmt.Errorf("check band: %w", err)
	}
	if band == nil {
		return nil, nil
	}

	now := clock.NowUTCFormatted(TimeLayout)
	res, err := r.db.ExecContext(ctx, `
INSERT INTO songs (title, author, lyrics, band, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, draft.Title, draft.Author, draft.Lyrics, draft.Band, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Update applies each present patch field as its own statement, then
// touches updated_at, and returns the re-fetched row. A failed statement
// aborts the remaining ones; fields already written stay written (no
// rollback). A patched band name is not checked against the bands table.
func (r *SongRepo) Update(ctx context.Context, id int64, patch model.SongPatch) (record.Record, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	fields := []struct {
		column string
		value  *string
	}{
		{"title", patch.Title},
		{"author", patch.Author},
		{"lyrics", patch.Lyrics},
		{"band", patch.Band},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if _, err := r.db.ExecContext(ctx, `UPDATE songs SET `+f.column+` = ? WHERE id = ?`, *f.value, id); err != nil {
			return nil, fmt.Errorf("update %s: %w", f.column, err)
		}
	}
	// データ更新が無くても updated_at は必ず進める
	now := clock.NowUTCFormatted(TimeLayout)
	if _, err := r.db.ExecContext(ctx, `UPDATE songs SET updated_at = ? WHERE id = ?`, now, id); err != nil {
		return nil, fmt.Errorf("touch updated_at: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the row after verifying it exists. Unlike the other
// operations a missing id is an error here, not absence.
func (r *SongRepo) Delete(ctx context.Context, id int64) (int64, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		return 0, fmt.Errorf("song %d does not exist", id)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("delete song: %w", err)
	}
	return id, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/kawabatas/band-catalog/internal/domain/model"
	"github.com/kawabatas/band-catalog/internal/domain/record"
)

type BandRepo struct{ db *sql.DB }

func NewBandRepo(db *sql.DB) *BandRepo { return &BandRepo{db: db} }

func (r *BandRepo) GetAll(ctx context.Context) ([]record.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description, created_at
FROM bands
ORDER BY id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []record.Record{}
	for rows.Next() {
		var b model.Band
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt); err != nil {
			// 行のデコード失敗は「該当なし」に落とす。エラーは接続系のみ伝播する。
			slog.WarnContext(ctx, "bands: row decode failed", slog.Any("error", err))
			return nil, nil
		}
		out = append(out, record.FromBand(b))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BandRepo) GetByName(ctx context.Context, name string) (record.Record, error) {
	var b model.Band
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, description, created_at
FROM bands
WHERE name = ?
`, name).Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record.FromBand(b), nil
}

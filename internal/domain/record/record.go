// Package record defines the transport-neutral representation of catalog
// rows: a field-name to string-value mapping, so callers above the
// repository layer never touch concrete row types.
package record

import (
	"strconv"

	"github.com/kawabatas/band-catalog/internal/domain/model"
)

// Record maps a field name to its string-rendered value. All non-string
// columns (ids, timestamps) are rendered to text before entering a Record.
// A nil Record means "absent" and marshals to JSON null.
type Record map[string]string

// FromBand renders a band row into a Record.
func FromBand(b model.Band) Record {
	return Record{
		"id":          strconv.FormatInt(b.ID, 10),
		"name":        b.Name,
		"description": b.Description,
		"created_at":  b.CreatedAt,
	}
}

// FromSong renders a song row into a Record.
func FromSong(s model.Song) Record {
	return Record{
		"id":         strconv.FormatInt(s.ID, 10),
		"title":      s.Title,
		"author":     s.Author,
		"lyrics":     s.Lyrics,
		"band":       s.Band,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	}
}

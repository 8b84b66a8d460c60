package model

// Band is one row of the bands table. Bands are read-only through this
// service; rows come from seed data or external administration.
// Timestamps are kept in their stored text form ("2006-01-02 15:04:05" UTC).
type Band struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   string
}

package model

// Song is one row of the songs table. Band holds the referenced band's
// name, not its id (denormalized on purpose; no FK constraint in the DB).
type Song struct {
	ID        int64
	Title     string
	Author    string
	Lyrics    string
	Band      string
	CreatedAt string
	UpdatedAt string
}

// SongDraft is the payload for creating a song. Title and Band are
// required; Author and Lyrics may be empty.
type SongDraft struct {
	Title  string
	Author string
	Lyrics string
	Band   string
}

// SongPatch is the payload for a partial update. Only non-nil fields are
// written; each is applied as its own statement.
type SongPatch struct {
	Title  *string
	Author *string
	Lyrics *string
	Band   *string
}

// Empty reports whether the patch carries no fields at all.
func (p SongPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Lyrics == nil && p.Band == nil
}

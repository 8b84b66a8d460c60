// Package memory implements the datastore contracts on an in-process map,
// mirroring the SQLite backend's absence semantics. It exists as the unit
// test seam; nothing persists beyond the process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kawabatas/band-catalog/internal/domain/model"
	"github.com/kawabatas/band-catalog/internal/domain/record"
	"github.com/kawabatas/band-catalog/internal/domain/repository"
	"github.com/kawabatas/band-catalog/internal/infra/datastore/sqlite"
	"github.com/kawabatas/band-catalog/internal/util/clock"
)

type Store struct {
	mu         sync.RWMutex
	bands      []model.Band
	songs      []model.Song
	nextBandID int64
	nextSongID int64
}

func New() *Store {
	return &Store{nextBandID: 1, nextSongID: 1}
}

func (s *Store) Ping(ctx context.Context) error   { return nil }
func (s *Store) Close() error                     { return nil }
func (s *Store) SetConnPool(maxOpen, maxIdle int) {}

func (s *Store) Bands() repository.BandRepository { return &bandRepo{s: s} }
func (s *Store) Songs() repository.SongRepository { return &songRepo{s: s} }

// AddBand seeds one band row (bands are read-only through the repository).
func (s *Store) AddBand(name, description string) model.Band {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := model.Band{
		ID:          s.nextBandID,
		Name:        name,
		Description: description,
		CreatedAt:   clock.NowUTCFormatted(sqlite.TimeLayout),
	}
	s.nextBandID++
	s.bands = append(s.bands, b)
	return b
}

type bandRepo struct{ s *Store }

func (r *bandRepo) GetAll(ctx context.Context) ([]record.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []record.Record{}
	for _, b := range r.s.bands {
		out = append(out, record.FromBand(b))
	}
	return out, nil
}

func (r *bandRepo) GetByName(ctx context.Context, name string) (record.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.bands {
		if b.Name == name {
			return record.FromBand(b), nil
		}
	}
	return nil, nil
}

type songRepo struct{ s *Store }

func (r *songRepo) GetAll(ctx context.Context) ([]record.Record, error) {
	return r.filter(func(model.Song) bool { return true })
}

func (r *songRepo) GetByTitle(ctx context.Context, title string) ([]record.Record, error) {
	return r.filter(func(s model.Song) bool { return s.Title == title })
}

func (r *songRepo) GetByBand(ctx context.Context, band string) ([]record.Record, error) {
	return r.filter(func(s model.Song) bool { return s.Band == band })
}

func (r *songRepo) filter(keep func(model.Song) bool) ([]record.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []record.Record{}
	for _, s := range r.s.songs {
		if keep(s) {
			out = append(out, record.FromSong(s))
		}
	}
	return out, nil
}

func (r *songRepo) GetByID(ctx context.Context, id int64) (record.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i := r.s.indexOf(id); i >= 0 {
		return record.FromSong(r.s.songs[i]), nil
	}
	return nil, nil
}

func (r *songRepo) Create(ctx context.Context, draft model.SongDraft) (record.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	found := false
	for _, b := range r.s.bands {
		if b.Name == draft.Band {
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}
	now := clock.NowUTCFormatted(sqlite.TimeLayout)
	song := model.Song{
		ID:        r.s.nextSongID,
		Title:     draft.Title,
		Author:    draft.Author,
		Lyrics:    draft.Lyrics,
		Band:      draft.Band,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.nextSongID++
	r.s.songs = append(r.s.songs, song)
	return record.FromSong(song), nil
}

func (r *songRepo) Update(ctx context.Context, id int64, patch model.SongPatch) (record.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	song := &r.s.songs[i]
	if patch.Title != nil {
		song.Title = *patch.Title
	}
	if patch.Author != nil {
		song.Author = *patch.Author
	}
	if patch.Lyrics != nil {
		song.Lyrics = *patch.Lyrics
	}
	if patch.Band != nil {
		// 作成時と異なり、更新ではバンドの存在チェックをしない
		song.Band = *patch.Band
	}
	song.UpdatedAt = clock.NowUTCFormatted(sqlite.TimeLayout)
	return record.FromSong(*song), nil
}

func (r *songRepo) Delete(ctx context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.s.indexOf(id)
	if i < 0 {
		return 0, fmt.Errorf("song %d does not exist", id)
	}
	r.s.songs = append(r.s.songs[:i], r.s.songs[i+1:]...)
	return id, nil
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id int64) int {
	for i, song := range s.songs {
		if song.ID == id {
			return i
		}
	}
	return -1
}

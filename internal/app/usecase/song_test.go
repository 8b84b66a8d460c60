package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/kawabatas/band-catalog/internal/domain/model"
	"github.com/kawabatas/band-catalog/internal/domain/record"
	"github.com/kawabatas/band-catalog/internal/domain/repository"
	"github.com/kawabatas/band-catalog/internal/infra/datastore"
	"github.com/kawabatas/band-catalog/internal/infra/datastore/memory"
)

func strptr(s string) *string { return &s }

// seedSongs fills the store with n Queen songs plus one Pink Floyd song
// titled "Echoes".
func seedSongs(t *testing.T, n int) *memory.Store {
	t.Helper()
	store := memory.New()
	store.AddBand("Queen", "British rock band")
	store.AddBand("Pink Floyd", "English progressive rock band")
	for i := 0; i < n; i++ {
		draft := model.SongDraft{Title: fmt.Sprintf("song-%02d", i), Band: "Queen"}
		if rec, err := store.Songs().Create(context.Background(), draft); err != nil || rec == nil {
			t.Fatalf("seed song %d: rec=%v err=%v", i, rec, err)
		}
	}
	if rec, err := store.Songs().Create(context.Background(), model.SongDraft{Title: "Echoes", Band: "Pink Floyd"}); err != nil || rec == nil {
		t.Fatalf("seed echoes: rec=%v err=%v", rec, err)
	}
	return store
}

func TestSongListPagination(t *testing.T) {
	t.Parallel()

	// 25 Queen songs, page size 10 → pages of 10/10/5
	svc := NewSongService(seedSongs(t, 25))
	band := "Queen"

	cases := []struct {
		index      int
		wantLen    int
		outOfRange bool
	}{
		{index: 1, wantLen: 10},
		{index: 2, wantLen: 10},
		{index: 3, wantLen: 5},
		{index: 4, wantLen: 0, outOfRange: true},
	}
	for _, tc := range cases {
		res, err := svc.List(context.Background(), SongListParams{PageSize: 10, PageIndex: tc.index, Band: &band})
		if err != nil {
			t.Fatalf("page %d: %v", tc.index, err)
		}
		if res == nil {
			t.Fatalf("page %d: unexpected absence", tc.index)
		}
		if len(res.Songs) != tc.wantLen {
			t.Fatalf("page %d length = %d, want %d", tc.index, len(res.Songs), tc.wantLen)
		}
		if res.OutOfRange != tc.outOfRange {
			t.Fatalf("page %d out-of-range = %v, want %v", tc.index, res.OutOfRange, tc.outOfRange)
		}
		if res.Total != 25 {
			t.Fatalf("page %d total = %d, want 25", tc.index, res.Total)
		}
		if res.PageSize != 10 || res.PageIndex != tc.index {
			t.Fatalf("page %d echo mismatch: size=%d index=%d", tc.index, res.PageSize, res.PageIndex)
		}
	}
}

func TestSongListDefaults(t *testing.T) {
	t.Parallel()

	svc := NewSongService(seedSongs(t, 15))

	res, err := svc.List(context.Background(), SongListParams{})
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if res.PageSize != DefaultPageSize || res.PageIndex != DefaultPageIndex {
		t.Fatalf("defaults not applied: size=%d index=%d", res.PageSize, res.PageIndex)
	}
	if len(res.Songs) != 10 {
		t.Fatalf("page length = %d, want 10", len(res.Songs))
	}
	if res.Total != 16 {
		t.Fatalf("total = %d, want 16", res.Total)
	}
}

func TestSongListTitleFilterWinsOverBand(t *testing.T) {
	t.Parallel()

	svc := NewSongService(seedSongs(t, 5))

	res, err := svc.List(context.Background(), SongListParams{
		Title: strptr("Echoes"),
		Band:  strptr("Queen"),
	})
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("total = %d, want 1 (title filter must win)", res.Total)
	}
	if res.Songs[0]["band"] != "Pink Floyd" {
		t.Fatalf("band = %q, want %q", res.Songs[0]["band"], "Pink Floyd")
	}
}

func TestSongListEmptyFilterIsOutOfRange(t *testing.T) {
	t.Parallel()

	svc := NewSongService(seedSongs(t, 3))

	res, err := svc.List(context.Background(), SongListParams{Title: strptr("Unknown Title")})
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if res == nil {
		t.Fatal("an empty set is not absence")
	}
	if !res.OutOfRange || len(res.Songs) != 0 || res.Total != 0 {
		t.Fatalf("empty set page = %+v", res)
	}
}

// absentSongStore reproduces a backend whose base query resolved to
// absence rather than an empty set.
type absentSongStore struct{ datastore.DataStore }

func (absentSongStore) Songs() repository.SongRepository { return absentSongRepo{} }

type absentSongRepo struct{ repository.SongRepository }

func (absentSongRepo) GetAll(ctx context.Context) ([]record.Record, error) { return nil, nil }

func TestSongListAbsentBaseSet(t *testing.T) {
	t.Parallel()

	svc := NewSongService(absentSongStore{})

	res, err := svc.List(context.Background(), SongListParams{})
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result for an absent base set, got %+v", res)
	}
}

func TestSongMutationsDelegate(t *testing.T) {
	t.Parallel()

	store := seedSongs(t, 1)
	svc := NewSongService(store)

	rec, err := svc.Create(context.Background(), model.SongDraft{Title: "Breathe", Band: "Pink Floyd"})
	if err != nil || rec == nil {
		t.Fatalf("create: rec=%v err=%v", rec, err)
	}
	missing, err := svc.Update(context.Background(), 999, model.SongPatch{Title: strptr("X")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected absence for unknown id, got %v", missing)
	}
	if _, err := svc.Delete(context.Background(), 999); err == nil {
		t.Fatal("expected delete error for unknown id")
	}
}

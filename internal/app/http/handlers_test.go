package apphttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kawabatas/band-catalog/internal/domain/model"
	"github.com/kawabatas/band-catalog/internal/infra/datastore/memory"
)

func newTestMux(t *testing.T) (*http.ServeMux, *memory.Store) {
	t.Helper()
	store := memory.New()
	store.AddBand("Queen", "British rock band")
	store.AddBand("Pink Floyd", "English progressive rock band")
	mux := http.NewServeMux()
	Register(mux, store)
	return mux, store
}

func doJSON(t *testing.T, mux *http.ServeMux, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	out := map[string]any{}
	if rr.Body.Len() > 0 {
		_ = json.Unmarshal(rr.Body.Bytes(), &out)
	}
	return rr, out
}

func TestListBands(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t)
	rr, _ := doJSON(t, mux, http.MethodGet, "/api/bands", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var bands []map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &bands); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(bands) != 2 {
		t.Fatalf("band count = %d, want 2", len(bands))
	}
}

func TestListBandsByName(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t)
	rr, _ := doJSON(t, mux, http.MethodGet, "/api/bands?name=Queen", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var bands []map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &bands); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(bands) != 1 || bands[0]["name"] != "Queen" {
		t.Fatalf("body = %v", bands)
	}
}

func TestListSongsRejectsBadPageParams(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t)
	for _, target := range []string{
		"/api/songs?page_size=abc",
		"/api/songs?page_size=0",
		"/api/songs?page_index=-1",
	} {
		rr, body := doJSON(t, mux, http.MethodGet, target, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rr.Code)
		}
		if d, _ := body["detail"].(string); d == "" {
			t.Fatalf("%s: missing detail in %v", target, body)
		}
	}
}

func TestListSongsOutOfRangePageKeepsEnvelope(t *testing.T) {
	t.Parallel()

	mux, store := newTestMux(t)
	for i := 0; i < 3; i++ {
		if _, err := store.Songs().Create(context.Background(), model.SongDraft{Title: "T", Band: "Queen"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rr, body := doJSON(t, mux, http.MethodGet, "/api/songs?page_size=10&page_index=2", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if body["total"] != float64(3) {
		t.Fatalf("total = %v, want 3", body["total"])
	}
	if songs, ok := body["songs"].([]any); !ok || len(songs) != 0 {
		t.Fatalf("songs = %v, want empty list", body["songs"])
	}
}

func TestListSongsPage(t *testing.T) {
	t.Parallel()

	mux, store := newTestMux(t)
	for i := 0; i < 12; i++ {
		if _, err := store.Songs().Create(context.Background(), model.SongDraft{Title: "T", Band: "Queen"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rr, body := doJSON(t, mux, http.MethodGet, "/api/songs?page_size=10&page_index=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	songs, ok := body["songs"].([]any)
	if !ok || len(songs) != 2 {
		t.Fatalf("songs = %v, want 2 items", body["songs"])
	}
	if body["page_index"] != float64(2) || body["page_size"] != float64(10) {
		t.Fatalf("echo mismatch: %v", body)
	}
}

func TestCreateSong(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t)
	rr, body := doJSON(t, mux, http.MethodPost, "/api/songs",
		`{"title":"Bohemian Rhapsody","band":"Queen","lyrics":"..."}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %v)", rr.Code, body)
	}
	if body["band"] != "Queen" || body["title"] != "Bohemian Rhapsody" {
		t.Fatalf("body = %v", body)
	}
	if body["created_at"] != body["updated_at"] {
		t.Fatalf("created_at %v != updated_at %v", body["created_at"], body["updated_at"])
	}
}

func TestCreateSongUnknownBand(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t)
	rr, body := doJSON(t, mux, http.MethodPost, "/api/songs", `{"title":"X","band":"Nobody"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if body["detail"] != "band does not exist" {
		t.Fatalf("detail = %v", body["detail"])
	}
}

func TestCreateSongMissingRequiredFields(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t)
	for _, payload := range []string{`{"band":"Queen"}`, `{"title":"X"}`, `not json`} {
		rr, _ := doJSON(t, mux, http.MethodPost, "/api/songs", payload)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: status = %d, want 400", payload, rr.Code)
		}
	}
}

func TestGetSong(t *testing.T) {
	t.Parallel()

	mux, store := newTestMux(t)
	if _, err := store.Songs().Create(context.Background(), model.SongDraft{Title: "Echoes", Band: "Pink Floyd"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr, body := doJSON(t, mux, http.MethodGet, "/api/songs/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if body["title"] != "Echoes" {
		t.Fatalf("title = %v", body["title"])
	}

	rr, body = doJSON(t, mux, http.MethodGet, "/api/songs/99", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if body["detail"] != "song does not exist" {
		t.Fatalf("detail = %v", body["detail"])
	}

	rr, _ = doJSON(t, mux, http.MethodGet, "/api/songs/abc", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestUpdateSong(t *testing.T) {
	t.Parallel()

	mux, store := newTestMux(t)
	if _, err := store.Songs().Create(context.Background(), model.SongDraft{Title: "Echoes", Author: "Waters", Band: "Pink Floyd"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr, body := doJSON(t, mux, http.MethodPut, "/api/songs/1", `{"lyrics":"overhead the albatross"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if body["lyrics"] != "overhead the albatross" || body["author"] != "Waters" {
		t.Fatalf("body = %v", body)
	}

	rr, _ = doJSON(t, mux, http.MethodPut, "/api/songs/99", `{"title":"X"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestDeleteSong(t *testing.T) {
	t.Parallel()

	mux, store := newTestMux(t)
	if _, err := store.Songs().Create(context.Background(), model.SongDraft{Title: "Echoes", Band: "Pink Floyd"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr, _ := doJSON(t, mux, http.MethodDelete, "/api/songs/1", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}

	rr, body := doJSON(t, mux, http.MethodDelete, "/api/songs/1", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if body["detail"] != "song does not exist" {
		t.Fatalf("detail = %v", body["detail"])
	}
}

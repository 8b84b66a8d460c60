package apphttp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kawabatas/band-catalog/internal/app/usecase"
	"github.com/kawabatas/band-catalog/internal/domain/model"
	"github.com/kawabatas/band-catalog/internal/infra/datastore"
)

// Register wires API endpoints onto the provided mux.
func Register(mux *http.ServeMux, ds datastore.DataStore) {
	mux.HandleFunc("GET /healthz", healthz(ds)) // DB接続も確認するため healthz

	bands := usecase.NewBandService(ds)
	songs := usecase.NewSongService(ds)
	mux.HandleFunc("GET /api/bands", listBands(bands))
	mux.HandleFunc("GET /api/songs", listSongs(songs))
	mux.HandleFunc("POST /api/songs", createSong(songs))
	mux.HandleFunc("GET /api/songs/{id}", getSong(songs))
	mux.HandleFunc("PUT /api/songs/{id}", updateSong(songs))
	mux.HandleFunc("DELETE /api/songs/{id}", deleteSong(songs))
}

func healthz(ds datastore.DataStore) http.HandlerFunc {
	type resp struct {
		Status string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ds.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, resp{Status: "ng"})
			return
		}
		writeJSON(w, http.StatusOK, resp{Status: "ok"})
	}
}

func listBands(svc *usecase.BandService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := optionalParam(r.URL.Query(), "name")
		result, err := svc.List(r.Context(), name)
		if err != nil {
			slog.ErrorContext(r.Context(), "list bands failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to list bands")
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func listSongs(svc *usecase.SongService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		size, err := intParam(q, "page_size", usecase.DefaultPageSize)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid page_size")
			return
		}
		index, err := intParam(q, "page_index", usecase.DefaultPageIndex)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid page_index")
			return
		}
		params := usecase.SongListParams{
			PageSize:  size,
			PageIndex: index,
			Title:     optionalParam(q, "title"),
			Band:      optionalParam(q, "band"),
		}
		result, err := svc.List(r.Context(), params)
		if err != nil {
			slog.ErrorContext(r.Context(), "list songs failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to list songs")
			return
		}
		if result == nil {
			writeError(w, http.StatusNotFound, "song does not exist")
			return
		}
		if result.OutOfRange {
			// ページ範囲外: エンベロープはそのまま返しつつクライアントエラーにする
			writeJSON(w, http.StatusBadRequest, result)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func getSong(svc *usecase.SongService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := songID(w, r)
		if !ok {
			return
		}
		rec, err := svc.Get(r.Context(), id)
		if err != nil {
			slog.ErrorContext(r.Context(), "get song failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to get song")
			return
		}
		if rec == nil {
			writeError(w, http.StatusNotFound, "song does not exist")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// songPayload is the JSON body for create/update. Pointer fields tell a
// missing key apart from an empty value.
type songPayload struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Lyrics *string `json:"lyrics"`
	Band   *string `json:"band"`
}

func createSong(svc *usecase.SongService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p songPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if p.Title == nil || *p.Title == "" || p.Band == nil || *p.Band == "" {
			writeError(w, http.StatusBadRequest, "title and band are required")
			return
		}
		draft := model.SongDraft{Title: *p.Title, Band: *p.Band}
		if p.Author != nil {
			draft.Author = *p.Author
		}
		if p.Lyrics != nil {
			draft.Lyrics = *p.Lyrics
		}
		rec, err := svc.Create(r.Context(), draft)
		if err != nil {
			slog.ErrorContext(r.Context(), "create song failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to create song")
			return
		}
		if rec == nil {
			// バンド存在チェックに落ちた（バリデーションエラー）
			writeError(w, http.StatusBadRequest, "band does not exist")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func updateSong(svc *usecase.SongService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := songID(w, r)
		if !ok {
			return
		}
		var p songPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		patch := model.SongPatch{Title: p.Title, Author: p.Author, Lyrics: p.Lyrics, Band: p.Band}
		rec, err := svc.Update(r.Context(), id, patch)
		if err != nil {
			slog.ErrorContext(r.Context(), "update song failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to update song")
			return
		}
		if rec == nil {
			writeError(w, http.StatusNotFound, "song does not exist")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func deleteSong(svc *usecase.SongService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := songID(w, r)
		if !ok {
			return
		}
		if _, err := svc.Delete(r.Context(), id); err != nil {
			// Delete は存在確認を先に行うため、エラーは「該当なし」を含む
			writeError(w, http.StatusBadRequest, "song does not exist")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// songID parses the {id} path segment; on failure it writes a 400 and
// reports !ok.
func songID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid song id")
		return 0, false
	}
	return id, true
}

// optionalParam returns the query value, or nil when the key is absent.
func optionalParam(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

// intParam parses a positive integer query value (default when absent).
func intParam(q url.Values, key string, def int) (int, error) {
	if !q.Has(key) {
		return def, nil
	}
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

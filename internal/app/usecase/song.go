package usecase

import (
	"context"

	"github.com/kawabatas/band-catalog/internal/domain/model"
	"github.com/kawabatas/band-catalog/internal/domain/record"
	"github.com/kawabatas/band-catalog/internal/infra/datastore"
)

const (
	DefaultPageSize  = 10
	DefaultPageIndex = 1
)

// SongListParams は GET /api/songs のリクエストのパラメータです。
// Title and Band are mutually exclusive filters; when both are supplied
// Title wins.
type SongListParams struct {
	PageSize  int
	PageIndex int
	Title     *string
	Band      *string
}

// SongListResult is one page of the filtered result set. Total counts the
// whole filtered set, not the page. OutOfRange marks a page index beyond
// the last page; the envelope is still returned so the caller can echo it.
type SongListResult struct {
	Songs      []record.Record `json:"songs"`
	Total      int             `json:"total"`
	PageSize   int             `json:"page_size"`
	PageIndex  int             `json:"page_index"`
	OutOfRange bool            `json:"-"`
}

type SongService struct {
	ds datastore.DataStore
}

func NewSongService(ds datastore.DataStore) *SongService {
	return &SongService{ds: ds}
}

// List selects the base set by filter priority (title, then band, then
// all) and cuts out one fixed-size, 1-indexed page. A nil result with a
// nil error means the base set itself was absent.
func (s *SongService) List(ctx context.Context, p SongListParams) (*SongListResult, error) {
	size, index := p.PageSize, p.PageIndex
	if size <= 0 {
		size = DefaultPageSize
	}
	if index <= 0 {
		index = DefaultPageIndex
	}

	var base []record.Record
	var err error
	switch {
	case p.Title != nil:
		base, err = s.ds.Songs().GetByTitle(ctx, *p.Title)
	case p.Band != nil:
		base, err = s.ds.Songs().GetByBand(ctx, *p.Band)
	default:
		base, err = s.ds.Songs().GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, nil
	}

	res := &SongListResult{Total: len(base), PageSize: size, PageIndex: index}
	start := (index - 1) * size
	if start >= len(base) {
		// 空集合の1ページ目もここに落ちる（ページが存在しないため）
		res.Songs = []record.Record{}
		res.OutOfRange = true
		return res, nil
	}
	end := start + size
	if end > len(base) {
		end = len(base)
	}
	res.Songs = base[start:end]
	return res, nil
}

func (s *SongService) Get(ctx context.Context, id int64) (record.Record, error) {
	return s.ds.Songs().GetByID(ctx, id)
}

func (s *SongService) Create(ctx context.Context, draft model.SongDraft) (record.Record, error) {
	return s.ds.Songs().Create(ctx, draft)
}

func (s *SongService) Update(ctx context.Context, id int64, patch model.SongPatch) (record.Record, error) {
	return s.ds.Songs().Update(ctx, id, patch)
}

func (s *SongService) Delete(ctx context.Context, id int64) (int64, error) {
	return s.ds.Songs().Delete(ctx, id)
}

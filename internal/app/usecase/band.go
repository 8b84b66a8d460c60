package usecase

import (
	"context"

	"github.com/kawabatas/band-catalog/internal/domain/record"
	"github.com/kawabatas/band-catalog/internal/infra/datastore"
)

type BandService struct {
	ds datastore.DataStore
}

func NewBandService(ds datastore.DataStore) *BandService {
	return &BandService{ds: ds}
}

// List returns every band, or, when a name filter is supplied, that one
// band wrapped in a single-element list so the response shape stays
// uniform. An unknown name wraps a nil record (JSON null).
func (s *BandService) List(ctx context.Context, name *string) ([]record.Record, error) {
	if name != nil {
		b, err := s.ds.Bands().GetByName(ctx, *name)
		if err != nil {
			return nil, err
		}
		return []record.Record{b}, nil
	}
	return s.ds.Bands().GetAll(ctx)
}

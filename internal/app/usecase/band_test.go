package usecase

import (
	"context"
	"testing"

	"github.com/kawabatas/band-catalog/internal/infra/datastore/memory"
)

func TestBandListAll(t *testing.T) {
	t.Parallel()

	store := memory.New()
	store.AddBand("Queen", "British rock band")
	store.AddBand("Pink Floyd", "English progressive rock band")
	svc := NewBandService(store)

	got, err := svc.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list bands: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("band count = %d, want 2", len(got))
	}
}

func TestBandListByNameWrapsSingleElement(t *testing.T) {
	t.Parallel()

	store := memory.New()
	store.AddBand("Queen", "British rock band")
	svc := NewBandService(store)

	name := "Queen"
	got, err := svc.List(context.Background(), &name)
	if err != nil {
		t.Fatalf("list bands: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("result length = %d, want 1", len(got))
	}
	if got[0]["name"] != "Queen" {
		t.Fatalf("name = %q, want %q", got[0]["name"], "Queen")
	}
}

func TestBandListUnknownNameWrapsNil(t *testing.T) {
	t.Parallel()

	store := memory.New()
	svc := NewBandService(store)

	name := "No Such Band"
	got, err := svc.List(context.Background(), &name)
	if err != nil {
		t.Fatalf("list bands: %v", err)
	}
	// 形を揃えるため、未知の名前でも要素1つ（中身は nil → JSON null）
	if len(got) != 1 {
		t.Fatalf("result length = %d, want 1", len(got))
	}
	if got[0] != nil {
		t.Fatalf("expected nil record, got %v", got[0])
	}
}

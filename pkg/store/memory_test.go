package store

import (
	"context"
	"testing"
	"time"

	"github.com/patchwire/patchwire/pkg/document"
	"github.com/patchwire/patchwire/pkg/errors"
	"github.com/patchwire/patchwire/pkg/flow"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	d := document.FromGraph("patch", flow.Graph{Nodes: []flow.Node{{ID: "a"}}})
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "patch" || got.Graph.NodeCount() != 1 {
		t.Errorf("Get() = %+v", got)
	}

	// The store holds its own copy.
	got.Name = "mutated"
	again, _ := s.Get(ctx, d.ID)
	if again.Name != "patch" {
		t.Error("Get() returned a shared document")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("Get(missing) error = %v, want DOCUMENT_NOT_FOUND", err)
	}
}

func TestMemoryStorePutValidates(t *testing.T) {
	s := NewMemoryStore()
	d := document.New("bad")
	d.ID = "not-a-guid"

	if err := s.Put(context.Background(), d); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("Put(invalid) error = %v, want INVALID_DOCUMENT", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	d := document.New("p")
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, d.ID); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("Get(deleted) error = %v, want DOCUMENT_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, d.ID); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("Delete(deleted) error = %v, want DOCUMENT_NOT_FOUND", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	older := document.FromGraph("older", flow.Graph{Nodes: []flow.Node{{ID: "a"}, {ID: "b"}}})
	older.UpdatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := document.New("newer")
	newer.UpdatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, d := range []*document.Document{older, newer} {
		if err := s.Put(ctx, d); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(list))
	}
	if list[0].Name != "newer" || list[1].Name != "older" {
		t.Errorf("List() order = %s, %s, want newest first", list[0].Name, list[1].Name)
	}
	if list[1].NodeCount != 2 {
		t.Errorf("List() NodeCount = %d, want 2", list[1].NodeCount)
	}
}

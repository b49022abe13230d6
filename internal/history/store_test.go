package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndGet(t *testing.T) {
	store := openTestStore(t)
	score := 85.0
	added, err := store.Add(context.Background(), Entry{
		RunID:      "run-1",
		SourceFile: "call.wav",
		SourceType: "audio",
		Status:     StatusCompliant,
		Score:      &score,
		Summary:    "clean call",
		Violations: []string{},
		Breakdown:  map[string]float64{"professionalism": 90},
		ReportPath: "/reports/call.md",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID == 0 || added.CreatedAt.IsZero() {
		t.Fatalf("entry not populated: %+v", added)
	}

	got, err := store.GetByID(context.Background(), added.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Score == nil || *got.Score != 85 {
		t.Errorf("score = %v", got.Score)
	}
	if got.Breakdown["professionalism"] != 90 {
		t.Errorf("breakdown = %v", got.Breakdown)
	}
	if got.Status != StatusCompliant {
		t.Errorf("status = %q", got.Status)
	}
}

func TestAddNilScore(t *testing.T) {
	store := openTestStore(t)
	added, err := store.Add(context.Background(), Entry{
		RunID:      "run-2",
		SourceFile: "chat.txt",
		SourceType: "chat",
		Status:     StatusFlagged,
		Summary:    "model returned no score",
		Violations: []string{"unverifiable verdict"},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.Score != nil {
		t.Fatalf("score should be nil, got %v", *added.Score)
	}
	if len(added.Violations) != 1 {
		t.Fatalf("violations = %v", added.Violations)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.Add(context.Background(), Entry{
			RunID:      "run",
			SourceFile: "f",
			SourceType: "chat",
			Status:     StatusCompliant,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	entries, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !entries[0].CreatedAt.After(entries[2].CreatedAt) {
		t.Fatalf("entries not newest first: %v, %v", entries[0].CreatedAt, entries[2].CreatedAt)
	}

	limited, err := store.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(limited))
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Add(context.Background(), Entry{RunID: "r", SourceFile: "f", SourceType: "chat", Status: StatusFlagged}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	deleted, err := store.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d", deleted)
	}
	entries, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d", len(entries))
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Add(context.Background(), Entry{RunID: "r", SourceFile: "f", SourceType: "audio", Status: StatusCompliant}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	store.Close()

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected persisted entry, got %d", len(entries))
	}
}

package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecentEmpty(t *testing.T) {
	s := openTestStore(t)
	entries, err := s.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestAddAndRecentOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.Add(ctx, text); err != nil {
			t.Fatalf("Add(%q): %v", text, err)
		}
	}

	latest, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(latest) != 1 || latest[0].Text != "third" {
		t.Fatalf("Recent(1) = %+v", latest)
	}

	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent(0): %v", err)
	}
	if len(all) != 3 || all[0].Text != "third" || all[2].Text != "first" {
		t.Fatalf("Recent(0) = %+v", all)
	}
	if all[0].ID == "" || all[0].ID == all[1].ID {
		t.Fatal("entries must have unique IDs")
	}
}

func TestAddRejectsBlank(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Add(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank text")
	}
}

func TestDeleteAndClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e, err := s.Add(ctx, "keep me")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(ctx, "other"); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete = %v, want ErrNotFound", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty history after Clear, got %d", len(all))
	}
}

func TestAddPrunesOldEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < MaxEntries+5; i++ {
		if _, err := s.Add(ctx, fmt.Sprintf("entry %d", i)); err != nil {
			t.Fatal(err)
		}
	}
	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != MaxEntries {
		t.Fatalf("len = %d, want %d", len(all), MaxEntries)
	}
	if all[len(all)-1].Text != "entry 5" {
		t.Fatalf("oldest kept = %q", all[len(all)-1].Text)
	}
}

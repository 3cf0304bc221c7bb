package session

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sweetpotato0/slidecraft/errors"
	"github.com/sweetpotato0/slidecraft/slides"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return st
}

func TestNewSessionDefaults(t *testing.T) {
	s := New("Go concurrency")
	if len(s.ID) != 12 {
		t.Errorf("expected 12-char id, got %q", s.ID)
	}
	if err := ValidateID(s.ID); err != nil {
		t.Errorf("generated id invalid: %v", err)
	}
	if s.SlideCount != 10 {
		t.Errorf("slide count = %d", s.SlideCount)
	}
	if len(s.OutputFormats) != 1 || s.OutputFormats[0] != "html" {
		t.Errorf("output formats = %v", s.OutputFormats)
	}
	if s.CreatedAt == "" || s.UpdatedAt == "" {
		t.Error("expected timestamps to be set")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	s := New("Kubernetes for cats")
	s.PresentationTitle = "Nine Lives, One Cluster"
	s.StyleName = "neon_cyber"
	s.Slides = []slides.Slide{
		{Type: "title", Title: "Nine Lives, One Cluster"},
		{Type: "closing", Title: "Thanks"},
	}
	s.AddEdit("make it funnier", "Added cat puns to slide 2")

	if err := st.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := st.Load(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.PresentationTitle != s.PresentationTitle {
		t.Errorf("title = %q", loaded.PresentationTitle)
	}
	if len(loaded.Slides) != 2 || loaded.Slides[0].Title != "Nine Lives, One Cluster" {
		t.Errorf("slides = %#v", loaded.Slides)
	}
	if len(loaded.EditHistory) != 1 || loaded.EditHistory[0].Instruction != "make it funnier" {
		t.Errorf("edit history = %#v", loaded.EditHistory)
	}
	if loaded.CreatedAt != s.CreatedAt {
		t.Errorf("created_at changed across save/load: %q vs %q", loaded.CreatedAt, s.CreatedAt)
	}
}

func TestSaveSetsRestrictivePermissions(t *testing.T) {
	st := newTestStore(t)
	s := New("permissions")
	if err := st.Save(context.Background(), s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(filepath.Join(st.dir, s.ID+".json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
}

func TestInvalidIDsRejected(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	bad := []string{
		"../../etc/passwd",
		"UPPERCASE",
		"has-dash",
		"",
		"0123456789abcdef0123456789abcdef0", // 33 chars
		"xyz",
	}
	for _, id := range bad {
		if _, err := st.Load(ctx, id); !stderrors.Is(err, errors.ErrInvalidSessionID) {
			t.Errorf("Load(%q) error = %v, want ErrInvalidSessionID", id, err)
		}
		if _, err := st.Delete(ctx, id); !stderrors.Is(err, errors.ErrInvalidSessionID) {
			t.Errorf("Delete(%q) error = %v, want ErrInvalidSessionID", id, err)
		}
	}
}

func TestLoadMissingIsNotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Load(context.Background(), "abc123")
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestListSkipsCorruptAndOrders(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	older := New("first topic")
	if err := st.Save(ctx, older); err != nil {
		t.Fatal(err)
	}
	// Ensure distinct RFC3339 timestamps at second resolution.
	time.Sleep(1100 * time.Millisecond)
	newer := New("second topic")
	if err := st.Save(ctx, newer); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(st.dir, "deadbeef.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	summaries, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != newer.ID {
		t.Errorf("expected most recent first, got %q then %q", summaries[0].ID, summaries[1].ID)
	}
}

func TestLatest(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	got, err := st.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest on empty store: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for empty store, got %#v", got)
	}

	s := New("only one")
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err = st.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got == nil || got.ID != s.ID {
		t.Fatalf("Latest = %#v, want id %s", got, s.ID)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	s := New("to delete")
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	found, err := st.Delete(ctx, s.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !found {
		t.Error("first Delete should report the session existed")
	}
	found, err = st.Delete(ctx, s.ID)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if found {
		t.Error("second Delete should report not found")
	}
	if _, err := st.Load(ctx, s.ID); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("Load after delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingReportsNotFound(t *testing.T) {
	st := newTestStore(t)
	found, err := st.Delete(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if found {
		t.Error("deleting a session that never existed should report not found")
	}
}

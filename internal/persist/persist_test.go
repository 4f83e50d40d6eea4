package persist

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/keynote/internal/document"
	"github.com/dshills/keynote/internal/logging"
	"github.com/dshills/keynote/internal/store"
)

// failingStore fails every write.
type failingStore struct {
	store.Store
	err error
}

func (f failingStore) Set(context.Context, string, string) error { return f.err }

func TestLoadInitialWithoutValue(t *testing.T) {
	b := NewBridge(store.NewMemory(0))
	doc := b.LoadInitial(context.Background())
	if !document.Equal(doc, document.Default()) {
		t.Error("empty store should load the default document")
	}
	if len(doc.Nodes) != 1 || doc.Nodes[0].Type != document.TypeParagraph || doc.Text() != "" {
		t.Errorf("default document = %+v", doc.Nodes)
	}
}

func TestLoadInitialFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"malformed", "{not json"},
		{"wrong shape", `{"nodes":"paragraph"}`},
		{"no nodes", `{"document":{}}`},
		{"plain string", `"hello"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := store.NewMemory(0)
			ctx := context.Background()
			if err := s.Set(ctx, DefaultKey, tt.value); err != nil {
				t.Fatal(err)
			}
			logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
			b := NewBridge(s, WithLogger(logger))

			doc := b.LoadInitial(ctx)
			if !document.Equal(doc, document.Default()) {
				t.Error("unreadable snapshot should load the default document")
			}
			if !strings.Contains(buf.String(), "[WARN]") {
				t.Errorf("expected a warning, log = %q", buf.String())
			}
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(0)
	doc := document.New(
		document.NewBlock(document.TypeHeader, document.NewText("Notes", document.MarkBold)),
		document.NewBlock(document.TypeParagraph,
			document.NewText("a "),
			document.NewText("b", document.MarkStrikethrough, document.MarkUnderline)),
	)

	if err := NewBridge(s).OnDocumentChanged(ctx, doc); err != nil {
		t.Fatalf("OnDocumentChanged: %v", err)
	}

	// A fresh bridge simulates a new session.
	got := NewBridge(s).LoadInitial(ctx)
	if !document.Equal(got, doc) {
		t.Error("loaded document differs from saved document")
	}
}

func TestSaveOverwritesTersely(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(0)
	b := NewBridge(s, WithKey("notes"))

	b.OnDocumentChanged(ctx, document.New(document.NewBlock(document.TypeParagraph, document.NewText("one"))))
	b.OnDocumentChanged(ctx, document.New(document.NewBlock(document.TypeParagraph, document.NewText("two"))))

	raw, err := s.Get(ctx, "notes")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(raw, "one") || !strings.Contains(raw, "two") {
		t.Errorf("stored value = %s", raw)
	}
	if strings.Contains(raw, `"key"`) {
		t.Errorf("stored snapshot should be terse: %s", raw)
	}
	if b.Stats().Saves != 2 {
		t.Errorf("Saves = %d, want 2", b.Stats().Saves)
	}
}

func TestWriteFailureIsWarning(t *testing.T) {
	ctx := context.Background()
	s := failingStore{Store: store.NewMemory(0), err: store.ErrQuotaExceeded}
	b := NewBridge(s)
	doc := document.Default()

	err := b.OnDocumentChanged(ctx, doc)
	var warn *WriteWarning
	if !errors.As(err, &warn) {
		t.Fatalf("error = %v, want *WriteWarning", err)
	}
	if !warn.QuotaExceeded() || !errors.Is(err, store.ErrQuotaExceeded) {
		t.Errorf("warning should wrap the quota error: %v", warn)
	}
	if warn.Key != DefaultKey {
		t.Errorf("Key = %q", warn.Key)
	}
	if b.Stats().Failures != 1 {
		t.Errorf("Failures = %d, want 1", b.Stats().Failures)
	}
}

func TestQuotaStoreWarns(t *testing.T) {
	ctx := context.Background()
	b := NewBridge(store.NewMemory(40))
	big := document.New(document.NewBlock(document.TypeParagraph, document.NewText(strings.Repeat("x", 100))))
	if err := b.OnDocumentChanged(ctx, big); err == nil {
		t.Error("oversized snapshot should fail the quota")
	}
}

func TestImportAndReset(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(0)
	b := NewBridge(s)

	if _, err := b.Import(ctx, []byte("nope")); err == nil {
		t.Error("Import should reject malformed data")
	}
	doc, err := b.Import(ctx, []byte(`{"nodes":[{"type":"header","nodes":[{"text":"hi"}]}]}`))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if doc.Text() != "hi" {
		t.Errorf("Import() text = %q", doc.Text())
	}
	if got := b.LoadInitial(ctx); !document.Equal(got, doc) {
		t.Error("imported document not stored")
	}

	if err := b.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Load(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Load after Reset error = %v, want ErrNotFound", err)
	}
}

func TestSavedAt(t *testing.T) {
	ctx := context.Background()

	b := NewBridge(store.NewMemory(0))
	if _, err := b.SavedAt(ctx); !errors.Is(err, ErrNoTimestamp) {
		t.Errorf("SavedAt(memory) error = %v, want ErrNoTimestamp", err)
	}

	for _, name := range []string{"file", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			var s store.Store
			var err error
			if name == "file" {
				s, err = store.NewFile(t.TempDir(), 0)
			} else {
				s, err = store.OpenSQLite(ctx, filepath.Join(t.TempDir(), "keynote.db"))
			}
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()

			b := NewBridge(s)
			if _, err := b.SavedAt(ctx); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("SavedAt(empty) error = %v, want ErrNotFound", err)
			}
			before := time.Now().Add(-time.Minute)
			if err := b.OnDocumentChanged(ctx, document.Default()); err != nil {
				t.Fatal(err)
			}
			at, err := b.SavedAt(ctx)
			if err != nil {
				t.Fatalf("SavedAt: %v", err)
			}
			if at.Before(before) || at.After(time.Now().Add(time.Minute)) {
				t.Errorf("SavedAt() = %v, want about now", at)
			}
		})
	}
}

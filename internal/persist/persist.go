// Package persist connects the editing surface to a snapshot store.
//
// The bridge reads one well-known key at startup and overwrites it after
// every committed change. Load problems fall back to the default document;
// write problems come back as *WriteWarning so editing can continue.
package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/keynote/internal/document"
	"github.com/dshills/keynote/internal/logging"
	"github.com/dshills/keynote/internal/snapshot"
	"github.com/dshills/keynote/internal/store"
)

// DefaultKey is the storage key holding the document snapshot.
const DefaultKey = "content"

// DefaultTimeout bounds a single store operation.
const DefaultTimeout = 2 * time.Second

// WriteWarning reports a failed save. The in-memory document is unaffected.
type WriteWarning struct {
	Key string
	Err error
}

func (w *WriteWarning) Error() string {
	return fmt.Sprintf("document not saved to %q: %v", w.Key, w.Err)
}

func (w *WriteWarning) Unwrap() error { return w.Err }

// QuotaExceeded reports whether the warning came from a full store.
func (w *WriteWarning) QuotaExceeded() bool {
	return errors.Is(w.Err, store.ErrQuotaExceeded)
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(b *Bridge) {
		if key != "" {
			b.key = key
		}
	}
}

// WithTimeout overrides the per-operation timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// Bridge loads and saves the document snapshot.
type Bridge struct {
	store   store.Store
	key     string
	timeout time.Duration
	logger  *logging.Logger

	saves    int
	failures int
	lastSave time.Time
}

// NewBridge creates a bridge over s.
func NewBridge(s store.Store, opts ...Option) *Bridge {
	b := &Bridge{
		store:   s,
		key:     DefaultKey,
		timeout: DefaultTimeout,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.WithComponent("persist").WithField("key", b.key)
	return b
}

// Key returns the storage key.
func (b *Bridge) Key() string { return b.key }

func (b *Bridge) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

// Load reads and decodes the stored snapshot. A missing value returns
// store.ErrNotFound.
func (b *Bridge) Load(ctx context.Context) (*document.Document, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	raw, err := b.store.Get(ctx, b.key)
	if err != nil {
		return nil, err
	}
	return snapshot.Deserialize([]byte(raw))
}

// LoadInitial returns the stored document, or the default document when
// nothing usable is stored.
func (b *Bridge) LoadInitial(ctx context.Context) *document.Document {
	doc, err := b.Load(ctx)
	switch {
	case err == nil:
		b.logger.Debug("loaded snapshot with %d blocks", len(doc.Nodes))
		return doc
	case errors.Is(err, store.ErrNotFound):
		b.logger.Debug("no stored snapshot, starting empty")
	case errors.Is(err, snapshot.ErrMalformed), errors.Is(err, snapshot.ErrShape):
		b.logger.Warn("discarding unreadable snapshot: %v", err)
	default:
		b.logger.Warn("reading snapshot failed: %v", err)
	}
	return document.Default()
}

// OnDocumentChanged serializes doc and overwrites the stored snapshot. A
// failed write returns *WriteWarning.
func (b *Bridge) OnDocumentChanged(ctx context.Context, doc *document.Document) error {
	data, err := snapshot.Serialize(doc)
	if err != nil {
		// Serialize only fails on documents outside the model.
		b.failures++
		b.logger.Error("serialize: %v", err)
		return &WriteWarning{Key: b.key, Err: err}
	}

	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	if err := b.store.Set(ctx, b.key, string(data)); err != nil {
		b.failures++
		b.logger.Warn("write failed: %v", err)
		return &WriteWarning{Key: b.key, Err: err}
	}
	b.saves++
	b.lastSave = time.Now()
	b.logger.Debug("saved %d bytes", len(data))
	return nil
}

// Import validates data as a snapshot and stores it in terse form.
func (b *Bridge) Import(ctx context.Context, data []byte) (*document.Document, error) {
	doc, err := snapshot.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	if err := b.OnDocumentChanged(ctx, doc); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return doc, nil
}

// Reset deletes the stored snapshot.
func (b *Bridge) Reset(ctx context.Context) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	if err := b.store.Delete(ctx, b.key); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	b.logger.Info("snapshot deleted")
	return nil
}

// Stats reports save activity for the status line.
type Stats struct {
	Saves    int
	Failures int
	LastSave time.Time
}

// ErrNoTimestamp is returned by SavedAt when the store keeps no write times.
var ErrNoTimestamp = errors.New("persist: store does not record write times")

// SavedAt reports when the snapshot was last written to the store, including
// writes made by other processes. A missing snapshot returns
// store.ErrNotFound.
func (b *Bridge) SavedAt(ctx context.Context) (time.Time, error) {
	ts, ok := b.store.(store.Timestamped)
	if !ok {
		return time.Time{}, ErrNoTimestamp
	}
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return ts.UpdatedAt(ctx, b.key)
}

// Stats returns save counters.
func (b *Bridge) Stats() Stats {
	return Stats{Saves: b.saves, Failures: b.failures, LastSave: b.lastSave}
}

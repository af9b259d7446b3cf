// Package workspace is the edited-document layer: it persists the working
// set of documents, the editor tab snapshot, and active-state overrides
// through the storage façade under a single key prefix, and guards the
// workspace directory with a single-writer lock.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"recipekit/internal/config"
	"recipekit/internal/kvstore"
	"recipekit/internal/logging"
	"recipekit/internal/recipe"
)

// Key suffixes under the configured prefix.
const (
	keyDocPrefix = "docs."
	keyDocIndex  = "docIndex"
	keyTab       = "tab"
	keyActive    = "active"
)

// Workspace manages the edited-document set. Documents and the id index live
// in the durable local class; the tab snapshot is session-scoped.
type Workspace struct {
	facade *kvstore.Facade
	prefix string
	lock   *flock.Flock
	logger *slog.Logger
}

// New builds a workspace over an initialized façade using the configured key
// prefix and lock path.
func New(facade *kvstore.Facade, cfg *config.Config, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Workspace{
		facade: facade,
		prefix: cfg.Storage.KeyPrefix,
		lock:   flock.New(cfg.LockPath()),
		logger: logger.With(logging.String(logging.FieldComponent, "workspace")),
	}
}

// Lock takes the single-writer workspace lock. It fails fast when another
// process holds it.
func (w *Workspace) Lock() error {
	locked, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("workspace is locked by another process (lock file %s)", w.lock.Path())
	}
	return nil
}

// Unlock releases the workspace lock.
func (w *Workspace) Unlock() error {
	return w.lock.Unlock()
}

func (w *Workspace) key(suffix string) string {
	return w.prefix + suffix
}

// SaveDocument cleans and persists a document, assigning an id when it has
// none, and keeps the id index current. Returns the document id and whether
// the write succeeded.
func (w *Workspace) SaveDocument(ctx context.Context, doc *recipe.Document) (string, bool) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.Clean()

	if !kvstore.SetJSON(ctx, w.facade, kvstore.ClassLocal, w.key(keyDocPrefix+doc.ID), doc, 0) {
		return doc.ID, false
	}

	ids := w.DocumentIDs(ctx)
	for _, id := range ids {
		if id == doc.ID {
			return doc.ID, true
		}
	}
	ids = append(ids, doc.ID)
	sort.Strings(ids)
	if !kvstore.SetJSON(ctx, w.facade, kvstore.ClassLocal, w.key(keyDocIndex), ids, 0) {
		w.logger.Warn("document saved but index update failed",
			logging.String(logging.FieldDocumentID, doc.ID))
	}
	return doc.ID, true
}

// LoadDocument returns the stored document for id.
func (w *Workspace) LoadDocument(ctx context.Context, id string) (*recipe.Document, bool) {
	doc, ok := kvstore.GetJSON[recipe.Document](ctx, w.facade, kvstore.ClassLocal, w.key(keyDocPrefix+id))
	if !ok {
		return nil, false
	}
	return &doc, true
}

// DocumentIDs returns the edited-document id index, sorted.
func (w *Workspace) DocumentIDs(ctx context.Context) []string {
	ids, ok := kvstore.GetJSON[[]string](ctx, w.facade, kvstore.ClassLocal, w.key(keyDocIndex))
	if !ok {
		return nil
	}
	return ids
}

// ListDocuments loads every indexed document. Index entries whose document is
// gone are skipped and logged.
func (w *Workspace) ListDocuments(ctx context.Context) []recipe.Document {
	var docs []recipe.Document
	for _, id := range w.DocumentIDs(ctx) {
		doc, ok := w.LoadDocument(ctx, id)
		if !ok {
			w.logger.Warn("indexed document missing from store",
				logging.String(logging.FieldDocumentID, id))
			continue
		}
		docs = append(docs, *doc)
	}
	return docs
}

// DeleteDocument removes a document and its index entry, reporting whether
// the document key was removed.
func (w *Workspace) DeleteDocument(ctx context.Context, id string) bool {
	removed := w.facade.Remove(ctx, kvstore.ClassLocal, w.key(keyDocPrefix+id))

	ids := w.DocumentIDs(ctx)
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if len(kept) != len(ids) {
		kvstore.SetJSON(ctx, w.facade, kvstore.ClassLocal, w.key(keyDocIndex), kept, 0)
	}
	return removed
}

// SaveTabSnapshot stores the editor tab snapshot. Its contents are opaque
// bytes to this layer.
func (w *Workspace) SaveTabSnapshot(ctx context.Context, snapshot []byte) bool {
	return w.facade.Set(ctx, kvstore.ClassSession, w.key(keyTab), snapshot, 0)
}

// TabSnapshot returns the stored tab snapshot, if any.
func (w *Workspace) TabSnapshot(ctx context.Context) ([]byte, bool) {
	return w.facade.Get(ctx, kvstore.ClassSession, w.key(keyTab))
}

// ActiveOverrides returns the per-document active-state override map.
func (w *Workspace) ActiveOverrides(ctx context.Context) map[string]bool {
	overrides, ok := kvstore.GetJSON[map[string]bool](ctx, w.facade, kvstore.ClassLocal, w.key(keyActive))
	if !ok {
		return map[string]bool{}
	}
	return overrides
}

// SetActiveOverride records whether a document should be active in the next
// export catalog.
func (w *Workspace) SetActiveOverride(ctx context.Context, id string, active bool) bool {
	overrides := w.ActiveOverrides(ctx)
	overrides[id] = active
	return kvstore.SetJSON(ctx, w.facade, kvstore.ClassLocal, w.key(keyActive), overrides, 0)
}

// ClearAll removes every key this workspace wrote: all indexed documents, the
// index, the tab snapshot, and the override map. Keys outside the prefix are
// untouched.
func (w *Workspace) ClearAll(ctx context.Context) {
	for _, id := range w.DocumentIDs(ctx) {
		w.facade.Remove(ctx, kvstore.ClassLocal, w.key(keyDocPrefix+id))
	}
	w.facade.Remove(ctx, kvstore.ClassLocal, w.key(keyDocIndex))
	w.facade.Remove(ctx, kvstore.ClassSession, w.key(keyTab))
	w.facade.Remove(ctx, kvstore.ClassLocal, w.key(keyActive))
	w.logger.Info("workspace cleared")
}

// Package inbox turns Markdown files dropped into a directory into notes.
// Each imported file is logged as a capture and moved to processed/.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/notegraph/internal/models"
	"github.com/starford/notegraph/internal/storage"
)

// ProcessedDir is where imported files are moved, relative to the inbox root.
const ProcessedDir = "processed"

// Capturer creates a note from captured content.
type Capturer interface {
	Capture(ctx context.Context, source, fallbackTitle, content string) (*models.Note, error)
}

// Importer imports inbox files through a Capturer.
type Importer struct {
	svc     Capturer
	store   storage.Provider
	logger  *slog.Logger
	discard bool
}

// NewImporter creates an Importer over store.
func NewImporter(svc Capturer, store storage.Provider, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{svc: svc, store: store, logger: logger}
}

// SetArchive controls what happens to an imported file: moved to
// ProcessedDir (the default) or deleted.
func (im *Importer) SetArchive(archive bool) {
	im.discard = !archive
}

// ImportPending imports every file currently waiting in the inbox, oldest
// first. A file that fails is logged and left in place; the rest still run.
func (im *Importer) ImportPending(ctx context.Context) (int, error) {
	files, err := im.store.List("")
	if err != nil {
		return 0, fmt.Errorf("inbox: list: %w", err)
	}
	imported := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		if _, err := im.Import(ctx, f.Path); err != nil {
			im.logger.Warn("inbox: import failed", slog.String("path", f.Path), slog.String("error", err.Error()))
			continue
		}
		imported++
	}
	return imported, nil
}

// Import captures a single inbox file, then archives or deletes it.
// Empty files are skipped and left in place.
func (im *Importer) Import(ctx context.Context, rel string) (*models.Note, error) {
	data, err := im.store.Read(rel)
	if err != nil {
		return nil, err
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("inbox: %s is empty", rel)
	}

	stem := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	n, err := im.svc.Capture(ctx, rel, stem, content)
	if err != nil {
		return nil, fmt.Errorf("inbox: capture %s: %w", rel, err)
	}

	if im.discard {
		if err := im.store.Delete(rel); err != nil {
			return nil, fmt.Errorf("inbox: remove %s: %w", rel, err)
		}
		im.logger.Debug("inbox: imported", slog.String("path", rel), slog.String("note_id", n.ID))
		return n, nil
	}

	dest := im.processedPath(filepath.Base(rel))
	if err := im.store.Move(rel, dest); err != nil {
		return nil, fmt.Errorf("inbox: archive %s: %w", rel, err)
	}
	im.logger.Debug("inbox: imported", slog.String("path", rel), slog.String("note_id", n.ID), slog.String("archived", dest))
	return n, nil
}

// Enqueue drops content into the inbox as a new capture-<timestamp>.md
// file and returns its name. A running watcher imports it; otherwise it is
// picked up by the next ImportPending.
func Enqueue(store storage.Provider, content string, now time.Time) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("inbox: empty capture")
	}
	stem := "capture-" + now.UTC().Format("20060102-150405")
	name := stem + ".md"
	for i := 2; store.Exists(name); i++ {
		name = fmt.Sprintf("%s-%d.md", stem, i)
	}
	if err := store.Write(name, []byte(content)); err != nil {
		return "", fmt.Errorf("inbox: enqueue: %w", err)
	}
	return name, nil
}

// processedPath picks a free name under ProcessedDir, suffixing "-2", "-3"
// when a file of the same name was archived before.
func (im *Importer) processedPath(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := path.Join(ProcessedDir, name)
	for i := 2; im.store.Exists(candidate); i++ {
		candidate = path.Join(ProcessedDir, fmt.Sprintf("%s-%d%s", stem, i, ext))
	}
	return candidate
}

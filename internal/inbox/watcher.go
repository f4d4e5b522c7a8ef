package inbox

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must stay quiet before it is imported.
const DefaultSettle = 200 * time.Millisecond

// Watch imports whatever is already waiting in root, then watches root with
// fsnotify and imports new or rewritten .md files until ctx is cancelled.
// Writes are debounced by settle so half-written files are not picked up.
// Only the top level of root is watched; ProcessedDir is ignored.
func (im *Importer) Watch(ctx context.Context, root string, settle time.Duration) error {
	if settle <= 0 {
		settle = DefaultSettle
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}
	im.logger.Info("inbox: watching", slog.String("root", root))

	if n, err := im.ImportPending(ctx); err != nil {
		im.logger.Warn("inbox: initial import failed", slog.String("error", err.Error()))
	} else if n > 0 {
		im.logger.Info("inbox: imported pending files", slog.Int("count", n))
	}

	pending := make(map[string]struct{})
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	schedule := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(settle)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settle)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			im.logger.Info("inbox: stopped")
			return nil

		case <-settleCh:
			for rel := range pending {
				delete(pending, rel)
				if _, err := im.Import(ctx, rel); err != nil {
					im.logger.Warn("inbox: import failed", slog.String("path", rel), slog.String("error", err.Error()))
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			rel, ok := inboxFile(root, ev.Name)
			if !ok {
				continue
			}
			pending[rel] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			im.logger.Error("inbox: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// inboxFile maps an event path to a root-relative .md file name, rejecting
// hidden files, temp files and anything below the top level.
func inboxFile(root, abs string) (string, bool) {
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.ContainsRune(rel, filepath.Separator) {
		return "", false
	}
	if strings.HasPrefix(rel, ".") || !strings.HasSuffix(rel, ".md") {
		return "", false
	}
	return rel, true
}

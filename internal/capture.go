package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/starford/notegraph/internal/inbox"
	"github.com/starford/notegraph/internal/storage"
)

// Capture drops content into the configured inbox directory and returns the
// file name. It does not need the inbox watcher to be running.
func Capture(cfg *Config, content string) (string, error) {
	if cfg.Inbox.Path == "" {
		return "", fmt.Errorf("inbox path is not configured")
	}
	if err := os.MkdirAll(cfg.Inbox.Path, 0o755); err != nil {
		return "", fmt.Errorf("create inbox dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Inbox.Path)
	if err != nil {
		return "", fmt.Errorf("init inbox storage: %w", err)
	}
	return inbox.Enqueue(store, content, time.Now())
}

// Package storage defines the file-system abstraction for the capture inbox.
package storage

import "time"

// File describes a Markdown file in the inbox.
type File struct {
	Path     string    `json:"path"`
	Checksum string    `json:"checksum"`
	ModTime  time.Time `json:"mod_time"`
}

// Provider is the interface for inbox file operations. Paths are relative
// to the provider root.
type Provider interface {
	// List returns the .md files directly inside dir, oldest first.
	// Hidden files and subdirectories are skipped.
	List(dir string) ([]File, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath, creating parent directories.
	Move(oldPath, newPath string) error
	// Exists reports whether a file is present at path.
	Exists(path string) bool
}

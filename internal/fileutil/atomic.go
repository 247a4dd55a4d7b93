// Package fileutil provides atomic file replacement helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	ownerReadWrite = 0o600
	executableBits = 0o111
	dirPerm        = 0o750
)

// AtomicFile is a temporary file that replaces its target only on Commit.
type AtomicFile struct {
	*os.File

	// Source describes the file the contents are derived from.
	Source os.FileInfo

	target    string
	committed bool
}

// Create stats source and opens a temporary file in the directory of target.
// Callers must defer Abort.
func Create(source, target string) (*AtomicFile, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", source, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".goxor-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &AtomicFile{File: tmp, Source: info, target: target}, nil
}

// IsExec reports whether any execute bit is set on the source.
func (f *AtomicFile) IsExec() bool {
	return f.Source.Mode()&executableBits != 0
}

// Commit restricts permissions to the owner (keeping the source's executable bits),
// closes the temporary file and renames it over the target.
func (f *AtomicFile) Commit() error {
	perm := os.FileMode(ownerReadWrite)

	if f.IsExec() {
		perm |= executableBits
	}

	if err := f.Chmod(perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(f.Name(), f.target); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	f.committed = true

	return nil
}

// Abort closes and removes the temporary file unless it was committed.
func (f *AtomicFile) Abort() {
	if f.committed {
		return
	}

	f.Close()           //nolint:errcheck,gosec // best-effort cleanup
	os.Remove(f.Name()) //nolint:errcheck,gosec // best-effort cleanup
}

// EnsureDir creates the parent directory of path if needed.
func EnsureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	return nil
}

// Finalize optionally copies modTime onto outPath and returns its size.
func Finalize(outPath string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps {
		if err := os.Chtimes(outPath, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return info.Size(), nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)

	return !errors.Is(err, os.ErrNotExist)
}

// Package fileutil provides helpers for atomically replacing output files.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const executableBits = 0o111

// PendingWrite is an output file being written under a temporary name in
// the destination directory, to be renamed into place on Commit.
type PendingWrite struct {
	// File is the temporary file to write to.
	File *os.File

	srcInfo   os.FileInfo
	tmpName   string
	committed bool
}

// Begin stats the source file and opens a temporary file next to the
// destination. Callers must defer Discard.
func Begin(source, destination string) (*PendingWrite, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", source, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destination), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &PendingWrite{
		File:    tmpFile,
		srcInfo: info,
		tmpName: tmpFile.Name(),
	}, nil
}

// Executable reports whether the source file had any execute bit set.
func (p *PendingWrite) Executable() bool {
	return p.srcInfo.Mode()&executableBits != 0
}

// ModTime returns the source file's modification time.
func (p *PendingWrite) ModTime() time.Time {
	return p.srcInfo.ModTime()
}

// Commit sets permissions, closes the temporary file, and renames it over
// the destination.
func (p *PendingWrite) Commit(destination string, perm os.FileMode) error {
	if err := os.Chmod(p.tmpName, perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := p.File.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(p.tmpName, destination); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	p.committed = true

	return nil
}

// Discard closes and removes the temporary file unless Commit succeeded.
func (p *PendingWrite) Discard() {
	if p.committed {
		return
	}

	p.File.Close() //nolint:errcheck,gosec // best-effort cleanup
	os.Remove(p.tmpName)
}

// Finalize optionally preserves the source timestamps on the output and
// returns the output file size.
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

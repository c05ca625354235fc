// Package fsops holds the filesystem primitives the sync engine mirrors
// files with, plus link target resolution on top of them.
//
// All operations go through an afero.Fs so callers can run against the OS
// filesystem or an in-memory one.
package fsops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

var (
	// ErrEmptyPath is returned when a primitive receives an empty path.
	ErrEmptyPath = errors.New("target path is missing or invalid")

	// ErrNotDir is returned when a file sits where a directory is needed.
	ErrNotDir = errors.New("not a directory")

	// ErrIsDir is returned when a directory sits where a file is written.
	ErrIsDir = errors.New("is a directory")
)

// FS wraps an afero.Fs with the copy/delete/walk primitives used for
// mirroring.
type FS struct {
	fs afero.Fs
}

// New returns an FS backed by fsys. A nil fsys means the OS filesystem.
func New(fsys afero.Fs) *FS {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FS{fs: fsys}
}

// OS returns an FS backed by the real filesystem.
func OS() *FS {
	return New(afero.NewOsFs())
}

// Afero exposes the underlying filesystem.
func (f *FS) Afero() afero.Fs {
	return f.fs
}

// EnsureDir creates dir and any missing parents.
func (f *FS) EnsureDir(dir string) error {
	if dir == "" {
		return ErrEmptyPath
	}

	info, err := f.fs.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("failed to create directory %s: %w", dir, ErrNotDir)
		}
		return nil
	}

	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// CopyFile copies src to dst byte for byte, creating dst's directory.
func (f *FS) CopyFile(src, dst string) error {
	if src == "" || dst == "" {
		return ErrEmptyPath
	}
	if err := f.prepare(dst); err != nil {
		return err
	}

	in, err := f.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := f.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

// WriteFile writes data to dst, creating dst's directory.
func (f *FS) WriteFile(dst string, data []byte) error {
	if dst == "" {
		return ErrEmptyPath
	}
	if err := f.prepare(dst); err != nil {
		return err
	}
	if err := afero.WriteFile(f.fs, dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// prepare creates dst's directory and refuses a dst that is a directory.
func (f *FS) prepare(dst string) error {
	if err := f.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	if info, err := f.fs.Stat(dst); err == nil && info.IsDir() {
		return fmt.Errorf("failed to write %s: %w", dst, ErrIsDir)
	}
	return nil
}

// ReadFile returns the contents of path.
func (f *FS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(f.fs, path)
}

// RemoveFile deletes a single file.
func (f *FS) RemoveFile(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if err := f.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// RemoveAll deletes dir and everything below it.
func (f *FS) RemoveAll(dir string) error {
	if dir == "" {
		return ErrEmptyPath
	}
	if err := f.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	return nil
}

// IsDir reports whether path exists and is a directory.
func (f *FS) IsDir(path string) bool {
	info, err := f.fs.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file.
func (f *FS) IsFile(path string) bool {
	info, err := f.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FilesInDirectory walks root recursively and returns the files accepted by
// keep, sorted by path.
func (f *FS) FilesInDirectory(root string, keep func(path string) bool) ([]string, error) {
	var files []string

	err := afero.Walk(f.fs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if keep == nil || keep(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// Size returns the size in bytes of path.
func (f *FS) Size(path string) (int64, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

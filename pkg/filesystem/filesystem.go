// Package filesystem provides an abstraction layer over local and remote filesystems
// so that copy destinations and tree devices can run against real disks, SFTP hosts or
// an in-memory tree in tests.
package filesystem

import (
	"fmt"
	"io"
	"os"
	"time"
)

// File is an interface that abstracts file operations.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Stat() (os.FileInfo, error)
}

// Attributes are the platform attributes the copy engine cares about beyond
// os.FileInfo. Created is nil when the platform does not report a creation time.
type Attributes struct {
	Hidden  bool
	System  bool
	Created *time.Time
}

// FileSystem is an interface that abstracts filesystem operations.
type FileSystem interface {
	// Scan returns an iterator over all entries in a directory tree.
	Scan(path string) FileScanner
	// ReadDir returns the entries of a directory sorted by name.
	ReadDir(path string) ([]os.FileInfo, error)

	Open(path string) (File, error)
	Create(path string) (File, error)
	Mkdir(path string, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Chtimes(path string, atime, mtime time.Time) error
	Remove(path string) error
	RemoveAll(path string) error
	Stat(path string) (os.FileInfo, error)

	// Attributes reports hidden, system and creation time for an entry.
	Attributes(path string, info os.FileInfo) Attributes
	// SetFileTimes rewrites the timestamps of an entry. Nil values are left unchanged;
	// a creation time is ignored where the platform cannot store one.
	SetFileTimes(path string, created, modified *time.Time) error
}

// RealFileSystem implements FileSystem using the os package.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Attributes reports platform attributes of a local entry.
func (fs *RealFileSystem) Attributes(path string, info os.FileInfo) Attributes {
	return platformAttributes(path, info)
}

// Chtimes changes the access and modification times of a file.
func (fs *RealFileSystem) Chtimes(path string, atime, mtime time.Time) error {
	err := os.Chtimes(path, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for %s: %w", path, err)
	}

	return nil
}

// Create creates a file for writing.
func (fs *RealFileSystem) Create(path string) (File, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return file, nil
}

// Mkdir creates a single directory.
func (fs *RealFileSystem) Mkdir(path string, perm os.FileMode) error {
	err := os.Mkdir(path, perm)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// MkdirAll creates a directory and all necessary parents.
func (fs *RealFileSystem) MkdirAll(path string, perm os.FileMode) error {
	err := os.MkdirAll(path, perm)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// Open opens a file for reading.
func (fs *RealFileSystem) Open(path string) (File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return file, nil
}

// ReadDir returns the entries of a directory sorted by name.
func (fs *RealFileSystem) ReadDir(path string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	infos := make([]os.FileInfo, 0, len(entries))

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s in %s: %w", entry.Name(), path, err)
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// Remove removes a file or empty directory.
func (fs *RealFileSystem) Remove(path string) error {
	err := os.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}

// RemoveAll removes a file or a directory tree.
func (fs *RealFileSystem) RemoveAll(path string) error {
	err := os.RemoveAll(path)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}

// Scan returns an iterator over all entries in a directory tree.
func (fs *RealFileSystem) Scan(path string) FileScanner {
	return newRealFileScanner(path)
}

// SetFileTimes rewrites the creation and modification times of a local entry.
func (fs *RealFileSystem) SetFileTimes(path string, created, modified *time.Time) error {
	err := setPlatformFileTimes(path, created, modified)
	if err != nil {
		return fmt.Errorf("failed to set times for %s: %w", path, err)
	}

	return nil
}

// Stat returns file information.
func (fs *RealFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return info, nil
}

// IsDotName reports whether name is hidden by the Unix dotfile convention.
func IsDotName(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}

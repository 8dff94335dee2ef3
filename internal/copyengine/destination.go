package copyengine

import (
	"io"
	"time"
)

// DestinationFolder is one folder level of a copy destination. Values are created per
// level; the retained set belongs to that level only.
type DestinationFolder interface {
	// Info returns the metadata of a child, or nil when it does not exist.
	Info(name string) (*FileInfo, error)
	// CreateFile writes a new child file from r and applies the timestamps.
	CreateFile(name string, r io.Reader, size int64, created, modified *time.Time) error
	// OpenOrCreateFolder returns the child folder, creating it when missing.
	OpenOrCreateFolder(name string) (DestinationFolder, error)
	// Delete removes a child file or folder.
	Delete(name string) error
	// Retain marks a child as part of the source so DeleteUnretained keeps it.
	Retain(name string)
	// DeleteUnretained removes every visible child that was not retained.
	DeleteUnretained() error
	// Path is the display path of the folder.
	Path() string
}

// Observer is told about the mutations destinations perform.
type Observer interface {
	FolderCreated(path string)
	Deleted(path string, folder bool)
}

type nopObserver struct{}

func (nopObserver) FolderCreated(string)  {}
func (nopObserver) Deleted(string, bool) {}

func observerOrNop(observer Observer) Observer {
	if observer == nil {
		return nopObserver{}
	}

	return observer
}

type retainedSet map[string]struct{}

func (s retainedSet) add(name string) {
	s[name] = struct{}{}
}

func (s retainedSet) has(name string) bool {
	_, ok := s[name]

	return ok
}

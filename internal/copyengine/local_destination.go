package copyengine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/fileops"
	"github.com/joe/mtp-copy/pkg/filesystem"
)

// LocalDestination is a destination folder on a filesystem.FileSystem.
type LocalDestination struct {
	fs       filesystem.FileSystem
	dir      string
	retained retainedSet
	observer Observer
}

// NewLocalDestination creates a LocalDestination for the existing directory dir.
// observer may be nil.
func NewLocalDestination(fs filesystem.FileSystem, dir string, observer Observer) *LocalDestination {
	return &LocalDestination{
		fs:       fs,
		dir:      dir,
		retained: retainedSet{},
		observer: observerOrNop(observer),
	}
}

// Path returns the directory path.
func (d *LocalDestination) Path() string {
	return d.dir
}

func (d *LocalDestination) child(name string) string {
	return filepath.Join(d.dir, name)
}

// Info stats a child.
func (d *LocalDestination) Info(name string) (*FileInfo, error) {
	childPath := d.child(name)

	stat, err := d.fs.Stat(childPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil //nolint:nilnil // A missing child is not an error
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to read %s", childPath)
	}

	info := FileInfoFromLocal(name, stat, d.fs.Attributes(childPath, stat))

	return &info, nil
}

// CreateFile writes r to a new file and applies the timestamps. A partially written
// file is removed.
func (d *LocalDestination) CreateFile(name string, r io.Reader, _ int64, created, modified *time.Time) error {
	childPath := d.child(name)

	file, err := d.fs.Create(childPath)
	if err != nil {
		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to create %s", childPath)
	}

	_, copyErr := fileops.CopyStream(file, r, fileops.BufferSize)
	closeErr := file.Close()

	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = d.fs.Remove(childPath)

		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to write %s", childPath)
	}

	if err := d.fs.SetFileTimes(childPath, created, modified); err != nil {
		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to set times of %s", childPath)
	}

	return nil
}

// OpenOrCreateFolder returns the child directory, creating it when missing.
func (d *LocalDestination) OpenOrCreateFolder(name string) (DestinationFolder, error) {
	childPath := d.child(name)

	stat, err := d.fs.Stat(childPath)

	switch {
	case err == nil && !stat.IsDir():
		return nil, apperrors.New(apperrors.KindInvalidPath, "cannot open a folder: %s is a file", childPath)
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		if err := d.fs.MkdirAll(childPath, 0o755); err != nil { //nolint:mnd // Default directory permission
			return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to create folder %s", childPath)
		}

		d.observer.FolderCreated(childPath)
	default:
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to read %s", childPath)
	}

	return NewLocalDestination(d.fs, childPath, d.observer), nil
}

// Delete removes a child file or a child directory with everything in it.
func (d *LocalDestination) Delete(name string) error {
	childPath := d.child(name)

	stat, err := d.fs.Stat(childPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to read %s", childPath)
	}

	if stat.IsDir() {
		err = d.fs.RemoveAll(childPath)
	} else {
		err = d.fs.Remove(childPath)
	}

	if err != nil {
		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to delete %s", childPath)
	}

	d.observer.Deleted(childPath, stat.IsDir())

	return nil
}

// Retain marks a child as kept.
func (d *LocalDestination) Retain(name string) {
	d.retained.add(name)
}

// DeleteUnretained re-lists the directory and deletes every child that was not
// retained and is neither hidden nor system.
func (d *LocalDestination) DeleteUnretained() error {
	entries, err := d.fs.ReadDir(d.dir)
	if err != nil {
		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to list %s", d.dir)
	}

	for _, entry := range entries {
		if d.retained.has(entry.Name()) {
			continue
		}

		attrs := d.fs.Attributes(d.child(entry.Name()), entry)
		if attrs.Hidden || attrs.System {
			continue
		}

		if err := d.Delete(entry.Name()); err != nil {
			return fmt.Errorf("failed to mirror %s: %w", d.dir, err)
		}
	}

	return nil
}

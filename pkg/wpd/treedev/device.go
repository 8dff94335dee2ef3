package treedev

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/filesystem"
	"github.com/joe/mtp-copy/pkg/wpd"
)

// Object IDs. Content objects are identified by their slash path below the device
// root, always with a leading slash, so they never collide with these two.
const (
	RootID   wpd.ObjectID = ""
	DeviceID wpd.ObjectID = "DEVICE"
)

// OptimalBufferSize is the transfer unit reported by readers and writers.
const OptimalBufferSize = 256 * 1024

// Exported variables.
var (
	ErrNotContainer = errors.New("object cannot have children")
	ErrInvalidName  = errors.New("invalid object name")
)

// Device is an open tree device.
type Device struct {
	info   wpd.DeviceInfo
	fs     filesystem.FileSystem
	root   string
	closer func()
	lock   *flock.Flock
	logger zerolog.Logger
}

// Info returns the device description.
func (d *Device) Info() wpd.DeviceInfo {
	return d.info
}

// RootObject returns the ID of the device root.
func (d *Device) RootObject() wpd.ObjectID {
	return RootID
}

// fsPath maps a content object ID to a path on the backing filesystem.
func (d *Device) fsPath(id wpd.ObjectID) string {
	return path.Join(d.root, string(id))
}

func isContent(id wpd.ObjectID) bool {
	return strings.HasPrefix(string(id), "/")
}

// depth is 1 for storages and more for objects inside them.
func depth(id wpd.ObjectID) int {
	return strings.Count(string(id), "/")
}

// Children enumerates the direct children of an object in name order.
func (d *Device) Children(parent wpd.ObjectID) (wpd.ObjectIterator, error) {
	switch {
	case parent == RootID:
		return wpd.NewSliceIterator([]wpd.ObjectID{DeviceID}), nil
	case parent == DeviceID:
		return d.storages()
	case isContent(parent):
		entries, err := d.fs.ReadDir(d.fsPath(parent))
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate %s: %w", parent, err)
		}

		ids := make([]wpd.ObjectID, 0, len(entries))
		for _, entry := range entries {
			ids = append(ids, wpd.ObjectID(path.Join(string(parent), entry.Name())))
		}

		return wpd.NewSliceIterator(ids), nil
	default:
		return nil, fmt.Errorf("failed to enumerate %s: %w", parent, os.ErrNotExist)
	}
}

func (d *Device) storages() (wpd.ObjectIterator, error) {
	entries, err := d.fs.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate storages: %w", err)
	}

	var ids []wpd.ObjectID

	for _, entry := range entries {
		if entry.IsDir() && !filesystem.IsDotName(entry.Name()) {
			ids = append(ids, wpd.ObjectID("/"+entry.Name()))
		}
	}

	return wpd.NewSliceIterator(ids), nil
}

// ObjectInfo reports the properties of an object.
func (d *Device) ObjectInfo(id wpd.ObjectID) (wpd.RawObjectInfo, error) {
	switch {
	case id == RootID:
		return wpd.RawObjectInfo{ContentType: wpd.ContentTypeFunctionalObject}, nil
	case id == DeviceID:
		return wpd.RawObjectInfo{
			Name:               d.info.FriendlyName,
			ContentType:        wpd.ContentTypeFunctionalObject,
			FunctionalCategory: wpd.CategoryDevice,
			CanDelete:          boolPtr(false),
		}, nil
	case !isContent(id):
		return wpd.RawObjectInfo{}, fmt.Errorf("failed to query %s: %w", id, os.ErrNotExist)
	}

	fsPath := d.fsPath(id)

	stat, err := d.fs.Stat(fsPath)
	if err != nil {
		return wpd.RawObjectInfo{}, fmt.Errorf("failed to query %s: %w", id, err)
	}

	attrs := d.fs.Attributes(fsPath, stat)
	raw := wpd.RawObjectInfo{
		Name:         stat.Name(),
		Hidden:       boolPtr(attrs.Hidden),
		System:       boolPtr(attrs.System),
		DateCreated:  wpd.FormatOptionalDate(attrs.Created),
		DateModified: wpd.FormatDate(stat.ModTime()),
	}

	switch {
	case depth(id) == 1:
		raw.ContentType = wpd.ContentTypeFunctionalObject
		raw.FunctionalCategory = wpd.CategoryStorage
		raw.CanDelete = boolPtr(false)
	case stat.IsDir():
		raw.ContentType = wpd.ContentTypeFolder
	default:
		raw.ContentType = wpd.ContentTypeGenericFile
		size := stat.Size()
		raw.Size = &size
	}

	return raw, nil
}

// OpenResource opens the data stream of a file object.
func (d *Device) OpenResource(id wpd.ObjectID) (wpd.ResourceReader, error) {
	if !isContent(id) || depth(id) < 2 { //nolint:mnd // Storages sit at depth 1
		return nil, fmt.Errorf("failed to open %s: %w", id, ErrInvalidName)
	}

	file, err := d.fs.Open(d.fsPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", id, err)
	}

	return &resourceReader{File: file}, nil
}

// CreateFile starts a new file under parent. The name must not exist yet.
func (d *Device) CreateFile(
	parent wpd.ObjectID,
	name string,
	size int64,
	created, modified *time.Time,
) (wpd.ResourceWriter, error) {
	id, err := d.newChild(parent, name)
	if err != nil {
		return nil, err
	}

	file, err := d.fs.Create(d.fsPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", id, err)
	}

	d.logger.Debug().Str("object", string(id)).Int64("size", size).Msg("creating file object")

	return &resourceWriter{
		device:   d,
		id:       id,
		file:     file,
		size:     size,
		created:  created,
		modified: modified,
	}, nil
}

// CreateFolder creates a folder under parent.
func (d *Device) CreateFolder(parent wpd.ObjectID, name string) (wpd.ObjectID, error) {
	id, err := d.newChild(parent, name)
	if err != nil {
		return "", err
	}

	if err := d.fs.Mkdir(d.fsPath(id), 0o755); err != nil { //nolint:mnd // Default directory permission
		return "", fmt.Errorf("failed to create folder %s: %w", id, err)
	}

	d.logger.Debug().Str("object", string(id)).Msg("created folder object")

	return id, nil
}

// newChild validates a new child name and returns its ID.
func (d *Device) newChild(parent wpd.ObjectID, name string) (wpd.ObjectID, error) {
	if !isContent(parent) {
		return "", fmt.Errorf("failed to add %q to %s: %w", name, parent, ErrNotContainer)
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("failed to add %q to %s: %w", name, parent, ErrInvalidName)
	}

	stat, err := d.fs.Stat(d.fsPath(parent))
	if err != nil {
		return "", fmt.Errorf("failed to add %q to %s: %w", name, parent, err)
	}
	if !stat.IsDir() {
		return "", fmt.Errorf("failed to add %q to %s: %w", name, parent, ErrNotContainer)
	}

	id := wpd.ObjectID(path.Join(string(parent), name))
	if _, err := d.fs.Stat(d.fsPath(id)); err == nil {
		return "", fmt.Errorf("failed to add %q to %s: %w", name, parent, os.ErrExist)
	}

	return id, nil
}

// Delete deletes an object and everything beneath it. Storages cannot be deleted.
func (d *Device) Delete(id wpd.ObjectID) error {
	if !isContent(id) || depth(id) < 2 { //nolint:mnd // Storages sit at depth 1
		return apperrors.New(apperrors.KindForbidden, "object %s cannot be deleted", id)
	}

	if err := d.fs.RemoveAll(d.fsPath(id)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}

	d.logger.Debug().Str("object", string(id)).Msg("deleted object")

	return nil
}

// Close releases the lock and the backing connection.
func (d *Device) Close() error {
	d.closer()

	if d.lock != nil {
		if err := d.lock.Unlock(); err != nil {
			return fmt.Errorf("failed to unlock %s: %w", d.lock.Path(), err)
		}
	}

	return nil
}

func boolPtr(v bool) *bool {
	return &v
}

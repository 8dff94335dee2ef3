package copyengine

import (
	"fmt"
	"io"
	"slices"
	"time"

	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/fileops"
	"github.com/joe/mtp-copy/pkg/wpd"
)

// DeviceDestination is a destination folder (or storage) on a device. Its children are
// listed once at construction and the map is kept current as the folder is changed.
type DeviceDestination struct {
	device   wpd.Device
	folder   wpd.ContentObjectInfo
	path     string
	children map[string]wpd.ContentObjectInfo
	retained retainedSet
	observer Observer
}

// NewDeviceDestination lists folder and creates a DeviceDestination for it. path is the
// display path used in messages. observer may be nil.
func NewDeviceDestination(
	device wpd.Device,
	folder wpd.ContentObjectInfo,
	path string,
	observer Observer,
) (*DeviceDestination, error) {
	it, err := device.Children(folder.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to list %s", path)
	}

	children := map[string]wpd.ContentObjectInfo{}

	for id, ok := it.Next(); ok; id, ok = it.Next() {
		info, err := wpd.GetObjectInfo(device, id)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to list %s", path)
		}

		if info.IsFile() || info.IsFolder() {
			children[info.Name] = info
		}
	}

	if err := it.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to list %s", path)
	}

	return &DeviceDestination{
		device:   device,
		folder:   folder,
		path:     path,
		children: children,
		retained: retainedSet{},
		observer: observerOrNop(observer),
	}, nil
}

// Path returns the display path.
func (d *DeviceDestination) Path() string {
	return d.path
}

func (d *DeviceDestination) child(name string) string {
	return joinDisplayPath(d.path, name)
}

// Info returns the cached metadata of a child.
func (d *DeviceDestination) Info(name string) (*FileInfo, error) {
	object, ok := d.children[name]
	if !ok {
		return nil, nil //nolint:nilnil // A missing child is not an error
	}

	info := FileInfoFromObject(object)

	return &info, nil
}

// CreateFile transfers r to a new object in chunks of the writer's preferred size.
func (d *DeviceDestination) CreateFile(name string, r io.Reader, size int64, created, modified *time.Time) error {
	writer, err := d.device.CreateFile(d.folder.ID, name, size, created, modified)
	if err != nil {
		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to create %s", d.child(name))
	}

	if _, err := fileops.CopyStream(writer, r, writer.OptimalBufferSize()); err != nil {
		_ = writer.Abort()

		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to write %s", d.child(name))
	}

	id, err := writer.Commit()
	if err != nil {
		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to write %s", d.child(name))
	}

	return d.insert(id)
}

func (d *DeviceDestination) insert(id wpd.ObjectID) error {
	info, err := wpd.GetObjectInfo(d.device, id)
	if err != nil {
		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to read new object in %s", d.path)
	}

	d.children[info.Name] = info

	return nil
}

// OpenOrCreateFolder returns the child folder, creating it when missing.
func (d *DeviceDestination) OpenOrCreateFolder(name string) (DestinationFolder, error) {
	object, ok := d.children[name]

	switch {
	case ok && !object.IsFolder():
		return nil, apperrors.New(apperrors.KindInvalidPath, "cannot open a folder: %s is a file", d.child(name))
	case !ok:
		id, err := d.device.CreateFolder(d.folder.ID, name)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to create folder %s", d.child(name))
		}

		if err := d.insert(id); err != nil {
			return nil, err
		}

		object = d.children[name]
		d.observer.FolderCreated(d.child(name))
	}

	return NewDeviceDestination(d.device, object, d.child(name), d.observer)
}

// Delete deletes a child object. Objects that report they cannot be deleted are
// refused.
func (d *DeviceDestination) Delete(name string) error {
	object, ok := d.children[name]
	if !ok {
		return nil
	}

	if !object.CanDelete {
		return apperrors.New(apperrors.KindForbidden, "%s cannot be deleted", d.child(name))
	}

	if err := d.device.Delete(object.ID); err != nil {
		return apperrors.Wrap(apperrors.KindIOFailure, err, "failed to delete %s", d.child(name))
	}

	delete(d.children, name)
	d.observer.Deleted(d.child(name), object.IsFolder())

	return nil
}

// Retain marks a child as kept.
func (d *DeviceDestination) Retain(name string) {
	d.retained.add(name)
}

// DeleteUnretained deletes every cached child that was not retained and is neither
// hidden nor system.
func (d *DeviceDestination) DeleteUnretained() error {
	var stale []string

	for name, object := range d.children {
		if !d.retained.has(name) && !object.Hidden && !object.System {
			stale = append(stale, name)
		}
	}

	slices.Sort(stale)

	for _, name := range stale {
		if err := d.Delete(name); err != nil {
			return fmt.Errorf("failed to mirror %s: %w", d.path, err)
		}
	}

	return nil
}

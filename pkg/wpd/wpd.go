// Package wpd defines the portable-device collaborator consumed by the copy engine:
// a manager that enumerates devices, and devices that expose an object tree through
// enumerate, query and stream primitives.
package wpd

import (
	"io"
	"time"
)

// ObjectID identifies one node of a device's object tree. It is opaque to callers.
type ObjectID string

// DeviceInfo describes a device known to a Manager.
type DeviceInfo struct {
	ID           string
	FriendlyName string
	Manufacturer string
	Description  string
}

// Manager enumerates and opens devices.
type Manager interface {
	Devices() ([]DeviceInfo, error)
	Open(info DeviceInfo) (Device, error)
}

// Device is an open device session.
type Device interface {
	// Info returns the description the device was opened with.
	Info() DeviceInfo
	// RootObject returns the ID of the device root.
	RootObject() ObjectID
	// Children enumerates the direct children of an object.
	Children(parent ObjectID) (ObjectIterator, error)
	// ObjectInfo queries the raw properties of an object.
	ObjectInfo(id ObjectID) (RawObjectInfo, error)
	// OpenResource opens the data stream of a file object.
	OpenResource(id ObjectID) (ResourceReader, error)
	// CreateFile starts a new file object under parent. The object exists only once
	// the returned writer is committed.
	CreateFile(parent ObjectID, name string, size int64, created, modified *time.Time) (ResourceWriter, error)
	// CreateFolder creates a folder object under parent.
	CreateFolder(parent ObjectID, name string) (ObjectID, error)
	// Delete deletes an object and, for folders, everything beneath it.
	Delete(id ObjectID) error
	// Close ends the session.
	Close() error
}

// ObjectIterator iterates over object IDs.
type ObjectIterator interface {
	// Next returns the next ID. ok is false when done or on error; check Err.
	Next() (id ObjectID, ok bool)
	Err() error
}

// ResourceReader reads the data stream of a file object.
type ResourceReader interface {
	io.ReadCloser
	// OptimalBufferSize is the transfer unit the device prefers.
	OptimalBufferSize() int
}

// ResourceWriter writes the data stream of a new file object.
type ResourceWriter interface {
	io.Writer
	// OptimalBufferSize is the transfer unit the device prefers.
	OptimalBufferSize() int
	// Commit finishes the transfer and returns the ID of the new object.
	Commit() (ObjectID, error)
	// Abort discards the transfer.
	Abort() error
}

// SliceIterator is an ObjectIterator over a fixed list.
type SliceIterator struct {
	ids   []ObjectID
	index int
}

// NewSliceIterator creates a SliceIterator.
func NewSliceIterator(ids []ObjectID) *SliceIterator {
	return &SliceIterator{ids: ids}
}

// Next returns the next ID.
func (it *SliceIterator) Next() (ObjectID, bool) {
	if it.index >= len(it.ids) {
		return "", false
	}
	it.index++

	return it.ids[it.index-1], true
}

// Err always returns nil.
func (it *SliceIterator) Err() error {
	return nil
}

// Collect drains an iterator.
func Collect(it ObjectIterator) ([]ObjectID, error) {
	var ids []ObjectID

	for id, ok := it.Next(); ok; id, ok = it.Next() {
		ids = append(ids, id)
	}

	return ids, it.Err()
}

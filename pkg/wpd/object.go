package wpd

import (
	"fmt"
	"time"
)

// ContentType is the kind of an object.
type ContentType string

// FunctionalCategory tells functional objects apart.
type FunctionalCategory string

// Exported constants.
const (
	ContentTypeFunctionalObject ContentType = "functional-object"
	ContentTypeFolder           ContentType = "folder"
	ContentTypeGenericFile      ContentType = "generic-file"

	CategoryDevice  FunctionalCategory = "device"
	CategoryStorage FunctionalCategory = "storage"
)

// RawObjectInfo is an object's properties as the device reports them. Pointer fields
// are nil when the property is absent; dates are in the DateLayout form.
type RawObjectInfo struct {
	Name               string
	ContentType        ContentType
	FunctionalCategory FunctionalCategory
	Size               *int64
	Hidden             *bool
	System             *bool
	CanDelete          *bool
	DateCreated        string
	DateModified       string
}

// ContentObjectInfo is the normalized metadata of an object.
type ContentObjectInfo struct {
	ID                 ObjectID
	Name               string
	ContentType        ContentType
	FunctionalCategory FunctionalCategory
	// Size is nil for folders and functional objects.
	Size      *int64
	Hidden    bool
	System    bool
	CanDelete bool
	Created   *time.Time
	Modified  *time.Time
}

// NewContentObjectInfo normalizes raw properties. Missing hidden and system flags
// default to false and a missing can-delete flag to true. Unparseable dates are
// treated as absent.
func NewContentObjectInfo(id ObjectID, raw RawObjectInfo) ContentObjectInfo {
	info := ContentObjectInfo{
		ID:                 id,
		Name:               raw.Name,
		ContentType:        raw.ContentType,
		FunctionalCategory: raw.FunctionalCategory,
		Hidden:             raw.Hidden != nil && *raw.Hidden,
		System:             raw.System != nil && *raw.System,
		CanDelete:          raw.CanDelete == nil || *raw.CanDelete,
		Created:            parseOptionalDate(raw.DateCreated),
		Modified:           parseOptionalDate(raw.DateModified),
	}

	if info.IsFile() && raw.Size != nil {
		size := *raw.Size
		info.Size = &size
	}

	return info
}

// GetObjectInfo queries and normalizes an object's properties.
func GetObjectInfo(device Device, id ObjectID) (ContentObjectInfo, error) {
	raw, err := device.ObjectInfo(id)
	if err != nil {
		return ContentObjectInfo{}, fmt.Errorf("failed to get properties of object %s: %w", id, err)
	}

	return NewContentObjectInfo(id, raw), nil
}

// IsFunctionalObject reports whether the object is device structure.
func (i ContentObjectInfo) IsFunctionalObject() bool {
	return i.ContentType == ContentTypeFunctionalObject
}

// IsDevice reports whether the object is the device functional object.
func (i ContentObjectInfo) IsDevice() bool {
	return i.IsFunctionalObject() && i.FunctionalCategory == CategoryDevice
}

// IsStorage reports whether the object is a storage functional object.
func (i ContentObjectInfo) IsStorage() bool {
	return i.IsFunctionalObject() && i.FunctionalCategory == CategoryStorage
}

// IsFolder reports whether the object is a folder.
func (i ContentObjectInfo) IsFolder() bool {
	return i.ContentType == ContentTypeFolder
}

// IsFile reports whether the object is neither a folder nor a functional object.
func (i ContentObjectInfo) IsFile() bool {
	return !i.IsFunctionalObject() && !i.IsFolder()
}

// IsContainer reports whether the object can have file and folder children.
func (i ContentObjectInfo) IsContainer() bool {
	return i.IsFolder() || i.IsStorage()
}

func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := ParseDate(s)
	if err != nil {
		return nil
	}

	return &t
}

// Package devpath classifies command-line paths and parses device storage addresses of
// the form device-name:storage-name:path.
package devpath

import (
	"fmt"
	"strings"
)

// Separator is the canonical separator of the path part of an address.
const Separator = `\`

// PathType is the kind of path given on the command line.
type PathType int

// Exported constants.
const (
	Invalid PathType = iota
	DeviceStorage
	Local
)

// String returns the path type name.
func (t PathType) String() string {
	switch t {
	case Invalid:
		return "invalid"
	case DeviceStorage:
		return "device-storage"
	case Local:
		return "local"
	default:
		return "unknown"
	}
}

// GetPathType classifies a path by its colon count. One colon is allowed in a local
// path so that Windows drive letters keep working.
func GetPathType(path string) PathType {
	switch count := strings.Count(path, ":"); {
	case count > 2:
		return Invalid
	case count == 2:
		return DeviceStorage
	default:
		return Local
	}
}

// DeviceStoragePath is a parsed device:storage:path address. Path always begins with
// a backslash and never contains repeated separators.
type DeviceStoragePath struct {
	DeviceName  string
	StorageName string
	Path        string
}

// Parse parses a device storage address.
func Parse(address string) (DeviceStoragePath, error) {
	parts := strings.Split(address, ":")
	if len(parts) != 3 { //nolint:mnd // device, storage, path
		return DeviceStoragePath{}, fmt.Errorf("invalid device storage path format: %q", address)
	}

	return DeviceStoragePath{
		DeviceName:  parts[0],
		StorageName: parts[1],
		Path:        normalize(parts[2]),
	}, nil
}

// normalize converts separators to backslashes, collapses repeats and forces a leading
// separator. A trailing separator is kept because it marks a folder.
func normalize(path string) string {
	var builder strings.Builder
	builder.Grow(len(path) + 1)
	builder.WriteString(Separator)

	lastWasSep := true

	for _, r := range path {
		if r == '/' || r == '\\' {
			if !lastWasSep {
				builder.WriteString(Separator)
			}
			lastWasSep = true

			continue
		}

		builder.WriteRune(r)
		lastWasSep = false
	}

	return builder.String()
}

// IsRoot reports whether the address denotes the storage root.
func (p DeviceStoragePath) IsRoot() bool {
	return p.Path == Separator
}

// Parent returns the address of the containing folder. ok is false at the root.
func (p DeviceStoragePath) Parent() (parent DeviceStoragePath, ok bool) {
	if p.IsRoot() {
		return DeviceStoragePath{}, false
	}

	trimmed := strings.TrimSuffix(p.Path, Separator)
	idx := strings.LastIndex(trimmed, Separator)

	parent = p
	parent.Path = trimmed[:idx]
	if parent.Path == "" {
		parent.Path = Separator
	}

	return parent, true
}

// FileName returns the last path component. ok is false when the path denotes the
// root or ends with a separator.
func (p DeviceStoragePath) FileName() (name string, ok bool) {
	if strings.HasSuffix(p.Path, Separator) {
		return "", false
	}

	return p.Path[strings.LastIndex(p.Path, Separator)+1:], true
}

// BaseName returns the last component, ignoring a trailing separator. It is empty at
// the root.
func (p DeviceStoragePath) BaseName() string {
	trimmed := strings.TrimSuffix(p.Path, Separator)

	return trimmed[strings.LastIndex(trimmed, Separator)+1:]
}

// Join returns the address of a child named name.
func (p DeviceStoragePath) Join(name string) DeviceStoragePath {
	child := p
	if strings.HasSuffix(p.Path, Separator) {
		child.Path = p.Path + name
	} else {
		child.Path = p.Path + Separator + name
	}

	return child
}

// Storage returns the address of the storage root.
func (p DeviceStoragePath) Storage() DeviceStoragePath {
	root := p
	root.Path = Separator

	return root
}

// FullPath reconstructs the three-part address.
func (p DeviceStoragePath) FullPath() string {
	return p.DeviceName + ":" + p.StorageName + ":" + p.Path
}

// String implements fmt.Stringer.
func (p DeviceStoragePath) String() string {
	return p.FullPath()
}

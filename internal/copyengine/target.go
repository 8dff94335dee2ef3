package copyengine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joe/mtp-copy/internal/finder"
	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/filesystem"
)

type targetKind int

const (
	// targetFolder is an existing folder that receives the source's entries.
	targetFolder targetKind = iota
	// targetFile is an existing file replaced in place.
	targetFile
	// targetNew is a missing name created in an existing parent.
	targetNew
)

// Target is a resolved copy destination.
type Target struct {
	kind   targetKind
	folder DestinationFolder
	name   string
	path   string
}

// Path is the display path of the destination.
func (t *Target) Path() string {
	return t.path
}

// NewLocalTarget resolves a destination path on fs. The path must be an existing
// folder, an existing file, or a missing name in an existing folder. Hidden and system
// entries are refused.
func NewLocalTarget(fs filesystem.FileSystem, path string, observer Observer) (*Target, error) {
	path = filepath.Clean(path)

	stat, err := fs.Stat(path)

	switch {
	case err == nil:
		if err := checkVisible(fs.Attributes(path, stat), "destination"); err != nil {
			return nil, err
		}

		if stat.IsDir() {
			return &Target{kind: targetFolder, folder: NewLocalDestination(fs, path, observer), path: path}, nil
		}

		parent := filepath.Dir(path)

		return &Target{
			kind:   targetFile,
			folder: NewLocalDestination(fs, parent, observer),
			name:   filepath.Base(path),
			path:   path,
		}, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to read the destination path")
	}

	parent := filepath.Dir(path)

	parentStat, err := fs.Stat(parent)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.New(apperrors.KindNotFound, "the destination directory was not found.")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to read the destination directory")
	}
	if !parentStat.IsDir() {
		return nil, apperrors.New(apperrors.KindInvalidPath, "the destination parent path is a file.")
	}
	if err := checkVisible(fs.Attributes(parent, parentStat), "destination parent"); err != nil {
		return nil, err
	}

	return &Target{
		kind:   targetNew,
		folder: NewLocalDestination(fs, parent, observer),
		name:   filepath.Base(path),
		path:   path,
	}, nil
}

func checkVisible(attrs filesystem.Attributes, role string) error {
	switch {
	case attrs.System:
		return apperrors.New(apperrors.KindForbidden, "the %s path is a system file.", role)
	case attrs.Hidden:
		return apperrors.New(apperrors.KindForbidden, "the %s path is a hidden file.", role)
	default:
		return nil
	}
}

// NewDeviceTarget builds a destination from a located device address.
func NewDeviceTarget(location *finder.Location, observer Observer) (*Target, error) {
	prefix := finder.StoragePrefix(location.DeviceInfo.FriendlyName, location.Storage)
	path := prefix + displayPath(location.Address.Path)

	if location.Leaf == nil {
		parent, err := NewDeviceDestination(location.Device, location.Parent, parentDisplayPath(prefix, location), observer)
		if err != nil {
			return nil, err
		}

		return &Target{kind: targetNew, folder: parent, name: location.Name, path: path}, nil
	}

	leaf := *location.Leaf

	switch {
	case leaf.System:
		return nil, apperrors.New(apperrors.KindForbidden, "the destination path is a system file.")
	case leaf.Hidden:
		return nil, apperrors.New(apperrors.KindForbidden, "the destination path is a hidden file.")
	case leaf.IsContainer():
		folder, err := NewDeviceDestination(location.Device, leaf, path, observer)
		if err != nil {
			return nil, err
		}

		return &Target{kind: targetFolder, folder: folder, path: path}, nil
	default:
		parent, err := NewDeviceDestination(location.Device, location.Parent, parentDisplayPath(prefix, location), observer)
		if err != nil {
			return nil, err
		}

		return &Target{kind: targetFile, folder: parent, name: location.Name, path: path}, nil
	}
}

func parentDisplayPath(prefix string, location *finder.Location) string {
	parent, ok := location.Address.Parent()
	if !ok {
		return prefix + `\`
	}

	return prefix + displayPath(parent.Path)
}

// displayPath drops a trailing separator except at the root.
func displayPath(path string) string {
	if path == `\` {
		return path
	}

	return strings.TrimSuffix(path, `\`)
}

package copyengine

import (
	"errors"
	"io"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"

	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/filesystem"
	"github.com/joe/mtp-copy/pkg/wpd"
)

// Source is one entry of the tree being copied.
type Source interface {
	Info() FileInfo
	// Children lists a folder's entries. It is only called on folders.
	Children() ([]Source, error)
	// Open opens a file's contents. It is only called on files.
	Open() (io.ReadCloser, error)
	// Path is the display path of the entry.
	Path() string
	// Count returns the number and total size of the visible files at or below the
	// entry.
	Count() (files int, bytes int64, err error)
}

// LocalSource is an entry of a filesystem.FileSystem.
type LocalSource struct {
	fs   filesystem.FileSystem
	path string
	info FileInfo
}

// NewLocalSource stats path and creates a LocalSource for it. A missing path is
// NotFound.
func NewLocalSource(fs filesystem.FileSystem, path string) (*LocalSource, error) {
	stat, err := fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.New(apperrors.KindNotFound, "the file or directory matching the source path was not found.")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to read %s", path)
	}

	return &LocalSource{
		fs:   fs,
		path: path,
		info: FileInfoFromLocal(filepath.Base(path), stat, fs.Attributes(path, stat)),
	}, nil
}

// Info returns the entry metadata.
func (s *LocalSource) Info() FileInfo {
	return s.info
}

// Path returns the filesystem path.
func (s *LocalSource) Path() string {
	return s.path
}

// Children lists the directory in name order.
func (s *LocalSource) Children() ([]Source, error) {
	entries, err := s.fs.ReadDir(s.path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to list %s", s.path)
	}

	children := make([]Source, 0, len(entries))

	for _, entry := range entries {
		childPath := filepath.Join(s.path, entry.Name())
		children = append(children, &LocalSource{
			fs:   s.fs,
			path: childPath,
			info: FileInfoFromLocal(entry.Name(), entry, s.fs.Attributes(childPath, entry)),
		})
	}

	return children, nil
}

// Open opens the file.
func (s *LocalSource) Open() (io.ReadCloser, error) {
	file, err := s.fs.Open(s.path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to open %s", s.path)
	}

	return file, nil
}

// Count scans the tree. Entries under dot-named folders and dotfiles are left out.
func (s *LocalSource) Count() (int, int64, error) {
	if !s.info.IsFolder {
		return 1, *s.info.Size, nil
	}

	scanner := &visibleScanner{FileScanner: s.fs.Scan(s.path), fs: s.fs, root: s.path, excluded: map[string]bool{}}

	files, bytes, err := filesystem.CountFiles(scanner)
	if err != nil {
		return 0, 0, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to count %s", s.path)
	}

	return files, bytes, nil
}

// visibleScanner drops hidden and system entries and everything below hidden or
// system folders, judged by the same attributes Copy uses.
type visibleScanner struct {
	filesystem.FileScanner
	fs       filesystem.FileSystem
	root     string
	excluded map[string]bool
}

func (s *visibleScanner) Next() (filesystem.ScanEntry, bool) {
	for {
		entry, ok := s.FileScanner.Next()
		if !ok {
			return entry, false
		}

		if s.underExcluded(entry.RelativePath) {
			continue
		}

		if s.visible(entry) {
			return entry, true
		}

		if entry.IsDir {
			s.excluded[entry.RelativePath] = true
		}
	}
}

func (s *visibleScanner) visible(entry filesystem.ScanEntry) bool {
	if entry.Info == nil {
		return !filesystem.IsDotName(pathpkg.Base(entry.RelativePath))
	}

	attrs := s.fs.Attributes(filepath.Join(s.root, filepath.FromSlash(entry.RelativePath)), entry.Info)

	return !attrs.Hidden && !attrs.System
}

func (s *visibleScanner) underExcluded(relativePath string) bool {
	for dir := pathpkg.Dir(relativePath); dir != "." && dir != "/"; dir = pathpkg.Dir(dir) {
		if s.excluded[dir] {
			return true
		}
	}

	return false
}

// DeviceSource is an object on a device.
type DeviceSource struct {
	device wpd.Device
	object wpd.ContentObjectInfo
	path   string
}

// NewDeviceSource creates a DeviceSource. path is the display path.
func NewDeviceSource(device wpd.Device, object wpd.ContentObjectInfo, path string) *DeviceSource {
	return &DeviceSource{device: device, object: object, path: path}
}

// Info returns the normalized object metadata.
func (s *DeviceSource) Info() FileInfo {
	return FileInfoFromObject(s.object)
}

// Path returns the display path.
func (s *DeviceSource) Path() string {
	return s.path
}

// Children lists the files and folders below the object in enumeration order.
func (s *DeviceSource) Children() ([]Source, error) {
	it, err := s.device.Children(s.object.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to list %s", s.path)
	}

	var children []Source

	for id, ok := it.Next(); ok; id, ok = it.Next() {
		info, err := wpd.GetObjectInfo(s.device, id)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to list %s", s.path)
		}

		if info.IsFile() || info.IsFolder() {
			children = append(children, NewDeviceSource(s.device, info, joinDisplayPath(s.path, info.Name)))
		}
	}

	if err := it.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to list %s", s.path)
	}

	return children, nil
}

// joinDisplayPath appends a component to a device display path.
func joinDisplayPath(base, name string) string {
	if strings.HasSuffix(base, `\`) {
		return base + name
	}

	return base + `\` + name
}

// Open opens the object's data stream.
func (s *DeviceSource) Open() (io.ReadCloser, error) {
	reader, err := s.device.OpenResource(s.object.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to open %s", s.path)
	}

	return reader, nil
}

// Count walks the subtree, leaving out hidden and system objects.
func (s *DeviceSource) Count() (int, int64, error) {
	return countTree(s)
}

func countTree(src Source) (int, int64, error) {
	info := src.Info()
	if info.Hidden || info.System {
		return 0, 0, nil
	}

	if !info.IsFolder {
		if info.Size == nil {
			return 1, 0, nil
		}

		return 1, *info.Size, nil
	}

	children, err := src.Children()
	if err != nil {
		return 0, 0, err
	}

	var files int

	var bytes int64

	for _, child := range children {
		childFiles, childBytes, err := countTree(child)
		if err != nil {
			return 0, 0, err
		}

		files += childFiles
		bytes += childBytes
	}

	return files, bytes, nil
}

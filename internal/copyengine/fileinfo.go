package copyengine

import (
	"os"
	"time"

	"github.com/joe/mtp-copy/pkg/filesystem"
	"github.com/joe/mtp-copy/pkg/wpd"
)

// FileInfo is the backend-neutral view of an entry used for skip decisions.
type FileInfo struct {
	Name string
	// Size is nil for folders.
	Size      *int64
	IsFolder  bool
	Hidden    bool
	System    bool
	CanDelete bool
	Created   *time.Time
	Modified  *time.Time
}

// FileInfoFromLocal normalizes local filesystem metadata.
func FileInfoFromLocal(name string, info os.FileInfo, attrs filesystem.Attributes) FileInfo {
	modified := info.ModTime()

	fileInfo := FileInfo{
		Name:      name,
		IsFolder:  info.IsDir(),
		Hidden:    attrs.Hidden,
		System:    attrs.System,
		CanDelete: true,
		Created:   attrs.Created,
		Modified:  &modified,
	}

	if !info.IsDir() {
		size := info.Size()
		fileInfo.Size = &size
	}

	return fileInfo
}

// FileInfoFromObject normalizes device object metadata.
func FileInfoFromObject(info wpd.ContentObjectInfo) FileInfo {
	return FileInfo{
		Name:      info.Name,
		Size:      info.Size,
		IsFolder:  info.IsContainer(),
		Hidden:    info.Hidden,
		System:    info.System,
		CanDelete: info.CanDelete,
		Created:   info.Created,
		Modified:  info.Modified,
	}
}

// CanSkipCopying reports whether dst already holds src. Both sizes must be known and
// equal, and the later of created and modified on the source must not be after the
// destination's at second precision. A side with no timestamp never skips.
func CanSkipCopying(src, dst FileInfo) bool {
	if src.Size == nil || dst.Size == nil || *src.Size != *dst.Size {
		return false
	}

	srcTime, ok := latest(src)
	if !ok {
		return false
	}

	dstTime, ok := latest(dst)
	if !ok {
		return false
	}

	return srcTime <= dstTime
}

// latest returns max(created, modified) in Unix seconds.
func latest(info FileInfo) (int64, bool) {
	switch {
	case info.Created != nil && info.Modified != nil:
		return max(info.Created.Unix(), info.Modified.Unix()), true
	case info.Created != nil:
		return info.Created.Unix(), true
	case info.Modified != nil:
		return info.Modified.Unix(), true
	default:
		return 0, false
	}
}

//go:build !windows

package filesystem

import (
	"os"
	"time"
)

// platformAttributes reports dotfiles as hidden. There is no system attribute and the
// creation time is not reported because it cannot be written back.
func platformAttributes(_ string, info os.FileInfo) Attributes {
	return Attributes{Hidden: IsDotName(info.Name())}
}

func setPlatformFileTimes(path string, _, modified *time.Time) error {
	if modified == nil {
		return nil
	}

	return os.Chtimes(path, *modified, *modified)
}

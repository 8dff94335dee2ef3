//go:build windows

package filesystem

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

func platformAttributes(_ string, info os.FileInfo) Attributes {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return Attributes{Hidden: IsDotName(info.Name())}
	}

	created := time.Unix(0, data.CreationTime.Nanoseconds())

	return Attributes{
		Hidden:  data.FileAttributes&windows.FILE_ATTRIBUTE_HIDDEN != 0,
		System:  data.FileAttributes&windows.FILE_ATTRIBUTE_SYSTEM != 0,
		Created: &created,
	}
}

func setPlatformFileTimes(path string, created, modified *time.Time) error {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}

	handle, err := windows.CreateFile(
		name,
		windows.FILE_WRITE_ATTRIBUTES,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return err
	}
	defer func() {
		_ = windows.CloseHandle(handle)
	}()

	var ctime, mtime *windows.Filetime

	if created != nil {
		ft := windows.NsecToFiletime(created.UnixNano())
		ctime = &ft
	}

	if modified != nil {
		ft := windows.NsecToFiletime(modified.UnixNano())
		mtime = &ft
	}

	return windows.SetFileTime(handle, ctime, nil, mtime)
}

package command

import (
	"fmt"
	"time"

	"github.com/rodaine/table"

	"github.com/joe/mtp-copy/internal/finder"
	"github.com/joe/mtp-copy/pkg/devpath"
	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/wpd"
)

const listTimeLayout = "2006-01-02 15:04:05"

// List prints the objects matching a device address whose three parts are independent
// patterns. With recursive, matched folders are listed in full; with verbose, a table
// of kind, timestamps and attributes is printed instead of bare paths.
func (e *Environment) List(address string, recursive, verbose bool) error {
	path, err := devpath.Parse(address)
	if err != nil {
		return apperrors.Wrap(apperrors.KindInvalidPath, err, "invalid path")
	}

	manager, err := e.devices()
	if err != nil {
		return err
	}

	devices, err := e.finder.FindDevices(manager, path.DeviceName)
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		return apperrors.New(apperrors.KindNotFound, "No device matched.")
	}

	var tbl table.Table

	show := func(info wpd.ContentObjectInfo, displayPath string) (finder.Action, error) {
		if !verbose {
			_, _ = fmt.Fprintln(e.out, displayPath)

			return finder.Continue, nil
		}

		if tbl == nil {
			tbl = newTable(e.out, "KIND", "CREATED", "MODIFIED", "FLAGS", "PATH")
		}

		tbl.AddRow(kindOf(info), formatListTime(info.Created), formatListTime(info.Modified), flagsOf(info), displayPath)

		return finder.Continue, nil
	}

	// Verbose rows are printed one table per storage.
	flush := func() {
		if tbl != nil {
			tbl.Print()
			tbl = nil
		}
	}

	for _, info := range devices {
		if err := e.listDevice(manager, info, path, recursive, show, flush); err != nil {
			return err
		}
	}

	return nil
}

func (e *Environment) listDevice(
	manager wpd.Manager,
	info wpd.DeviceInfo,
	path devpath.DeviceStoragePath,
	recursive bool,
	fn finder.Callback,
	flush func(),
) error {
	device, err := manager.Open(info)
	if err != nil {
		return err //nolint:wrapcheck // Manager errors carry their kind
	}
	defer device.Close()

	storages, err := e.finder.FindStorages(device, path.StorageName)
	if err != nil {
		return err
	}

	for _, storage := range storages {
		err := e.finder.IterateAll(device, info.FriendlyName, storage, path.Path, recursive, fn)
		flush()

		if err != nil {
			return err
		}
	}

	return nil
}

func kindOf(info wpd.ContentObjectInfo) string {
	switch {
	case info.IsFile():
		return "FILE"
	case info.IsContainer():
		return "DIR"
	default:
		return ""
	}
}

func flagsOf(info wpd.ContentObjectInfo) string {
	flags := []byte("--")
	if info.System {
		flags[0] = 'S'
	}

	if info.Hidden {
		flags[1] = 'H'
	}

	return string(flags)
}

func formatListTime(t *time.Time) string {
	if t == nil {
		return "(not provided)"
	}

	return t.Format(listTimeLayout)
}

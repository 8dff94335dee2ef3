package command

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/joe/mtp-copy/internal/finder"
	"github.com/joe/mtp-copy/pkg/wpd"
)

// maxConcurrentDevices bounds how many devices are enumerated at once.
const maxConcurrentDevices = 4

type storageRow struct {
	prefix string
	device wpd.DeviceInfo
}

// Storages prints every device:storage: pair, device by device in registry order.
// Devices that cannot be opened or enumerated are skipped with a warning.
func (e *Environment) Storages(verbose bool) error {
	manager, err := e.devices()
	if err != nil {
		return err
	}

	devices, err := e.finder.FindDevices(manager, "")
	if err != nil {
		return err
	}

	rows := make([][]storageRow, len(devices))

	var group errgroup.Group
	group.SetLimit(maxConcurrentDevices)

	for i, info := range devices {
		i, info := i, info
		group.Go(func() error {
			rows[i] = e.deviceStorages(manager, info)

			return nil
		})
	}

	_ = group.Wait()

	tbl := newTable(e.out, "STORAGE", "DEVICE ID", "MANUFACTURER", "DESCRIPTION")
	count := 0

	for _, deviceRows := range rows {
		for _, row := range deviceRows {
			count++

			if verbose {
				tbl.AddRow(row.prefix, row.device.ID, row.device.Manufacturer, row.device.Description)
			} else {
				_, _ = fmt.Fprintln(e.out, row.prefix)
			}
		}
	}

	switch {
	case count == 0:
		_, _ = fmt.Fprintln(e.out, "no storages were found.")
	case verbose:
		tbl.Print()
	}

	return nil
}

func (e *Environment) deviceStorages(manager wpd.Manager, info wpd.DeviceInfo) []storageRow {
	device, err := manager.Open(info)
	if err != nil {
		e.logger.Debug().Err(err).Msg("open failed")
		e.logger.Warn().Str("device", info.FriendlyName).Msg("failed to open device, skipped")

		return nil
	}
	defer device.Close()

	storages, err := e.finder.FindStorages(device, "")
	if err != nil {
		e.logger.Debug().Err(err).Msg("storage enumeration failed")
		e.logger.Warn().Str("device", info.FriendlyName).Msg("failed to get storages, skipped")

		return nil
	}

	rows := make([]storageRow, len(storages))
	for i, storage := range storages {
		rows[i] = storageRow{prefix: finder.StoragePrefix(info.FriendlyName, storage), device: info}
	}

	return rows
}

// Devices prints the registered devices, numbered from 1.
func (e *Environment) Devices() error {
	manager, err := e.devices()
	if err != nil {
		return err
	}

	devices, err := e.finder.FindDevices(manager, "")
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		_, _ = fmt.Fprintln(e.out, "no devices found.")

		return nil
	}

	for i, info := range devices {
		_, _ = fmt.Fprintf(e.out, "%d: %s\n", i+1, info.FriendlyName)
	}

	return nil
}

// Package finder resolves device addresses to concrete devices, storages and objects by
// walking device object trees with glob matcher chains.
package finder

import (
	"fmt"

	"github.com/rs/zerolog"

	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/glob"
	"github.com/joe/mtp-copy/pkg/wpd"
)

// Action tells IterateAll whether to go on after a match.
type Action int

// Exported constants.
const (
	Continue Action = iota
	Stop
)

// Callback receives every match with its display path (device:storage:\a\b).
type Callback func(info wpd.ContentObjectInfo, displayPath string) (Action, error)

// Match is one object found by FindOne.
type Match struct {
	Info        wpd.ContentObjectInfo
	DisplayPath string
}

// Finder walks device trees.
type Finder struct {
	logger zerolog.Logger
}

// New creates a Finder that reports skipped subtrees to logger.
func New(logger zerolog.Logger) *Finder {
	return &Finder{logger: logger}
}

// FindDevices returns the devices whose friendly name matches pattern. An empty
// pattern matches every device.
func (f *Finder) FindDevices(manager wpd.Manager, pattern string) ([]wpd.DeviceInfo, error) {
	devices, err := manager.Devices()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to enumerate devices")
	}

	name := namePattern(pattern)

	var matched []wpd.DeviceInfo

	for _, device := range devices {
		f.logger.Trace().Str("device", device.FriendlyName).Msg("detected device")

		if name.Matches(device.FriendlyName) {
			matched = append(matched, device)
		}
	}

	return matched, nil
}

// FindDeviceObject returns the functional object of category device among the root's
// children. found is false when no child carries that category.
func (f *Finder) FindDeviceObject(device wpd.Device) (info wpd.ContentObjectInfo, found bool, err error) {
	children, err := f.children(device, device.RootObject())
	if err != nil {
		return wpd.ContentObjectInfo{}, false, err
	}

	for _, id := range children {
		child, err := wpd.GetObjectInfo(device, id)
		if err != nil {
			return wpd.ContentObjectInfo{}, false, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to find the device object")
		}

		if child.IsDevice() {
			return child, true, nil
		}
	}

	return wpd.ContentObjectInfo{}, false, nil
}

// FindStorages returns the storages of device whose name matches pattern. An empty
// pattern matches every storage. A device without a device object has no storages.
func (f *Finder) FindStorages(device wpd.Device, pattern string) ([]wpd.ContentObjectInfo, error) {
	deviceObject, found, err := f.FindDeviceObject(device)
	if err != nil || !found {
		return nil, err
	}

	children, err := f.children(device, deviceObject.ID)
	if err != nil {
		return nil, err
	}

	name := namePattern(pattern)

	var storages []wpd.ContentObjectInfo

	for _, id := range children {
		info, err := wpd.GetObjectInfo(device, id)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to enumerate storages")
		}

		if info.IsStorage() && name.Matches(info.Name) {
			storages = append(storages, info)
		}
	}

	return storages, nil
}

func (f *Finder) children(device wpd.Device, parent wpd.ObjectID) ([]wpd.ObjectID, error) {
	it, err := device.Children(parent)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to enumerate %s", device.Info().FriendlyName)
	}

	ids, err := wpd.Collect(it)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to enumerate %s", device.Info().FriendlyName)
	}

	return ids, nil
}

func namePattern(pattern string) glob.NamePattern {
	if pattern == "" {
		pattern = "*"
	}

	return glob.NewNamePattern(pattern)
}

// StoragePrefix is the display path of a storage without its path part.
func StoragePrefix(deviceName string, storage wpd.ContentObjectInfo) string {
	return fmt.Sprintf("%s:%s:", deviceName, storage.Name)
}

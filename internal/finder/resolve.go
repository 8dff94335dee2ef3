package finder

import (
	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/devpath"
	"github.com/joe/mtp-copy/pkg/wpd"
)

// Endpoint is an address resolved to exactly one object on an open device. The caller
// owns Device and must close it.
type Endpoint struct {
	Device      wpd.Device
	DeviceInfo  wpd.DeviceInfo
	Storage     wpd.ContentObjectInfo
	Object      wpd.ContentObjectInfo
	DisplayPath string
}

// Location is an address resolved to its parent folder on an open device. Leaf is nil
// when the last component does not exist. At the storage root Parent and Leaf are the
// storage itself and Name is empty. The caller owns Device and must close it.
type Location struct {
	Device     wpd.Device
	DeviceInfo wpd.DeviceInfo
	Storage    wpd.ContentObjectInfo
	Parent     wpd.ContentObjectInfo
	Name       string
	Leaf       *wpd.ContentObjectInfo
	Address    devpath.DeviceStoragePath
}

// Resolve resolves address to one visible file or folder. role ("source" or
// "destination") is used in messages. Files are refused unless allowFile is set.
func (f *Finder) Resolve(manager wpd.Manager, address, role string, allowFile bool) (*Endpoint, error) {
	path, err := devpath.Parse(address)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidPath, err, "invalid %s path", role)
	}

	device, info, storage, err := f.openStorage(manager, path, role)
	if err != nil {
		return nil, err
	}

	match, err := f.FindOne(device, info.FriendlyName, storage, path.Path)
	if err != nil {
		_ = device.Close()

		return nil, err
	}

	if match == nil {
		_ = device.Close()

		if allowFile {
			return nil, apperrors.New(apperrors.KindNotFound, "the file or folder matching the %s path was not found.", role)
		}

		return nil, apperrors.New(apperrors.KindNotFound, "the folder matching the %s path was not found.", role)
	}

	if err := checkObject(match.Info, role, allowFile); err != nil {
		_ = device.Close()

		return nil, err
	}

	return &Endpoint{
		Device:      device,
		DeviceInfo:  info,
		Storage:     storage,
		Object:      match.Info,
		DisplayPath: match.DisplayPath,
	}, nil
}

// Locate resolves the parent folder of address and looks up its last component by
// exact name. The parent must exist and be a visible folder or storage.
func (f *Finder) Locate(manager wpd.Manager, address, role string) (*Location, error) {
	path, err := devpath.Parse(address)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidPath, err, "invalid %s path", role)
	}

	device, info, storage, err := f.openStorage(manager, path, role)
	if err != nil {
		return nil, err
	}

	location, err := f.locate(device, info, storage, path, role)
	if err != nil {
		_ = device.Close()

		return nil, err
	}

	return location, nil
}

func (f *Finder) locate(
	device wpd.Device,
	info wpd.DeviceInfo,
	storage wpd.ContentObjectInfo,
	path devpath.DeviceStoragePath,
	role string,
) (*Location, error) {
	location := &Location{Device: device, DeviceInfo: info, Storage: storage, Address: path}

	parentPath, ok := path.Parent()
	if !ok {
		location.Parent = storage
		location.Leaf = &storage

		return location, nil
	}

	parent, err := f.FindOne(device, info.FriendlyName, storage, parentPath.Path)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "the parent folder of the %s path was not found.", role)
	}
	if err := checkObject(parent.Info, role+" parent", false); err != nil {
		return nil, err
	}

	location.Parent = parent.Info
	location.Name = path.BaseName()

	children, err := f.children(device, parent.Info.ID)
	if err != nil {
		return nil, err
	}

	for _, id := range children {
		child, err := wpd.GetObjectInfo(device, id)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to read %s", parent.DisplayPath)
		}

		if child.Name == location.Name && (child.IsFile() || child.IsFolder()) {
			location.Leaf = &child

			break
		}
	}

	return location, nil
}

// openStorage finds exactly one device and one storage for path and opens the device.
func (f *Finder) openStorage(
	manager wpd.Manager,
	path devpath.DeviceStoragePath,
	role string,
) (wpd.Device, wpd.DeviceInfo, wpd.ContentObjectInfo, error) {
	devices, err := f.FindDevices(manager, path.DeviceName)
	if err != nil {
		return nil, wpd.DeviceInfo{}, wpd.ContentObjectInfo{}, err
	}

	switch len(devices) {
	case 0:
		return nil, wpd.DeviceInfo{}, wpd.ContentObjectInfo{},
			apperrors.New(apperrors.KindNotFound, "the %s device was not found.", role)
	case 1:
	default:
		return nil, wpd.DeviceInfo{}, wpd.ContentObjectInfo{},
			apperrors.New(apperrors.KindAmbiguous, "cannot determine the %s device.", role)
	}

	info := devices[0]

	device, err := manager.Open(info)
	if err != nil {
		return nil, wpd.DeviceInfo{}, wpd.ContentObjectInfo{}, err //nolint:wrapcheck // Providers return kinded errors
	}

	storages, err := f.FindStorages(device, path.StorageName)
	if err != nil {
		_ = device.Close()

		return nil, wpd.DeviceInfo{}, wpd.ContentObjectInfo{}, err
	}

	switch len(storages) {
	case 0:
		_ = device.Close()

		return nil, wpd.DeviceInfo{}, wpd.ContentObjectInfo{},
			apperrors.New(apperrors.KindNotFound, "the %s storage was not found.", role)
	case 1:
	default:
		_ = device.Close()

		return nil, wpd.DeviceInfo{}, wpd.ContentObjectInfo{},
			apperrors.New(apperrors.KindAmbiguous, "cannot determine the %s storage.", role)
	}

	return device, info, storages[0], nil
}

func checkObject(info wpd.ContentObjectInfo, role string, allowFile bool) error {
	switch {
	case info.System:
		return apperrors.New(apperrors.KindForbidden, "the %s path is a system file.", role)
	case info.Hidden:
		return apperrors.New(apperrors.KindForbidden, "the %s path is a hidden file.", role)
	case info.IsFile():
		if !allowFile {
			return apperrors.New(apperrors.KindInvalidPath, "the %s path is a file.", role)
		}
	case !info.IsFolder() && !info.IsStorage():
		return apperrors.New(apperrors.KindInvalidPath, "the %s path is not a folder.", role)
	}

	return nil
}

// Package treedev serves the wpd device interface from a directory tree. The
// directories directly under a device root are its storages; everything below them is
// content. Roots can live on the local disk, on an SFTP host or in memory.
package treedev

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/filesystem"
	"github.com/joe/mtp-copy/pkg/wpd"
)

// LockFileName is the advisory lock taken in the root of local devices while open.
const LockFileName = ".mtp-copy.lock"

// Manufacturer is reported for every tree device.
const Manufacturer = "mtp-copy tree device"

// Entry declares one device. Location is a local path or an sftp:// URL. When FS is
// set it is used as-is with Root as the device root and Location is only descriptive.
type Entry struct {
	Name     string
	Location string
	FS       filesystem.FileSystem
	Root     string
}

// Manager enumerates the declared devices.
type Manager struct {
	entries []Entry
	infos   []wpd.DeviceInfo
	logger  zerolog.Logger
}

// NewManager creates a Manager over entries, in declaration order.
func NewManager(entries []Entry, logger zerolog.Logger) *Manager {
	manager := &Manager{
		entries: entries,
		infos:   make([]wpd.DeviceInfo, len(entries)),
		logger:  logger,
	}

	for i, entry := range entries {
		manager.infos[i] = wpd.DeviceInfo{
			ID:           deviceID(i, entry),
			FriendlyName: entry.Name,
			Manufacturer: Manufacturer,
			Description:  entry.Location,
		}
	}

	return manager
}

// deviceID is stable for an entry at a given position of the registry.
func deviceID(index int, entry Entry) string {
	key := fmt.Sprintf("%d\x00%s\x00%s", index, entry.Name, entry.Location)

	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// Devices lists the declared devices.
func (m *Manager) Devices() ([]wpd.DeviceInfo, error) {
	return append([]wpd.DeviceInfo(nil), m.infos...), nil
}

// Open opens a session on a device returned by Devices.
func (m *Manager) Open(info wpd.DeviceInfo) (wpd.Device, error) {
	for i, known := range m.infos {
		if known.ID == info.ID {
			return m.open(known, m.entries[i])
		}
	}

	return nil, apperrors.New(apperrors.KindNotFound, "device %q is not registered", info.FriendlyName)
}

func (m *Manager) open(info wpd.DeviceInfo, entry Entry) (wpd.Device, error) {
	logger := m.logger.With().Str("device", info.FriendlyName).Logger()

	fs, root, closer := entry.FS, entry.Root, func() {}
	if fs == nil {
		var err error

		fs, root, closer, err = filesystem.Open(entry.Location)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindIOFailure, err, "failed to open device %q", info.FriendlyName)
		}
	}

	stat, err := fs.Stat(root)
	if err != nil || !stat.IsDir() {
		closer()

		return nil, apperrors.Wrap(apperrors.KindNotFound, err,
			"root of device %q is not a directory: %s", info.FriendlyName, root)
	}

	var lock *flock.Flock

	if entry.FS == nil && isLocal(entry.Location) {
		lock, err = acquireLock(root)
		if err != nil {
			closer()

			return nil, fmt.Errorf("device %q: %w", info.FriendlyName, err)
		}
	}

	logger.Debug().Str("root", root).Msg("opened tree device")

	return &Device{
		info:   info,
		fs:     fs,
		root:   root,
		closer: closer,
		lock:   lock,
		logger: logger,
	}, nil
}

func isLocal(location string) bool {
	loc, err := filesystem.ParseLocation(location)

	return err == nil && !loc.IsRemote
}

func acquireLock(root string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(root, LockFileName))

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return nil, apperrors.New(apperrors.KindIOFailure, "device is already in use by another process")
	}

	return lock, nil
}

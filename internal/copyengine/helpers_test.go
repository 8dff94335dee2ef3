package copyengine_test

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/joe/mtp-copy/internal/copyengine"
	"github.com/joe/mtp-copy/internal/finder"
	"github.com/joe/mtp-copy/pkg/filesystem"
	"github.com/joe/mtp-copy/pkg/wpd"
	"github.com/joe/mtp-copy/pkg/wpd/treedev"
)

// recordingObserver captures destination mutations.
type recordingObserver struct {
	created []string
	deleted []string
}

func (o *recordingObserver) FolderCreated(path string) {
	o.created = append(o.created, path)
}

func (o *recordingObserver) Deleted(path string, folder bool) {
	if folder {
		path += " (folder)"
	}
	o.deleted = append(o.deleted, path)
}

// testEventEmitter is a simple test double for capturing events.
type testEventEmitter struct {
	mu     sync.Mutex
	events []copyengine.Event
}

func (e *testEventEmitter) Emit(event copyengine.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.events = append(e.events, event)
}

func (e *testEventEmitter) snapshot() []copyengine.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]copyengine.Event(nil), e.events...)
}

// openDevice serves root on fs as a device named Phone and returns it with its
// storage named storageName.
func openDevice(fs filesystem.FileSystem, root, storageName string) (*treedev.Manager, wpd.Device, wpd.ContentObjectInfo, error) {
	manager := treedev.NewManager([]treedev.Entry{{Name: "Phone", FS: fs, Root: root}}, zerolog.Nop())

	devices, err := manager.Devices()
	if err != nil {
		return nil, nil, wpd.ContentObjectInfo{}, err
	}

	device, err := manager.Open(devices[0])
	if err != nil {
		return nil, nil, wpd.ContentObjectInfo{}, err
	}

	storages, err := finder.New(zerolog.Nop()).FindStorages(device, storageName)
	if err != nil || len(storages) != 1 {
		_ = device.Close()

		return nil, nil, wpd.ContentObjectInfo{}, err
	}

	return manager, device, storages[0], nil
}

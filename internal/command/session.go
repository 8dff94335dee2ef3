package command

import (
	"sync"

	"github.com/joe/mtp-copy/pkg/wpd"
)

// sessionManager opens each device at most once at a time. Callers opening a device
// that is already open share the session, which ends when the last of them closes it.
type sessionManager struct {
	wpd.Manager

	mu   sync.Mutex
	open map[string]*sharedDevice
}

func newSessionManager(manager wpd.Manager) *sessionManager {
	return &sessionManager{Manager: manager, open: make(map[string]*sharedDevice)}
}

func (m *sessionManager) Open(info wpd.DeviceInfo) (wpd.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if shared, ok := m.open[info.ID]; ok {
		shared.refs++

		return &deviceHandle{sharedDevice: shared}, nil
	}

	device, err := m.Manager.Open(info)
	if err != nil {
		return nil, err //nolint:wrapcheck // Manager errors carry their kind
	}

	shared := &sharedDevice{Device: device, owner: m, id: info.ID, refs: 1}
	m.open[info.ID] = shared

	return &deviceHandle{sharedDevice: shared}, nil
}

func (m *sessionManager) release(shared *sharedDevice) error {
	m.mu.Lock()
	shared.refs--
	last := shared.refs == 0
	if last {
		delete(m.open, shared.id)
	}
	m.mu.Unlock()

	if !last {
		return nil
	}

	return shared.Device.Close() //nolint:wrapcheck // Pass-through close
}

type sharedDevice struct {
	wpd.Device

	owner *sessionManager
	id    string
	refs  int
}

// deviceHandle is one caller's reference to a shared device. Closing it twice is a
// no-op.
type deviceHandle struct {
	*sharedDevice

	closeOnce sync.Once
	closeErr  error
}

func (h *deviceHandle) Close() error {
	h.closeOnce.Do(func() {
		h.closeErr = h.owner.release(h.sharedDevice)
	})

	return h.closeErr
}

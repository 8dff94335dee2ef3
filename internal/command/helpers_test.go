package command_test

import (
	"bytes"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/joe/mtp-copy/internal/command"
	"github.com/joe/mtp-copy/pkg/filesystem"
	"github.com/joe/mtp-copy/pkg/wpd/treedev"
)

var base = time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of the storages command.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// newPhones serves two in-memory devices, Phone (storages Card and Internal) and
// Tablet (storage Internal).
func newPhones() *filesystem.MockFileSystem {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/phone/Internal/DCIM/a.jpg", []byte("jpeg"), base)
	fs.AddFile("/phone/Internal/DCIM/b.png", []byte("png"), base)
	fs.AddFile("/phone/Internal/DCIM/.thumbs/a.jpg", []byte("t"), base)
	fs.AddDir("/phone/Card/Music", base)
	fs.AddFile("/tablet/Internal/notes.txt", []byte("notes"), base)
	fs.AddDir("/local", base)

	return fs
}

func newEnvironment(fs *filesystem.MockFileSystem, out, logs *syncBuffer, entries ...treedev.Entry) *command.Environment {
	if entries == nil {
		entries = []treedev.Entry{
			{Name: "Phone", FS: fs, Root: "/phone"},
			{Name: "Tablet", FS: fs, Root: "/tablet"},
		}
	}

	logger := zerolog.New(logs)

	return command.New(command.Options{
		Out:        out,
		Logger:     logger,
		Manager:    treedev.NewManager(entries, logger),
		FileSystem: fs,
	})
}

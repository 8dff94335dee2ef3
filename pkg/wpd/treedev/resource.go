package treedev

import (
	"fmt"
	"time"

	"github.com/joe/mtp-copy/pkg/filesystem"
	"github.com/joe/mtp-copy/pkg/wpd"
)

type resourceReader struct {
	filesystem.File
}

func (r *resourceReader) OptimalBufferSize() int {
	return OptimalBufferSize
}

// resourceWriter writes straight to the final path. A failed or aborted transfer
// removes the partial file.
type resourceWriter struct {
	device   *Device
	id       wpd.ObjectID
	file     filesystem.File
	size     int64
	written  int64
	created  *time.Time
	modified *time.Time
	done     bool
}

func (w *resourceWriter) Write(p []byte) (int, error) {
	n, err := w.file.Write(p)
	w.written += int64(n)

	return n, err //nolint:wrapcheck // Pass-through of the underlying writer
}

func (w *resourceWriter) OptimalBufferSize() int {
	return OptimalBufferSize
}

// Commit closes the transfer, checks the size announced at creation and applies the
// timestamps.
func (w *resourceWriter) Commit() (wpd.ObjectID, error) {
	if w.done {
		return "", fmt.Errorf("transfer of %s already finished", w.id) //nolint:err113 // Programming error
	}
	w.done = true

	fsPath := w.device.fsPath(w.id)

	if err := w.file.Close(); err != nil {
		_ = w.device.fs.Remove(fsPath)

		return "", fmt.Errorf("failed to close %s: %w", w.id, err)
	}

	if w.written != w.size {
		_ = w.device.fs.Remove(fsPath)

		return "", fmt.Errorf("failed to commit %s: wrote %d of %d bytes: short write", //nolint:err113 // Includes sizes
			w.id, w.written, w.size)
	}

	if err := w.device.fs.SetFileTimes(fsPath, w.created, w.modified); err != nil {
		return "", fmt.Errorf("failed to set times of %s: %w", w.id, err)
	}

	return w.id, nil
}

// Abort discards the transfer.
func (w *resourceWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	_ = w.file.Close()

	if err := w.device.fs.Remove(w.device.fsPath(w.id)); err != nil {
		return fmt.Errorf("failed to discard %s: %w", w.id, err)
	}

	return nil
}

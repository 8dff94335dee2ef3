// Package fileops provides the chunked stream copy used to move file contents
// between backends.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Exported constants.
const (
	// BufferSize is the buffer used when the source does not report a preferred size (32KB)
	BufferSize = 32 * 1024
)

// CopyStats contains timing information about a copy operation
type CopyStats struct {
	BytesCopied int64
	ReadTime    time.Duration
	WriteTime   time.Duration
}

// ProgressCallback is called during file operations to report progress
type ProgressCallback func(bytesTransferred int64, totalBytes int64, currentFile string)

// Copier copies streams through one reusable buffer.
type Copier struct {
	buf      []byte
	progress ProgressCallback
}

// NewCopier creates a Copier with a buffer of bufferSize bytes. A size <= 0 selects
// BufferSize.
func NewCopier(bufferSize int, progress ProgressCallback) *Copier {
	if bufferSize <= 0 {
		bufferSize = BufferSize
	}

	return &Copier{buf: make([]byte, bufferSize), progress: progress}
}

// BufferSize returns the size of the copy buffer.
func (c *Copier) BufferSize() int {
	return len(c.buf)
}

// Copy streams src into dst and returns timing statistics. totalBytes and name are
// only passed through to the progress callback.
func (c *Copier) Copy(dst io.Writer, src io.Reader, totalBytes int64, name string) (*CopyStats, error) {
	stats := &CopyStats{}

	for {
		readStart := time.Now()
		nr, err := src.Read(c.buf) //nolint:varnamelen // nr is idiomatic for bytes read
		stats.ReadTime += time.Since(readStart)

		if nr > 0 {
			nw, werr := writeBufferWithTiming(dst, c.buf, nr, stats) //nolint:varnamelen // nw is idiomatic for bytes written
			if werr != nil {
				return stats, fmt.Errorf("failed to write to destination: %w", werr)
			}

			if nr != nw {
				return stats, fmt.Errorf("short write: %w", io.ErrShortWrite)
			}

			stats.BytesCopied += int64(nw)

			if c.progress != nil {
				c.progress(stats.BytesCopied, totalBytes, name)
			}
		}

		if errors.Is(err, io.EOF) {
			return stats, nil
		}

		if err != nil {
			return stats, fmt.Errorf("failed to read from source: %w", err)
		}
	}
}

// CopyStream copies src into dst through a fresh buffer of bufferSize bytes.
func CopyStream(dst io.Writer, src io.Reader, bufferSize int) (int64, error) {
	stats, err := NewCopier(bufferSize, nil).Copy(dst, src, 0, "")

	return stats.BytesCopied, err
}

// writeBufferWithTiming writes a buffer and tracks the write time.
func writeBufferWithTiming(dst io.Writer, buf []byte, nr int, stats *CopyStats) (int, error) {
	writeStart := time.Now()
	nw, err := dst.Write(buf[0:nr])
	stats.WriteTime += time.Since(writeStart)

	return nw, err //nolint:wrapcheck // Error is from io.Writer interface, context is clear
}

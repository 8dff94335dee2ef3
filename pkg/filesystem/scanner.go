package filesystem

import (
	"os"
	"time"
)

// FileScanner is an iterator over the entries of a directory tree.
type FileScanner interface {
	// Next advances to the next entry and returns its info.
	// Returns (ScanEntry{}, false) when done or on error.
	// Check Err() after Next() returns false to distinguish between end-of-scan and error.
	Next() (ScanEntry, bool)

	// Err returns any error that occurred during scanning.
	Err() error
}

// ScanEntry describes one entry found by a FileScanner.
type ScanEntry struct {
	// RelativePath is the slash-separated path relative to the scan root
	RelativePath string

	// Size is the file size in bytes
	Size int64

	// ModTime is the modification time
	ModTime time.Time

	// IsDir indicates if this is a directory
	IsDir bool

	// Info is the entry's stat result, for FileSystem.Attributes
	Info os.FileInfo
}

// CountFiles drains a scanner and returns the number and total size of the regular
// files it reports.
func CountFiles(scanner FileScanner) (files int, bytes int64, err error) {
	for {
		entry, ok := scanner.Next()
		if !ok {
			break
		}
		if entry.IsDir {
			continue
		}
		files++
		bytes += entry.Size
	}

	return files, bytes, scanner.Err()
}

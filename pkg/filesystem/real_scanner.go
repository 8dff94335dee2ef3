package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/kr/fs"
)

// walkerScanner adapts a kr/fs Walker to FileScanner. The same walker type drives
// local trees (fs.Walk) and remote ones (sftp.Client.Walk).
type walkerScanner struct {
	root   string
	walker *fs.Walker
	rel    func(root, target string) (string, error)
	err    error
}

// newRealFileScanner creates a scanner for a local directory tree.
func newRealFileScanner(root string) *walkerScanner {
	return &walkerScanner{
		root:   root,
		walker: fs.Walk(root),
		rel: func(root, target string) (string, error) {
			rel, err := filepath.Rel(root, target)
			if err != nil {
				return "", err
			}

			return filepath.ToSlash(rel), nil
		},
	}
}

// Next advances to the next entry and returns its info.
func (s *walkerScanner) Next() (ScanEntry, bool) {
	if s.err != nil || s.walker == nil {
		return ScanEntry{}, false
	}

	for s.walker.Step() {
		if err := s.walker.Err(); err != nil {
			s.err = fmt.Errorf("failed to scan %s: %w", s.root, err)
			return ScanEntry{}, false
		}

		relPath, err := s.rel(s.root, s.walker.Path())
		if err != nil {
			s.err = fmt.Errorf("failed to get relative path for %s: %w", s.walker.Path(), err)
			return ScanEntry{}, false
		}

		// Skip the root directory itself
		if relPath == "." {
			continue
		}

		stat := s.walker.Stat()

		return ScanEntry{
			RelativePath: relPath,
			Size:         stat.Size(),
			ModTime:      stat.ModTime(),
			IsDir:        stat.IsDir(),
			Info:         stat,
		}, true
	}

	return ScanEntry{}, false
}

// Err returns any error that occurred during scanning.
func (s *walkerScanner) Err() error {
	return s.err
}

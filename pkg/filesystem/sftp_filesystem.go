package filesystem

import (
	"fmt"
	"os"
	"path"
	"sort"
	"time"

	"github.com/pkg/sftp"
)

// SFTPFileSystem implements FileSystem over a single SFTP session. Copies run one file
// at a time, so one client serves every operation.
type SFTPFileSystem struct {
	client *sftp.Client
}

// NewSFTPFileSystem creates a new SFTP filesystem using an established connection.
func NewSFTPFileSystem(conn *SFTPConnection) *SFTPFileSystem {
	return &SFTPFileSystem{client: conn.Client()}
}

// Attributes reports dotfiles as hidden. SFTP exposes neither a system flag nor a
// creation time.
func (fs *SFTPFileSystem) Attributes(_ string, info os.FileInfo) Attributes {
	return Attributes{Hidden: IsDotName(info.Name())}
}

// Chtimes changes the access and modification times of a remote file.
func (fs *SFTPFileSystem) Chtimes(path string, atime, mtime time.Time) error {
	err := fs.client.Chtimes(path, atime, mtime)
	if err != nil {
		return fmt.Errorf("failed to change times for remote file %s: %w", path, err)
	}

	return nil
}

// Create creates a remote file for writing.
func (fs *SFTPFileSystem) Create(path string) (File, error) {
	file, err := fs.client.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote file %s: %w", path, err)
	}

	return file, nil
}

// Mkdir creates a single remote directory.
func (fs *SFTPFileSystem) Mkdir(path string, _ os.FileMode) error {
	err := fs.client.Mkdir(path)
	if err != nil {
		return fmt.Errorf("failed to create remote directory %s: %w", path, err)
	}

	return nil
}

// MkdirAll creates a remote directory and all necessary parents.
func (fs *SFTPFileSystem) MkdirAll(path string, _ os.FileMode) error {
	err := fs.client.MkdirAll(path)
	if err != nil {
		return fmt.Errorf("failed to create remote directory %s: %w", path, err)
	}

	return nil
}

// Open opens a remote file for reading.
func (fs *SFTPFileSystem) Open(path string) (File, error) {
	file, err := fs.client.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", path, err)
	}

	return file, nil
}

// ReadDir returns the entries of a remote directory sorted by name.
func (fs *SFTPFileSystem) ReadDir(path string) ([]os.FileInfo, error) {
	infos, err := fs.client.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote directory %s: %w", path, err)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	return infos, nil
}

// Remove removes a remote file or empty directory.
func (fs *SFTPFileSystem) Remove(path string) error {
	err := fs.client.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to remove remote file %s: %w", path, err)
	}

	return nil
}

// RemoveAll removes a remote file or directory tree.
func (fs *SFTPFileSystem) RemoveAll(path string) error {
	err := fs.client.RemoveAll(path)
	if err != nil {
		return fmt.Errorf("failed to remove remote tree %s: %w", path, err)
	}

	return nil
}

// Scan returns an iterator over all entries in a remote directory tree.
func (fs *SFTPFileSystem) Scan(root string) FileScanner {
	return &walkerScanner{
		root:   root,
		walker: fs.client.Walk(root),
		rel:    relativePath,
	}
}

// SetFileTimes sets the modification time of a remote entry. SFTP cannot store a
// creation time.
func (fs *SFTPFileSystem) SetFileTimes(path string, _, modified *time.Time) error {
	if modified == nil {
		return nil
	}

	return fs.Chtimes(path, *modified, *modified)
}

// Stat returns file information for a remote file.
func (fs *SFTPFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := fs.client.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", path, err)
	}

	return info, nil
}

// relativePath computes the relative path from root to target.
// Uses path package (not filepath) since SFTP always uses forward slashes.
func relativePath(root, target string) (string, error) {
	root = path.Clean(root)
	target = path.Clean(target)

	if root == target {
		return ".", nil
	}

	prefix := root
	if prefix != "/" {
		prefix += "/"
	}

	if len(target) <= len(prefix) || target[:len(prefix)] != prefix {
		return "", fmt.Errorf("target %s is not under root %s", target, root) //nolint:err113 // Path validation error with actual paths
	}

	return target[len(prefix):], nil
}

package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory filesystem implementation for testing. Paths are
// slash-separated (backslashes are accepted too); "/", "." and "" all denote the root,
// which always exists.
type MockFileSystem struct {
	mu     sync.RWMutex
	files  map[string]*mockFile
	faults map[string]error
}

// mockFile represents a file in the mock filesystem.
type mockFile struct {
	path    string
	data    []byte
	modTime time.Time
	created *time.Time
	isDir   bool
	perm    os.FileMode
	hidden  bool
	system  bool
}

// mockFileInfo implements os.FileInfo for mock files.
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
	perm    os.FileMode
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() any           { return nil }

func (fi *mockFileInfo) Mode() os.FileMode {
	if fi.isDir {
		return fi.perm | os.ModeDir
	}

	return fi.perm
}

// mockFileHandle implements the File interface for reading/writing.
type mockFileHandle struct {
	fs     *MockFileSystem
	path   string
	reader *bytes.Reader
	writer *bytes.Buffer
	closed bool
}

func (f *mockFileHandle) Read(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.reader == nil {
		return 0, io.EOF
	}

	return f.reader.Read(p)
}

func (f *mockFileHandle) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.writer == nil {
		return 0, fmt.Errorf("write %s: file not open for writing", f.path) //nolint:err113 // Mock error
	}
	if err := f.fs.fault("write", f.path); err != nil {
		return 0, err
	}

	return f.writer.Write(p)
}

func (f *mockFileHandle) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true

	if f.writer != nil {
		f.fs.mu.Lock()
		defer f.fs.mu.Unlock()

		if file, exists := f.fs.files[f.path]; exists {
			file.data = f.writer.Bytes()
			file.modTime = time.Now()
		}
	}

	return nil
}

func (f *mockFileHandle) Stat() (os.FileInfo, error) {
	if f.closed {
		return nil, os.ErrClosed
	}

	return f.fs.Stat(f.path)
}

// NewMockFileSystem creates a new in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:  make(map[string]*mockFile),
		faults: make(map[string]error),
	}
}

func cleanMockPath(p string) string {
	return path.Clean("/" + strings.ReplaceAll(p, `\`, "/"))
}

func (fs *MockFileSystem) fault(op, p string) error {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if err, ok := fs.faults[op+" "+cleanMockPath(p)]; ok {
		return &os.PathError{Op: op, Path: p, Err: err}
	}

	return nil
}

// lookupLocked returns the entry at p. The root is synthesized.
func (fs *MockFileSystem) lookupLocked(p string) (*mockFile, bool) {
	p = cleanMockPath(p)
	if p == "/" {
		if root, ok := fs.files[p]; ok {
			return root, true
		}

		return &mockFile{path: "/", isDir: true, perm: 0o755}, true
	}

	file, ok := fs.files[p]

	return file, ok
}

func (file *mockFile) info() *mockFileInfo {
	return &mockFileInfo{
		name:    path.Base(file.path),
		size:    int64(len(file.data)),
		modTime: file.modTime,
		isDir:   file.isDir,
		perm:    file.perm,
	}
}

// Attributes reports the attributes recorded for an entry. Dotfiles are hidden.
func (fs *MockFileSystem) Attributes(p string, info os.FileInfo) Attributes {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	attrs := Attributes{Hidden: IsDotName(info.Name())}

	if file, ok := fs.lookupLocked(p); ok {
		attrs.Hidden = attrs.Hidden || file.hidden
		attrs.System = file.system
		if file.created != nil {
			created := *file.created
			attrs.Created = &created
		}
	}

	return attrs
}

// Chtimes changes the modification time of an entry.
func (fs *MockFileSystem) Chtimes(p string, _, mtime time.Time) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, exists := fs.files[cleanMockPath(p)]
	if !exists {
		return &os.PathError{Op: "chtimes", Path: p, Err: os.ErrNotExist}
	}

	file.modTime = mtime

	return nil
}

// Create creates or truncates a file for writing. Missing parents are created.
func (fs *MockFileSystem) Create(p string) (File, error) {
	if err := fs.fault("create", p); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	p = cleanMockPath(p)
	if existing, ok := fs.files[p]; ok && existing.isDir {
		return nil, &os.PathError{Op: "create", Path: p, Err: fmt.Errorf("is a directory")} //nolint:err113 // Mock error
	}

	fs.mkdirAllLocked(path.Dir(p), 0o755) //nolint:mnd // Default directory permission

	fs.files[p] = &mockFile{
		path:    p,
		data:    []byte{},
		modTime: time.Now(),
		perm:    0o644, //nolint:mnd // Default file permission
	}

	return &mockFileHandle{
		fs:     fs,
		path:   p,
		writer: &bytes.Buffer{},
	}, nil
}

// Mkdir creates a single directory. The parent must exist and the path must not.
func (fs *MockFileSystem) Mkdir(p string, perm os.FileMode) error {
	if err := fs.fault("mkdir", p); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	p = cleanMockPath(p)
	if _, exists := fs.lookupLocked(p); exists {
		return &os.PathError{Op: "mkdir", Path: p, Err: os.ErrExist}
	}

	parent, ok := fs.lookupLocked(path.Dir(p))
	if !ok || !parent.isDir {
		return &os.PathError{Op: "mkdir", Path: p, Err: os.ErrNotExist}
	}

	fs.files[p] = &mockFile{path: p, modTime: time.Now(), isDir: true, perm: perm}

	return nil
}

// MkdirAll creates a directory and all necessary parents.
func (fs *MockFileSystem) MkdirAll(p string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.mkdirAllLocked(cleanMockPath(p), perm)

	return nil
}

// mkdirAllLocked is the internal implementation that assumes the lock is held.
func (fs *MockFileSystem) mkdirAllLocked(p string, perm os.FileMode) {
	if p == "/" {
		return
	}

	fs.mkdirAllLocked(path.Dir(p), perm)

	if _, exists := fs.files[p]; !exists {
		fs.files[p] = &mockFile{path: p, modTime: time.Now(), isDir: true, perm: perm}
	}
}

// Open opens a file for reading.
func (fs *MockFileSystem) Open(p string) (File, error) {
	if err := fs.fault("open", p); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.lookupLocked(p)
	if !exists {
		return nil, &os.PathError{Op: "open", Path: p, Err: os.ErrNotExist}
	}

	if file.isDir {
		return nil, &os.PathError{Op: "open", Path: p, Err: fmt.Errorf("is a directory")} //nolint:err113 // Mock error
	}

	return &mockFileHandle{
		fs:     fs,
		path:   file.path,
		reader: bytes.NewReader(file.data),
	}, nil
}

// ReadDir returns the direct children of a directory sorted by name.
func (fs *MockFileSystem) ReadDir(p string) ([]os.FileInfo, error) {
	if err := fs.fault("readdir", p); err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dir, exists := fs.lookupLocked(p)
	if !exists {
		return nil, &os.PathError{Op: "readdir", Path: p, Err: os.ErrNotExist}
	}
	if !dir.isDir {
		return nil, &os.PathError{Op: "readdir", Path: p, Err: fmt.Errorf("not a directory")} //nolint:err113 // Mock error
	}

	clean := cleanMockPath(p)

	var infos []os.FileInfo

	for childPath, file := range fs.files {
		if childPath != "/" && path.Dir(childPath) == clean {
			infos = append(infos, file.info())
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	return infos, nil
}

// Remove removes a file or empty directory.
func (fs *MockFileSystem) Remove(p string) error {
	if err := fs.fault("remove", p); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	p = cleanMockPath(p)

	file, exists := fs.files[p]
	if !exists {
		return &os.PathError{Op: "remove", Path: p, Err: os.ErrNotExist}
	}

	if file.isDir {
		for other := range fs.files {
			if strings.HasPrefix(other, p+"/") {
				return &os.PathError{Op: "remove", Path: p, Err: fmt.Errorf("directory not empty")} //nolint:err113 // Mock error
			}
		}
	}

	delete(fs.files, p)

	return nil
}

// RemoveAll removes an entry and everything beneath it. A missing path is not an error.
func (fs *MockFileSystem) RemoveAll(p string) error {
	if err := fs.fault("remove", p); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	p = cleanMockPath(p)
	for other := range fs.files {
		if other == p || strings.HasPrefix(other, p+"/") {
			delete(fs.files, other)
		}
	}

	return nil
}

// Scan returns an iterator over all entries in a directory tree, in path order.
func (fs *MockFileSystem) Scan(root string) FileScanner {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	clean := cleanMockPath(root)
	prefix := strings.TrimSuffix(clean, "/") + "/"

	scanner := &mockFileScanner{}

	for p, file := range fs.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		scanner.entries = append(scanner.entries, ScanEntry{
			RelativePath: p[len(prefix):],
			Size:         int64(len(file.data)),
			ModTime:      file.modTime,
			IsDir:        file.isDir,
			Info:         file.info(),
		})
	}

	sort.Slice(scanner.entries, func(i, j int) bool {
		return scanner.entries[i].RelativePath < scanner.entries[j].RelativePath
	})

	return scanner
}

// SetFileTimes records creation and modification times.
func (fs *MockFileSystem) SetFileTimes(p string, created, modified *time.Time) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, exists := fs.files[cleanMockPath(p)]
	if !exists {
		return &os.PathError{Op: "setfiletimes", Path: p, Err: os.ErrNotExist}
	}

	if created != nil {
		c := *created
		file.created = &c
	}
	if modified != nil {
		file.modTime = *modified
	}

	return nil
}

// Stat returns file information.
func (fs *MockFileSystem) Stat(p string) (os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.lookupLocked(p)
	if !exists {
		return nil, &os.PathError{Op: "stat", Path: p, Err: os.ErrNotExist}
	}

	return file.info(), nil
}

// mockFileScanner iterates over a snapshot of mock entries.
type mockFileScanner struct {
	entries []ScanEntry
	index   int
}

// Next advances to the next entry and returns its info.
func (s *mockFileScanner) Next() (ScanEntry, bool) {
	if s.index >= len(s.entries) {
		return ScanEntry{}, false
	}
	s.index++

	return s.entries[s.index-1], true
}

// Err returns nil; the mock scanner cannot fail.
func (s *mockFileScanner) Err() error {
	return nil
}

// Helper methods for testing

// AddFile adds a file with the given content and modtime, creating parents.
func (fs *MockFileSystem) AddFile(p string, content []byte, modTime time.Time) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	p = cleanMockPath(p)
	fs.mkdirAllLocked(path.Dir(p), 0o755) //nolint:mnd // Default directory permission

	fs.files[p] = &mockFile{
		path:    p,
		data:    append([]byte(nil), content...),
		modTime: modTime,
		perm:    0o644, //nolint:mnd // Default file permission
	}
}

// AddDir adds a directory, creating parents.
func (fs *MockFileSystem) AddDir(p string, modTime time.Time) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	p = cleanMockPath(p)
	fs.mkdirAllLocked(path.Dir(p), 0o755) //nolint:mnd // Default directory permission

	fs.files[p] = &mockFile{
		path:    p,
		modTime: modTime,
		isDir:   true,
		perm:    0o755, //nolint:mnd // Default directory permission
	}
}

// SetAttributes marks an existing entry hidden and/or system.
func (fs *MockFileSystem) SetAttributes(p string, hidden, system bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if file, ok := fs.files[cleanMockPath(p)]; ok {
		file.hidden = hidden
		file.system = system
	}
}

// InjectError makes op ("open", "create", "write", "mkdir", "readdir", "remove")
// on p fail with err.
func (fs *MockFileSystem) InjectError(op, p string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.faults[op+" "+cleanMockPath(p)] = err
}

// GetFile retrieves a file's content and modtime.
func (fs *MockFileSystem) GetFile(p string) ([]byte, time.Time, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[cleanMockPath(p)]
	if !exists {
		return nil, time.Time{}, os.ErrNotExist
	}

	if file.isDir {
		return nil, time.Time{}, fmt.Errorf("is a directory") //nolint:err113 // Mock error
	}

	return append([]byte(nil), file.data...), file.modTime, nil
}

// Exists checks if a path exists.
func (fs *MockFileSystem) Exists(p string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, exists := fs.lookupLocked(p)

	return exists
}

// ListFiles returns all paths sorted.
func (fs *MockFileSystem) ListFiles() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	paths := make([]string, 0, len(fs.files))
	for p := range fs.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	return paths
}

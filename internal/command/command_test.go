//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package command_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/joe/mtp-copy/internal/command"
	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/filesystem"
	"github.com/joe/mtp-copy/pkg/wpd/treedev"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

func TestDevices(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out := &syncBuffer{}
	env := newEnvironment(newPhones(), out, &syncBuffer{})

	g.Expect(env.Devices()).To(Succeed())
	g.Expect(out.String()).To(Equal("1: Phone\n2: Tablet\n"))
}

func TestDevicesEmpty(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out := &syncBuffer{}
	env := command.New(command.Options{Out: out, Manager: treedev.NewManager(nil, zerolog.Nop())})

	g.Expect(env.Devices()).To(Succeed())
	g.Expect(out.String()).To(Equal("no devices found.\n"))
}

func TestStorages(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out := &syncBuffer{}
	env := newEnvironment(newPhones(), out, &syncBuffer{})

	g.Expect(env.Storages(false)).To(Succeed())
	g.Expect(out.String()).To(Equal("Phone:Card:\nPhone:Internal:\nTablet:Internal:\n"))
}

func TestStoragesVerbose(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := newPhones()
	out := &syncBuffer{}
	env := newEnvironment(fs, out, &syncBuffer{})

	g.Expect(env.Storages(true)).To(Succeed())

	devices, err := treedev.NewManager([]treedev.Entry{
		{Name: "Phone", FS: fs, Root: "/phone"},
		{Name: "Tablet", FS: fs, Root: "/tablet"},
	}, zerolog.Nop()).Devices()
	g.Expect(err).NotTo(HaveOccurred())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	g.Expect(lines).To(HaveLen(4))
	g.Expect(lines[0]).To(ContainSubstring("DEVICE ID"))
	g.Expect(lines[0]).To(ContainSubstring("MANUFACTURER"))
	g.Expect(lines[1]).To(HavePrefix("Phone:Card:"))
	g.Expect(lines[1]).To(ContainSubstring(devices[0].ID))
	g.Expect(lines[1]).To(ContainSubstring(treedev.Manufacturer))
	g.Expect(lines[3]).To(HavePrefix("Tablet:Internal:"))
	g.Expect(lines[3]).To(ContainSubstring(devices[1].ID))
}

func TestStoragesSkipsUnavailableDevices(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := newPhones()
	out, logs := &syncBuffer{}, &syncBuffer{}
	env := newEnvironment(fs, out, logs,
		treedev.Entry{Name: "Gone", FS: fs, Root: "/gone"},
		treedev.Entry{Name: "Tablet", FS: fs, Root: "/tablet"},
	)

	g.Expect(env.Storages(false)).To(Succeed())
	g.Expect(out.String()).To(Equal("Tablet:Internal:\n"))
	g.Expect(logs.String()).To(ContainSubstring("failed to open device, skipped"))
	g.Expect(logs.String()).To(ContainSubstring(`"device":"Gone"`))
}

func TestStoragesNoneFound(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/empty", base)

	out := &syncBuffer{}
	env := newEnvironment(fs, out, &syncBuffer{}, treedev.Entry{Name: "Empty", FS: fs, Root: "/empty"})

	g.Expect(env.Storages(true)).To(Succeed())
	g.Expect(out.String()).To(Equal("no storages were found.\n"))
}

func TestList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		address   string
		recursive bool
		expected  []string
	}{
		{
			name:     "exact folder",
			address:  `Phone:Internal:\DCIM`,
			expected: []string{`Phone:Internal:\DCIM`},
		},
		{
			name:     "wildcard files",
			address:  `Phone:Internal:/DCIM/*.jpg`,
			expected: []string{`Phone:Internal:\DCIM\a.jpg`},
		},
		{
			name:      "recursive folder",
			address:   `Phone:Internal:\DCIM`,
			recursive: true,
			expected: []string{
				`Phone:Internal:\DCIM`,
				`Phone:Internal:\DCIM\.thumbs`,
				`Phone:Internal:\DCIM\.thumbs\a.jpg`,
				`Phone:Internal:\DCIM\a.jpg`,
				`Phone:Internal:\DCIM\b.png`,
			},
		},
		{
			name:     "every storage root",
			address:  `*:*:\`,
			expected: []string{`Phone:Card:\`, `Phone:Internal:\`, `Tablet:Internal:\`},
		},
		{
			name:     "no match",
			address:  `Tablet:Internal:\DCIM`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			out := &syncBuffer{}
			env := newEnvironment(newPhones(), out, &syncBuffer{})

			g.Expect(env.List(tt.address, tt.recursive, false)).To(Succeed())

			var lines []string
			if text := strings.TrimSpace(out.String()); text != "" {
				lines = strings.Split(text, "\n")
			}

			g.Expect(lines).To(Equal(tt.expected))
		})
	}
}

func TestListVerbose(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out := &syncBuffer{}
	env := newEnvironment(newPhones(), out, &syncBuffer{})

	g.Expect(env.List(`Phone:Internal:\DCIM`, true, true)).To(Succeed())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	g.Expect(lines).To(HaveLen(6))
	g.Expect(strings.Fields(lines[0])).To(Equal([]string{"KIND", "CREATED", "MODIFIED", "FLAGS", "PATH"}))
	g.Expect(lines[1]).To(HavePrefix("DIR"))
	g.Expect(lines[2]).To(ContainSubstring("-H"))
	g.Expect(lines[4]).To(HavePrefix("FILE"))
	g.Expect(lines[4]).To(ContainSubstring(base.Format("2006-01-02 15:04:05")))
	g.Expect(strings.TrimRight(lines[4], " ")).To(HaveSuffix(`Phone:Internal:\DCIM\a.jpg`))
}

func TestListVerbosePrintsOneTablePerStorage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out := &syncBuffer{}
	env := newEnvironment(newPhones(), out, &syncBuffer{})

	g.Expect(env.List(`*:*:\`, false, true)).To(Succeed())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	g.Expect(lines).To(HaveLen(6))

	for i, want := range []string{`Phone:Card:\`, `Phone:Internal:\`, `Tablet:Internal:\`} {
		g.Expect(strings.Fields(lines[2*i])).To(HaveExactElements("KIND", "CREATED", "MODIFIED", "FLAGS", "PATH"))
		g.Expect(lines[2*i+1]).To(HavePrefix("DIR"))
		g.Expect(strings.TrimRight(lines[2*i+1], " ")).To(HaveSuffix(want))
	}
}

func TestListErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		address string
		kind    error
		errMsg  string
	}{
		{"no device", `NoSuchDevice:*:\`, apperrors.ErrNotFound, "No device matched."},
		{"not a device address", `photos`, apperrors.ErrInvalidPath, "invalid path"},
		{"bad pattern", `Phone:Internal:\a\..\b`, apperrors.ErrInvalidPath, "invalid path"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			err := newEnvironment(newPhones(), &syncBuffer{}, &syncBuffer{}).List(tt.address, false, false)
			g.Expect(err).To(MatchError(tt.kind))
			g.Expect(err).To(MatchError(ContainSubstring(tt.errMsg)))
		})
	}
}

func TestCopyLocalToDevice(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := newPhones()
	fs.AddFile("/local/album/x.jpg", []byte("xx"), base)
	env := newEnvironment(fs, &syncBuffer{}, &syncBuffer{})

	result, err := env.Copy("/local/album", `Phone:Card:\Album`, false, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.FilesCopied).To(Equal(1))
	g.Expect(fs.Exists("/phone/Card/Album/x.jpg")).To(BeTrue())
}

func TestCopyDeviceToLocal(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := newPhones()
	env := newEnvironment(fs, &syncBuffer{}, &syncBuffer{})

	result, err := env.Copy(`Phone:Internal:\DCIM\a.jpg`, "/local", false, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.FilesCopied).To(Equal(1))

	data, mtime, err := fs.GetFile("/local/a.jpg")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(Equal("jpeg"))
	g.Expect(mtime.Equal(base)).To(BeTrue())
}

func TestCopyErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		dst    string
		kind   error
		errMsg string
	}{
		{"wildcard source", `Phone:Internal:\DCIM\*.jpg`, "/local", apperrors.ErrInvalidPath, "the source path must not be the wildcard."},
		{"wildcard destination", "/local", `Ph?ne:Internal:\`, apperrors.ErrInvalidPath, "the destination path must not be the wildcard."},
		{"invalid source", `a:b:c:d`, "/local", apperrors.ErrInvalidPath, "invalid source path."},
		{"invalid destination", "/local", `a:b:c:d`, apperrors.ErrInvalidPath, "invalid destination path."},
		{"missing local source", "/nothing", "/local", apperrors.ErrNotFound, "the file or directory matching the source path was not found."},
		{"missing device", `Laptop:Internal:\`, "/local", apperrors.ErrNotFound, "the source device was not found."},
		{"missing object", `Phone:Internal:\Nope`, "/local", apperrors.ErrNotFound, "the file or folder matching the source path was not found."},
		{"hidden source", `Phone:Internal:\DCIM\.thumbs`, "/local", apperrors.ErrForbidden, "the source path is a hidden file."},
		{"missing local destination parent", `Phone:Internal:\DCIM`, "/nowhere/x", apperrors.ErrNotFound, "the destination directory was not found."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			_, err := newEnvironment(newPhones(), &syncBuffer{}, &syncBuffer{}).Copy(tt.src, tt.dst, false, nil)
			g.Expect(err).To(MatchError(tt.kind))
			g.Expect(err).To(MatchError(ContainSubstring(tt.errMsg)))
		})
	}
}

func TestCopyAmbiguousDevice(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := newPhones()
	env := newEnvironment(fs, &syncBuffer{}, &syncBuffer{},
		treedev.Entry{Name: "Phone", FS: fs, Root: "/phone"},
		treedev.Entry{Name: "Phone", FS: fs, Root: "/tablet"},
	)

	_, err := env.Copy(`Phone:Internal:\`, "/local", false, nil)
	g.Expect(err).To(MatchError(apperrors.ErrAmbiguous))
	g.Expect(err).To(MatchError(ContainSubstring("cannot determine the source device.")))
}

// writeRegistry creates a local device named Phone with storages Internal and Card
// under a temporary directory and a registry declaring it.
func writeRegistry(t *testing.T, entries string) (string, string) {
	t.Helper()
	g := NewWithT(t)

	dir := t.TempDir()
	root := filepath.Join(dir, "phone")

	g.Expect(os.MkdirAll(filepath.Join(root, "Internal", "DCIM"), 0o755)).To(Succeed())
	g.Expect(os.MkdirAll(filepath.Join(root, "Card"), 0o755)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(root, "Internal", "DCIM", "a.jpg"), []byte("jpeg"), 0o644)).To(Succeed())

	mtime := time.Date(2022, 5, 6, 7, 8, 9, 0, time.UTC)
	g.Expect(os.Chtimes(filepath.Join(root, "Internal", "DCIM", "a.jpg"), mtime, mtime)).To(Succeed())

	registry := filepath.Join(dir, "devices.yaml")
	content := strings.ReplaceAll(entries, "ROOT", filepath.ToSlash(root))
	g.Expect(os.WriteFile(registry, []byte(content), 0o600)).To(Succeed())

	return registry, root
}

func TestCopyWithinOneRegisteredDevice(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	registry, root := writeRegistry(t, "devices:\n  - name: Phone\n    path: \"ROOT\"\n")
	env := command.New(command.Options{RegistryPath: registry, Logger: zerolog.Nop()})

	result, err := env.Copy(`Phone:Internal:\DCIM`, `Phone:Card:\Backup`, true, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.FilesCopied).To(Equal(1))

	data, err := os.ReadFile(filepath.Join(root, "Card", "Backup", "a.jpg"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(Equal("jpeg"))

	result, err = env.Copy(`Phone:Internal:\DCIM`, `Phone:Card:\Backup`, true, nil)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.FilesSkipped).To(Equal(1))

	out := &syncBuffer{}
	lister := command.New(command.Options{Out: out, RegistryPath: registry, Logger: zerolog.Nop()})
	g.Expect(lister.List(`Phone:*:\`, false, false)).To(Succeed())
	g.Expect(out.String()).To(Equal("Phone:Card:\\\nPhone:Internal:\\\n"))
}

func TestRegistryErrorsSurface(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	env := command.New(command.Options{RegistryPath: filepath.Join(t.TempDir(), "missing.yaml")})

	g.Expect(env.Storages(false)).To(MatchError(ContainSubstring("failed to read device registry")))
	g.Expect(env.Devices()).To(MatchError(ContainSubstring("failed to read device registry")))
}

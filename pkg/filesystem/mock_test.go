//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package filesystem_test

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/joe/mtp-copy/pkg/filesystem"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

func TestMockCreateAndOpen(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()

	file, err := fs.Create("dir/test.txt")
	g.Expect(err).NotTo(HaveOccurred())
	_, err = file.Write([]byte("test content"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(file.Close()).To(Succeed())

	g.Expect(fs.Exists("/dir")).To(BeTrue())

	file, err = fs.Open("/dir/test.txt")
	g.Expect(err).NotTo(HaveOccurred())
	data, err := io.ReadAll(file)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(Equal("test content"))
}

func TestMockReadDirListsDirectChildrenSorted(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	now := time.Now()
	fs.AddFile("/root/b.txt", []byte("b"), now)
	fs.AddFile("/root/a.txt", []byte("aa"), now)
	fs.AddFile("/root/sub/c.txt", []byte("c"), now)

	infos, err := fs.ReadDir("/root")
	g.Expect(err).NotTo(HaveOccurred())

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	g.Expect(names).To(Equal([]string{"a.txt", "b.txt", "sub"}))
	g.Expect(infos[0].Size()).To(BeEquivalentTo(2))
	g.Expect(infos[2].IsDir()).To(BeTrue())

	_, err = fs.ReadDir("/root/a.txt")
	g.Expect(err).To(HaveOccurred())
}

func TestMockMkdirRequiresParent(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()

	g.Expect(fs.Mkdir("/a/b", 0o755)).To(MatchError(os.ErrNotExist))
	g.Expect(fs.Mkdir("/a", 0o755)).To(Succeed())
	g.Expect(fs.Mkdir("/a", 0o755)).To(MatchError(os.ErrExist))
	g.Expect(fs.Mkdir("/a/b", 0o755)).To(Succeed())
}

func TestMockRemoveAndRemoveAll(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/d/x/y.txt", []byte("y"), time.Now())

	g.Expect(fs.Remove("/d/x")).NotTo(Succeed())
	g.Expect(fs.RemoveAll("/d/x")).To(Succeed())
	g.Expect(fs.Exists("/d/x/y.txt")).To(BeFalse())
	g.Expect(fs.Exists("/d")).To(BeTrue())
	g.Expect(fs.Remove("/d")).To(Succeed())
	g.Expect(fs.Remove("/d")).To(MatchError(os.ErrNotExist))
}

func TestMockAttributesAndTimes(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/a/.nomedia", nil, time.Now())
	fs.AddFile("/a/sys.bin", nil, time.Now())
	fs.SetAttributes("/a/sys.bin", false, true)

	info, err := fs.Stat("/a/.nomedia")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fs.Attributes("/a/.nomedia", info).Hidden).To(BeTrue())

	info, err = fs.Stat("/a/sys.bin")
	g.Expect(err).NotTo(HaveOccurred())

	attrs := fs.Attributes("/a/sys.bin", info)
	g.Expect(attrs.System).To(BeTrue())
	g.Expect(attrs.Hidden).To(BeFalse())
	g.Expect(attrs.Created).To(BeNil())

	created := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	modified := created.Add(time.Hour)
	g.Expect(fs.SetFileTimes("/a/sys.bin", &created, &modified)).To(Succeed())

	info, err = fs.Stat("/a/sys.bin")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(info.ModTime()).To(BeTemporally("==", modified))
	g.Expect(*fs.Attributes("/a/sys.bin", info).Created).To(BeTemporally("==", created))
}

func TestMockInjectError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/broken", time.Now())

	boom := errors.New("device unplugged")
	fs.InjectError("readdir", "/broken", boom)
	fs.InjectError("write", "/out.bin", boom)

	_, err := fs.ReadDir("/broken")
	g.Expect(err).To(MatchError(boom))

	file, err := fs.Create("/out.bin")
	g.Expect(err).NotTo(HaveOccurred())
	_, err = file.Write([]byte("x"))
	g.Expect(err).To(MatchError(boom))
}

func TestMockScan(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/r/a.txt", []byte("123"), time.Now())
	fs.AddFile("/r/s/b.txt", []byte("45"), time.Now())
	fs.AddFile("/other/c.txt", []byte("6"), time.Now())

	files, size, err := filesystem.CountFiles(fs.Scan("/r"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(files).To(Equal(2))
	g.Expect(size).To(BeEquivalentTo(5))

	scanner := fs.Scan("/r")

	var paths []string
	for entry, ok := scanner.Next(); ok; entry, ok = scanner.Next() {
		paths = append(paths, entry.RelativePath)
	}
	g.Expect(paths).To(Equal([]string{"a.txt", "s", "s/b.txt"}))
}

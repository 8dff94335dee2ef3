package copyengine_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/joe/mtp-copy/internal/copyengine"
	"github.com/joe/mtp-copy/pkg/filesystem"
)

var _ = Describe("Copying between local folders", func() {
	var (
		fs      *filesystem.RealFileSystem
		root    string
		srcDir  string
		dstDir  string
		modTime time.Time
	)

	run := func(mirror bool) *copyengine.Result {
		processor := copyengine.NewProcessor(zerolog.Nop())

		source, err := copyengine.NewLocalSource(fs, srcDir)
		Expect(err).NotTo(HaveOccurred())

		target, err := copyengine.NewLocalTarget(fs, dstDir, processor)
		Expect(err).NotTo(HaveOccurred())

		result, err := processor.Run(source, target, mirror)
		Expect(err).NotTo(HaveOccurred())

		return result
	}

	BeforeEach(func() {
		fs = filesystem.NewRealFileSystem()
		root = GinkgoT().TempDir()
		srcDir = filepath.Join(root, "A")
		dstDir = filepath.Join(root, "B")
		modTime = time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)

		Expect(os.Mkdir(srcDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(srcDir, "f.txt"), []byte("hello"), 0o644)).To(Succeed())
		Expect(os.Chtimes(filepath.Join(srcDir, "f.txt"), modTime, modTime)).To(Succeed())
	})

	Describe("into a missing destination", func() {
		It("creates the folder and copies the file with its modification time", func() {
			result := run(false)

			Expect(result.FilesCopied).To(Equal(1))
			Expect(result.FoldersCreated).To(Equal(1))

			data, err := os.ReadFile(filepath.Join(dstDir, "f.txt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("hello"))

			stat, err := os.Stat(filepath.Join(dstDir, "f.txt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(stat.ModTime().Equal(modTime)).To(BeTrue())
		})

		It("skips the file on a second run", func() {
			run(false)

			result := run(false)
			Expect(result.FilesCopied).To(Equal(0))
			Expect(result.FilesSkipped).To(Equal(1))
		})
	})

	Describe("into a destination with stale entries", func() {
		BeforeEach(func() {
			Expect(os.Mkdir(dstDir, 0o755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dstDir, "old.txt"), []byte("old"), 0o644)).To(Succeed())
		})

		It("keeps them without mirroring", func() {
			result := run(false)

			Expect(result.FilesDeleted).To(Equal(0))
			Expect(filepath.Join(dstDir, "old.txt")).To(BeAnExistingFile())
			Expect(filepath.Join(dstDir, "f.txt")).To(BeAnExistingFile())
		})

		It("deletes them when mirroring", func() {
			result := run(true)

			Expect(result.FilesDeleted).To(Equal(1))
			Expect(filepath.Join(dstDir, "old.txt")).NotTo(BeAnExistingFile())
			Expect(filepath.Join(dstDir, "f.txt")).To(BeAnExistingFile())
		})
	})
})

func TestCopyScenarios(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Copy Scenarios Suite")
}

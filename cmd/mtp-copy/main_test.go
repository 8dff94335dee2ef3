//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "devices.yaml")
	NewWithT(t).Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())

	return path
}

func TestRunHelpAndVersion(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{nil, {"--help"}, {"--version"}} {
		g := NewWithT(t)

		var stdout, stderr bytes.Buffer

		g.Expect(run(args, &stdout, &stderr, false)).To(Equal(0))
		g.Expect(stdout.String()).To(ContainSubstring("mtp-copy"))
		g.Expect(stderr.String()).To(BeEmpty())
	}
}

func TestRunDevicesAndStorages(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := t.TempDir()
	g.Expect(os.MkdirAll(filepath.Join(root, "Internal"), 0o755)).To(Succeed())

	registry := writeRegistry(t, "devices:\n  - name: Phone\n    path: \""+filepath.ToSlash(root)+"\"\n")

	var stdout, stderr bytes.Buffer

	g.Expect(run([]string{"--config", registry, "devices"}, &stdout, &stderr, false)).To(Equal(0))
	g.Expect(stdout.String()).To(Equal("1: Phone\n"))

	stdout.Reset()
	g.Expect(run([]string{"--config", registry, "storages"}, &stdout, &stderr, false)).To(Equal(0))
	g.Expect(stdout.String()).To(Equal("Phone:Internal:\n"))
}

func TestRunReportsErrors(t *testing.T) {
	t.Parallel()

	registry := writeRegistry(t, "devices: []\n")

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"no device matched", []string{"--config", registry, "list", `NoSuchDevice:*:\`}, "Error: No device matched.\n"},
		{"wildcard", []string{"copy", "*.jpg", "/tmp"}, "Error: the source path must not be the wildcard.\n"},
		{"usage", []string{"copy"}, "Error: "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			var stdout, stderr bytes.Buffer

			g.Expect(run(tt.args, &stdout, &stderr, false)).To(Equal(1))
			g.Expect(stderr.String()).To(HavePrefix(tt.errMsg))
		})
	}
}

func TestRunCopy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "A")
	g.Expect(os.MkdirAll(src, 0o755)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(src, "f.txt"), []byte("hello"), 0o644)).To(Succeed())

	var stdout, stderr bytes.Buffer

	registry := writeRegistry(t, "devices: []\n")
	dst := filepath.Join(dir, "B")

	g.Expect(run([]string{"--config", registry, "copy", "--progress", src, dst}, &stdout, &stderr, false)).To(Equal(0))

	data, err := os.ReadFile(filepath.Join(dst, "f.txt"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(Equal("hello"))
}

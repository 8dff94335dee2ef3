//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joe/mtp-copy/internal/config"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

const sampleRegistry = `
devices:
  - name: Pixel 7
    path: /mnt/pixel
  - name: Camera
    url: sftp://joe@camera.local/DCIM-root
`

func TestParseRegistry(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	registry, err := config.ParseRegistry([]byte(sampleRegistry), "devices.yaml")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(registry.Devices).To(Equal([]config.DeviceEntry{
		{Name: "Pixel 7", Path: "/mnt/pixel"},
		{Name: "Camera", URL: "sftp://joe@camera.local/DCIM-root"},
	}))
	g.Expect(registry.Devices[0].Location()).To(Equal("/mnt/pixel"))
	g.Expect(registry.Devices[1].Location()).To(Equal("sftp://joe@camera.local/DCIM-root"))
}

func TestParseRegistryAllowsDuplicateNames(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	registry, err := config.ParseRegistry([]byte(`
devices:
  - {name: Phone, path: /a}
  - {name: Phone, path: /b}
`), "devices.yaml")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(registry.Devices).To(HaveLen(2))
}

func TestParseRegistryErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"malformed", "devices: [", "failed to parse devices.yaml"},
		{"missing name", "devices:\n  - path: /a\n", "device 1: name is required"},
		{"missing location", "devices:\n  - name: Phone\n", `"Phone": one of path or url is required`},
		{"both locations", "devices:\n  - {name: Phone, path: /a, url: 'sftp://u@h/p'}\n", "mutually exclusive"},
		{"not sftp", "devices:\n  - {name: Phone, url: /a}\n", "must be an sftp:// URL"},
		{"no user", "devices:\n  - {name: Phone, url: 'sftp://host/p'}\n", "must include username"},
		{"second entry", "devices:\n  - {name: A, path: /a}\n  - {name: B}\n", "device 2:"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			_, err := config.ParseRegistry([]byte(tt.yaml), "devices.yaml")
			g.Expect(err).To(MatchError(ContainSubstring(tt.errMsg)))
		})
	}
}

func TestLoadRegistryExplicitPath(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "devices.yaml")
	g.Expect(os.WriteFile(path, []byte(sampleRegistry), 0o600)).To(Succeed())

	registry, err := config.LoadRegistry(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(registry.Devices).To(HaveLen(2))

	_, err = config.LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml"))
	g.Expect(err).To(MatchError(ContainSubstring("failed to read device registry")))
}

//nolint:paralleltest // Modifies the environment
func TestLoadRegistryDefaultPath(t *testing.T) {
	g := NewWithT(t)

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("HOME", home)
	t.Setenv("AppData", filepath.Join(home, "config"))

	registry, err := config.LoadRegistry("")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(registry.Devices).To(BeEmpty())

	path, err := config.DefaultRegistryPath()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(filepath.Base(path)).To(Equal(config.RegistryFileName))
	g.Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
	g.Expect(os.WriteFile(path, []byte(sampleRegistry), 0o600)).To(Succeed())

	registry, err = config.LoadRegistry("")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(registry.Devices).To(HaveLen(2))
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/joe/mtp-copy/pkg/filesystem"
)

// RegistryFileName is the name of the registry file in the user configuration directory.
const RegistryFileName = "devices.yaml"

// DeviceEntry declares one device: a directory tree whose subdirectories are storages.
type DeviceEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path,omitempty"`
	URL  string `yaml:"url,omitempty"`
}

// Location returns the path or URL the device is served from.
func (e DeviceEntry) Location() string {
	if e.URL != "" {
		return e.URL
	}

	return e.Path
}

// Registry is the set of devices known to the tool.
type Registry struct {
	Devices []DeviceEntry `yaml:"devices"`
}

// DefaultRegistryPath returns <user config dir>/mtp-copy/devices.yaml.
func DefaultRegistryPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate the user configuration directory: %w", err)
	}

	return filepath.Join(dir, "mtp-copy", RegistryFileName), nil
}

// LoadRegistry reads and validates the registry at path. An empty path selects the
// default location, where a missing file is an empty registry.
func LoadRegistry(path string) (*Registry, error) {
	explicit := path != ""

	if !explicit {
		defaultPath, err := DefaultRegistryPath()
		if err != nil {
			return nil, err
		}

		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return &Registry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read device registry: %w", err)
	}

	return ParseRegistry(data, path)
}

// ParseRegistry decodes and validates registry YAML. source names the data in errors.
func ParseRegistry(data []byte, source string) (*Registry, error) {
	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid device registry %s: %w", source, err)
	}

	return &registry, nil
}

// Validate checks that every entry has a name and exactly one of path or url, and that
// urls are SFTP locations.
func (r *Registry) Validate() error {
	var errs []error

	for i, entry := range r.Devices {
		if err := entry.validate(); err != nil {
			errs = append(errs, fmt.Errorf("device %d: %w", i+1, err))
		}
	}

	return errors.Join(errs...)
}

func (e DeviceEntry) validate() error {
	switch {
	case e.Name == "":
		return fmt.Errorf("name is required") //nolint:err113,perfsprint // Validation error
	case e.Path == "" && e.URL == "":
		return fmt.Errorf("%q: one of path or url is required", e.Name) //nolint:err113 // Validation error
	case e.Path != "" && e.URL != "":
		return fmt.Errorf("%q: path and url are mutually exclusive", e.Name) //nolint:err113 // Validation error
	case e.URL != "":
		loc, err := filesystem.ParseLocation(e.URL)
		if err != nil {
			return fmt.Errorf("%q: %w", e.Name, err)
		}

		if !loc.IsRemote {
			return fmt.Errorf("%q: url must be an sftp:// URL", e.Name) //nolint:err113 // Validation error
		}
	}

	return nil
}

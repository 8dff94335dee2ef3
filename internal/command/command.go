// Package command implements the mtp-copy subcommands on top of the finder and the
// copy engine.
package command

import (
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/joe/mtp-copy/internal/config"
	"github.com/joe/mtp-copy/internal/finder"
	"github.com/joe/mtp-copy/pkg/filesystem"
	"github.com/joe/mtp-copy/pkg/wpd"
	"github.com/joe/mtp-copy/pkg/wpd/treedev"
)

// Options configures an Environment. Zero values select the device registry at
// RegistryPath (or its default location) and the real filesystem.
type Options struct {
	Out          io.Writer
	Logger       zerolog.Logger
	RegistryPath string
	// Manager replaces the registry-backed device manager.
	Manager wpd.Manager
	// FileSystem replaces the local filesystem.
	FileSystem filesystem.FileSystem
}

// Environment runs commands. The device manager is set up on first use.
type Environment struct {
	out    io.Writer
	logger zerolog.Logger
	fs     filesystem.FileSystem
	finder *finder.Finder

	registryPath string
	initOnce     sync.Once
	manager      wpd.Manager
	initErr      error
}

// New creates an Environment.
func New(opts Options) *Environment {
	env := &Environment{
		out:          opts.Out,
		logger:       opts.Logger,
		fs:           opts.FileSystem,
		finder:       finder.New(opts.Logger),
		registryPath: opts.RegistryPath,
		manager:      opts.Manager,
	}

	if env.out == nil {
		env.out = io.Discard
	}

	if env.fs == nil {
		env.fs = filesystem.NewRealFileSystem()
	}

	return env
}

// devices returns the shared device manager, loading the registry the first time.
func (e *Environment) devices() (wpd.Manager, error) {
	e.initOnce.Do(func() {
		if e.manager == nil {
			e.manager, e.initErr = loadManager(e.registryPath, e.logger)
			if e.initErr != nil {
				return
			}
		}

		e.manager = newSessionManager(e.manager)
	})

	return e.manager, e.initErr
}

func loadManager(registryPath string, logger zerolog.Logger) (wpd.Manager, error) {
	registry, err := config.LoadRegistry(registryPath)
	if err != nil {
		return nil, err
	}

	entries := make([]treedev.Entry, len(registry.Devices))
	for i, device := range registry.Devices {
		entries[i] = treedev.Entry{Name: device.Name, Location: device.Location()}
	}

	logger.Debug().Int("devices", len(entries)).Msg("loaded device registry")

	return treedev.NewManager(entries, logger), nil
}

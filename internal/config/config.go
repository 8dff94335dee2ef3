// Package config handles command-line argument parsing and the device registry.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/rs/zerolog"

	apperrors "github.com/joe/mtp-copy/pkg/errors"
	"github.com/joe/mtp-copy/pkg/glob"
)

// LogLevel is a zerolog level parsed from its name.
type LogLevel zerolog.Level

// String returns the level name.
func (l LogLevel) String() string {
	return zerolog.Level(l).String()
}

// Level returns the zerolog level.
func (l LogLevel) Level() zerolog.Level {
	return zerolog.Level(l)
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (l *LogLevel) UnmarshalText(text []byte) error {
	level, err := zerolog.ParseLevel(strings.ToLower(string(text)))
	if err != nil || string(text) == "" {
		return fmt.Errorf("invalid log level: %q (valid: trace, debug, info, warn, error, disabled)", text)
	}

	*l = LogLevel(level)

	return nil
}

// CopyCmd copies a file or a folder tree.
type CopyCmd struct {
	Source      string `arg:"positional,required" placeholder:"SOURCE" help:"local path or device:storage:path"`
	Destination string `arg:"positional,required" placeholder:"DEST" help:"local path or device:storage:path"`
	Mirror      bool   `arg:"--mirror" help:"delete destination entries that are not in the source"`
	Progress    bool   `arg:"--progress" help:"show a progress display when attached to a terminal"`
}

// ListCmd lists files and folders on devices.
type ListCmd struct {
	Path      string `arg:"positional,required" placeholder:"PATH" help:"device:storage:path, each part may contain * and ?"`
	Recursive bool   `arg:"-R,--recursive" help:"list the contents of matched folders recursively"`
	Verbose   bool   `arg:"-v,--verbose" help:"show kind, timestamps and attributes"`
}

// StoragesCmd lists the storages of every device.
type StoragesCmd struct {
	Verbose bool `arg:"-v,--verbose" help:"show device IDs and manufacturers"`
}

// DevicesCmd lists the registered devices.
type DevicesCmd struct{}

// Config holds the application configuration
type Config struct {
	Copy     *CopyCmd     `arg:"subcommand:copy" help:"copy files between the computer and a device"`
	List     *ListCmd     `arg:"subcommand:list" help:"list files on devices"`
	Storages *StoragesCmd `arg:"subcommand:storages" help:"list the storages of every device"`
	Devices  *DevicesCmd  `arg:"subcommand:devices" help:"list the registered devices"`

	ConfigPath string   `arg:"--config,env:MTP_COPY_CONFIG" placeholder:"FILE" help:"device registry file"`
	LogLevel   LogLevel `arg:"--log-level,env:MTP_COPY_LOG_LEVEL" placeholder:"LEVEL" help:"trace|debug|info|warn|error|disabled"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Copy and list files on portable devices.\n\n" +
		"A device path is written as <device-name>:<storage-name>:<path>,\n" +
		"e.g. \"PD-123:SD Card:\\Pictures\\2021\\April\" or \"PD-???:*Card:/**/April\".\n" +
		"Any other path is a local path."
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "mtp-copy 1.0.0"
}

// Command returns the name of the selected subcommand.
func (cfg *Config) Command() string {
	switch {
	case cfg.Copy != nil:
		return "copy"
	case cfg.List != nil:
		return "list"
	case cfg.Storages != nil:
		return "storages"
	case cfg.Devices != nil:
		return "devices"
	default:
		return ""
	}
}

// ParseArgs parses command-line arguments (without the program name). Help and version
// output go to w, and arg.ErrHelp or arg.ErrVersion is returned after writing them.
// Help is also shown when no command is given.
func ParseArgs(args []string, w io.Writer) (*Config, error) {
	cfg := &Config{LogLevel: LogLevel(zerolog.WarnLevel)}

	parser, err := arg.NewParser(arg.Config{Program: "mtp-copy"}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build the argument parser: %w", err)
	}

	err = parser.Parse(args)

	switch {
	case errors.Is(err, arg.ErrHelp):
		_ = parser.WriteHelpForSubcommand(w, parser.SubcommandNames()...)

		return nil, arg.ErrHelp
	case errors.Is(err, arg.ErrVersion):
		_, _ = fmt.Fprintln(w, cfg.Version())

		return nil, arg.ErrVersion
	case err != nil:
		return nil, fmt.Errorf("%w (see --help)", err)
	case parser.Subcommand() == nil:
		parser.WriteHelp(w)

		return nil, arg.ErrHelp
	}

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if cfg.Copy != nil {
		if glob.ContainsWildcard(cfg.Copy.Source) {
			return nil, apperrors.New(apperrors.KindInvalidPath, "the source path must not be the wildcard.")
		}

		if glob.ContainsWildcard(cfg.Copy.Destination) {
			return nil, apperrors.New(apperrors.KindInvalidPath, "the destination path must not be the wildcard.")
		}
	}

	return cfg, nil
}

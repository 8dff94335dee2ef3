//nolint:varnamelen // Test files use idiomatic short variable names (t, tt, etc.)
package config_test

import (
	"bytes"
	"testing"

	"github.com/alexflint/go-arg"
	"github.com/rs/zerolog"

	"github.com/joe/mtp-copy/internal/config"
	apperrors "github.com/joe/mtp-copy/pkg/errors"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
)

func TestLogLevelUnmarshalText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"trace", zerolog.TraceLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"loud", zerolog.NoLevel, true},
		{"", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			var level config.LogLevel

			err := level.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				g.Expect(err).To(HaveOccurred())

				return
			}

			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(level.Level()).To(Equal(tt.expected))
			g.Expect(level.String()).To(Equal(tt.expected.String()))
		})
	}
}

func TestConfigDescriptionAndVersion(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg := config.Config{}

	g.Expect(cfg.Description()).To(ContainSubstring("<device-name>:<storage-name>:<path>"))
	g.Expect(cfg.Version()).To(HavePrefix("mtp-copy "))
}

func TestParseArgsCommands(t *testing.T) {
	t.Parallel()

	t.Run("copy", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		cfg, err := config.ParseArgs([]string{"copy", "photos", `Phone:Internal:\DCIM`, "--mirror"}, &bytes.Buffer{})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(cfg.Command()).To(Equal("copy"))
		g.Expect(*cfg.Copy).To(Equal(config.CopyCmd{
			Source:      "photos",
			Destination: `Phone:Internal:\DCIM`,
			Mirror:      true,
		}))
		g.Expect(cfg.LogLevel.Level()).To(Equal(zerolog.WarnLevel))
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		cfg, err := config.ParseArgs([]string{"list", "-R", "-v", "*:*:/**/*.jpg"}, &bytes.Buffer{})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(cfg.Command()).To(Equal("list"))
		g.Expect(*cfg.List).To(Equal(config.ListCmd{Path: "*:*:/**/*.jpg", Recursive: true, Verbose: true}))
	})

	t.Run("storages", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		cfg, err := config.ParseArgs([]string{"--log-level", "debug", "storages", "--verbose"}, &bytes.Buffer{})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(cfg.Command()).To(Equal("storages"))
		g.Expect(cfg.Storages.Verbose).To(BeTrue())
		g.Expect(cfg.LogLevel.Level()).To(Equal(zerolog.DebugLevel))
	})

	t.Run("devices", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		cfg, err := config.ParseArgs([]string{"--config", "/etc/devices.yaml", "devices"}, &bytes.Buffer{})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(cfg.Command()).To(Equal("devices"))
		g.Expect(cfg.ConfigPath).To(Equal("/etc/devices.yaml"))
	})
}

func TestParseArgsHelpAndVersion(t *testing.T) {
	t.Parallel()

	t.Run("no command shows help", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var out bytes.Buffer

		_, err := config.ParseArgs(nil, &out)
		g.Expect(err).To(MatchError(arg.ErrHelp))
		g.Expect(out.String()).To(ContainSubstring("Usage: mtp-copy"))
		g.Expect(out.String()).To(ContainSubstring("storages"))
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var out bytes.Buffer

		_, err := config.ParseArgs([]string{"--help"}, &out)
		g.Expect(err).To(MatchError(arg.ErrHelp))
		g.Expect(out.String()).To(ContainSubstring("copy"))
	})

	t.Run("version", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		var out bytes.Buffer

		_, err := config.ParseArgs([]string{"--version"}, &out)
		g.Expect(err).To(MatchError(arg.ErrVersion))
		g.Expect(out.String()).To(ContainSubstring("mtp-copy 1.0.0"))
	})
}

func TestParseArgsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		errMsg  string
		invalid bool
	}{
		{
			name:   "missing destination",
			args:   []string{"copy", "photos"},
			errMsg: "see --help",
		},
		{
			name:   "unknown log level",
			args:   []string{"--log-level", "loud", "storages"},
			errMsg: "invalid log level",
		},
		{
			name:    "wildcard source",
			args:    []string{"copy", "*.jpg", "Phone:Internal:\\"},
			errMsg:  "the source path must not be the wildcard.",
			invalid: true,
		},
		{
			name:    "wildcard destination",
			args:    []string{"copy", "photos", "Phone:Int?rnal:\\"},
			errMsg:  "the destination path must not be the wildcard.",
			invalid: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			_, err := config.ParseArgs(tt.args, &bytes.Buffer{})
			g.Expect(err).To(MatchError(ContainSubstring(tt.errMsg)))

			if tt.invalid {
				g.Expect(err).To(MatchError(apperrors.ErrInvalidPath))
			}
		})
	}
}

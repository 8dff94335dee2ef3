// Package main is the entry point for the mtp-copy application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/mtp-copy/internal/command"
	"github.com/joe/mtp-copy/internal/config"
	"github.com/joe/mtp-copy/internal/copyengine"
	"github.com/joe/mtp-copy/internal/logging"
	"github.com/joe/mtp-copy/internal/tui"
	apperrors "github.com/joe/mtp-copy/pkg/errors"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, term.IsTerminal(int(os.Stdout.Fd()))))
}

// run executes one invocation and returns the exit code.
func run(args []string, stdout, stderr io.Writer, tty bool) int {
	cfg, err := config.ParseArgs(args, stdout)
	if errors.Is(err, arg.ErrHelp) || errors.Is(err, arg.ErrVersion) {
		return 0
	}

	if err != nil {
		report(stderr, err)

		return 1
	}

	runID := logging.NewRunID()
	logger := logging.NewLogger(stderr, cfg.LogLevel.Level(), runID).With().Str("command", cfg.Command()).Logger()

	env := command.New(command.Options{
		Out:          stdout,
		Logger:       logger,
		RegistryPath: cfg.ConfigPath,
	})

	logger.Debug().Msg("starting")

	switch {
	case cfg.Copy != nil:
		err = runCopy(env, cfg.Copy, stdout, tty)
	case cfg.List != nil:
		err = env.List(cfg.List.Path, cfg.List.Recursive, cfg.List.Verbose)
	case cfg.Storages != nil:
		err = env.Storages(cfg.Storages.Verbose)
	case cfg.Devices != nil:
		err = env.Devices()
	}

	if err != nil {
		report(stderr, err)

		return 1
	}

	return 0
}

func runCopy(env *command.Environment, cmd *config.CopyCmd, stdout io.Writer, tty bool) error {
	if !cmd.Progress || !tty {
		_, err := env.Copy(cmd.Source, cmd.Destination, cmd.Mirror, nil)

		return err
	}

	_, err := tui.Run(func(emitter copyengine.EventEmitter) (*copyengine.Result, error) {
		return env.Copy(cmd.Source, cmd.Destination, cmd.Mirror, emitter)
	}, tea.WithOutput(stdout))

	return err
}

// report prints err and the suggestions for it.
func report(w io.Writer, err error) {
	enriched := apperrors.NewEnricher().Enrich(err, "")

	_, _ = fmt.Fprintf(w, "Error: %v\n", enriched)

	if suggestions := apperrors.FormatSuggestions(enriched); suggestions != "" {
		_, _ = fmt.Fprintln(w, suggestions)
	}
}

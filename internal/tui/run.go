package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/mtp-copy/internal/copyengine"
)

// Work performs a copy, reporting to emitter.
type Work func(emitter copyengine.EventEmitter) (*copyengine.Result, error)

type workResult struct {
	result *copyengine.Result
	err    error
}

// Run shows the progress display while work runs in the background and returns what
// work returned. When the user quits the display first, ErrInterrupted is returned
// without waiting for work.
func Run(work Work, opts ...tea.ProgramOption) (*copyengine.Result, error) {
	bridge := NewEventBridge()
	done := make(chan workResult, 1)

	go func() {
		result, err := work(bridge)
		bridge.Close()
		done <- workResult{result: result, err: err}
	}()

	final, err := tea.NewProgram(NewModel(bridge), opts...).Run()

	go bridge.drain()

	if err != nil {
		return nil, err //nolint:wrapcheck // Program errors are reported as-is
	}

	if model, ok := final.(Model); ok && model.Interrupted() {
		return nil, ErrInterrupted
	}

	outcome := <-done

	return outcome.result, outcome.err
}

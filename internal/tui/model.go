// Package tui renders copy progress in the terminal with Bubble Tea.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/mtp-copy/internal/copyengine"
)

// unexported constants.
const (
	progressBarWidth    = 40
	maxProgressBarWidth = 100
	layoutMargin        = 4
	keyCtrlC            = "ctrl+c"
)

// ErrInterrupted is returned by Run when the user quit the display.
var ErrInterrupted = errors.New("interrupted")

// Model is the progress display for one copy.
type Model struct {
	bridge   *EventBridge
	spinner  spinner.Model
	progress progress.Model
	width    int

	source      string
	destination string
	mirror      bool
	totalFiles  int
	totalBytes  int64

	filesDone   int
	filesCopied int
	skipped     int
	deleted     int
	bytesDone   int64

	current      string
	currentBytes int64

	finished    bool
	interrupted bool
	result      *copyengine.Result
	err         error
}

// NewModel creates a Model fed by bridge.
func NewModel(bridge *EventBridge) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle()

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = progressBarWidth
	bar.ShowPercentage = false

	if !colorsDisabled {
		bar.EmptyColor = dimColorCode
		bar.FullColor = accentColorCode
	}

	return Model{bridge: bridge, spinner: s, progress: bar, width: progressBarWidth + layoutMargin}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.bridge.ListenCmd())
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			m.interrupted = true

			return m, tea.Quit
		}

		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-layoutMargin, 10), maxProgressBarWidth) //nolint:mnd // Minimum bar width

		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case EngineEventMsg:
		m = m.apply(msg.Event)
		if m.finished {
			return m, tea.Quit
		}

		return m, m.bridge.ListenCmd()
	case BridgeClosedMsg:
		m.finished = true

		return m, tea.Quit
	}

	return m, nil
}

func (m Model) apply(event copyengine.Event) Model {
	switch e := event.(type) {
	case copyengine.CopyStarted:
		m.source, m.destination, m.mirror = e.Source, e.Destination, e.Mirror
		m.totalFiles, m.totalBytes = e.TotalFiles, e.TotalBytes
	case copyengine.FileCopyStarted:
		m.current, m.currentBytes = e.Path, 0
	case copyengine.FileProgress:
		m.current, m.currentBytes = e.Path, e.BytesCopied
	case copyengine.FileCopied:
		m.filesDone++
		m.filesCopied++
		m.bytesDone += e.Size
		m.current, m.currentBytes = "", 0
	case copyengine.FileSkipped:
		m.filesDone++
		m.skipped++
		m.bytesDone += e.Size
	case copyengine.FileDeleted, copyengine.FolderDeleted:
		m.deleted++
	case copyengine.CopyFinished:
		m.finished = true
		m.result, m.err = e.Result, e.Err
		m.current, m.currentBytes = "", 0
	}

	return m
}

// percent is the share of bytes handled so far, counting the file in flight.
func (m Model) percent() float64 {
	if m.totalBytes <= 0 {
		if m.totalFiles <= 0 {
			return 0
		}

		return float64(m.filesDone) / float64(m.totalFiles)
	}

	return min(float64(m.bytesDone+m.currentBytes)/float64(m.totalBytes), 1)
}

func (m Model) renderBar() string {
	if colorsDisabled {
		return RenderASCIIProgress(m.percent(), m.progress.Width)
	}

	return fmt.Sprintf("%s %3.0f%%", m.progress.ViewAs(m.percent()), m.percent()*percentageScale)
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	if m.finished {
		b.WriteString(m.summary())
		b.WriteString("\n")

		return b.String()
	}

	action := "Copying"
	if m.mirror {
		action = "Mirroring"
	}

	b.WriteString(m.spinner.View())
	b.WriteString(titleStyle().Render(fmt.Sprintf(" %s %s -> %s", action, m.source, m.destination)))
	b.WriteString("\n\n")
	b.WriteString(m.renderBar())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Files: %d / %d   Bytes: %s / %s",
		m.filesDone, m.totalFiles, FormatBytes(m.bytesDone+m.currentBytes), FormatBytes(m.totalBytes)))

	if m.deleted > 0 {
		b.WriteString(fmt.Sprintf("   Deleted: %d", m.deleted))
	}

	b.WriteString("\n")

	if m.current != "" {
		b.WriteString(dimStyle().Render(truncatePath(m.current, m.width-layoutMargin)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) summary() string {
	switch {
	case m.interrupted:
		return errorStyle().Render("Interrupted")
	case m.err != nil:
		return errorStyle().Render("Copy failed: " + m.err.Error())
	case m.result != nil:
		return successStyle().Render(fmt.Sprintf("Done: %d copied, %d skipped, %d deleted, %s",
			m.result.FilesCopied, m.result.FilesSkipped,
			m.result.FilesDeleted+m.result.FoldersDeleted, FormatBytes(m.result.BytesCopied)))
	default:
		return ""
	}
}

// Interrupted reports whether the user quit before the copy finished.
func (m Model) Interrupted() bool {
	return m.interrupted
}

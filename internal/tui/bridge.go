package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/mtp-copy/internal/copyengine"
)

// bridgeBuffer is sized so that the walk rarely waits on the display.
const bridgeBuffer = 256

// EngineEventMsg wraps a copyengine.Event for use as a tea.Msg.
type EngineEventMsg struct {
	Event copyengine.Event
}

// BridgeClosedMsg is delivered once the bridge is closed and drained.
type BridgeClosedMsg struct{}

// EventBridge adapts copy engine events to bubble tea messages.
// It implements copyengine.EventEmitter and provides a channel for TUI consumption.
type EventBridge struct {
	mu        sync.RWMutex
	eventChan chan tea.Msg
	closed    bool
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, bridgeBuffer),
	}
}

// Emit implements copyengine.EventEmitter. Progress events are dropped when the
// display falls behind; every other event is delivered.
func (b *EventBridge) Emit(event copyengine.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	msg := EngineEventMsg{Event: event}

	if _, ok := event.(copyengine.FileProgress); ok {
		select {
		case b.eventChan <- msg:
		default:
		}

		return
	}

	b.eventChan <- msg
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// Use this in Init() or after processing an event to continue listening.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.eventChan
		if !ok {
			return BridgeClosedMsg{}
		}

		return msg
	}
}

// drain discards events until the bridge is closed, so that the walk never waits on a
// display that has gone away.
func (b *EventBridge) drain() {
	for range b.eventChan { //nolint:revive // Discarding
	}
}

// Close closes the event channel. Later events are ignored.
func (b *EventBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.eventChan)
	}
}

// Package tui is a terminal front-end for the lab console built on bubbletea.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/in4labs/robotics-console/internal/ui/countdown"
	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/session"
)

type (
	loadingMsg   bool
	modalMsg     model.Modal
	alertMsg     string
	controlsMsg  session.BoardState
	promptMsg    model.MonitorPrompt
	expiredMsg   string
	countdownMsg struct {
		label string
		tick  countdown.Tick
	}
	editorTextMsg struct {
		board string
		text  string
	}
	selectMsg struct {
		board string
		value string
	}
)

// Bridge carries console events from dispatcher goroutines into the bubbletea loop.
// It implements feedback.View and dispatch.Editor. Sends never block, so the event
// loop itself may call into the dispatcher.
type Bridge struct {
	qmu    sync.Mutex
	queue  []tea.Msg
	notify chan struct{}

	mu       sync.Mutex
	text     map[string]string
	selected map[string]string
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{
		notify:   make(chan struct{}, 1),
		text:     map[string]string{},
		selected: map[string]string{},
	}
}

func (b *Bridge) send(msg tea.Msg) {
	b.qmu.Lock()
	b.queue = append(b.queue, msg)
	b.qmu.Unlock()
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// next pops the oldest queued event.
func (b *Bridge) next() (tea.Msg, bool) {
	b.qmu.Lock()
	defer b.qmu.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	msg := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	return msg, true
}

// listen waits for the next bridge event. Only one listen runs at a time.
func (b *Bridge) listen() tea.Cmd {
	return func() tea.Msg {
		for {
			if msg, ok := b.next(); ok {
				return msg
			}
			<-b.notify
		}
	}
}

func (b *Bridge) SetLoading(visible bool) { b.send(loadingMsg(visible)) }
func (b *Bridge) ShowModal(m model.Modal) { b.send(modalMsg(m)) }
func (b *Bridge) Alert(message string) { b.send(alertMsg(message)) }
func (b *Bridge) ApplyControls(st session.BoardState) { b.send(controlsMsg(st)) }
func (b *Bridge) ShowMonitorPrompt(p model.MonitorPrompt) { b.send(promptMsg(p)) }
func (b *Bridge) ExpireSession(notice string) { b.send(expiredMsg(notice)) }

func (b *Bridge) ShowCountdown(label string, tick countdown.Tick) {
	b.send(countdownMsg{label: label, tick: tick})
}

// Text returns the editor contents of a board.
func (b *Bridge) Text(board string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text[board]
}

// SetText replaces the editor contents and refreshes the text area.
func (b *Bridge) SetText(board, text string) {
	b.mu.Lock()
	b.text[board] = text
	b.mu.Unlock()
	b.send(editorTextMsg{board: board, text: text})
}

// SelectExample records the example shown in the board's selector.
func (b *Bridge) SelectExample(board, value string) {
	b.mu.Lock()
	b.selected[board] = value
	b.mu.Unlock()
	b.send(selectMsg{board: board, value: value})
}

// edited stores keystrokes from the text area without echoing them back.
func (b *Bridge) edited(board, text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.text[board] == text {
		return false
	}
	b.text[board] = text
	return true
}

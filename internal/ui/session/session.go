// Package session tracks per-board control state and the in-flight action guard.
package session

import (
	"errors"
	"sync"

	"github.com/in4labs/robotics-console/internal/ui/model"
)

var (
	// ErrBusy is returned when a board already has an action in flight or a lab reset is running.
	ErrBusy = errors.New("session: action already in flight")
	// ErrExpired is returned for every action once the session deadline passed.
	ErrExpired = errors.New("session: expired")
	// ErrDisabled is returned when the control that starts an action is disabled.
	ErrDisabled = errors.New("session: control disabled")
	// ErrUnknownBoard is returned for boards the session was not created with.
	ErrUnknownBoard = errors.New("session: unknown board")
)

// BoardState is a snapshot of one board's controls.
type BoardState struct {
	Board    string
	Enabled  map[model.Control]bool
	Expired  bool
	InFlight model.Action
}

// IsEnabled reports whether a control is currently usable.
func (s BoardState) IsEnabled(c model.Control) bool {
	return !s.Expired && s.Enabled[c]
}

type boardEntry struct {
	enabled  map[model.Control]bool
	inFlight model.Action
}

func newBoardEntry() *boardEntry {
	return &boardEntry{enabled: map[model.Control]bool{
		model.ControlSelect:  true,
		model.ControlUpload:  true,
		model.ControlSuggest: true,
		model.ControlCompile: true,
		model.ControlExecute: false,
		model.ControlMonitor: false,
		model.ControlStop:    false,
	}}
}

// Session holds the state of every board on the console page.
type Session struct {
	mu        sync.Mutex
	order     []string
	boards    map[string]*boardEntry
	resetting bool
	expired   bool
}

// New creates a session for the given boards in display order.
func New(boards ...string) *Session {
	s := &Session{boards: make(map[string]*boardEntry, len(boards))}
	for _, b := range boards {
		if _, dup := s.boards[b]; dup || b == "" {
			continue
		}
		s.order = append(s.order, b)
		s.boards[b] = newBoardEntry()
	}
	return s
}

// Boards returns the board ids in display order.
func (s *Session) Boards() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// State returns a snapshot of a board.
func (s *Session) State(board string) (BoardState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.boards[board]
	if !ok {
		return BoardState{}, false
	}
	return s.snapshotLocked(board, e), true
}

// States returns snapshots of every board in display order.
func (s *Session) States() []BoardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statesLocked()
}

// Expired reports whether the session deadline passed.
func (s *Session) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}

// Resetting reports whether a lab reset is in flight.
func (s *Session) Resetting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetting
}

// Begin claims a board for a guarded action. Callers must call End with the same
// action when the request completes.
func (s *Session) Begin(board string, action model.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired {
		return ErrExpired
	}
	e, ok := s.boards[board]
	if !ok {
		return ErrUnknownBoard
	}
	if s.resetting || e.inFlight != "" {
		return ErrBusy
	}
	if c, gated := actionControl[action]; gated && !e.enabled[c] {
		return ErrDisabled
	}
	e.inFlight = action
	return nil
}

// End releases the claim taken by Begin.
func (s *Session) End(board string, action model.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.boards[board]; ok && e.inFlight == action {
		e.inFlight = ""
	}
}

// actionControl maps guarded actions to the control that must be enabled to start them.
var actionControl = map[model.Action]model.Control{
	model.ActionCompile: model.ControlCompile,
	model.ActionExecute: model.ControlExecute,
	model.ActionMonitor: model.ControlMonitor,
	model.ActionSuggest: model.ControlSuggest,
}

// BeginReset starts a lab-wide reset and disables execute, monitor and stop on every
// board. It returns the resulting snapshots.
func (s *Session) BeginReset() ([]BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired {
		return nil, ErrExpired
	}
	if s.resetting {
		return nil, ErrBusy
	}
	s.resetting = true
	for _, e := range s.boards {
		e.enabled[model.ControlExecute] = false
		e.enabled[model.ControlMonitor] = false
		e.enabled[model.ControlStop] = false
	}
	return s.statesLocked(), nil
}

// EndReset marks the lab reset as finished. Controls stay disabled until the next compile.
func (s *Session) EndReset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetting = false
}

// Compiled enables execute after a clean compile.
func (s *Session) Compiled(board string) (BoardState, bool) {
	return s.apply(board, func(e *boardEntry) {
		e.enabled[model.ControlExecute] = true
	})
}

// Executed enables monitor and stop once the user sketch is running.
func (s *Session) Executed(board string) (BoardState, bool) {
	return s.apply(board, func(e *boardEntry) {
		e.enabled[model.ControlMonitor] = true
		e.enabled[model.ControlStop] = true
	})
}

// Stopped disables stop and monitor.
func (s *Session) Stopped(board string) (BoardState, bool) {
	return s.apply(board, func(e *boardEntry) {
		e.enabled[model.ControlStop] = false
		e.enabled[model.ControlMonitor] = false
	})
}

// CodeChanged invalidates the last compile: execute and monitor need a new build.
func (s *Session) CodeChanged(board string) (BoardState, bool) {
	return s.apply(board, func(e *boardEntry) {
		e.enabled[model.ControlExecute] = false
		e.enabled[model.ControlMonitor] = false
	})
}

// Expire disables every control on every board. It reports true only on the first call.
func (s *Session) Expire() ([]BoardState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired {
		return s.statesLocked(), false
	}
	s.expired = true
	for _, e := range s.boards {
		for c := range e.enabled {
			e.enabled[c] = false
		}
	}
	return s.statesLocked(), true
}

func (s *Session) apply(board string, fn func(*boardEntry)) (BoardState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.boards[board]
	if !ok {
		return BoardState{}, false
	}
	if !s.expired {
		fn(e)
	}
	return s.snapshotLocked(board, e), true
}

func (s *Session) statesLocked() []BoardState {
	out := make([]BoardState, 0, len(s.order))
	for _, b := range s.order {
		out = append(out, s.snapshotLocked(b, s.boards[b]))
	}
	return out
}

func (s *Session) snapshotLocked(board string, e *boardEntry) BoardState {
	enabled := make(map[model.Control]bool, len(e.enabled))
	for c, v := range e.enabled {
		enabled[c] = v
	}
	return BoardState{Board: board, Enabled: enabled, Expired: s.expired, InFlight: e.inFlight}
}

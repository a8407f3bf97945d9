// Package feedbacktest provides a recording View for tests of the console logic.
package feedbacktest

import (
	"sync"

	"github.com/in4labs/robotics-console/internal/ui/countdown"
	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/session"
)

// Recorder captures every call a View receives.
type Recorder struct {
	mu        sync.Mutex
	Loading   []bool
	Modals    []model.Modal
	Alerts    []string
	Controls  map[string]session.BoardState
	Applied   []string
	Prompts   []model.MonitorPrompt
	Ticks     []countdown.Tick
	TickLabel string
	Expired   []string
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{Controls: map[string]session.BoardState{}}
}

func (r *Recorder) SetLoading(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Loading = append(r.Loading, visible)
}

func (r *Recorder) ShowModal(m model.Modal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Modals = append(r.Modals, m)
}

func (r *Recorder) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Alerts = append(r.Alerts, message)
}

func (r *Recorder) ApplyControls(st session.BoardState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Controls[st.Board] = st
	r.Applied = append(r.Applied, st.Board)
}

func (r *Recorder) ShowMonitorPrompt(p model.MonitorPrompt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Prompts = append(r.Prompts, p)
}

func (r *Recorder) ShowCountdown(label string, tick countdown.Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TickLabel = label
	r.Ticks = append(r.Ticks, tick)
}

func (r *Recorder) ExpireSession(notice string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Expired = append(r.Expired, notice)
}

// LastModal returns the most recent modal and whether one was shown.
func (r *Recorder) LastModal() (model.Modal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Modals) == 0 {
		return model.Modal{}, false
	}
	return r.Modals[len(r.Modals)-1], true
}

// Board returns the last state applied for a board.
func (r *Recorder) Board(board string) (session.BoardState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.Controls[board]
	return st, ok
}

// LoadingVisible reports the last loader toggle.
func (r *Recorder) LoadingVisible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Loading) > 0 && r.Loading[len(r.Loading)-1]
}

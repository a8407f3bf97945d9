// Package feedback turns backend responses and timer events into view updates.
package feedback

import (
	"github.com/in4labs/robotics-console/internal/ui/countdown"
	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/session"
)

// View is the surface a front-end exposes to the console logic. The wasm binding
// implements it over the DOM and the terminal client over a bubbletea model.
type View interface {
	SetLoading(visible bool)
	ShowModal(m model.Modal)
	// Alert shows a blocking notice.
	Alert(message string)
	ApplyControls(state session.BoardState)
	ShowMonitorPrompt(p model.MonitorPrompt)
	ShowCountdown(label string, tick countdown.Tick)
	// ExpireSession shows the expiry notice and blocks the camera feed.
	ExpireSession(notice string)
}

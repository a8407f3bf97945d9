package feedback

import (
	"strings"

	"github.com/in4labs/robotics-console/internal/logging"
	"github.com/in4labs/robotics-console/internal/ui/countdown"
	"github.com/in4labs/robotics-console/internal/ui/messages"
	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/render"
	"github.com/in4labs/robotics-console/internal/ui/session"
)

// Handlers applies backend responses to the session and the view.
type Handlers struct {
	view     View
	session  *session.Session
	messages messages.Table
	loader   *Loader
	logger   logging.Logger
}

// New builds the handlers. A nil table uses the English messages.
func New(view View, sess *session.Session, table messages.Table, logger logging.Logger) *Handlers {
	if table == nil {
		table = messages.English()
	}
	return &Handlers{
		view:     view,
		session:  sess,
		messages: table,
		loader:   NewLoader(view.SetLoading),
		logger:   logger,
	}
}

// Loader exposes the shared loading indicator.
func (h *Handlers) Loader() *Loader { return h.loader }

// Messages returns the active message table.
func (h *Handlers) Messages() messages.Table { return h.messages }

// Compilation shows compiler errors or enables execute for the board.
func (h *Handlers) Compilation(resp model.CompileResponse) {
	h.loader.Hide()
	if strings.TrimSpace(resp.Error) != "" {
		h.view.ShowModal(model.Modal{
			Title: h.messages.Get(messages.CompilationError),
			Body:  render.Preformatted(resp.Error),
			Size:  model.ModalXL,
		})
		return
	}
	h.apply(resp.Board, h.session.Compiled)
}

// Execution enables monitor and stop for the board. Upload output in the response is
// shown as well; the uploader reports progress there even when flashing succeeded.
func (h *Handlers) Execution(resp model.ExecuteResponse) {
	h.loader.Hide()
	h.apply(resp.Board, h.session.Executed)
	if strings.TrimSpace(resp.Error) != "" {
		h.view.ShowModal(model.Modal{
			Title: h.messages.Get(messages.ExecutionError),
			Body:  render.Preformatted(resp.Error),
			Size:  model.ModalXL,
		})
	}
}

// Monitoring shows the captured serial output.
func (h *Handlers) Monitoring(resp model.MonitorResponse) {
	h.loader.Hide()
	h.view.ShowModal(model.Modal{
		Title: h.messages.Get(messages.SerialOutput),
		Body:  render.Preformatted(resp.Output),
		Size:  model.ModalLarge,
	})
}

// Suggestion shows the rendered suggestions.
func (h *Handlers) Suggestion(resp model.SuggestResponse) {
	h.loader.Hide()
	h.view.ShowModal(model.Modal{
		Title: h.messages.Get(messages.Suggest),
		Body:  render.Markdown(resp.Suggestion),
		Size:  model.ModalXL,
	})
}

// ResetLab confirms the reset. Controls were disabled when the reset started and stay
// that way until the next compile.
func (h *Handlers) ResetLab(resp model.ResetResponse) {
	h.loader.Hide()
	if h.logger != nil && resp.Result != "" {
		h.logger.Printf("reset lab: %s", resp.Result)
	}
	h.view.ShowModal(model.Modal{Title: h.messages.Get(messages.ResetLab)})
}

// TransportFailure reports any request that produced no usable response.
func (h *Handlers) TransportFailure(action model.Action, err error) {
	h.loader.Hide()
	if h.logger != nil {
		h.logger.Printf("%s failed: %v", action, err)
	}
	h.view.ShowModal(model.Modal{Title: h.messages.Get(messages.UnexpectedError)})
}

// Countdown renders a running tick.
func (h *Handlers) Countdown(tick countdown.Tick) {
	h.view.ShowCountdown(h.messages.Get(messages.SessionWaitTime), tick)
}

// Expire disables every board and shows the expiry notice. Later calls do nothing.
func (h *Handlers) Expire() {
	states, first := h.session.Expire()
	if !first {
		return
	}
	for _, st := range states {
		h.view.ApplyControls(st)
	}
	h.view.ExpireSession(h.messages.Get(messages.SessionExpired))
}

// Apply pushes a board snapshot to the view.
func (h *Handlers) Apply(st session.BoardState) {
	h.view.ApplyControls(st)
}

func (h *Handlers) apply(board string, transition func(string) (session.BoardState, bool)) {
	st, ok := transition(board)
	if !ok {
		if h.logger != nil {
			h.logger.Printf("response for unknown board %q ignored", board)
		}
		return
	}
	h.view.ApplyControls(st)
}

package feedback

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/in4labs/robotics-console/internal/ui/countdown"
	"github.com/in4labs/robotics-console/internal/ui/feedback/feedbacktest"
	"github.com/in4labs/robotics-console/internal/ui/messages"
	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/session"
)

func newHandlers(boards ...string) (*Handlers, *feedbacktest.Recorder, *session.Session) {
	rec := feedbacktest.New()
	sess := session.New(boards...)
	return New(rec, sess, nil, nil), rec, sess
}

func TestCompilationSuccessEnablesExecute(t *testing.T) {
	h, rec, _ := newHandlers("Board_1", "Board_2")
	h.Loader().Show()
	h.Compilation(model.CompileResponse{Board: "Board_1"})

	if rec.LoadingVisible() {
		t.Fatalf("loader should be hidden")
	}
	st, ok := rec.Board("Board_1")
	if !ok || !st.IsEnabled(model.ControlExecute) {
		t.Fatalf("expected execute enabled on Board_1, got %+v", st)
	}
	if _, touched := rec.Board("Board_2"); touched {
		t.Fatalf("Board_2 should not be re-rendered")
	}
	if _, shown := rec.LastModal(); shown {
		t.Fatalf("no modal expected on success")
	}
}

func TestCompilationErrorShowsEscapedOutput(t *testing.T) {
	h, rec, sess := newHandlers("Board_1")
	h.Loader().Show()
	h.Compilation(model.CompileResponse{Board: "Board_1", Error: "sketch.ino:3: error: <expected> ';'"})

	m, ok := rec.LastModal()
	if !ok {
		t.Fatalf("expected modal")
	}
	if m.Title != messages.English().Get(messages.CompilationError) || m.Size != model.ModalXL {
		t.Fatalf("unexpected modal %+v", m)
	}
	if strings.Contains(m.Body, "<expected>") || !strings.Contains(m.Body, "&lt;expected&gt;") {
		t.Fatalf("compiler output must be escaped, got %q", m.Body)
	}
	st, _ := sess.State("Board_1")
	if st.IsEnabled(model.ControlExecute) {
		t.Fatalf("execute must stay disabled after a failed compile")
	}
}

func TestExecutionSuccessEnablesMonitorAndStop(t *testing.T) {
	h, rec, sess := newHandlers("Board_1", "Board_2")
	sess.Compiled("Board_1")
	h.Execution(model.ExecuteResponse{Board: "Board_1"})
	st, _ := rec.Board("Board_1")
	if !st.IsEnabled(model.ControlMonitor) || !st.IsEnabled(model.ControlStop) {
		t.Fatalf("expected monitor and stop enabled, got %+v", st.Enabled)
	}
	other, _ := sess.State("Board_2")
	if other.IsEnabled(model.ControlStop) {
		t.Fatalf("Board_2 stop should stay disabled")
	}
}

func TestExecutionOutputShowsModalAndEnablesControls(t *testing.T) {
	h, rec, sess := newHandlers("Board_1")
	sess.Compiled("Board_1")
	h.Loader().Show()
	h.Execution(model.ExecuteResponse{Board: "Board_1", Error: "avrdude: 924 bytes of flash written\n"})
	m, ok := rec.LastModal()
	if !ok || m.Title != messages.English().Get(messages.ExecutionError) {
		t.Fatalf("expected execution output modal, got %+v", m)
	}
	if !strings.Contains(m.Body, "924 bytes of flash written") {
		t.Fatalf("modal body = %q", m.Body)
	}
	st, _ := sess.State("Board_1")
	if !st.IsEnabled(model.ControlMonitor) || !st.IsEnabled(model.ControlStop) {
		t.Fatalf("execute completed but monitor/stop stayed disabled: %+v", st.Enabled)
	}
	if rec.LoadingVisible() {
		t.Fatalf("loader still visible")
	}
}

func TestMonitoringAndSuggestionModals(t *testing.T) {
	h, rec, _ := newHandlers("Board_1")
	h.Monitoring(model.MonitorResponse{Board: "Board_1", Output: "<b>temp</b>"})
	m, _ := rec.LastModal()
	if m.Size != model.ModalLarge || strings.Contains(m.Body, "<b>") {
		t.Fatalf("unexpected monitor modal %+v", m)
	}

	h.Suggestion(model.SuggestResponse{Board: "Board_1", Suggestion: "Use **const**<script>alert(1)</script>"})
	m, _ = rec.LastModal()
	if m.Size != model.ModalXL || !strings.Contains(m.Body, "<strong>const</strong>") {
		t.Fatalf("expected rendered markdown, got %+v", m)
	}
	if strings.Contains(m.Body, "<script>") {
		t.Fatalf("suggestion must be sanitised, got %q", m.Body)
	}
}

func TestResetLabShowsConfirmation(t *testing.T) {
	h, rec, _ := newHandlers("Board_1")
	h.Loader().Show()
	h.ResetLab(model.ResetResponse{Result: "ok"})
	m, _ := rec.LastModal()
	if m.Title != messages.English().Get(messages.ResetLab) {
		t.Fatalf("unexpected modal %+v", m)
	}
	if rec.LoadingVisible() {
		t.Fatalf("loader should be hidden")
	}
}

func TestTransportFailureShowsUnexpectedError(t *testing.T) {
	h, rec, _ := newHandlers("Board_1")
	h.Loader().Show()
	h.TransportFailure(model.ActionMonitor, errors.New("timeout"))
	m, _ := rec.LastModal()
	if m.Title != messages.English().Get(messages.UnexpectedError) {
		t.Fatalf("unexpected modal %+v", m)
	}
	if rec.LoadingVisible() {
		t.Fatalf("loader should be hidden")
	}
}

func TestUnknownBoardResponseIgnored(t *testing.T) {
	h, rec, _ := newHandlers("Board_1")
	h.Compilation(model.CompileResponse{Board: "Board_7"})
	if len(rec.Applied) != 0 {
		t.Fatalf("no controls should be applied, got %v", rec.Applied)
	}
}

func TestCountdownUsesWaitLabel(t *testing.T) {
	h, rec, _ := newHandlers("Board_1")
	h.Countdown(countdown.Tick{Remaining: 125 * time.Second, Display: "02:05"})
	if rec.TickLabel != messages.English().Get(messages.SessionWaitTime) {
		t.Fatalf("label = %q", rec.TickLabel)
	}
	if len(rec.Ticks) != 1 || rec.Ticks[0].Display != "02:05" {
		t.Fatalf("unexpected ticks %+v", rec.Ticks)
	}
}

func TestExpireRunsOnce(t *testing.T) {
	h, rec, _ := newHandlers("Board_1", "Board_2")
	h.Expire()
	h.Expire()
	if len(rec.Expired) != 1 {
		t.Fatalf("expiry notice shown %d times, want 1", len(rec.Expired))
	}
	if rec.Expired[0] != messages.English().Get(messages.SessionExpired) {
		t.Fatalf("unexpected notice %q", rec.Expired[0])
	}
	for _, b := range []string{"Board_1", "Board_2"} {
		st, _ := rec.Board(b)
		for _, c := range model.Controls {
			if st.IsEnabled(c) {
				t.Fatalf("%s %s should be disabled", b, c)
			}
		}
	}
}

// Package dispatch maps console gestures to lab requests.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/in4labs/robotics-console/internal/logging"
	"github.com/in4labs/robotics-console/internal/ui/feedback"
	"github.com/in4labs/robotics-console/internal/ui/messages"
	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/session"
	"github.com/in4labs/robotics-console/internal/ui/sketch"
)

// ErrInvalidMonitorSettings is returned when a baud rate or capture window is not offered.
var ErrInvalidMonitorSettings = errors.New("dispatch: invalid monitor settings")

// Backend is the set of lab endpoints the dispatcher calls. *labapi.Client implements it.
type Backend interface {
	GetExample(ctx context.Context, board, example string) (string, error)
	Compile(ctx context.Context, board, text string) (model.CompileResponse, error)
	Execute(ctx context.Context, board, target string) (model.ExecuteResponse, error)
	Monitor(ctx context.Context, board string, settings model.MonitorSettings) (model.MonitorResponse, error)
	Suggest(ctx context.Context, board, text string) (model.SuggestResponse, error)
	ResetLab(ctx context.Context) (model.ResetResponse, error)
}

// Editor reads and writes the per-board code editors.
type Editor interface {
	Text(board string) string
	SetText(board, text string)
	// SelectExample sets the value of the board's example selector.
	SelectExample(board, value string)
}

// Config wires a Dispatcher.
type Config struct {
	Backend  Backend
	Editor   Editor
	View     feedback.View
	Session  *session.Session
	Messages messages.Table
	Logger   logging.Logger
}

// Dispatcher runs one console action per method. Methods block for the duration of
// the request; front-ends call them off their event loop.
type Dispatcher struct {
	backend  Backend
	editor   Editor
	view     feedback.View
	session  *session.Session
	handlers *feedback.Handlers
	logger   logging.Logger
}

// New builds a Dispatcher.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		backend:  cfg.Backend,
		editor:   cfg.Editor,
		view:     cfg.View,
		session:  cfg.Session,
		handlers: feedback.New(cfg.View, cfg.Session, cfg.Messages, cfg.Logger),
		logger:   cfg.Logger,
	}
}

// Handlers exposes the feedback handlers, used by the countdown wiring.
func (d *Dispatcher) Handlers() *feedback.Handlers { return d.handlers }

// Session returns the board session.
func (d *Dispatcher) Session() *session.Session { return d.session }

// InitBoard loads the blank sketch into a board's editor and stops whatever program
// the previous user left running.
func (d *Dispatcher) InitBoard(ctx context.Context, board string) error {
	if st, ok := d.session.State(board); ok {
		d.view.ApplyControls(st)
	}
	return errors.Join(d.LoadExample(ctx, board, sketch.NewSketch), d.Stop(ctx, board))
}

// LoadExample replaces the editor text with a named example. Failures are logged only.
func (d *Dispatcher) LoadExample(ctx context.Context, board, example string) error {
	if d.session.Expired() {
		return expired(string(model.ActionExample), board)
	}
	if example == "" || example == model.NewExampleKey {
		return nil
	}
	text, err := d.backend.GetExample(ctx, board, example)
	if err != nil {
		d.logf("load example %s on %s: %v", example, board, err)
		return fmt.Errorf("load example %s: %w", example, err)
	}
	d.editor.SetText(board, text)
	d.ChangeCode(board)
	return nil
}

// LoadFile puts a user file into the editor. Names without the sketch extension are
// rejected with an alert and the editor is left untouched.
func (d *Dispatcher) LoadFile(board, name, contents string) error {
	if d.session.Expired() {
		return expired("load file", board)
	}
	if err := sketch.Validate(name); err != nil {
		d.view.Alert(d.handlers.Messages().Get(messages.InvalidSketch))
		return fmt.Errorf("load file %q: %w", name, err)
	}
	d.editor.SetText(board, contents)
	d.editor.SelectExample(board, model.NewExampleKey)
	d.ChangeCode(board)
	return nil
}

// SaveFile returns the editor text as a downloadable sketch.
func (d *Dispatcher) SaveFile(board string) model.Download {
	return sketch.NewDownload(d.editor.Text(board))
}

// ChangeCode invalidates the last build of a board.
func (d *Dispatcher) ChangeCode(board string) {
	if st, ok := d.session.CodeChanged(board); ok {
		d.view.ApplyControls(st)
	}
}

// Compile sends the editor text for compilation.
func (d *Dispatcher) Compile(ctx context.Context, board string) error {
	text := d.editor.Text(board)
	return d.guarded(ctx, board, model.ActionCompile, func(ctx context.Context) error {
		resp, err := d.backend.Compile(ctx, board, text)
		if err != nil {
			return err
		}
		if resp.Board == "" {
			resp.Board = board
		}
		d.handlers.Compilation(resp)
		return nil
	})
}

// Execute uploads the compiled sketch.
func (d *Dispatcher) Execute(ctx context.Context, board string) error {
	return d.guarded(ctx, board, model.ActionExecute, func(ctx context.Context) error {
		resp, err := d.backend.Execute(ctx, board, model.TargetUser)
		if err != nil {
			return err
		}
		if resp.Board == "" {
			resp.Board = board
		}
		d.handlers.Execution(resp)
		return nil
	})
}

// Stop disables stop and monitor right away, then asks the backend to load the stop
// sketch. The response is not awaited by the view.
func (d *Dispatcher) Stop(ctx context.Context, board string) error {
	if d.session.Expired() {
		return expired("stop", board)
	}
	st, ok := d.session.Stopped(board)
	if !ok {
		return fmt.Errorf("stop %s: %w", board, session.ErrUnknownBoard)
	}
	d.view.ApplyControls(st)
	if _, err := d.backend.Execute(ctx, board, model.TargetStop); err != nil {
		d.logf("stop %s: %v", board, err)
		return fmt.Errorf("stop %s: %w", board, err)
	}
	return nil
}

// SetupMonitor asks the view for capture settings. The view calls Monitor with the
// values chosen when the prompt closes.
func (d *Dispatcher) SetupMonitor(board string) (model.MonitorPrompt, error) {
	if d.session.Expired() {
		return model.MonitorPrompt{}, expired(string(model.ActionMonitor), board)
	}
	st, ok := d.session.State(board)
	if !ok {
		return model.MonitorPrompt{}, fmt.Errorf("monitor %s: %w", board, session.ErrUnknownBoard)
	}
	if !st.IsEnabled(model.ControlMonitor) {
		return model.MonitorPrompt{}, fmt.Errorf("monitor %s: %w", board, session.ErrDisabled)
	}
	prompt := model.MonitorPrompt{
		Board:    board,
		Title:    d.handlers.Messages().Get(messages.SerialOutputConfig),
		Defaults: model.DefaultMonitorSettings,
		Baudrate: slices.Clone(model.BaudrateOptions),
		Seconds:  slices.Clone(model.SecondsOptions),
	}
	d.view.ShowMonitorPrompt(prompt)
	return prompt, nil
}

// Monitor captures serial output with the given settings.
func (d *Dispatcher) Monitor(ctx context.Context, board string, settings model.MonitorSettings) error {
	if err := ValidateMonitorSettings(settings); err != nil {
		return fmt.Errorf("monitor %s: %w", board, err)
	}
	return d.guarded(ctx, board, model.ActionMonitor, func(ctx context.Context) error {
		resp, err := d.backend.Monitor(ctx, board, settings)
		if err != nil {
			return err
		}
		if resp.Board == "" {
			resp.Board = board
		}
		d.handlers.Monitoring(resp)
		return nil
	})
}

// Suggest asks for suggestions on the editor text.
func (d *Dispatcher) Suggest(ctx context.Context, board string) error {
	text := d.editor.Text(board)
	return d.guarded(ctx, board, model.ActionSuggest, func(ctx context.Context) error {
		resp, err := d.backend.Suggest(ctx, board, text)
		if err != nil {
			return err
		}
		if resp.Board == "" {
			resp.Board = board
		}
		d.handlers.Suggestion(resp)
		return nil
	})
}

// ResetLab resets every board. Execute, monitor and stop are disabled everywhere
// before the request goes out.
func (d *Dispatcher) ResetLab(ctx context.Context) error {
	states, err := d.session.BeginReset()
	if err != nil {
		return fmt.Errorf("%s: %w", model.ActionReset, err)
	}
	defer d.session.EndReset()
	for _, st := range states {
		d.view.ApplyControls(st)
	}

	loader := d.handlers.Loader()
	loader.Show()
	ctx = withRequestID(ctx)
	resp, err := d.backend.ResetLab(ctx)
	if err != nil {
		d.handlers.TransportFailure(model.ActionReset, err)
		return fmt.Errorf("%s: %w", model.ActionReset, err)
	}
	d.handlers.ResetLab(resp)
	return nil
}

// ValidateMonitorSettings checks settings against the offered options.
func ValidateMonitorSettings(s model.MonitorSettings) error {
	if !slices.Contains(model.BaudrateOptions, s.Baudrate) {
		return fmt.Errorf("%w: baudrate %d", ErrInvalidMonitorSettings, s.Baudrate)
	}
	if !slices.Contains(model.SecondsOptions, s.Seconds) {
		return fmt.Errorf("%w: seconds %d", ErrInvalidMonitorSettings, s.Seconds)
	}
	return nil
}

func expired(action, board string) error {
	return fmt.Errorf("%s %s: %w", action, board, session.ErrExpired)
}

func (d *Dispatcher) guarded(ctx context.Context, board string, action model.Action, run func(context.Context) error) error {
	if err := d.session.Begin(board, action); err != nil {
		return fmt.Errorf("%s %s: %w", action, board, err)
	}
	defer d.session.End(board, action)

	d.handlers.Loader().Show()
	if err := run(withRequestID(ctx)); err != nil {
		d.handlers.TransportFailure(action, err)
		return fmt.Errorf("%s %s: %w", action, board, err)
	}
	return nil
}

func withRequestID(ctx context.Context) context.Context {
	if logging.RequestIDFromContext(ctx) != "" {
		return ctx
	}
	return logging.WithRequestID(ctx, logging.NewRequestID())
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}

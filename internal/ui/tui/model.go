package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/in4labs/robotics-console/internal/logging"
	"github.com/in4labs/robotics-console/internal/ui/countdown"
	"github.com/in4labs/robotics-console/internal/ui/dispatch"
	"github.com/in4labs/robotics-console/internal/ui/labapi"
	"github.com/in4labs/robotics-console/internal/ui/messages"
	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/render"
	"github.com/in4labs/robotics-console/internal/ui/session"
	"github.com/in4labs/robotics-console/internal/ui/sketch"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	chromeLines   = 9
)

// Options configures the terminal console.
type Options struct {
	Console  model.ConsoleConfig
	Backend  dispatch.Backend
	Messages messages.Table
	Logger   logging.Logger
	// SaveDir receives saved sketches. Empty means the working directory.
	SaveDir string
	Clock   countdown.Clock
}

type actionDoneMsg struct {
	action string
	err    error
}

type statusMsg string

type monitorPrompt struct {
	prompt model.MonitorPrompt
	baud   int
	secs   int
}

// Model is the bubbletea model of the terminal console.
type Model struct {
	ctx    context.Context
	bridge *Bridge
	d      *dispatch.Dispatcher
	timer  *countdown.Timer
	boards []model.BoardInfo
	logger logging.Logger

	saveDir  string
	active   int
	editors  []textarea.Model
	controls map[string]session.BoardState
	selected map[string]string

	spinner spinner.Model
	loading bool
	help    help.Model
	keys    keyMap
	styles  styles
	open    textinput.Model
	opening bool
	modal   *model.Modal
	prompt  *monitorPrompt
	status  string
	alert   string
	label   string
	tick    countdown.Tick
	ticked  bool
	expired bool
	notice  string
	width   int
	height  int
}

// New builds the console model. ctx bounds every lab request.
func New(ctx context.Context, opts Options) *Model {
	bridge := NewBridge()
	ids := make([]string, 0, len(opts.Console.Boards))
	for _, b := range opts.Console.Boards {
		ids = append(ids, b.ID)
	}
	d := dispatch.New(dispatch.Config{
		Backend:  opts.Backend,
		Editor:   bridge,
		View:     bridge,
		Session:  session.New(ids...),
		Messages: opts.Messages,
		Logger:   opts.Logger,
	})
	h := d.Handlers()
	timerOpts := []countdown.Option{
		countdown.OnTick(h.Countdown),
		countdown.OnExpire(h.Expire),
	}
	if opts.Clock != nil {
		timerOpts = append(timerOpts, countdown.WithClock(opts.Clock))
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	in := textinput.New()
	in.Placeholder = "path/to/sketch.ino"
	in.Prompt = "open: "

	m := &Model{
		ctx:      ctx,
		bridge:   bridge,
		d:        d,
		timer:    countdown.New(opts.Console.EndTime, timerOpts...),
		boards:   opts.Console.Boards,
		logger:   opts.Logger,
		saveDir:  opts.SaveDir,
		controls: map[string]session.BoardState{},
		selected: map[string]string{},
		spinner:  sp,
		help:     help.New(),
		keys:     defaultKeys(),
		styles:   defaultStyles(),
		open:     in,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	for _, b := range m.boards {
		ta := textarea.New()
		ta.ShowLineNumbers = true
		ta.CharLimit = 0
		ta.MaxHeight = 0
		m.editors = append(m.editors, ta)
		if st, ok := d.Session().State(b.ID); ok {
			m.controls[b.ID] = st
		}
	}
	m.resize()
	if len(m.editors) > 0 {
		m.editors[0].Focus()
	}
	return m
}

// Dispatcher exposes the action dispatcher driving the model.
func (m *Model) Dispatcher() *dispatch.Dispatcher { return m.d }

// Close stops the countdown.
func (m *Model) Close() { m.timer.Stop() }

// Init starts the countdown and, unless the session already ended, loads the blank
// sketch into every board.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.bridge.listen(), m.spinner.Tick, textarea.Blink}
	m.timer.Start()
	if m.d.Session().Expired() {
		return tea.Batch(cmds...)
	}
	for _, b := range m.boards {
		board := b.ID
		cmds = append(cmds, m.run("init", func(ctx context.Context) error {
			return m.d.InitBoard(ctx, board)
		}))
	}
	return tea.Batch(cmds...)
}

// run executes a dispatcher call off the event loop.
func (m *Model) run(action string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(ctx)}
	}
}

// Update handles one message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case actionDoneMsg:
		m.finish(msg)
		return m, nil
	case statusMsg:
		m.status = string(msg)
		return m, nil
	case loadingMsg, modalMsg, alertMsg, controlsMsg, promptMsg, expiredMsg, countdownMsg, editorTextMsg, selectMsg:
		m.handleEvent(msg)
		return m, m.bridge.listen()
	}
	return m.updateEditor(msg)
}

func (m *Model) handleEvent(msg tea.Msg) {
	switch msg := msg.(type) {
	case loadingMsg:
		m.loading = bool(msg)
	case modalMsg:
		md := model.Modal(msg)
		m.modal = &md
	case alertMsg:
		m.alert = string(msg)
	case controlsMsg:
		m.controls[msg.Board] = session.BoardState(msg)
	case promptMsg:
		p := model.MonitorPrompt(msg)
		m.prompt = &monitorPrompt{
			prompt: p,
			baud:   max(slices.Index(p.Baudrate, p.Defaults.Baudrate), 0),
			secs:   max(slices.Index(p.Seconds, p.Defaults.Seconds), 0),
		}
	case expiredMsg:
		m.expired = true
		m.notice = string(msg)
		m.opening = false
		m.prompt = nil
		for i := range m.editors {
			m.editors[i].Blur()
		}
	case countdownMsg:
		m.label = msg.label
		m.tick = msg.tick
		m.ticked = true
	case editorTextMsg:
		if i := m.boardIndex(msg.board); i >= 0 {
			m.editors[i].SetValue(msg.text)
		}
	case selectMsg:
		m.selected[msg.board] = msg.value
	}
}

func (m *Model) finish(msg actionDoneMsg) {
	switch {
	case msg.err == nil:
		m.status = ""
	case labapi.IsTransport(msg.err):
		// Already reported through the modal.
		m.status = ""
	case errors.Is(msg.err, session.ErrExpired):
		m.status = m.notice
	default:
		m.status = fmt.Sprintf("%s: %v", msg.action, msg.err)
	}
	if msg.err != nil && m.logger != nil {
		m.logger.Printf("%s: %v", msg.action, msg.err)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	switch {
	case m.modal != nil:
		if key.Matches(msg, m.keys.Dismiss, m.keys.Confirm) {
			m.modal = nil
		}
		return m, nil
	case m.prompt != nil:
		return m.handlePromptKey(msg)
	case m.opening:
		return m.handleOpenKey(msg)
	case m.alert != "":
		if key.Matches(msg, m.keys.Dismiss, m.keys.Confirm) {
			m.alert = ""
			return m, nil
		}
	}

	board, ok := m.activeBoard()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.switchBoard((m.active + 1) % len(m.boards))
		return m, nil
	case key.Matches(msg, m.keys.Compile):
		return m, m.run("compile", func(ctx context.Context) error { return m.d.Compile(ctx, board) })
	case key.Matches(msg, m.keys.Execute):
		return m, m.run("execute", func(ctx context.Context) error { return m.d.Execute(ctx, board) })
	case key.Matches(msg, m.keys.Stop):
		return m, m.run("stop", func(ctx context.Context) error { return m.d.Stop(ctx, board) })
	case key.Matches(msg, m.keys.Suggest):
		return m, m.run("suggest", func(ctx context.Context) error { return m.d.Suggest(ctx, board) })
	case key.Matches(msg, m.keys.Reset):
		return m, m.run("reset", m.d.ResetLab)
	case key.Matches(msg, m.keys.Monitor):
		return m, m.run("monitor", func(context.Context) error {
			_, err := m.d.SetupMonitor(board)
			return err
		})
	case key.Matches(msg, m.keys.Example):
		return m, m.nextExample(board)
	case key.Matches(msg, m.keys.Save):
		return m, m.save(board)
	case key.Matches(msg, m.keys.Open):
		if m.expired {
			return m, nil
		}
		m.opening = true
		m.open.SetValue("")
		return m, m.open.Focus()
	}
	return m.updateEditor(msg)
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.prompt
	switch {
	case key.Matches(msg, m.keys.BaudUp):
		p.baud = min(p.baud+1, len(p.prompt.Baudrate)-1)
	case key.Matches(msg, m.keys.BaudDown):
		p.baud = max(p.baud-1, 0)
	case key.Matches(msg, m.keys.SecsUp):
		p.secs = min(p.secs+1, len(p.prompt.Seconds)-1)
	case key.Matches(msg, m.keys.SecsDown):
		p.secs = max(p.secs-1, 0)
	case key.Matches(msg, m.keys.Confirm, m.keys.Dismiss):
		// Closing the prompt starts the capture with the chosen settings.
		m.prompt = nil
		board := p.prompt.Board
		settings := p.settings()
		return m, m.run("monitor", func(ctx context.Context) error {
			return m.d.Monitor(ctx, board, settings)
		})
	}
	return m, nil
}

func (p *monitorPrompt) settings() model.MonitorSettings {
	s := p.prompt.Defaults
	if p.baud < len(p.prompt.Baudrate) {
		s.Baudrate = p.prompt.Baudrate[p.baud]
	}
	if p.secs < len(p.prompt.Seconds) {
		s.Seconds = p.prompt.Seconds[p.secs]
	}
	return s
}

func (m *Model) handleOpenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Dismiss):
		m.opening = false
		m.open.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.opening = false
		m.open.Blur()
		path := strings.TrimSpace(m.open.Value())
		board, ok := m.activeBoard()
		if path == "" || !ok {
			return m, nil
		}
		return m, m.run("load", func(context.Context) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			return m.d.LoadFile(board, filepath.Base(path), string(data))
		})
	}
	var cmd tea.Cmd
	m.open, cmd = m.open.Update(msg)
	return m, cmd
}

func (m *Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	board, ok := m.activeBoard()
	if !ok || m.expired {
		return m, nil
	}
	var cmd tea.Cmd
	m.editors[m.active], cmd = m.editors[m.active].Update(msg)
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		return m, cmd
	}
	if !m.bridge.edited(board, m.editors[m.active].Value()) {
		return m, cmd
	}
	m.d.ChangeCode(board)
	return m, cmd
}

func (m *Model) nextExample(board string) tea.Cmd {
	info := m.boards[m.active]
	options := sketch.ExampleOptions(info.Examples)
	if len(options) == 0 || m.expired {
		return nil
	}
	next := 0
	for i, o := range options {
		if o.Value == m.selected[board] {
			next = (i + 1) % len(options)
			break
		}
	}
	example := options[next].Value
	return m.run("example", func(ctx context.Context) error {
		if err := m.d.LoadExample(ctx, board, example); err != nil {
			return err
		}
		m.bridge.SelectExample(board, example)
		return nil
	})
}

func (m *Model) save(board string) tea.Cmd {
	dl := m.d.SaveFile(board)
	path := filepath.Join(m.saveDir, dl.Name)
	return func() tea.Msg {
		if err := os.WriteFile(path, dl.Content, 0o644); err != nil {
			return actionDoneMsg{action: "save", err: err}
		}
		return statusMsg("saved " + path)
	}
}

func (m *Model) activeBoard() (string, bool) {
	if m.active < 0 || m.active >= len(m.boards) {
		return "", false
	}
	return m.boards[m.active].ID, true
}

func (m *Model) boardIndex(board string) int {
	return slices.IndexFunc(m.boards, func(b model.BoardInfo) bool { return b.ID == board })
}

func (m *Model) switchBoard(i int) {
	m.editors[m.active].Blur()
	m.active = i
	if !m.expired {
		m.editors[m.active].Focus()
	}
}

func (m *Model) resize() {
	w := max(m.width-4, 20)
	h := max(m.height-chromeLines, 3)
	for i := range m.editors {
		m.editors[i].SetWidth(w)
		m.editors[i].SetHeight(h)
	}
	m.help.Width = m.width
	m.open.Width = w
}

// View renders the console.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n")

	board, ok := m.activeBoard()
	switch {
	case m.expired:
		b.WriteString(m.styles.blocked.Render(m.notice))
		if m.modal != nil {
			b.WriteString("\n")
			b.WriteString(m.modalView())
		}
	case m.modal != nil:
		b.WriteString(m.modalView())
	case m.prompt != nil:
		b.WriteString(m.promptView())
	case ok:
		b.WriteString(m.toolbar(board))
		b.WriteString("\n")
		b.WriteString(m.styles.editor.Render(m.editors[m.active].View()))
	}
	b.WriteString("\n")
	if m.opening {
		b.WriteString(m.open.View())
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.toolbar()))
	return b.String()
}

func (m *Model) header() string {
	title := m.styles.title.Render("Remote lab")
	if !m.ticked {
		return title
	}
	timer := m.styles.timer
	if m.tick.Warning {
		timer = m.styles.warning
	}
	gap := strings.Repeat(" ", 2)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, gap, timer.Render(m.label+" "+m.tick.Display))
}

func (m *Model) tabs() string {
	parts := make([]string, 0, len(m.boards))
	for i, b := range m.boards {
		name := b.Name
		if name == "" {
			name = b.ID
		}
		if sel := m.selected[b.ID]; sel != "" && sel != model.NewExampleKey {
			name += " · " + strings.TrimSuffix(sel, "."+sketch.Extension)
		}
		style := m.styles.tab
		if i == m.active {
			style = m.styles.tabOn
		}
		parts = append(parts, style.Render(name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) toolbar(board string) string {
	st := m.controls[board]
	parts := make([]string, 0, len(model.Controls))
	for _, c := range model.Controls {
		style := m.styles.enabled
		if !st.IsEnabled(c) || st.InFlight != "" {
			style = m.styles.disabled
		}
		parts = append(parts, style.Render("["+string(c)+"]"))
	}
	return strings.Join(parts, " ")
}

func (m *Model) modalView() string {
	title := m.styles.title.Render(m.modal.Title)
	body := render.PlainText(m.modal.Body)
	width := m.width - 6
	if m.modal.Size == model.ModalSmall {
		width = min(width, 40)
	}
	return m.styles.modal.Width(max(width, 20)).Render(title + "\n\n" + body)
}

func (m *Model) promptView() string {
	p := m.prompt
	s := p.settings()
	lines := []string{
		m.styles.title.Render(p.prompt.Title),
		"",
		fmt.Sprintf("baud rate  ◀ %d ▶", s.Baudrate),
		fmt.Sprintf("seconds    ▲ %d ▼", s.Seconds),
	}
	return m.styles.modal.Render(strings.Join(lines, "\n"))
}

func (m *Model) statusLine() string {
	var parts []string
	if m.loading {
		parts = append(parts, m.spinner.View())
	}
	if m.alert != "" {
		parts = append(parts, m.styles.alert.Render(m.alert))
	}
	if m.status != "" {
		parts = append(parts, m.styles.status.Render(m.status))
	}
	return strings.Join(parts, " ")
}

package model

import "time"

// Control identifies one interactive element of a board's editor toolbar.
type Control string

const (
	ControlSelect  Control = "select"
	ControlUpload  Control = "upload"
	ControlSuggest Control = "suggest"
	ControlCompile Control = "compile"
	ControlExecute Control = "execute"
	ControlMonitor Control = "monitor"
	ControlStop    Control = "stop"
)

// Controls lists every control that can be disabled, in toolbar order.
var Controls = []Control{
	ControlSelect,
	ControlUpload,
	ControlSuggest,
	ControlCompile,
	ControlExecute,
	ControlMonitor,
	ControlStop,
}

// Action names a backend round trip started by the dispatcher.
type Action string

const (
	ActionExample Action = "get_example"
	ActionCompile Action = "compile"
	ActionExecute Action = "execute"
	ActionMonitor Action = "monitor"
	ActionSuggest Action = "suggest"
	ActionReset   Action = "reset_lab"
)

// Execute targets understood by the execute endpoint.
const (
	TargetUser = "user"
	TargetStop = "stop"
)

// BoardInfo describes one embedded target attached to the lab.
type BoardInfo struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Model    string   `json:"model,omitempty"`
	Examples []string `json:"examples,omitempty"`
}

// ConsoleConfig is served to the front-ends by the UI server.
type ConsoleConfig struct {
	Boards   []BoardInfo `json:"boards"`
	EndTime  time.Time   `json:"endTime"`
	CamURL   string      `json:"camUrl,omitempty"`
	Language string      `json:"language,omitempty"`
}

// CompileResponse is returned by the compile endpoint. Error carries the compiler
// stderr and is empty on success.
type CompileResponse struct {
	Board string `json:"board"`
	Error string `json:"error"`
}

// ExecuteResponse is returned by the execute endpoint for both targets.
type ExecuteResponse struct {
	Board string `json:"board"`
	Error string `json:"error"`
}

// MonitorResponse carries the serial output captured during a monitor window.
type MonitorResponse struct {
	Board  string `json:"board"`
	Output string `json:"output"`
}

// SuggestResponse carries improvement suggestions for the submitted code.
type SuggestResponse struct {
	Board      string `json:"board"`
	Suggestion string `json:"suggestion"`
}

// ResetResponse carries the backend's reset diagnostics.
type ResetResponse struct {
	Board  string `json:"board,omitempty"`
	Result string `json:"result"`
}

// MonitorSettings holds the serial capture parameters chosen by the user.
type MonitorSettings struct {
	Baudrate int `json:"baudrate"`
	Seconds  int `json:"seconds"`
}

// Monitor defaults and the options offered in the configuration prompt.
var (
	DefaultMonitorSettings = MonitorSettings{Baudrate: 9600, Seconds: 10}
	BaudrateOptions        = []int{300, 1200, 2400, 4800, 9600, 19200, 38400, 57600, 74880, 115200}
	SecondsOptions         = []int{5, 10, 15, 20, 30}
)

// ModalSize mirrors the dialog size classes used by the console page.
type ModalSize string

const (
	ModalDefault ModalSize = ""
	ModalSmall   ModalSize = "sm"
	ModalLarge   ModalSize = "lg"
	ModalXL      ModalSize = "xl"
)

// Modal is a message shown in the shared dialog. Body is trusted HTML produced by
// the render package; Title is plain text.
type Modal struct {
	Title string
	Body  string
	Size  ModalSize
}

// MonitorPrompt is the configuration dialog shown before a monitor request.
type MonitorPrompt struct {
	Board    string
	Title    string
	Defaults MonitorSettings
	Baudrate []int
	Seconds  []int
}

// Download is a file handed to the user agent for saving.
type Download struct {
	Name        string
	ContentType string
	Content     []byte
}

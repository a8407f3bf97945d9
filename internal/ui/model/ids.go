package model

// Element ids shared by the console page, the wasm binding and the prerenderer.
const (
	LoaderID       = "loader-bg"
	ModalID        = "modal_message"
	ModalDialogID  = "modal_dialog"
	ModalMessageID = "modal-msg"
	ModalBodyID    = "modal-body"
	ModalSetupID   = "modal-setup-monitor"
	BaudrateID     = "baudrate-select"
	SecondsID      = "seconds-select"
	TimerCountID   = "timer-count"
	TimerLabelID   = "timer-label"
	ResetButtonID  = "button-reset-lab"
	NavTabsID      = "nav-tab"
	NavContentID   = "nav-tabContent"
	TimerClass     = "timer"
	WarningClass   = "red"
	CameraID       = "camera"
	CameraFeedID   = "cam"
	BlockedClass   = "session_blocked"
	NewExampleKey  = "new"
)

// ControlElementID returns the DOM id of a board control.
func ControlElementID(c Control, board string) string {
	switch c {
	case ControlSelect:
		return "editor-select-" + board
	case ControlUpload:
		return "button-upload-" + board
	default:
		return "button-" + string(c) + "-" + board
	}
}

// EditorID returns the id of the textarea backing a board's code editor.
func EditorID(board string) string {
	return "text-" + board
}

// FileInputID returns the id of the hidden file input bound to a board.
func FileInputID(board string) string {
	return "file-input-" + board
}

// SaveButtonID returns the id of a board's download button.
func SaveButtonID(board string) string {
	return "button-download-" + board
}

//go:build js && wasm

package wasm

import (
	"syscall/js"

	"github.com/in4labs/robotics-console/internal/ui/model"
)

// domEditor reaches the CodeMirror instance the page registers as <board>GetEditor.
type domEditor struct{}

func editorFor(board string) js.Value {
	fn := js.Global().Get(board + "GetEditor")
	if fn.Type() != js.TypeFunction {
		return js.Undefined()
	}
	return fn.Invoke()
}

func (domEditor) Text(board string) string {
	ed := editorFor(board)
	if !ed.Truthy() {
		return ""
	}
	return ed.Call("getValue").String()
}

func (domEditor) SetText(board, text string) {
	if ed := editorFor(board); ed.Truthy() {
		ed.Call("setValue", text)
	}
}

func (domEditor) SelectExample(board, value string) {
	if sel := byID(model.ControlElementID(model.ControlSelect, board)); sel.Truthy() {
		sel.Set("value", value)
	}
}

func onEditorChange(board string, fn func()) {
	ed := editorFor(board)
	if !ed.Truthy() {
		return
	}
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	ed.Call("on", "change", cb)
	handlers = append(handlers, cb)
}

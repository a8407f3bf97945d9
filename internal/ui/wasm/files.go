//go:build js && wasm

package wasm

import (
	"errors"
	"syscall/js"

	"github.com/in4labs/robotics-console/internal/ui/model"
)

// readSelectedFile reads the first file of an <input type="file"> as text. The input
// is cleared afterwards so picking the same file again fires another change.
func readSelectedFile(input js.Value, done func(name, contents string, err error)) {
	files := input.Get("files")
	if !files.Truthy() || files.Get("length").Int() == 0 {
		return
	}
	file := files.Index(0)
	name := file.Get("name").String()
	input.Set("value", "")

	var onLoad, onError js.Func
	release := func() {
		onLoad.Release()
		onError.Release()
	}
	onLoad = js.FuncOf(func(_ js.Value, args []js.Value) any {
		defer release()
		contents := ""
		if len(args) > 0 {
			contents = args[0].String()
		}
		done(name, contents, nil)
		return nil
	})
	onError = js.FuncOf(func(_ js.Value, args []js.Value) any {
		defer release()
		msg := "read file " + name
		if len(args) > 0 && args[0].Truthy() {
			msg += ": " + args[0].Call("toString").String()
		}
		done(name, "", errors.New(msg))
		return nil
	})
	file.Call("text").Call("then", onLoad, onError)
}

// triggerDownload hands a file to the browser through a temporary object URL.
func triggerDownload(dl model.Download) {
	data := js.Global().Get("Uint8Array").New(len(dl.Content))
	js.CopyBytesToJS(data, dl.Content)
	blob := js.Global().Get("Blob").New([]any{data}, map[string]any{"type": dl.ContentType})

	urlAPI := js.Global().Get("URL")
	href := urlAPI.Call("createObjectURL", blob)
	link := Document.Call("createElement", "a")
	link.Set("download", dl.Name)
	link.Set("href", href)
	link.Get("style").Set("display", "none")
	body := Document.Get("body")
	body.Call("appendChild", link)
	link.Call("click")
	body.Call("removeChild", link)
	urlAPI.Call("revokeObjectURL", href)
}

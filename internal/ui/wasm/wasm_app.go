//go:build js && wasm

package wasm

import (
	"syscall/js"
)

var (
	// Document references the global browser document for DOM interactions.
	Document js.Value
	// handlers stores bound js.Func callbacks so they stay alive for the page lifetime.
	handlers []js.Func
)

type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	console := js.Global().Get("console")
	if console.Truthy() {
		console.Call("log", string(p))
	}
	return len(p), nil
}

func consoleWarn(args ...any) {
	if console := js.Global().Get("console"); console.Truthy() {
		console.Call("warn", args...)
	}
}

func consoleError(args ...any) {
	if console := js.Global().Get("console"); console.Truthy() {
		console.Call("error", args...)
	}
}

func byID(id string) js.Value {
	return Document.Call("getElementById", id)
}

func addHandler(el js.Value, event string, fn func(this js.Value, args []js.Value) any) {
	if !el.Truthy() {
		return
	}
	cb := js.FuncOf(fn)
	el.Call("addEventListener", event, cb)
	handlers = append(handlers, cb)
}

// once registers a listener that removes itself after the first event.
func once(el js.Value, event string, fn func()) {
	if !el.Truthy() {
		return
	}
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		el.Call("removeEventListener", event, cb)
		cb.Release()
		fn()
		return nil
	})
	el.Call("addEventListener", event, cb)
}

func forEachNode(list js.Value, fn func(js.Value)) {
	if !list.Truthy() {
		return
	}
	length := list.Get("length").Int()
	for i := 0; i < length; i++ {
		fn(list.Index(i))
	}
}

//go:build js && wasm

package wasm

import (
	"strconv"
	"syscall/js"

	"github.com/in4labs/robotics-console/internal/ui/countdown"
	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/session"
)

var modalSizes = []model.ModalSize{model.ModalSmall, model.ModalLarge, model.ModalXL}

// expirySelector matches every control disabled when the session ends.
const expirySelector = "select.editor-select, button.upload, button.suggest, button.compile, button.execute, button.monitor, button.stop, button.reset"

type domView struct {
	onMonitor func(board string, settings model.MonitorSettings)
}

func newDOMView() *domView { return &domView{} }

func (v *domView) SetLoading(visible bool) {
	loader := byID(model.LoaderID)
	if !loader.Truthy() {
		return
	}
	display := "none"
	if visible {
		display = "block"
	}
	loader.Get("style").Set("display", display)
}

func (v *domView) ShowModal(m model.Modal) {
	v.prepareModal(m.Size, m.Title)
	if body := byID(model.ModalBodyID); body.Truthy() {
		body.Set("innerHTML", m.Body)
	}
	showModal()
}

func (v *domView) Alert(message string) {
	js.Global().Call("alert", message)
}

func (v *domView) ApplyControls(st session.BoardState) {
	for _, c := range model.Controls {
		if el := byID(model.ControlElementID(c, st.Board)); el.Truthy() {
			el.Set("disabled", !st.IsEnabled(c))
		}
	}
}

func (v *domView) ShowMonitorPrompt(p model.MonitorPrompt) {
	v.prepareModal(model.ModalSmall, p.Title)
	fillSelect(byID(model.BaudrateID), p.Baudrate, p.Defaults.Baudrate)
	fillSelect(byID(model.SecondsID), p.Seconds, p.Defaults.Seconds)
	setup := byID(model.ModalSetupID)
	if setup.Truthy() {
		setup.Get("style").Set("display", "block")
	}
	once(byID(model.ModalID), "hidden.bs.modal", func() {
		if setup.Truthy() {
			setup.Get("style").Set("display", "none")
		}
		settings := model.MonitorSettings{
			Baudrate: selectedInt(byID(model.BaudrateID), p.Defaults.Baudrate),
			Seconds:  selectedInt(byID(model.SecondsID), p.Defaults.Seconds),
		}
		if v.onMonitor != nil {
			v.onMonitor(p.Board, settings)
		}
	})
	showModal()
}

func (v *domView) ShowCountdown(label string, tick countdown.Tick) {
	if el := byID(model.TimerLabelID); el.Truthy() {
		el.Set("textContent", label)
	}
	if el := byID(model.TimerCountID); el.Truthy() {
		el.Set("textContent", tick.Display)
	}
	if tick.Warning {
		forEachNode(Document.Call("querySelectorAll", "."+model.TimerClass), func(node js.Value) {
			node.Get("classList").Call("add", model.WarningClass)
		})
	}
}

func (v *domView) ExpireSession(notice string) {
	forEachNode(Document.Call("querySelectorAll", expirySelector), func(node js.Value) {
		node.Set("disabled", true)
	})
	forEachNode(Document.Call("querySelectorAll", "."+model.TimerClass), func(node js.Value) {
		node.Get("classList").Call("add", model.WarningClass)
	})
	if el := byID(model.TimerCountID); el.Truthy() {
		el.Set("textContent", countdown.Format(0))
	}
	if camera := byID(model.CameraID); camera.Truthy() && !camera.Call("querySelector", "."+model.BlockedClass).Truthy() {
		blocked := Document.Call("createElement", "div")
		blocked.Set("className", model.BlockedClass)
		p := Document.Call("createElement", "p")
		p.Set("textContent", notice)
		blocked.Call("appendChild", p)
		camera.Call("prepend", blocked)
	}
	if cam := byID(model.CameraFeedID); cam.Truthy() {
		cam.Set("src", "")
	}
	v.ShowModal(model.Modal{Title: notice})
}

func (v *domView) prepareModal(size model.ModalSize, title string) {
	if dialog := byID(model.ModalDialogID); dialog.Truthy() {
		classes := dialog.Get("classList")
		for _, s := range modalSizes {
			classes.Call("remove", "modal-"+string(s))
		}
		if size != model.ModalDefault {
			classes.Call("add", "modal-"+string(size))
		}
	}
	if msg := byID(model.ModalMessageID); msg.Truthy() {
		msg.Set("textContent", title)
	}
	if body := byID(model.ModalBodyID); body.Truthy() {
		body.Set("innerHTML", "")
	}
	if setup := byID(model.ModalSetupID); setup.Truthy() {
		setup.Get("style").Set("display", "none")
	}
}

func showModal() {
	el := byID(model.ModalID)
	bootstrap := js.Global().Get("bootstrap")
	if !el.Truthy() || !bootstrap.Truthy() {
		return
	}
	bootstrap.Get("Modal").Call("getOrCreateInstance", el).Call("show")
}

func fillSelect(sel js.Value, options []int, selected int) {
	if !sel.Truthy() {
		return
	}
	sel.Set("innerHTML", "")
	for _, o := range options {
		opt := Document.Call("createElement", "option")
		value := strconv.Itoa(o)
		opt.Set("value", value)
		opt.Set("textContent", value)
		if o == selected {
			opt.Set("selected", true)
		}
		sel.Call("appendChild", opt)
	}
}

func selectedInt(sel js.Value, fallback int) int {
	if !sel.Truthy() {
		return fallback
	}
	n, err := strconv.Atoi(sel.Get("value").String())
	if err != nil {
		return fallback
	}
	return n
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Compile  key.Binding
	Execute  key.Binding
	Monitor  key.Binding
	Stop     key.Binding
	Suggest  key.Binding
	Reset    key.Binding
	Example  key.Binding
	Open     key.Binding
	Save     key.Binding
	NextTab  key.Binding
	Dismiss  key.Binding
	Confirm  key.Binding
	Quit     key.Binding
	BaudUp   key.Binding
	BaudDown key.Binding
	SecsUp   key.Binding
	SecsDown key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Compile:  key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "compile")),
		Execute:  key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "run")),
		Monitor:  key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "monitor")),
		Stop:     key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "stop")),
		Suggest:  key.NewBinding(key.WithKeys("f6"), key.WithHelp("F6", "suggest")),
		Reset:    key.NewBinding(key.WithKeys("f9"), key.WithHelp("F9", "reset lab")),
		Example:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("^E", "next example")),
		Open:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^O", "load file")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^S", "save")),
		NextTab:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^N", "next board")),
		Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ok")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("^C", "quit")),
		BaudUp:   key.NewBinding(key.WithKeys("right")),
		BaudDown: key.NewBinding(key.WithKeys("left")),
		SecsUp:   key.NewBinding(key.WithKeys("up")),
		SecsDown: key.NewBinding(key.WithKeys("down")),
	}
}

func (k keyMap) toolbar() []key.Binding {
	return []key.Binding{k.Compile, k.Execute, k.Monitor, k.Stop, k.Suggest, k.Reset, k.Example, k.Open, k.Save, k.NextTab, k.Quit}
}

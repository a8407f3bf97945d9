//go:build js && wasm

package wasm

import (
	"context"
	"syscall/js"

	"github.com/in4labs/robotics-console/internal/logging"
	"github.com/in4labs/robotics-console/internal/ui/dispatch"
	"github.com/in4labs/robotics-console/internal/ui/model"
)

type boardAction func(ctx context.Context, board string) error

func bindBoard(d *dispatch.Dispatcher, board string, logger logging.Logger) {
	onClick := func(c model.Control, action boardAction) {
		addHandler(byID(model.ControlElementID(c, board)), "click", func(js.Value, []js.Value) any {
			go report(logger, action(context.Background(), board))
			return nil
		})
	}
	onClick(model.ControlCompile, d.Compile)
	onClick(model.ControlExecute, d.Execute)
	onClick(model.ControlSuggest, d.Suggest)
	onClick(model.ControlStop, d.Stop)

	addHandler(byID(model.ControlElementID(model.ControlMonitor, board)), "click", func(js.Value, []js.Value) any {
		if _, err := d.SetupMonitor(board); err != nil {
			report(logger, err)
		}
		return nil
	})

	addHandler(byID(model.ControlElementID(model.ControlSelect, board)), "change", func(this js.Value, _ []js.Value) any {
		example := this.Get("value").String()
		go report(logger, d.LoadExample(context.Background(), board, example))
		return nil
	})

	input := byID(model.FileInputID(board))
	addHandler(byID(model.ControlElementID(model.ControlUpload, board)), "click", func(js.Value, []js.Value) any {
		if input.Truthy() {
			input.Call("click")
		}
		return nil
	})
	addHandler(input, "change", func(this js.Value, _ []js.Value) any {
		readSelectedFile(this, func(name, contents string, err error) {
			if err != nil {
				report(logger, err)
				return
			}
			report(logger, d.LoadFile(board, name, contents))
		})
		return nil
	})

	addHandler(byID(model.SaveButtonID(board)), "click", func(js.Value, []js.Value) any {
		triggerDownload(d.SaveFile(board))
		return nil
	})

	onEditorChange(board, func() { d.ChangeCode(board) })
}

func bindResetButton(d *dispatch.Dispatcher, logger logging.Logger) {
	addHandler(byID(model.ResetButtonID), "click", func(js.Value, []js.Value) any {
		go report(logger, d.ResetLab(context.Background()))
		return nil
	})
}

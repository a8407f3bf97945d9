//go:build js && wasm

package wasm

import (
	"context"
	"syscall/js"
	"time"

	"github.com/in4labs/robotics-console/internal/logging"
	"github.com/in4labs/robotics-console/internal/ui/countdown"
	"github.com/in4labs/robotics-console/internal/ui/dispatch"
	"github.com/in4labs/robotics-console/internal/ui/labapi"
	"github.com/in4labs/robotics-console/internal/ui/messages"
	"github.com/in4labs/robotics-console/internal/ui/model"
	"github.com/in4labs/robotics-console/internal/ui/session"
)

// RunApp bootstraps the lab console WASM UI and blocks forever.
func RunApp() {
	done := make(chan struct{})
	Document = js.Global().Get("document")
	logger := logging.NewWithWriter(consoleWriter{})
	client := labapi.New("", labapi.WithLogger(logger))

	go func() {
		if err := startConsole(client, logger); err != nil {
			consoleError("lab console failed to start", err.Error())
		}
	}()
	<-done
}

func startConsole(client *labapi.Client, logger logging.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	cfg, err := client.ConsoleConfig(ctx)
	if err != nil {
		return err
	}
	table, err := client.Messages(ctx)
	if err != nil {
		consoleWarn("failed to load messages, using English", err.Error())
		table = messages.English()
	}

	boards := make([]string, 0, len(cfg.Boards))
	for _, b := range cfg.Boards {
		boards = append(boards, b.ID)
	}

	view := newDOMView()
	d := dispatch.New(dispatch.Config{
		Backend:  client,
		Editor:   domEditor{},
		View:     view,
		Session:  session.New(boards...),
		Messages: table,
		Logger:   logger,
	})
	view.onMonitor = func(board string, settings model.MonitorSettings) {
		go report(logger, d.Monitor(context.Background(), board, settings))
	}

	bindResetButton(d, logger)
	for _, board := range boards {
		bindBoard(d, board, logger)
	}

	handlers := d.Handlers()
	timer := countdown.New(cfg.EndTime,
		countdown.OnTick(handlers.Countdown),
		countdown.OnExpire(handlers.Expire),
	)
	timer.Start()
	if d.Session().Expired() {
		return nil
	}

	for _, board := range boards {
		go report(logger, d.InitBoard(context.Background(), board))
	}
	return nil
}

func report(logger logging.Logger, err error) {
	if err != nil && logger != nil {
		logger.Printf("%v", err)
	}
}

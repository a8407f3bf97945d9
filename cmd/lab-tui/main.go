//go:build !js && !wasm

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/in4labs/robotics-console/internal/logging"
	"github.com/in4labs/robotics-console/internal/ui/labapi"
	"github.com/in4labs/robotics-console/internal/ui/messages"
	"github.com/in4labs/robotics-console/internal/ui/tui"
)

type options struct {
	consoleURL string
	logPath    string
	saveDir    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	var opts options
	flag.StringVar(&opts.consoleURL, "url", "http://127.0.0.1:4173/", "base URL of the console server")
	flag.StringVar(&opts.logPath, "log", filepath.Join("data", "logs", "console-tui.json"), "JSON log file")
	flag.StringVar(&opts.saveDir, "save", ".", "directory for saved sketches")
	flag.Parse()

	if err := run(ctx, opts); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource it opens, so the log envelope is closed on all paths.
func run(ctx context.Context, opts options) error {
	logger, closeLog, err := openLog(opts.logPath)
	if err != nil {
		return fmt.Errorf("prepare log file: %w", err)
	}
	defer closeLog()

	client := labapi.New(opts.consoleURL, labapi.WithLogger(logger))

	startCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	cfg, err := client.ConsoleConfig(startCtx)
	if err != nil {
		return fmt.Errorf("load console config from %s: %w", opts.consoleURL, err)
	}
	table, err := client.Messages(startCtx)
	if err != nil {
		logger.Printf("failed to load messages, using English: %v", err)
		table = messages.English()
	}

	m := tui.New(ctx, tui.Options{
		Console:  cfg,
		Backend:  client,
		Messages: table,
		Logger:   logger,
		SaveDir:  opts.saveDir,
	})
	defer m.Close()

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

// openLog sends JSON log lines to a file; the terminal belongs to the UI.
func openLog(path string) (logging.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	w, err := logging.OpenLogFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.NewWithWriter(w), func() { _ = w.Close() }, nil
}

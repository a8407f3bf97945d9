//go:build !js && !wasm

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/in4labs/robotics-console/internal/config"
	"github.com/in4labs/robotics-console/internal/logging"
	uiserver "github.com/in4labs/robotics-console/internal/ui/server"
)

type flagOverrides struct {
	listen   string
	assets   string
	messages string
	logs     string
	backend  string
	language string
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		// A second signal forces exit.
		<-sigCh
		log.Println("second interrupt received, forcing shutdown")
		os.Exit(1)
	}()
	defer func() {
		signal.Stop(sigCh)
		cancel()
	}()

	var overrides flagOverrides
	flag.StringVar(&overrides.listen, "listen", "", "address to serve the console (defaults to config.json server.addr+port)")
	flag.StringVar(&overrides.assets, "assets", "", "directory holding index.html, main.wasm and wasm_exec.js (defaults to config.json app.assets)")
	flag.StringVar(&overrides.messages, "messages", "", "directory holding messages_<lang>.yaml (defaults to config.json app.messages)")
	flag.StringVar(&overrides.logs, "logs", "", "directory for the JSON log file (defaults to config.json app.logs)")
	flag.StringVar(&overrides.backend, "backend", "", "base URL of the lab backend (overrides LAB_BACKEND_URL)")
	flag.StringVar(&overrides.language, "lang", "", "message table language")
	prefix := flag.String("prefix", "", "path prefix the lab is mounted under, e.g. /server/lab")
	configPath := flag.String("config", "config.json", "path to server configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg = applyOverrides(cfg, overrides)

	closeLog, err := setupLogFile(cfg.App.Logs)
	if err != nil {
		log.Fatalf("prepare log file: %v", err)
	}
	defer closeLog()

	opts := uiserver.Options{
		Listen: cfg.Server.Listen(),
		Prefix: *prefix,
		Config: cfg,
		Logger: logging.New(),
	}
	if err := uiserver.Run(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("server error: %v", err)
	}
}

func applyOverrides(cfg config.Config, o flagOverrides) config.Config {
	if v := strings.TrimSpace(o.listen); v != "" {
		addr, port, found := strings.Cut(v, ":")
		cfg.Server.Addr = addr
		if found {
			cfg.Server.Port = ":" + port
		}
	}
	if v := strings.TrimSpace(o.assets); v != "" {
		cfg.App.Assets = v
	}
	if v := strings.TrimSpace(o.messages); v != "" {
		cfg.App.Messages = v
	}
	if v := strings.TrimSpace(o.logs); v != "" {
		cfg.App.Logs = v
	}
	if v := strings.TrimSpace(o.backend); v != "" {
		cfg.Lab.BackendURL = v
	}
	if v := strings.TrimSpace(o.language); v != "" {
		cfg.App.Language = strings.ToLower(v)
	}
	return cfg
}

func setupLogFile(dir string) (func(), error) {
	if dir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	console, err := logging.OpenLogFile(filepath.Join(dir, "console.json"))
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	actions, err := logging.OpenLogFile(filepath.Join(dir, "actions.json"))
	if err != nil {
		_ = console.Close()
		return nil, fmt.Errorf("open action log: %w", err)
	}
	logging.SetDefaultWriter(io.MultiWriter(os.Stdout, console))
	logging.SetCategoryWriter(logging.CategoryAction, actions)
	return func() {
		logging.SetDefaultWriter(nil)
		logging.SetCategoryWriter(logging.CategoryAction, nil)
		_ = console.Close()
	}, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"
)

// step is one command of the dev loop.
type step struct {
	name string
	args []string
	env  []string
}

// Build steps run in order before the console server starts.
var buildSteps = []step{
	{
		name: "build-ui-wasm",
		args: []string{"go", "build", "-o", "web/main.wasm", "./cmd/ui-wasm"},
		env:  []string{"GOOS=js", "GOARCH=wasm"},
	},
	{
		name: "wasm-exec",
		args: []string{"sh", "-c", `cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" web/wasm_exec.js`},
	},
}

var serverStep = step{
	name: "ui-server",
	args: []string{
		"go", "run", "./cmd/ui-server",
		"-listen", "127.0.0.1:4173",
		"-backend", "http://127.0.0.1:8000/",
		"-assets", "web",
		"-messages", "web/messages",
	},
}

const shutdownGrace = 2 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "robotics-console: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	for _, s := range buildSteps {
		if err := s.command(ctx).Run(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	cmd := serverStep.command(ctx)
	cmd.WaitDelay = shutdownGrace
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s start: %w", serverStep.name, err)
	}
	err := cmd.Wait()
	if ctx.Err() != nil {
		// Interrupted; the server exiting is expected.
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s exited with status %d", serverStep.name, exitErr.ExitCode())
	}
	return err
}

func (s step) command(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, s.args[0], s.args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if len(s.env) > 0 {
		cmd.Env = append(os.Environ(), s.env...)
	}
	return cmd
}

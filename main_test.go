package main

import (
	"context"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestStepCommandAddsEnvironment(t *testing.T) {
	cmd := buildSteps[0].command(context.Background())
	if !slices.Contains(cmd.Env, "GOOS=js") || !slices.Contains(cmd.Env, "GOARCH=wasm") {
		t.Fatalf("wasm build env = %v", cmd.Env)
	}
	if cmd.Stdout != os.Stdout || cmd.Stderr != os.Stderr {
		t.Fatalf("step output should go to the terminal")
	}

	plain := serverStep.command(context.Background())
	if plain.Env != nil {
		t.Fatalf("server should inherit the environment, got %v", plain.Env)
	}
}

func TestRunStopsOnFailedBuildStep(t *testing.T) {
	saved := buildSteps
	t.Cleanup(func() { buildSteps = saved })
	buildSteps = []step{{name: "broken", args: []string{"sh", "-c", "exit 3"}}}

	err := run(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "broken") {
		t.Fatalf("run error = %v", err)
	}
}

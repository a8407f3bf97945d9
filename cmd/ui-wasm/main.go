//go:build js && wasm

package main

import "github.com/in4labs/robotics-console/internal/ui/wasm"

func main() {
	wasm.RunApp()
}

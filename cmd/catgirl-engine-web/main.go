//go:build js && wasm

// catgirl-engine-web runs the engine as a browser module.
//
// Build with:
//
//	GOOS=js GOARCH=wasm go build -o catgirl-engine.wasm ./cmd/catgirl-engine-web
package main

import (
	"context"

	"github.com/vovakirdan/catgirl-engine/internal/engine"
	"github.com/vovakirdan/catgirl-engine/internal/host"
	"github.com/vovakirdan/catgirl-engine/internal/lifecycle"
)

func main() {
	coord := lifecycle.New(lifecycle.Options{
		Runner: engine.New(engine.Options{}),
	})
	host.StartWeb(context.Background(), coord)
}

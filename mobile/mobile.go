// Package mobile is the gomobile binding surface of the engine.
//
// Build with:
//
//	gomobile bind -target=android ./mobile
package mobile

import (
	"sync"

	"github.com/vovakirdan/catgirl-engine/internal/engine"
	"github.com/vovakirdan/catgirl-engine/internal/host"
	"github.com/vovakirdan/catgirl-engine/internal/lifecycle"
)

// App is the handle the host application passes in.
type App interface {
	// Name identifies the host application in logs.
	Name() string
}

var (
	once  sync.Once
	coord *lifecycle.Coordinator
)

func coordinator() *lifecycle.Coordinator {
	once.Do(func() {
		coord = lifecycle.New(lifecycle.Options{
			Runner: engine.New(engine.Options{}),
		})
	})
	return coord
}

// Start runs the engine for app. Failures are logged, not returned.
func Start(app App) {
	host.StartMobile(coordinator(), app)
}

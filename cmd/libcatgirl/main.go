// libcatgirl exposes the engine to C callers.
//
// Build with:
//
//	go build -buildmode=c-shared -o libcatgirl.so ./cmd/libcatgirl
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/vovakirdan/catgirl-engine/internal/engine"
	"github.com/vovakirdan/catgirl-engine/internal/host"
	"github.com/vovakirdan/catgirl-engine/internal/lifecycle"
)

var (
	coordOnce sync.Once
	coord     *lifecycle.Coordinator

	lastErrMu sync.Mutex
	lastErr   *C.char
)

func coordinator() *lifecycle.Coordinator {
	coordOnce.Do(func() {
		coord = lifecycle.New(lifecycle.Options{
			Runner: engine.New(engine.Options{}),
		})
	})
	return coord
}

// ce_start runs the engine with a C argument vector. It returns 0 on
// success and 1 on failure. The caller keeps ownership of argv.
//
//export ce_start
func ce_start(argc C.int, argv **C.char) C.int {
	code, msg := host.StartLibrary(coordinator(), int(argc), unsafe.Pointer(argv))
	setLastError(msg)
	return C.int(code)
}

// ce_last_error returns the failure text of the last ce_start call, or NULL.
// The string stays valid until the next ce_start call.
//
//export ce_last_error
func ce_last_error() *C.char {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	return lastErr
}

func setLastError(msg string) {
	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	if lastErr != nil {
		C.free(unsafe.Pointer(lastErr))
		lastErr = nil
	}
	if msg != "" {
		lastErr = C.CString(msg)
	}
}

func main() {}

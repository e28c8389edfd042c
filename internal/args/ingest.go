package args

import (
	"errors"
	"fmt"
	"unicode/utf8"
	"unsafe"
)

// ErrInvalidText is returned when a foreign argument is not valid UTF-8.
var ErrInvalidText = errors.New("args: argument is not valid UTF-8")

// Ingest copies a C-style argument vector into owned Go strings.
//
// argv must point at the first of count char* slots (the char** a C caller
// passes as argv). Ingest reports ok == false, with no error, when argv is nil,
// when the first slot is nil or when count is negative; callers then fall back
// to the host's own argument list. A nil slot after the first ends the vector
// early.
//
// Safety: the caller guarantees that the array and every string it references
// stay valid and unmodified for the duration of the call, and that count does
// not exceed the number of slots actually allocated. Breaking either rule is
// undefined behavior, not an error Ingest can detect. Nothing read through argv
// is retained after Ingest returns.
func Ingest(count int, argv unsafe.Pointer) (args []string, ok bool, err error) {
	if argv == nil || count < 0 {
		return nil, false, nil
	}
	if count == 0 {
		return []string{}, true, nil
	}

	slots := unsafe.Slice((**byte)(argv), count)
	if slots[0] == nil {
		return nil, false, nil
	}

	args = make([]string, 0, count)
	for i, p := range slots {
		if p == nil {
			break
		}
		raw := cBytes(p)
		if !utf8.Valid(raw) {
			return nil, false, fmt.Errorf("%w (slot %d)", ErrInvalidText, i)
		}
		// string() copies, so no foreign memory outlives the call
		args = append(args, string(raw))
	}
	return args, true, nil
}

// cBytes views a NUL-terminated byte sequence without copying it.
func cBytes(p *byte) []byte {
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return unsafe.Slice(p, n)
}

package frequency

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidUTF8 is the sentinel carried by every DecodeError.
var ErrInvalidUTF8 = errors.New("input is not valid UTF-8")

// DecodeError reports the first line whose bytes are not valid UTF-8.
// Counting panics with a *DecodeError; no partial result is produced.
type DecodeError struct {
	Line   int // 1-based line number
	Offset int // byte offset of the first invalid sequence within the line
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v (byte offset %d)", e.Line, ErrInvalidUTF8, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return ErrInvalidUTF8
}

// ReadError wraps a failure of the underlying reader while scanning lines.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read input: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// invalidOffset returns the byte offset of the first invalid UTF-8 sequence in s, or -1.
func invalidOffset(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

package frequency

import (
	"bufio"
	"io"
	"iter"
)

// MaxLineBytes bounds the length of a single input line. It matches the
// largest file source.Opener accepts, so any file that opens can be counted.
const MaxLineBytes = 512 * 1024 * 1024

// Lines yields the lines of r with "\n" or "\r\n" terminators stripped.
// A final line without a terminator is still yielded; empty input yields nothing.
// If r fails, iteration panics with a *ReadError once the lines read so far are consumed.
func Lines(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			panic(&ReadError{Err: err})
		}
	}
}

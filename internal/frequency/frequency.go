// Package frequency counts how often each token occurs in line-oriented text.
//
// A token is one Unicode code point, one run of word characters, or one whole
// line, depending on the Option passed to the counting functions:
//
//	freqs := frequency.CountLines([]string{"aa bb cc bb"}, frequency.Word)
//	// freqs["bb"] == 2
//
// Counting is synchronous and allocates a fresh Map per call. Input that is
// not valid UTF-8 is fatal: the counting functions panic with a *DecodeError
// instead of substituting replacement characters or skipping bytes.
package frequency

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
	"unicode/utf8"
)

// Map holds the number of occurrences of each distinct token.
type Map map[string]int

// Total returns the sum of all counts in m.
func (m Map) Total() int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

// Count reads r line by line and counts tokens according to opt.
// It panics with a *DecodeError on invalid UTF-8 and with a *ReadError if r fails.
func Count(r io.Reader, opt Option) Map {
	return CountSeq(Lines(r), opt)
}

// CountLines counts tokens across lines, which must already have their
// line terminators stripped.
func CountLines(lines []string, opt Option) Map {
	return CountSeq(slices.Values(lines), opt)
}

// CountSeq counts tokens across the lines produced by seq.
func CountSeq(seq iter.Seq[string], opt Option) Map {
	if !opt.valid() {
		panic(fmt.Sprintf("frequency: unknown option %d", int(opt)))
	}

	freqs := make(Map)
	lineNo := 0
	for line := range seq {
		lineNo++
		checkUTF8(line, lineNo)
		eachToken(line, opt, func(token string) {
			freqs[token]++
		})
	}

	slog.Debug("Frequencies counted", "option", opt, "lines", lineNo, "distinct", len(freqs))
	return freqs
}

// Tokens returns the tokens a single line contributes under opt, in order of occurrence.
func Tokens(line string, opt Option) []string {
	if !opt.valid() {
		panic(fmt.Sprintf("frequency: unknown option %d", int(opt)))
	}
	checkUTF8(line, 1)

	var tokens []string
	eachToken(line, opt, func(token string) {
		tokens = append(tokens, token)
	})
	return tokens
}

func checkUTF8(line string, lineNo int) {
	if utf8.ValidString(line) {
		return
	}
	panic(&DecodeError{Line: lineNo, Offset: invalidOffset(line)})
}

// eachToken calls fn for every token of a valid UTF-8 line.
func eachToken(line string, opt Option, fn func(string)) {
	switch opt {
	case Char:
		for _, r := range line {
			fn(string(r))
		}
	case Word:
		eachWord(line, fn)
	case Line:
		fn(line)
	}
}

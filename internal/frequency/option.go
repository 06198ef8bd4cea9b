package frequency

import (
	"errors"
	"fmt"
)

// ErrInvalidOption is returned by ParseOption for names outside {char, word, line}.
var ErrInvalidOption = errors.New("invalid option: select from {char, word, line}")

// Option selects how a line is split into tokens.
type Option int

const (
	// Word counts maximal runs of word characters (default)
	Word Option = iota
	// Char counts individual Unicode code points
	Char
	// Line counts whole lines
	Line
)

// String returns the mode name accepted by ParseOption.
func (o Option) String() string {
	switch o {
	case Char:
		return "char"
	case Word:
		return "word"
	case Line:
		return "line"
	default:
		return "unknown"
	}
}

// valid reports whether o is one of the declared modes.
func (o Option) valid() bool {
	return o == Char || o == Word || o == Line
}

// ParseOption translates a mode name into an Option.
// Matching is exact and case-sensitive.
func ParseOption(name string) (Option, error) {
	switch name {
	case "char":
		return Char, nil
	case "word":
		return Word, nil
	case "line":
		return Line, nil
	default:
		return Word, fmt.Errorf("%w (got %q)", ErrInvalidOption, name)
	}
}

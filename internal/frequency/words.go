package frequency

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// wordRegex matches runs of word characters. regexp2 without the ECMAScript
// option treats \w as [\p{L}\p{Mn}\p{Nd}\p{Pc}], so letters and digits
// outside ASCII are word characters too.
var wordRegex = regexp2.MustCompile(`\w+`, regexp2.None)

// eachWord calls fn for every maximal run of word characters in line, left to right.
func eachWord(line string, fn func(string)) {
	m, err := wordRegex.FindStringMatch(line)
	for m != nil {
		fn(m.String())
		m, err = wordRegex.FindNextMatch(m)
	}
	// only a match timeout can fail, and wordRegex has none configured
	if err != nil {
		panic(fmt.Errorf("frequency: word match failed: %w", err))
	}
}

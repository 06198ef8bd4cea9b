// Package bpe reports how many byte-pair-encoding tokens a text occupies,
// using tiktoken's cl100k_base encoding (the one GPT-4 class models use).
// It gives tally a model-oriented size figure next to its own token counts.
package bpe

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Encoding is the tiktoken encoding used by Counter.
const Encoding = "cl100k_base"

// Counter counts BPE tokens.
type Counter struct {
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex // guards encoding
}

// New loads the cl100k_base encoding. The first call may download the
// encoding table; tiktoken caches it afterwards.
func New() (*Counter, error) {
	slog.Debug("Loading BPE encoding", "encoding", Encoding)

	encoding, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s encoding: %w", Encoding, err)
	}

	return &Counter{encoding: encoding}, nil
}

// Count returns the number of BPE tokens in text. Safe for concurrent use.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// nil allowed/disallowed sets: special tokens are encoded as plain text
	return len(c.encoding.Encode(text, nil, nil))
}

// Name returns a label for logs and reports.
func (c *Counter) Name() string {
	return "tokens (" + Encoding + ")"
}

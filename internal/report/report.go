// Package report renders a frequency map for people or programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/chriscorrea/tally/internal/frequency"
)

// Format selects how a map is rendered.
type Format int

const (
	// Debug prints the map on one line with quoted keys, e.g. map["aa":1 "bb":2] (default)
	Debug Format = iota
	// Text prints one "count token" line per entry
	Text
	// JSON prints the summary and counts as a JSON object
	JSON
)

// String returns the name accepted by ParseFormat.
func (f Format) String() string {
	switch f {
	case Debug:
		return "debug"
	case Text:
		return "text"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat translates a format name into a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "debug":
		return Debug, nil
	case "text":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return Debug, fmt.Errorf("invalid format %q: select from {debug, text, json}", name)
	}
}

// Summary describes a counted map.
type Summary struct {
	Mode      string `json:"mode"`
	Total     int    `json:"total"`
	Distinct  int    `json:"distinct"`
	BPETokens int    `json:"bpe_tokens,omitempty"` // zero when not requested
}

// Summarize fills the totals of a Summary from m.
func Summarize(m frequency.Map, opt frequency.Option) Summary {
	return Summary{
		Mode:     opt.String(),
		Total:    m.Total(),
		Distinct: len(m),
	}
}

// Write renders m to w in format f. The summary is only part of JSON output.
func Write(w io.Writer, f Format, m frequency.Map, summary Summary) error {
	switch f {
	case Debug:
		return writeDebug(w, m)
	case Text:
		for _, token := range slices.Sorted(maps.Keys(m)) {
			if _, err := fmt.Fprintf(w, "%8d %s\n", m[token], token); err != nil {
				return err
			}
		}
		return nil
	case JSON:
		if m == nil {
			m = frequency.Map{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Summary
			Counts frequency.Map `json:"counts"`
		}{summary, m})
	default:
		return fmt.Errorf("unknown output format %d", int(f))
	}
}

// writeDebug quotes every key so tokens holding spaces, colons or nothing at
// all stay distinguishable.
func writeDebug(w io.Writer, m frequency.Map) error {
	var b strings.Builder
	b.WriteString("map[")
	for i, token := range slices.Sorted(maps.Keys(m)) {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%q:%d", token, m[token])
	}
	b.WriteString("]\n")

	_, err := io.WriteString(w, b.String())
	return err
}

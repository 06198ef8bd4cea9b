// Package app contains the application logic of the tally CLI, kept apart
// from flag parsing so it can be driven directly from tests.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/chriscorrea/tally/internal/bpe"
	"github.com/chriscorrea/tally/internal/extract"
	"github.com/chriscorrea/tally/internal/frequency"
	"github.com/chriscorrea/tally/internal/normalize"
	"github.com/chriscorrea/tally/internal/report"
	"github.com/chriscorrea/tally/internal/source"
	"github.com/chriscorrea/tally/internal/spinner"
)

// Config holds all configuration options for a tally run.
type Config struct {
	Source     string           // file path, URL, or "-" for stdin
	Option     frequency.Option // what to count
	Format     report.Format    // output format
	FoldCase   bool             // merge keys that differ only in case
	Stem       bool             // merge English words sharing a stem (word mode only)
	HTML       bool             // treat input as HTML and count its text
	Selector   string           // CSS selector for HTML input
	IncludeAll bool             // keep the whole HTML document instead of its main content
	BPE        bool             // also report cl100k_base token total
	Quiet      bool             // suppress progress output
	Debug      bool

	// Opener resolves Source; nil means source.NewOpener()
	Opener *source.Opener
}

// Run counts the configured source and returns the rendered report.
// Nothing is returned on failure; a partial count is never rendered.
//
// ctx allows cancellation of URL fetches.
func Run(ctx context.Context, cfg Config) (string, error) {
	if cfg.Source == "" {
		return "", errors.New("no source provided")
	}
	if cfg.Stem && cfg.Option != frequency.Word {
		return "", fmt.Errorf("stemming applies to word counts only, not %s", cfg.Option)
	}

	opener := cfg.Opener
	if opener == nil {
		opener = source.NewOpener()
	}

	reader, err := opener.Open(ctx, cfg.Source)
	if err != nil {
		return "", fmt.Errorf("failed to open source: %w", err)
	}
	defer reader.Close()

	var input io.Reader = reader
	if cfg.HTML {
		text, err := extractText(reader, cfg)
		if err != nil {
			return "", err
		}
		input = strings.NewReader(text)
	}

	lines := frequency.Lines(input)

	bpeTokens := 0
	if cfg.BPE {
		tokens, err := bpe.New()
		if err != nil {
			return "", err
		}
		lines = observe(lines, func(line string) {
			bpeTokens += tokens.Count(line)
		})
	}

	if !cfg.Quiet && spinner.IsTerminal(os.Stderr) {
		sp := spinner.New(ctx, os.Stderr, fmt.Sprintf("Counting %ss...", cfg.Option))
		sp.Start()
		defer sp.Stop()
		lines = observe(lines, func(string) { sp.Advance() })
	}

	freqs, err := count(lines, cfg.Option)
	if err != nil {
		return "", fmt.Errorf("failed to count %q: %w", cfg.Source, err)
	}

	freqs = normalize.Apply(freqs, folds(cfg)...)

	summary := report.Summarize(freqs, cfg.Option)
	summary.BPETokens = bpeTokens

	slog.Debug("Counted source", "source", cfg.Source, "mode", summary.Mode, "total", summary.Total, "distinct", summary.Distinct)

	var out strings.Builder
	if err := report.Write(&out, cfg.Format, freqs, summary); err != nil {
		return "", fmt.Errorf("failed to render %s report: %w", cfg.Format, err)
	}
	return out.String(), nil
}

// count runs the counter and turns its fatal input panics into an error.
// Any other panic is a bug and is propagated.
func count(lines iter.Seq[string], opt frequency.Option) (freqs frequency.Map, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		var (
			decodeErr *frequency.DecodeError
			readErr   *frequency.ReadError
		)
		if e, ok := r.(error); ok && (errors.As(e, &decodeErr) || errors.As(e, &readErr)) {
			freqs, err = nil, e
			return
		}
		panic(r)
	}()

	return frequency.CountSeq(lines, opt), nil
}

// observe calls fn with every line of seq before passing it on.
func observe(seq iter.Seq[string], fn func(string)) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range seq {
			fn(line)
			if !yield(line) {
				return
			}
		}
	}
}

func extractText(r io.Reader, cfg Config) (string, error) {
	opts := extract.Options{
		Selector:   cfg.Selector,
		IncludeAll: cfg.IncludeAll,
	}
	if source.IsURL(cfg.Source) {
		opts.BaseURL, _ = url.Parse(cfg.Source) // nil on error is fine
	}

	text, err := extract.ToMarkdown(r, opts)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}
	return text, nil
}

func folds(cfg Config) []normalize.Fold {
	var fs []normalize.Fold
	if cfg.FoldCase {
		fs = append(fs, normalize.Lower)
	}
	if cfg.Stem {
		fs = append(fs, normalize.Stem)
	}
	return fs
}

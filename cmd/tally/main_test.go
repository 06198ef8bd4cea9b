package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriscorrea/tally/internal/frequency"
	"github.com/chriscorrea/tally/internal/report"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	// a nil slice would make cobra fall back to os.Args
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestArguments(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{"no arguments", nil, "1 argument FILENAME required"},
		{"missing mode", []string{"input.txt"}, "2 argument COUNT_OPTION required"},
		{"too many", []string{"a", "word", "extra"}, "accepts 2 args"},
		{"invalid mode", []string{"input.txt", "sentence"}, "invalid option: select from {char, word, line}"},
		{"invalid format", []string{"input.txt", "word", "--format", "xml"}, "invalid format"},
		{"selector with include-all", []string{"page.html", "word", "-s", "article", "--include-all"}, "none of the others can be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err == nil {
				t.Fatalf("expected error, got output %q", out)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %v, want it to contain %q", err, tt.errContains)
			}
			if out != "" {
				t.Errorf("no output expected on failure, got %q", out)
			}
		})
	}
}

func TestInvalidModeIsSentinel(t *testing.T) {
	_, err := execute(t, "input.txt", "WORD")
	if !errors.Is(err, frequency.ErrInvalidOption) {
		t.Errorf("error = %v, want ErrInvalidOption", err)
	}
}

func TestCountFile(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		args     []string
		expected string
	}{
		{"word", "aa bb cc bb\n", []string{"word"}, "map[\"aa\":1 \"bb\":2 \"cc\":1]\n"},
		{"char", "aaccddd\n", []string{"char"}, "map[\"a\":2 \"c\":2 \"d\":3]\n"},
		{"line", "x\nx\n", []string{"line"}, "map[\"x\":2]\n"},
		{"text format", "x\nx\n", []string{"line", "-f", "text"}, "       2 x\n"},
		{"fold case", "Go go GO\n", []string{"word", "--fold-case"}, "map[\"go\":3]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInput(t, []byte(tt.content))
			out, err := execute(t, append([]string{path}, append(tt.args, "-q")...)...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.expected {
				t.Errorf("output = %q, want %q", out, tt.expected)
			}
		})
	}
}

func TestCountFileInvalidUTF8(t *testing.T) {
	path := writeInput(t, []byte{'a', 0xf0, 0x90, 0x80})

	out, err := execute(t, path, "word", "-q")
	if !errors.Is(err, frequency.ErrInvalidUTF8) {
		t.Errorf("error = %v, want ErrInvalidUTF8", err)
	}
	if out != "" {
		t.Errorf("partial output %q printed on failure", out)
	}
}

func TestMissingFile(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "missing.txt"), "word", "-q")
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("error = %v, want a missing file error", err)
	}
}

func TestBuildConfig(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--selector", "article", "--stem", "-f", "json", "--bpe"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg, err := buildConfig(cmd, []string{"page.html", "word"})
	if err != nil {
		t.Fatalf("buildConfig unexpected error: %v", err)
	}

	if cfg.Source != "page.html" || cfg.Option != frequency.Word || cfg.Format != report.JSON {
		t.Errorf("cfg = %+v, want source page.html, word mode, json format", cfg)
	}
	if !cfg.HTML || cfg.Selector != "article" {
		t.Errorf("selector should imply HTML input, got HTML=%v selector=%q", cfg.HTML, cfg.Selector)
	}
	if !cfg.Stem || !cfg.BPE || cfg.FoldCase || cfg.Quiet {
		t.Errorf("unexpected flag values: %+v", cfg)
	}
}

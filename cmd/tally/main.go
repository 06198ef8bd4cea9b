package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chriscorrea/tally/internal/app"
	"github.com/chriscorrea/tally/internal/frequency"
	"github.com/chriscorrea/tally/internal/report"

	"github.com/spf13/cobra"
)

// requireSourceAndOption validates the two positional arguments in order,
// naming the first one that is missing.
func requireSourceAndOption(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return errors.New("1 argument FILENAME required")
	case 1:
		return errors.New("2 argument COUNT_OPTION required")
	case 2:
		return nil
	default:
		return fmt.Errorf("accepts 2 args, received %d", len(args))
	}
}

// buildConfig constructs an app.Config from command flags and arguments
func buildConfig(cmd *cobra.Command, args []string) (app.Config, error) {
	option, err := frequency.ParseOption(args[1])
	if err != nil {
		return app.Config{}, err
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return app.Config{}, err
	}

	foldCase, _ := cmd.Flags().GetBool("fold-case")
	stem, _ := cmd.Flags().GetBool("stem")
	html, _ := cmd.Flags().GetBool("html")
	selector, _ := cmd.Flags().GetString("selector")
	includeAll, _ := cmd.Flags().GetBool("include-all")
	useBPE, _ := cmd.Flags().GetBool("bpe")
	quiet, _ := cmd.Flags().GetBool("quiet")
	debug, _ := cmd.Flags().GetBool("debug")

	// HTML-only flags imply HTML input
	if selector != "" || includeAll {
		html = true
	}

	return app.Config{
		Source:     args[0],
		Option:     option,
		Format:     format,
		FoldCase:   foldCase,
		Stem:       stem,
		HTML:       html,
		Selector:   selector,
		IncludeAll: includeAll,
		BPE:        useBPE,
		Quiet:      quiet,
		Debug:      debug,
	}, nil
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	level := slog.LevelError
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tally FILENAME COUNT_OPTION",
		Short: "Count character, word, or line frequencies",
		Long: `Tally counts how often each character, word, or line occurs in its input.
FILENAME may be a local file, an http(s) URL, or "-" for standard input.
COUNT_OPTION is one of: char, word, line.

Examples:
  tally notes.txt word
  tally -f text access.log line
  cat poem.txt | tally - char`,
		Args:          requireSourceAndOption,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}

			setupLogger(config.Debug)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			result, err := app.Run(ctx, config)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), result)
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringP("format", "f", "debug", "Output format: debug, text, or json")

	flags.Bool("fold-case", false, "Merge tokens that differ only in letter case")
	flags.Bool("stem", false, "Merge lowercase English words that share a stem (word mode only; combine with --fold-case for capitalized words)")

	flags.Bool("html", false, "Treat input as HTML and count its readable text")
	flags.StringP("selector", "s", "", "CSS selector for HTML input (implies --html)")
	flags.BoolP("include-all", "i", false, "Count the whole HTML document, not just its main content (implies --html)")

	// a selector already narrows the document, so it cannot be combined with include-all
	rootCmd.MarkFlagsMutuallyExclusive("selector", "include-all")

	flags.Bool("bpe", false, "Also report the cl100k_base token total of the input")

	flags.BoolP("quiet", "q", false, "Suppress progress output")
	flags.BoolP("debug", "D", false, "Enable debug logging")
	_ = flags.MarkHidden("debug")

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

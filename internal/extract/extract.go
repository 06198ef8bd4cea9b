// Package extract turns HTML input into Markdown text so that tally counts
// what a reader sees rather than markup.
package extract

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Options controls which part of an HTML document is kept.
type Options struct {
	Selector   string   // CSS selector; when set, only matching elements are kept
	IncludeAll bool     // keep the whole document instead of the readable main content
	BaseURL    *url.URL // document location for readability; may be nil
}

// ToMarkdown extracts text from HTML read from r. A selector takes precedence
// over IncludeAll; with neither, readability picks the main content.
func ToMarkdown(r io.Reader, opts Options) (string, error) {
	var (
		html string
		err  error
	)
	switch {
	case opts.Selector != "":
		html, err = selectHTML(r, opts.Selector)
	case opts.IncludeAll:
		html, err = readAllHTML(r)
	default:
		html, err = mainContentHTML(r, opts.BaseURL)
	}
	if err != nil {
		return "", err
	}

	return toMarkdown(html)
}

func mainContentHTML(r io.Reader, baseURL *url.URL) (string, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}

	article, err := readability.FromReader(r, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}

	slog.Debug("Extracted main content", "title", article.Title, "length", article.Length)
	return article.Content, nil
}

func selectHTML(r io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	// each match becomes its own block so lines from separate elements never merge
	var parts []string
	selection.Each(func(_ int, s *goquery.Selection) {
		if inner, err := s.Html(); err == nil {
			tag := goquery.NodeName(s)
			parts = append(parts, fmt.Sprintf("<%s>%s</%s>", tag, inner, tag))
		}
	})
	if len(parts) == 0 {
		return "", fmt.Errorf("failed to extract HTML from selection")
	}

	slog.Debug("Selected elements", "selector", selector, "count", len(parts))
	return strings.Join(parts, "\n"), nil
}

func readAllHTML(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML content: %w", err)
	}
	return string(data), nil
}

func toMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)

	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	markdown = strings.TrimSpace(markdown)
	for strings.Contains(markdown, "\n\n\n") {
		markdown = strings.ReplaceAll(markdown, "\n\n\n", "\n\n")
	}
	return markdown, nil
}

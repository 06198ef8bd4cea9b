// Package source opens the input tally counts: a local file, standard input,
// or an HTTP(S) URL. Every source is size limited so a runaway input cannot
// exhaust memory while its lines are scanned.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Stdin is the source name that selects standard input.
const Stdin = "-"

// Default limits; an Opener may override them.
const (
	MaxFileBytes = 512 * 1024 * 1024
	MaxHTTPBytes = 100 * 1024 * 1024

	HTTPRequestTimeout = 30 * time.Second
)

// Opener resolves source names to readers.
type Opener struct {
	Client       *http.Client
	Stdin        io.Reader
	MaxFileBytes int64
	MaxHTTPBytes int64
	UserAgent    string
}

// NewOpener returns an Opener with the default limits and an HTTP client whose
// dial, TLS and header phases are bounded by fractions of HTTPRequestTimeout.
func NewOpener() *Opener {
	return &Opener{
		Client: &http.Client{
			Timeout: HTTPRequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: HTTPRequestTimeout / 6,
				}).DialContext,
				TLSHandshakeTimeout:   HTTPRequestTimeout / 6,
				ResponseHeaderTimeout: HTTPRequestTimeout / 2,
				DisableKeepAlives:     true,
			},
		},
		Stdin:        os.Stdin,
		MaxFileBytes: MaxFileBytes,
		MaxHTTPBytes: MaxHTTPBytes,
		UserAgent:    "tally/0.1",
	}
}

// Open returns a reader for name:
//   - "-" reads standard input
//   - names starting with "http://" or "https://" are fetched with GET
//   - anything else is a local file path
//
// The caller must close the returned reader.
func Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return NewOpener().Open(ctx, name)
}

// Open is the Opener form of the package-level Open.
func (o *Opener) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	switch {
	case name == Stdin:
		slog.Debug("Reading standard input")
		return &limitedReader{
			ReadCloser: io.NopCloser(o.Stdin),
			remaining:  o.MaxFileBytes,
			name:       "stdin",
		}, nil
	case IsURL(name):
		return o.openURL(ctx, name)
	default:
		return o.openFile(name)
	}
}

// IsURL reports whether name is fetched over HTTP rather than opened locally.
func IsURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

func (o *Opener) openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", o.UserAgent)

	slog.Debug("Fetching URL", "url", url)
	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %s", url, resp.Status)
	}

	// reject early when the server declares an oversized body
	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > o.MaxHTTPBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)", size, o.MaxHTTPBytes)
		}
	}

	return &limitedReader{
		ReadCloser: resp.Body,
		remaining:  o.MaxHTTPBytes,
		name:       url,
	}, nil
}

func (o *Opener) openFile(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}
	if info.Size() > o.MaxFileBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)", path, info.Size(), o.MaxFileBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	slog.Debug("Opened file", "path", path, "size", info.Size())
	return file, nil
}

// limitedReader fails once more than remaining bytes have been read.
type limitedReader struct {
	io.ReadCloser
	remaining int64
	name      string
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// probe for one more byte so input of exactly the limit still succeeds
		var probe [1]byte
		n, err := l.ReadCloser.Read(probe[:])
		if n > 0 {
			return 0, fmt.Errorf("content from %q exceeds size limit", l.name)
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.ReadCloser.Read(p)
	l.remaining -= int64(n)
	return n, err
}

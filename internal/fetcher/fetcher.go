// Package fetcher retrieves workbook bytes from local files, HTTP and FTP
// and parses XLSX and CSV content into string rows.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultMaxBytes caps how much a single source may return.
const DefaultMaxBytes int64 = 64 << 20

// Fetcher downloads one remote resource.
type Fetcher interface {
	// Download fetches the URL and returns the response body. The caller
	// closes it.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Options configures the fetchers built by ForURL.
type Options struct {
	HTTP     HTTPOptions
	FTP      FTPOptions
	MaxBytes int64
}

// IsRemote reports whether source is an http(s) or ftp URL.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp":
		return true
	}
	return false
}

// ForURL returns the fetcher that serves rawURL's scheme.
func ForURL(rawURL string, opts Options) (Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: parse url")
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTPFetcher(opts.HTTP), nil
	case "ftp":
		return NewFTPFetcher(opts.FTP), nil
	}
	return nil, eris.Errorf("fetcher: unsupported scheme %q", u.Scheme)
}

// Fetch downloads rawURL fully into memory, refusing bodies over maxBytes
// (DefaultMaxBytes when zero).
func Fetch(ctx context.Context, f Fetcher, rawURL string, maxBytes int64) ([]byte, error) {
	body, err := f.Download(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck
	return readLimited(body, maxBytes)
}

// ReadFile reads a local file with the same size cap as Fetch.
func ReadFile(path string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: open file")
	}
	defer f.Close() //nolint:errcheck
	return readLimited(f, maxBytes)
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: read body")
	}
	if int64(len(data)) > maxBytes {
		return nil, eris.Errorf("fetcher: source exceeds %d bytes", maxBytes)
	}
	return data, nil
}

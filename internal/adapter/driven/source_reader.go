package driven

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/alorle/iptv-relay/internal/upstream"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "iptv-relay"
)

// SourceReader reads the raw body of a playlist or guide source. http and
// https URLs are fetched with an HTTP client; file URLs and plain paths are
// read from disk.
type SourceReader struct {
	client    *http.Client
	userAgent string
}

// NewSourceReader creates a reader that sends userAgent on every request.
// If client is nil, it creates a default HTTP client with a 30-second timeout.
// If userAgent is empty, a default one is used.
func NewSourceReader(client *http.Client, userAgent string) *SourceReader {
	if client == nil {
		client = &http.Client{
			Timeout: defaultTimeout,
		}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &SourceReader{
		client:    client,
		userAgent: userAgent,
	}
}

// Read returns the decoded body of source. Every failure is an
// *upstream.SourceUnavailableError naming source.
func (r *SourceReader) Read(ctx context.Context, source string) ([]byte, error) {
	body, err := r.read(ctx, source)
	if err != nil {
		return nil, &upstream.SourceUnavailableError{Source: source, Err: err}
	}
	return body, nil
}

func (r *SourceReader) read(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil || len(u.Scheme) <= 1 {
		// Not a URL, or a Windows drive letter.
		return readFile(ctx, source)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return r.readHTTP(ctx, source)
	case "file":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		return readFile(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

func (r *SourceReader) readHTTP(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept-Encoding", "br, gzip")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", upstream.ErrUnexpectedStatus, resp.Status)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

// decodeBody undoes the Content-Encoding of resp. Setting Accept-Encoding by
// hand turns off the transport's own gzip handling.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))); encoding {
	case "", "identity":
		return resp.Body, nil
	case "br":
		return brotli.NewReader(resp.Body), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("opening gzip body: %w", err)
		}
		return zr, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

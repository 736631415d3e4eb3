package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 50 << 20 // decoded catalog audio stays far below this
	defaultUserAgent = "yomu/1.0"

	// first 4KiB is enough to sniff a container header
	probeBytes = 4096
)

// FetchError reports an HTTP failure retrieving an asset.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// what a byte-range probe learned about a candidate asset
type ProbeResult struct {
	OK          bool
	ContentType string
	Head        []byte
}

// Store retrieves text and audio assets from the catalog host.
type Store struct {
	baseURL string
	client  *http.Client
}

func NewStore(baseURL string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// TextURL builds the location of a story's text asset.
func (s *Store) TextURL(grade, story string) string {
	return s.join("data", "text", grade, story)
}

// VoiceURL builds the location of one audio asset candidate.
func (s *Store) VoiceURL(grade, dir, file string) string {
	return s.join("data", "voice", grade, dir, file)
}

// asset names may contain non-ASCII and whitespace
func (s *Store) join(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return s.baseURL + "/" + strings.Join(escaped, "/")
}

// FetchText retrieves a story's text asset.
func (s *Store) FetchText(ctx context.Context, grade, story string) (string, error) {
	data, err := s.fetch(ctx, s.TextURL(grade, story))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FetchAudio retrieves a resolved audio asset in full.
func (s *Store) FetchAudio(ctx context.Context, assetURL string) ([]byte, error) {
	return s.fetch(ctx, assetURL)
}

// Probe issues a byte-range request for the asset head. A non-success status
// is not an error, it just reports OK=false; errors mean the request itself
// failed.
func (s *Store) Probe(ctx context.Context, assetURL string) (ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("probe request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", probeBytes-1))

	resp, err := s.client.Do(req)
	if err != nil {
		return ProbeResult{}, &FetchError{URL: assetURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return ProbeResult{}, nil
	}

	head, err := io.ReadAll(io.LimitReader(resp.Body, probeBytes))
	if err != nil {
		return ProbeResult{}, &FetchError{URL: assetURL, Err: err}
	}

	return ProbeResult{
		OK:          true,
		ContentType: resp.Header.Get("Content-Type"),
		Head:        head,
	}, nil
}

func (s *Store) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if int64(len(data)) > DefaultMaxBytes {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("body exceeds %d bytes", int64(DefaultMaxBytes))}
	}
	return data, nil
}

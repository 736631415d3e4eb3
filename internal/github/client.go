package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yutokawamata/TextStimulationApp/internal/logging"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "yomu/1.0"
	defaultTimeout   = 30 * time.Second
)

// one item of a repository directory listing
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Size int    `json:"size"`
	Type string `json:"type"` // "file" or "dir"
}

type contentResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Client talks to the GitHub contents API for one catalog repository.
type Client struct {
	// overridable for tests
	BaseURL string

	owner  string
	repo   string
	branch string
	token  string
	client *http.Client
	log    *logging.Logger
}

func NewClient(owner, repo, branch, token string, log *logging.Logger) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		owner:   owner,
		repo:    repo,
		branch:  branch,
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

// List returns the entries of a repository directory.
func (c *Client) List(ctx context.Context, dir string) ([]Entry, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentsURL(dir), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode directory listing: %w", err)
	}
	return entries, nil
}

// GetSHA looks up the blob sha of a file; empty when the file is absent.
func (c *Client) GetSHA(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentsURL(path), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var content contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return "", fmt.Errorf("decode content response: %w", err)
	}
	return content.SHA, nil
}

// Download fetches a file's bytes.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentsURL(path), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var content contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return nil, fmt.Errorf("decode content response: %w", err)
	}
	if content.Encoding != "base64" {
		return nil, fmt.Errorf("unexpected content encoding %q", content.Encoding)
	}
	// the API wraps base64 at 60 columns
	data, err := base64.StdEncoding.DecodeString(
		strings.ReplaceAll(content.Content, "\n", ""),
	)
	if err != nil {
		return nil, fmt.Errorf("decode file content: %w", err)
	}
	return data, nil
}

// Upload creates or updates a file. An existing file is looked up first so
// the update carries its blob sha.
func (c *Client) Upload(ctx context.Context, path string, data []byte, message string) error {
	sha, err := c.GetSHA(ctx, path)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", path, err)
	}

	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(data),
	}
	if c.branch != "" {
		payload["branch"] = c.branch
	}
	if sha != "" {
		payload["sha"] = sha
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode upload payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, c.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError(resp)
	}
	c.log.Debugw("uploaded", "path", path, "update", sha != "")
	return nil
}

// Delete removes a file.
func (c *Client) Delete(ctx context.Context, path, message string) error {
	sha, err := c.GetSHA(ctx, path)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", path, err)
	}
	if sha == "" {
		return fmt.Errorf("delete %s: file not found", path)
	}

	payload := map[string]string{
		"message": message,
		"sha":     sha,
	}
	if c.branch != "" {
		payload["branch"] = c.branch
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode delete payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodDelete, c.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	c.log.Debugw("deleted", "path", path)
	return nil
}

// Rename moves a file by uploading it under the new path and deleting the
// old one; the contents API has no native rename.
func (c *Client) Rename(ctx context.Context, oldPath, newPath, message string) error {
	data, err := c.Download(ctx, oldPath)
	if err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	if err := c.Upload(ctx, newPath, data, message); err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	if err := c.Delete(ctx, oldPath, message); err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	return nil
}

func (c *Client) contentsURL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := fmt.Sprintf(
		"%s/repos/%s/%s/contents/%s",
		c.BaseURL,
		url.PathEscape(c.owner),
		url.PathEscape(c.repo),
		strings.Join(segments, "/"),
	)
	if c.branch != "" {
		u += "?ref=" + url.QueryEscape(c.branch)
	}
	return u
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("github: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(data)))
}

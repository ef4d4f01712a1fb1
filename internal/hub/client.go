// Package hub talks to a HuggingFace-style dataset hub: repo creation and
// file commits over its HTTP API.
package hub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client communicates with the dataset hub HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateRepo creates the dataset repository. An already-existing repo is not
// an error.
func (c *Client) CreateRepo(ctx context.Context, repo string, private bool) error {
	body, err := json.Marshal(map[string]any{
		"type":    "dataset",
		"name":    repo,
		"private": private,
	})
	if err != nil {
		return fmt.Errorf("marshal repo request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/repos/create", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create repo: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusConflict:
		return nil
	}
	return statusError("create repo "+repo, resp)
}

// CommitFile is one file in a commit payload.
type CommitFile struct {
	Path    string // repo-relative path, slash-separated
	Content []byte
}

// Commit uploads files as a single commit on branch. The hub's commit
// endpoint takes NDJSON: a header line followed by one base64 file line per
// uploaded file.
func (c *Client) Commit(ctx context.Context, repo, branch, summary string, files []CommitFile) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(map[string]any{
		"key":   "header",
		"value": map[string]string{"summary": summary},
	}); err != nil {
		return fmt.Errorf("encode commit header: %w", err)
	}
	for _, f := range files {
		if err := enc.Encode(map[string]any{
			"key": "file",
			"value": map[string]string{
				"path":     f.Path,
				"content":  base64.StdEncoding.EncodeToString(f.Content),
				"encoding": "base64",
			},
		}); err != nil {
			return fmt.Errorf("encode commit file %s: %w", f.Path, err)
		}
	}

	url := fmt.Sprintf("%s/api/datasets/%s/commit/%s", c.baseURL, repo, branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError(fmt.Sprintf("commit %d files to %s", len(files), repo), resp)
	}
	return nil
}

// Close releases any resources (currently a no-op).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func statusError(op string, resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err := fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(respBody))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{Err: err}
	}
	return err
}

// Package client is a Go client for the clipvault HTTP API. It covers
// every endpoint and provides a cancellable status poller for tracking
// downloads to completion.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client communicates with a clipvault server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SearchResult is one search hit.
type SearchResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	PublishedAt string `json:"publishedAt,omitempty"`
	ViewCount   string `json:"viewCount,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

type searchResponse struct {
	Items []SearchResult `json:"items"`
	Error string         `json:"error"`
}

// DownloadResult is the outcome of a download request.
type DownloadResult struct {
	Success  bool   `json:"success"`
	JobID    string `json:"jobId"`
	FilePath string `json:"filePath"`
	Message  string `json:"message"`
	Error    string `json:"error"`
}

// Status is a download job snapshot.
type Status struct {
	JobID    string  `json:"jobId"`
	SourceID string  `json:"sourceId"`
	Title    string  `json:"title"`
	State    string  `json:"status"`
	Progress float64 `json:"progress"`
	Error    string  `json:"error"`
	FilePath string  `json:"filePath"`
}

// Job states as reported by the server.
const (
	StateStarting    = "starting"
	StateDownloading = "downloading"
	StateCompleted   = "completed"
	StateError       = "error"
)

// MediaFile is one downloaded file.
type MediaFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ToolStatus reports downloader binary presence.
type ToolStatus struct {
	Installed bool   `json:"installed"`
	Version   string `json:"version"`
	Error     string `json:"error"`
}

// Search runs a keyword search. maxResults <= 0 uses the server default.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	val := url.Values{}
	val.Set("q", query)
	if maxResults > 0 {
		val.Set("maxResults", strconv.Itoa(maxResults))
	}

	var resp searchResponse
	if err := c.get(ctx, "/api/search?"+val.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Download requests a server-side download of sourceID.
func (c *Client) Download(ctx context.Context, sourceID, title string) (*DownloadResult, error) {
	body, err := json.Marshal(map[string]string{
		"sourceId": sourceID,
		"title":    title,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/download", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result DownloadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Status fetches the snapshot of one download job.
func (c *Client) Status(ctx context.Context, jobID string) (*Status, error) {
	var status Status
	if err := c.get(ctx, "/api/download-status/"+url.PathEscape(jobID), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Library lists downloaded files.
func (c *Client) Library(ctx context.Context) ([]MediaFile, error) {
	var files []MediaFile
	if err := c.get(ctx, "/api/downloaded-videos", &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Delete removes one downloaded file by name.
func (c *Client) Delete(ctx context.Context, filename string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/api/video/"+url.PathEscape(filename), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/api/health", nil)
}

// CheckTool probes downloader binary presence on the server.
func (c *Client) CheckTool(ctx context.Context) (*ToolStatus, error) {
	var status ToolStatus
	if err := c.get(ctx, "/api/check-ytdlp", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

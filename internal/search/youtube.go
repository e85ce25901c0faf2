// Package search is the gateway to the YouTube Data API. It merges the
// search call and the batch video-detail call into one enriched result
// list; detail failures degrade to results without statistics.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/domain"
)

const (
	defaultMaxResults = 12
	maxMaxResults     = 50
)

// Client queries the YouTube Data API v3.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a search client from configuration.
func NewClient(cfg config.YouTubeConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type ytThumbnail struct {
	URL string `json:"url"`
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				Default ytThumbnail `json:"default"`
				Medium  ytThumbnail `json:"medium"`
				High    ytThumbnail `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type ytVideosResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type ytErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Search returns enriched results for the query. maxResults is clamped to
// [1, 50]; zero or negative selects the default of 12.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrMissingQuery
	}
	if c.apiKey == "" {
		return nil, domain.ErrAPIKeyMissing
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxMaxResults {
		maxResults = maxMaxResults
	}

	val := url.Values{}
	val.Set("part", "snippet")
	val.Set("type", "video")
	val.Set("q", query)
	val.Set("maxResults", strconv.Itoa(maxResults))
	val.Set("key", c.apiKey)

	var body ytSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search?"+val.Encode(), &body); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(body.Items))
	var videoIDs []string

	for _, it := range body.Items {
		if it.ID.VideoID == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			ID:          it.ID.VideoID,
			Title:       it.Snippet.Title,
			Channel:     it.Snippet.ChannelTitle,
			PublishedAt: it.Snippet.PublishedAt,
			Thumbnails: domain.Thumbnails{
				Default: it.Snippet.Thumbnails.Default.URL,
				Medium:  it.Snippet.Thumbnails.Medium.URL,
				High:    it.Snippet.Thumbnails.High.URL,
			},
		})
		videoIDs = append(videoIDs, it.ID.VideoID)
	}

	if len(videoIDs) == 0 {
		return results, nil
	}

	details, err := c.fetchDetails(ctx, videoIDs)
	if err != nil {
		// Return results without statistics rather than failing the search.
		c.logger.Warn("detail lookup failed", "error", err)
		return results, nil
	}

	for i := range results {
		if d, ok := details[results[i].ID]; ok {
			results[i].ViewCount = d.viewCount
			results[i].Duration = d.duration
		}
	}

	return results, nil
}

type videoDetail struct {
	viewCount string
	duration  string
}

func (c *Client) fetchDetails(ctx context.Context, ids []string) (map[string]videoDetail, error) {
	val := url.Values{}
	val.Set("part", "statistics,contentDetails")
	val.Set("id", strings.Join(ids, ","))
	val.Set("key", c.apiKey)

	var body ytVideosResponse
	if err := c.getJSON(ctx, c.baseURL+"/videos?"+val.Encode(), &body); err != nil {
		return nil, err
	}

	details := make(map[string]videoDetail, len(body.Items))
	for _, it := range body.Items {
		details[it.ID] = videoDetail{
			viewCount: it.Statistics.ViewCount,
			duration:  it.ContentDetails.Duration,
		}
	}
	return details, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewProviderError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.NewProviderError(upstreamMessage(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewProviderError("invalid response: " + err.Error())
	}
	return nil
}

// upstreamMessage extracts the API error message from a non-200 response.
func upstreamMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var body ytErrorResponse
		if json.Unmarshal(data, &body) == nil && body.Error.Message != "" {
			return body.Error.Message
		}
	}
	return fmt.Sprintf("YouTube API error: status %d", resp.StatusCode)
}

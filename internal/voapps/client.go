// Package voapps is a client for the campaign delivery-export API. It pulls
// per-attempt delivery records page by page so the analysis engine can run
// on freshly fetched data instead of a manual CSV export.
package voapps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dialops/dropscope/internal/analysis"
)

// Default client tuning. MaxRetries covers transient upstream failures; the
// backoff doubles per attempt starting at RetryBaseDelay.
const (
	DefaultPageSize   = 1000
	DefaultMaxRetries = 3
	RetryBaseDelay    = 2 * time.Second
	requestTimeout    = 60 * time.Second
)

// Config holds API connection settings.
type Config struct {
	BaseURL    string
	APIToken   string
	PageSize   int
	MaxRetries int
}

// Client talks to the delivery-export API.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
}

// NewClient builds a client from config, applying defaults for unset fields.
func NewClient(cfg Config) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.APIToken,
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
		retryDelay: RetryBaseDelay,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// deliveryPage is one page of the export endpoint's response.
type deliveryPage struct {
	Records []analysis.RawRow `json:"records"`
}

// FetchCampaignRecords pulls every delivery record for a campaign,
// paginating until a short page signals the end of the export.
func (c *Client) FetchCampaignRecords(ctx context.Context, campaignID string) ([]analysis.RawRow, error) {
	var all []analysis.RawRow

	for page := 1; ; page++ {
		records, err := c.fetchPage(ctx, campaignID, page)
		if err != nil {
			return nil, fmt.Errorf("fetching campaign %s page %d: %w", campaignID, page, err)
		}
		all = append(all, records...)
		if len(records) < c.pageSize {
			return all, nil
		}
	}
}

// fetchPage requests a single page, retrying transient failures (5xx, 429,
// transport errors) with exponential backoff.
func (c *Client) fetchPage(ctx context.Context, campaignID string, page int) ([]analysis.RawRow, error) {
	endpoint, err := url.JoinPath(c.baseURL, "campaigns", campaignID, "deliveries")
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(c.pageSize))
	endpoint += "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * c.retryDelay
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		records, retryable, err := c.doPage(ctx, endpoint)
		if err == nil {
			return records, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) doPage(ctx context.Context, endpoint string) (records []analysis.RawRow, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decode.
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncate(body, 200))
	default:
		return nil, false, fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncate(body, 200))
	}

	var pageResp deliveryPage
	if err := json.Unmarshal(body, &pageResp); err != nil {
		return nil, false, fmt.Errorf("decoding response: %w", err)
	}
	return pageResp.Records, false, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

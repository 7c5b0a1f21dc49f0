// Package etenders implements a read-only client for the public eTenders
// portal search feed. Results are sanitized before they reach storage or
// callers; the portal is treated purely as an external data producer.
package etenders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

// Query narrows a portal search.
type Query struct {
	Search   string
	Province string
	Category string
}

// Result is a single listing returned by the portal feed.
type Result struct {
	TenderNumber string `json:"tenderNumber"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Department   string `json:"department"`
	Category     string `json:"category"`
	Province     string `json:"province"`
	PublishDate  string `json:"publishDate"`
	ClosingDate  string `json:"closingDate"`
	SourceURL    string `json:"sourceUrl"`
}

// Client queries the portal feed over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// New constructs a portal client for the given feed base URL.
func New(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "etenders_client").Logger(),
	}
}

// Search fetches listings matching the query from the portal feed.
func (c *Client) Search(ctx context.Context, query Query) ([]Result, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("etenders feed url is not configured")
	}

	endpoint, err := url.Parse(c.baseURL + "/api/tenders/search")
	if err != nil {
		return nil, fmt.Errorf("invalid etenders feed url: %w", err)
	}

	params := endpoint.Query()
	if query.Search != "" {
		params.Set("query", query.Search)
	}
	if query.Province != "" && !strings.EqualFold(query.Province, "all") {
		params.Set("province", query.Province)
	}
	if query.Category != "" && !strings.EqualFold(query.Category, "all") {
		params.Set("category", query.Category)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query etenders feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("etenders feed returned status %d", resp.StatusCode)
	}

	var results []Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode etenders response: %w", err)
	}

	for i := range results {
		results[i] = c.sanitize(results[i])
	}

	c.logger.Debug().Int("results", len(results)).Str("query", query.Search).Msg("etenders search completed")

	return results, nil
}

// sanitize strips any markup the portal may embed in free-text fields.
func (c *Client) sanitize(result Result) Result {
	result.TenderNumber = c.clean(result.TenderNumber)
	result.Title = c.clean(result.Title)
	result.Description = c.clean(result.Description)
	result.Department = c.clean(result.Department)
	result.Category = c.clean(result.Category)
	result.Province = c.clean(result.Province)
	return result
}

func (c *Client) clean(value string) string {
	return strings.TrimSpace(c.sanitizer.Sanitize(value))
}

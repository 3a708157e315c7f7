package ipinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phish-report/internal/core"
)

// Client looks up public IPs against the ipinfo.io API. One GET per
// call; the caller's cache is responsible for not calling twice for the
// same address.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new ipinfo client. The timeout bounds every
// request; baseURL is configurable so tests can point at a local server.
func NewClient(baseURL string, token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// lookupResponse is the subset of the ipinfo payload we use.
type lookupResponse struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Org     string `json:"org"`
}

// Lookup fetches location and ISP data for one IP. The response is
// untrusted: non-200 statuses and malformed bodies are ordinary errors.
func (c *Client) Lookup(ctx context.Context, ip string) (core.GeoInfo, error) {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(ip))
	if c.token != "" {
		reqURL += "?token=" + url.QueryEscape(c.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return core.GeoInfo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.GeoInfo{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.GeoInfo{}, fmt.Errorf("unexpected status %d from geolocation service", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return core.GeoInfo{}, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("IP lookup succeeded",
		zap.String("ip", ip),
		zap.String("country", body.Country))

	return core.GeoInfo{
		City:    body.City,
		Region:  body.Region,
		Country: body.Country,
		ISP:     body.Org,
	}, nil
}

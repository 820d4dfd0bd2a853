package weather

// Thin fetch-and-format wrapper over the Aviation Weather Center data API.
// No shared state with the gallery core.

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultBaseURL = "https://aviationweather.gov/api/data"

	requestTimeout = 5 * time.Second
)

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// Metar fetches the raw METAR for an ICAO station code.
func (c *Client) Metar(ctx context.Context, icao string) (string, error) {
	return c.fetch(ctx, "metar", map[string]string{"ids": strings.ToUpper(icao), "format": "raw"})
}

// Taf fetches the raw TAF for an ICAO station code.
func (c *Client) Taf(ctx context.Context, icao string) (string, error) {
	return c.fetch(ctx, "taf", map[string]string{"ids": strings.ToUpper(icao), "format": "raw"})
}

// Airport fetches decoded airport information for an ICAO code.
func (c *Client) Airport(ctx context.Context, icao string) (string, error) {
	return c.fetch(ctx, "airport", map[string]string{"ids": strings.ToUpper(icao), "format": "decoded"})
}

func (c *Client) fetch(ctx context.Context, endpoint string, params map[string]string) (string, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode()), nil)
	if err != nil {
		return "", err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", errors.Errorf("weather api returned %d", res.StatusCode)
	}
	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FormatReport renders a fetched report for the channel; a failed or empty
// fetch shows as "Not found.".
func FormatReport(kind, icao, data string) string {
	body := strings.TrimSpace(data)
	if body == "" {
		body = "Not found."
	}
	return fmt.Sprintf("*%s for %s*:\n```%s```", kind, strings.ToUpper(icao), body)
}

// Package geocode resolves free-text place names to coordinates via a
// Nominatim-style search endpoint, biased to a fixed regional bounding box
// and filtered by a textual allow-list of acceptable place names.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org/search"
	defaultTimeout = 10 * time.Second

	// Kerala region bias, matching the map's default viewport
	defaultViewbox = "74.8,12.9,77.7,8.2"
)

var defaultAllowList = []string{"kerala", "india"}

// ErrNotFound is returned when no candidate place passes the allow-list.
// Callers surface it as a transient, user-retryable miss.
var ErrNotFound = errors.New("no matching place found")

// Place is one resolved geocoding candidate
type Place struct {
	DisplayName string  `json:"displayName"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	City        string  `json:"city,omitempty"`
	Region      string  `json:"region,omitempty"`
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
	} `json:"address"`
}

// Client queries the geocoding endpoint
type Client struct {
	httpClient *http.Client
	baseURL    string
	viewbox    string
	allowList  []string
}

// NewClient builds a geocoding client. Empty arguments fall back to the
// regional defaults.
func NewClient(baseURL, viewbox, allowCSV string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if viewbox == "" {
		viewbox = defaultViewbox
	}
	allow := defaultAllowList
	if allowCSV != "" {
		allow = nil
		for _, s := range strings.Split(allowCSV, ",") {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				allow = append(allow, s)
			}
		}
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		viewbox:    viewbox,
		allowList:  allow,
	}
}

// Search resolves a free-text query to the first candidate whose display
// name passes the allow-list
func (c *Client) Search(ctx context.Context, query string) (*Place, error) {
	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing geocode URL: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("viewbox", c.viewbox)
	params.Set("bounded", "1")
	params.Set("limit", "5")
	apiURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected geocode status code: %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("error decoding geocode response: %w", err)
	}

	for _, res := range results {
		if !c.allowed(res.DisplayName) {
			zap.S().Debugw("geocode candidate rejected by allow-list",
				"displayName", res.DisplayName,
			)
			continue
		}
		lat, latErr := strconv.ParseFloat(res.Lat, 64)
		lng, lngErr := strconv.ParseFloat(res.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		city := res.Address.City
		if city == "" {
			city = res.Address.Town
		}
		if city == "" {
			city = res.Address.Village
		}
		return &Place{
			DisplayName: res.DisplayName,
			Latitude:    lat,
			Longitude:   lng,
			City:        city,
			Region:      res.Address.State,
		}, nil
	}

	return nil, ErrNotFound
}

func (c *Client) allowed(displayName string) bool {
	name := strings.ToLower(displayName)
	for _, allow := range c.allowList {
		if strings.Contains(name, allow) {
			return true
		}
	}
	return false
}

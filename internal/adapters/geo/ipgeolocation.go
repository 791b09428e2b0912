package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultBaseURL = "https://api.ipgeolocation.io/ipgeo"

// Location is the subset of geolocation data the request log records.
type Location struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// Client resolves an IP to a coarse location via ipgeolocation.io. Results
// are cached in Redis so repeated requests from one address cost a single
// upstream call per cache window.
type Client struct {
	apiKey   string
	baseURL  string
	cacheTTL time.Duration
	http     *http.Client
	cache    *redis.Client
}

func NewClient(apiKey string, cacheTTL time.Duration, cache *redis.Client) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		cacheTTL: cacheTTL,
		http:     &http.Client{Timeout: 3 * time.Second},
		cache:    cache,
	}
}

// WithBaseURL points the client at a different endpoint. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Lookup never fails the caller's request path: on any upstream or cache
// fault it returns an empty location together with the error so the caller
// can log and move on.
func (c *Client) Lookup(ctx context.Context, ip string) (Location, error) {
	cacheKey := "geo:" + ip

	if cached, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
		var loc Location
		if json.Unmarshal([]byte(cached), &loc) == nil {
			return loc, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return Location{}, err
	}

	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("ip", ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Location{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("ipgeolocation: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		CountryName string `json:"country_name"`
		City        string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, err
	}

	loc := Location{Country: body.CountryName, City: body.City}
	if raw, err := json.Marshal(loc); err == nil {
		// Cache write failures are non-fatal; the next lookup retries.
		_ = c.cache.Set(ctx, cacheKey, raw, c.cacheTTL).Err()
	}
	return loc, nil
}

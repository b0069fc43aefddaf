// Package directions is the HTTP client for the Kakao local directions API and
// the map SDK probe.
package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
)

// DefaultBaseURL is the Kakao local directions endpoint.
const DefaultBaseURL = "https://dapi.kakao.com/v2/local/search/direction.json"

var (
	// ErrNoCredential is returned when no REST key is configured.
	ErrNoCredential = errors.New("directions: no API credential configured")
	// ErrNoRoute is returned when the API answers without a route.
	ErrNoRoute = errors.New("directions: no route in response")
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	RESTKey    string
	Timeout    time.Duration
	MaxRetries uint64
}

// Client calls the directions API. Identical concurrent requests share one
// upstream call.
type Client struct {
	cfg    Config
	http   *http.Client
	group  singleflight.Group
	logger *zap.Logger
}

// NewClient creates a directions client. A nil httpClient gets one bounded by
// cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

// HasCredential reports whether a REST key is configured.
func (c *Client) HasCredential() bool {
	return c.cfg.RESTKey != ""
}

type apiResponse struct {
	Routes []apiRoute `json:"routes"`
}

type apiRoute struct {
	ResultCode int          `json:"result_code"`
	ResultMsg  string       `json:"result_msg"`
	Summary    *apiSummary  `json:"summary"`
	Sections   []apiSection `json:"sections"`
}

type apiSummary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type apiSection struct {
	Roads []apiRoad `json:"roads"`
}

type apiRoad struct {
	// Vertexes is a flat list of lng, lat pairs.
	Vertexes []float64 `json:"vertexes"`
}

// Route implements geomap.DirectionsProvider.
func (c *Client) Route(ctx context.Context, origin, destination geomap.LatLng) (*geomap.Directions, error) {
	if !c.HasCredential() {
		return nil, ErrNoCredential
	}

	key := coordPair(origin) + "|" + coordPair(destination)
	v, err, shared := c.group.Do(key, func() (any, error) {
		return c.fetch(ctx, origin, destination)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("directions request shared", zap.String("key", key))
	}
	return v.(*geomap.Directions), nil
}

func (c *Client) fetch(ctx context.Context, origin, destination geomap.LatLng) (*geomap.Directions, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid directions url: %w", err)
	}
	q := u.Query()
	q.Set("origin", coordPair(origin))
	q.Set("destination", coordPair(destination))
	u.RawQuery = q.Encode()

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "KakaoAK "+c.cfg.RESTKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("directions api status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("directions api status %d: %s", resp.StatusCode, truncate(data, 200)))
		}
		body = data
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = c.cfg.Timeout
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, c.cfg.MaxRetries), ctx)); err != nil {
		return nil, err
	}

	return decode(body)
}

func decode(body []byte) (*geomap.Directions, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode directions response: %w", err)
	}
	if len(resp.Routes) == 0 {
		return nil, ErrNoRoute
	}

	r := resp.Routes[0]
	d := &geomap.Directions{}
	if r.Summary != nil {
		d.DistanceMeters = r.Summary.Distance
		d.DurationSeconds = r.Summary.Duration
	}
	for _, s := range r.Sections {
		for _, road := range s.Roads {
			for i := 0; i+1 < len(road.Vertexes); i += 2 {
				d.Path = append(d.Path, geomap.LatLng{Lat: road.Vertexes[i+1], Lng: road.Vertexes[i]})
			}
		}
	}
	return d, nil
}

func coordPair(l geomap.LatLng) string {
	return strconv.FormatFloat(l.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lat, 'f', -1, 64)
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}

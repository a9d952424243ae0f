package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "ReportApp/1.0"
	defaultResultLimit  = 5
)

// Place is the result of a reverse lookup.
type Place struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Geocoder is the external geocoding provider.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

// NominatimConfig configures NominatimClient.
type NominatimConfig struct {
	BaseURL           string
	UserAgent         string
	ResultLimit       int
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// NominatimClient talks to an OpenStreetMap Nominatim instance. Requests are rate limited
// process-wide as required by the public instance's usage policy.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	limit      int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewNominatimClient applies defaults to cfg and returns a client.
func NewNominatimClient(cfg NominatimConfig) *NominatimClient {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultNominatimURL
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	limit := cfg.ResultLimit
	if limit <= 0 {
		limit = defaultResultLimit
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &NominatimClient{
		baseURL:    base,
		userAgent:  ua,
		limit:      limit,
		httpClient: client,
		limiter:    limiter,
	}
}

type nominatimPlace struct {
	PlaceID     any    `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Error       string `json:"error"`
}

// Search resolves free text into at most ResultLimit candidates.
func (c *NominatimClient) Search(ctx context.Context, query string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(c.limit))

	var places []nominatimPlace
	if err := c.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(places))
	for _, p := range places {
		lat, lng, err := parseLatLon(p.Lat, p.Lon)
		if err != nil {
			return nil, fmt.Errorf("nominatim search: %w", err)
		}
		candidates = append(candidates, Candidate{
			Label:     p.DisplayName,
			Latitude:  lat,
			Longitude: lng,
			SourceID:  placeID(p.PlaceID),
		})
	}
	return candidates, nil
}

// Reverse resolves a coordinate pair into a display address.
func (c *NominatimClient) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var p nominatimPlace
	if err := c.get(ctx, "/reverse", params, &p); err != nil {
		return Place{}, err
	}
	if p.Error != "" {
		return Place{}, fmt.Errorf("nominatim reverse: %s", p.Error)
	}
	return Place{Label: p.DisplayName, Latitude: lat, Longitude: lng}, nil
}

func (c *NominatimClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("nominatim rate limit: %w", err)
	}

	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("nominatim request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<12))
		return fmt.Errorf("nominatim: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	dec := json.NewDecoder(io.LimitReader(res.Body, 1<<20))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("nominatim decode: %w", err)
	}
	return nil
}

func parseLatLon(latRaw, lonRaw string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return 0, 0, errors.New("invalid lat " + strconv.Quote(latRaw))
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err != nil {
		return 0, 0, errors.New("invalid lon " + strconv.Quote(lonRaw))
	}
	return lat, lng, nil
}

func placeID(raw any) string {
	if raw == nil {
		return ""
	}
	return fmt.Sprint(raw)
}

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultFetchTimeout bounds a single provider call.
const DefaultFetchTimeout = 5 * time.Second

const owmDefaultURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherClient fetches current conditions from OpenWeatherMap.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenWeatherClient constructs a client against the production API.
func NewOpenWeatherClient(apiKey string, timeout time.Duration) *OpenWeatherClient {
	return NewOpenWeatherClientWithURL(owmDefaultURL, apiKey, timeout)
}

// NewOpenWeatherClientWithURL constructs a client pointing at a custom base URL (for tests).
func NewOpenWeatherClientWithURL(baseURL, apiKey string, timeout time.Duration) *OpenWeatherClient {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type owmResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Fetch retrieves the current weather at the given coordinate.
func (c *OpenWeatherClient) Fetch(ctx context.Context, lat, lon float64) (*Observation, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	endpoint := c.baseURL + "?" + q.Encode()

	var raw owmResponse
	if err := doGet(ctx, c.client, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("openweathermap fetch for %.4f,%.4f: %w", lat, lon, err)
	}
	if len(raw.Weather) == 0 {
		return nil, fmt.Errorf("openweathermap fetch for %.4f,%.4f: no weather conditions in response", lat, lon)
	}

	return &Observation{
		Temperature: raw.Main.Temp,
		Condition:   raw.Weather[0].Main,
		Description: raw.Weather[0].Description,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
	}, nil
}

// doGet performs a GET request and decodes the JSON response into dst.
// The API key travels in the query string, so errors name the host only.
func doGet(ctx context.Context, client *http.Client, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", req.URL.Host, redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", req.URL.Host, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Host, err)
	}

	return nil
}

// redactURLError strips the request URL from a *url.Error.
func redactURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.open-meteo.com/v1"
	defaultTimeout = 10 * time.Second
	forecastDays   = 7
)

// Client fetches 7-day forecasts from the Open-Meteo API. The API is
// unauthenticated, so the only failure modes are transport and payload errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an Open-Meteo forecast client.
func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// openMeteoResponse mirrors the subset of the Open-Meteo payload we consume.
// Daily values arrive as parallel arrays keyed by the time array.
type openMeteoResponse struct {
	Daily struct {
		Time              []string  `json:"time"`
		PrecipitationSum  []float64 `json:"precipitation_sum"`
		PrecipProbability []float64 `json:"precipitation_probability_max"`
		WindGustsMax      []float64 `json:"wind_gusts_10m_max"`
		TemperatureMax    []float64 `json:"temperature_2m_max"`
	} `json:"daily"`
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		Pressure    float64 `json:"surface_pressure"`
	} `json:"current"`
}

// Fetch returns the normalized 7-day forecast and current snapshot for the
// given coordinates. Every failure is wrapped in ErrUnavailable so the risk
// classifier can propagate "forecast unavailable" instead of defaulting.
func (c *Client) Fetch(ctx context.Context, latitude, longitude float64) (Forecast, error) {
	params := url.Values{
		"latitude":      {fmt.Sprintf("%.4f", latitude)},
		"longitude":     {fmt.Sprintf("%.4f", longitude)},
		"daily":         {"precipitation_sum,precipitation_probability_max,wind_gusts_10m_max,temperature_2m_max"},
		"current":       {"temperature_2m,relative_humidity_2m,wind_speed_10m,surface_pressure"},
		"forecast_days": {fmt.Sprintf("%d", forecastDays)},
		"timezone":      {"auto"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return Forecast{}, fmt.Errorf("%w: creating request: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Forecast{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Forecast{}, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Forecast{}, fmt.Errorf("%w: decoding payload: %v", ErrUnavailable, err)
	}

	return normalize(payload)
}

func normalize(payload openMeteoResponse) (Forecast, error) {
	d := payload.Daily
	n := len(d.Time)
	if n == 0 {
		return Forecast{}, fmt.Errorf("%w: empty daily window", ErrUnavailable)
	}
	if len(d.PrecipitationSum) != n || len(d.PrecipProbability) != n ||
		len(d.WindGustsMax) != n || len(d.TemperatureMax) != n {
		return Forecast{}, fmt.Errorf("%w: mismatched daily arrays", ErrUnavailable)
	}

	days := make([]Day, n)
	for i := range n {
		date, err := time.Parse("2006-01-02", d.Time[i])
		if err != nil {
			return Forecast{}, fmt.Errorf("%w: parsing day %q: %v", ErrUnavailable, d.Time[i], err)
		}
		days[i] = Day{
			Date:              date,
			PrecipitationMM:   d.PrecipitationSum[i],
			PrecipProbability: d.PrecipProbability[i],
			WindGustKmh:       d.WindGustsMax[i],
			MaxTempC:          d.TemperatureMax[i],
		}
	}

	return Forecast{
		Days: days,
		Current: Conditions{
			TemperatureC: payload.Current.Temperature,
			HumidityPct:  payload.Current.Humidity,
			WindSpeedKmh: payload.Current.WindSpeed,
			PressureHPa:  payload.Current.Pressure,
		},
	}, nil
}

package forecast

import (
	"errors"
	"time"
)

// ErrUnavailable is returned when the upstream forecast source cannot be
// reached or returns an unusable payload. Callers must propagate it rather
// than substitute a default forecast.
var ErrUnavailable = errors.New("forecast unavailable")

// Day is one normalized day of the 7-day forecast. Immutable once fetched.
type Day struct {
	Date              time.Time `json:"date"`
	PrecipitationMM   float64   `json:"precipitation_mm"`
	PrecipProbability float64   `json:"precip_probability"`
	WindGustKmh       float64   `json:"wind_gust_kmh"`
	MaxTempC          float64   `json:"max_temp_c"`
}

// Conditions is the current-weather snapshot taken alongside the daily forecast.
type Conditions struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	PressureHPa  float64 `json:"pressure_hpa"`
}

// Forecast bundles the daily window with the current snapshot for one location.
type Forecast struct {
	Days    []Day      `json:"days"`
	Current Conditions `json:"current"`
}

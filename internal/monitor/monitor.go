// Package monitor sweeps watched locations on an interval, keeping the latest
// risk predictions and alerts available without an inline forecast fetch.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/alert"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/forecast"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
)

// Location is one watched place.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// DefaultLocations are the cities swept when no explicit watch list is given.
var DefaultLocations = []Location{
	{Name: "Mumbai", Lat: 19.0760, Lon: 72.8777},
	{Name: "Delhi", Lat: 28.7041, Lon: 77.1025},
	{Name: "Chennai", Lat: 13.0827, Lon: 80.2707},
	{Name: "Kolkata", Lat: 22.5726, Lon: 88.3639},
	{Name: "Bhubaneswar", Lat: 20.2961, Lon: 85.8245},
	{Name: "Visakhapatnam", Lat: 17.6868, Lon: 83.2185},
}

// Fetcher supplies forecasts. Satisfied by forecast.Client.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (forecast.Forecast, error)
}

// Snapshot is the monitor's view of one location after a sweep.
type Snapshot struct {
	Location   Location        `json:"location"`
	Prediction risk.Prediction `json:"prediction"`
	Alerts     []alert.Alert   `json:"alerts"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// Monitor periodically refreshes predictions for its watch list.
type Monitor struct {
	fetcher   Fetcher
	locations []Location
	interval  time.Duration
	logger    *slog.Logger
	clock     clockwork.Clock

	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// New creates a monitor over the given locations. An empty list falls back to
// DefaultLocations.
func New(fetcher Fetcher, locations []Location, interval time.Duration, logger *slog.Logger) *Monitor {
	return newMonitor(fetcher, locations, interval, logger, clockwork.NewRealClock())
}

// NewWithClock creates a monitor driven by the supplied clock (for testing).
func NewWithClock(fetcher Fetcher, locations []Location, interval time.Duration, logger *slog.Logger, clk clockwork.Clock) *Monitor {
	return newMonitor(fetcher, locations, interval, logger, clk)
}

func newMonitor(fetcher Fetcher, locations []Location, interval time.Duration, logger *slog.Logger, clk clockwork.Clock) *Monitor {
	if len(locations) == 0 {
		locations = DefaultLocations
	}
	return &Monitor{
		fetcher:   fetcher,
		locations: locations,
		interval:  interval,
		logger:    logger,
		clock:     clk,
		snapshots: make(map[string]Snapshot),
	}
}

// Run sweeps immediately, then on every interval tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.sweep(ctx)

	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m.sweep(ctx)
		}
	}
}

func (m *Monitor) sweep(ctx context.Context) {
	for _, loc := range m.locations {
		if ctx.Err() != nil {
			return
		}

		fc, err := m.fetcher.Fetch(ctx, loc.Lat, loc.Lon)
		if err != nil {
			m.logger.Warn("sweep fetch failed", "location", loc.Name, "error", err)
			continue
		}

		pred := risk.Classify(fc.Days)
		snap := Snapshot{
			Location:   loc,
			Prediction: pred,
			Alerts:     alert.FromPrediction(pred, loc.Name),
			FetchedAt:  m.clock.Now(),
		}

		m.mu.Lock()
		m.snapshots[loc.Name] = snap
		m.mu.Unlock()

		if pred.Overall == risk.SeverityHigh {
			m.logger.Warn("high risk detected",
				"location", loc.Name,
				"hazards", pred.HazardTypes())
		}
	}
}

// Snapshots returns the latest sweep results in watch-list order. Locations
// not yet swept successfully are absent.
func (m *Monitor) Snapshots() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Snapshot, 0, len(m.locations))
	for _, loc := range m.locations {
		if snap, ok := m.snapshots[loc.Name]; ok {
			out = append(out, snap)
		}
	}
	return out
}

// Alerts flattens current alerts across every watched location.
func (m *Monitor) Alerts() []alert.Alert {
	var out []alert.Alert
	for _, snap := range m.Snapshots() {
		out = append(out, snap.Alerts...)
	}
	return out
}

// Package alert derives human-readable advisories from risk predictions.
package alert

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
)

// Level orders alerts for display. Critical outranks severe, and so on down.
type Level string

const (
	LevelCritical Level = "critical"
	LevelSevere   Level = "severe"
	LevelModerate Level = "moderate"
	LevelAdvisory Level = "advisory"
)

// Alert is one issued advisory for a location.
type Alert struct {
	ID       string      `json:"id"`
	Level    Level       `json:"level"`
	Hazard   risk.Hazard `json:"hazard"`
	Location string      `json:"location"`
	Headline string      `json:"headline"`
	Date     string      `json:"date"`
}

// levelFor maps a hazard assessment to an alert level. A high-severity hazard
// on the first forecast day is imminent and escalates to critical.
func levelFor(sev risk.Severity, dayIndex int) Level {
	switch sev {
	case risk.SeverityHigh:
		if dayIndex == 0 {
			return LevelCritical
		}
		return LevelSevere
	case risk.SeverityMedium:
		return LevelModerate
	default:
		return LevelAdvisory
	}
}

// FromPrediction issues one alert per triggered hazard, ordered by day then
// hazard position within the day.
func FromPrediction(p risk.Prediction, location string) []Alert {
	var alerts []Alert
	for i, day := range p.Days {
		for _, h := range day.Hazards {
			level := levelFor(h.Severity, i)
			alerts = append(alerts, Alert{
				ID:       uuid.NewString(),
				Level:    level,
				Hazard:   h.Hazard,
				Location: location,
				Headline: headline(level, h, location),
				Date:     day.Date.Format("Mon 02 Jan"),
			})
		}
	}
	return alerts
}

func headline(level Level, h risk.Assessment, location string) string {
	place := location
	if place == "" {
		place = "your area"
	}
	return fmt.Sprintf("%s %s alert for %s: %s",
		strings.ToUpper(string(level)), h.Hazard, place, h.Indicator)
}

// Summaries renders alerts as one-line strings for prompt composition.
func Summaries(alerts []Alert) []string {
	summaries := make([]string, 0, len(alerts))
	for _, a := range alerts {
		summaries = append(summaries, a.Headline+" ("+a.Date+")")
	}
	return summaries
}

package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/forecast"
)

// Severity is the ordered hazard severity tier.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// rank orders severities for comparisons; unknown values rank lowest.
func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Max returns the higher of two severities.
func (s Severity) Max(other Severity) Severity {
	if other.rank() > s.rank() {
		return other
	}
	return s
}

// Hazard is a disaster category tracked by the classifier.
type Hazard string

const (
	HazardFlood    Hazard = "flood"
	HazardCyclone  Hazard = "cyclone"
	HazardHeatwave Hazard = "heatwave"
)

// Classification thresholds. A single canonical table; the trigger bound is
// strict (">"), matching the severity bounds below.
const (
	floodPrecipTriggerMM   = 30
	floodProbTriggerPct    = 70
	floodPrecipMediumMM    = 50
	floodPrecipHighMM      = 100
	cycloneGustTriggerKmh  = 50
	cycloneGustMediumKmh   = 60
	cycloneGustHighKmh     = 90
	heatwaveTempTriggerC   = 38
	heatwaveTempMediumC    = 40
	heatwaveTempHighC      = 45
)

// Assessment is one triggered hazard on one day. Read-only downstream.
type Assessment struct {
	Day       time.Time `json:"day"`
	Hazard    Hazard    `json:"hazard_type"`
	Severity  Severity  `json:"severity"`
	Indicator string    `json:"indicator_text"`
	Actions   []string  `json:"recommended_actions"`
}

// DayPrediction carries all hazards triggered on one day plus the day's risk level.
type DayPrediction struct {
	Date    time.Time    `json:"date"`
	Hazards []Assessment `json:"hazards"`
	Risk    Severity     `json:"day_risk_level"`
}

// Prediction is the classifier output for a full forecast window.
type Prediction struct {
	Days    []DayPrediction `json:"days"`
	Overall Severity        `json:"overall_risk"`
	Summary string          `json:"summary"`
}

// HazardTypes returns the distinct hazards triggered anywhere in the window,
// in first-occurrence order.
func (p Prediction) HazardTypes() []Hazard {
	var out []Hazard
	seen := make(map[Hazard]bool)
	for _, day := range p.Days {
		for _, h := range day.Hazards {
			if !seen[h.Hazard] {
				seen[h.Hazard] = true
				out = append(out, h.Hazard)
			}
		}
	}
	return out
}

// HasSeverity reports whether any hazard in the window has the given severity.
func (p Prediction) HasSeverity(s Severity) bool {
	for _, day := range p.Days {
		for _, h := range day.Hazards {
			if h.Severity == s {
				return true
			}
		}
	}
	return false
}

// Fixed action lists, static per hazard type. Severity does not vary them.
var hazardActions = map[Hazard][]string{
	HazardFlood: {
		"Move to higher ground and avoid low-lying areas",
		"Never walk or drive through flood water",
		"Switch off electricity at the mains if water enters your home",
		"Keep emergency supplies and documents in a waterproof bag",
	},
	HazardCyclone: {
		"Stay indoors and away from windows",
		"Secure or store loose outdoor objects",
		"Stock drinking water, food, and charged power banks",
		"Follow official evacuation orders immediately",
	},
	HazardHeatwave: {
		"Stay indoors between 11 AM and 4 PM",
		"Drink water every 15-20 minutes even when not thirsty",
		"Wear light, loose cotton clothing",
		"Check on elderly neighbours and never leave children or pets in vehicles",
	},
}

// Actions returns the fixed recommended-action list for a hazard.
func Actions(h Hazard) []string {
	return hazardActions[h]
}

// Classify evaluates each forecast day independently against the fixed
// thresholds and aggregates per-day and overall risk. Pure: identical
// forecasts always produce identical predictions.
func Classify(days []forecast.Day) Prediction {
	out := Prediction{Overall: SeverityLow}
	for _, d := range days {
		dp := classifyDay(d)
		out.Overall = out.Overall.Max(dp.Risk)
		out.Days = append(out.Days, dp)
	}
	out.Summary = summarize(out)
	return out
}

func classifyDay(d forecast.Day) DayPrediction {
	dp := DayPrediction{Date: d.Date, Risk: SeverityLow}

	if d.PrecipitationMM > floodPrecipTriggerMM || d.PrecipProbability > floodProbTriggerPct {
		sev := SeverityLow
		switch {
		case d.PrecipitationMM > floodPrecipHighMM:
			sev = SeverityHigh
		case d.PrecipitationMM > floodPrecipMediumMM:
			sev = SeverityMedium
		}
		dp.Hazards = append(dp.Hazards, Assessment{
			Day:       d.Date,
			Hazard:    HazardFlood,
			Severity:  sev,
			Indicator: fmt.Sprintf("%.0f mm rain, %.0f%% probability", d.PrecipitationMM, d.PrecipProbability),
			Actions:   hazardActions[HazardFlood],
		})
	}

	if d.WindGustKmh > cycloneGustTriggerKmh {
		sev := SeverityLow
		switch {
		case d.WindGustKmh > cycloneGustHighKmh:
			sev = SeverityHigh
		case d.WindGustKmh > cycloneGustMediumKmh:
			sev = SeverityMedium
		}
		dp.Hazards = append(dp.Hazards, Assessment{
			Day:       d.Date,
			Hazard:    HazardCyclone,
			Severity:  sev,
			Indicator: fmt.Sprintf("wind gusts up to %.0f km/h", d.WindGustKmh),
			Actions:   hazardActions[HazardCyclone],
		})
	}

	if d.MaxTempC > heatwaveTempTriggerC {
		sev := SeverityLow
		switch {
		case d.MaxTempC > heatwaveTempHighC:
			sev = SeverityHigh
		case d.MaxTempC > heatwaveTempMediumC:
			sev = SeverityMedium
		}
		dp.Hazards = append(dp.Hazards, Assessment{
			Day:       d.Date,
			Hazard:    HazardHeatwave,
			Severity:  sev,
			Indicator: fmt.Sprintf("maximum temperature %.1f C", d.MaxTempC),
			Actions:   hazardActions[HazardHeatwave],
		})
	}

	// Any triggered hazard escalates the day to at least medium; a high
	// hazard forces high. The day is "low" only when nothing triggered.
	if len(dp.Hazards) > 0 {
		dp.Risk = SeverityMedium
		for _, h := range dp.Hazards {
			if h.Severity == SeverityHigh {
				dp.Risk = SeverityHigh
				break
			}
		}
	}

	return dp
}

// summarize builds the textual context summary: per-hazard counts and the
// action list of the highest-priority hazard (highest severity, then
// earliest date).
func summarize(p Prediction) string {
	counts := make(map[Hazard]int)
	var top *Assessment
	for i := range p.Days {
		for j := range p.Days[i].Hazards {
			h := &p.Days[i].Hazards[j]
			counts[h.Hazard]++
			if top == nil || h.Severity.rank() > top.Severity.rank() {
				top = h
			}
		}
	}

	if top == nil {
		return "No significant weather hazards detected in the next 7 days."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall risk: %s.", p.Overall)
	for _, h := range []Hazard{HazardFlood, HazardCyclone, HazardHeatwave} {
		if counts[h] > 0 {
			fmt.Fprintf(&sb, " %s risk on %d day(s).", h, counts[h])
		}
	}
	fmt.Fprintf(&sb, "\nPriority hazard: %s (%s) on %s — %s.\nRecommended actions:\n",
		top.Hazard, top.Severity, top.Day.Format("Mon 02 Jan"), top.Indicator)
	for _, a := range top.Actions {
		fmt.Fprintf(&sb, "- %s\n", a)
	}
	return strings.TrimRight(sb.String(), "\n")
}

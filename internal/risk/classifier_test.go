package risk

import (
	"strings"
	"testing"
	"time"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/forecast"
)

func week(t *testing.T, mutate func(days []forecast.Day)) []forecast.Day {
	t.Helper()
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	days := make([]forecast.Day, 7)
	for i := range days {
		days[i] = forecast.Day{
			Date:              base.AddDate(0, 0, i),
			PrecipitationMM:   2,
			PrecipProbability: 10,
			WindGustKmh:       20,
			MaxTempC:          30,
		}
	}
	if mutate != nil {
		mutate(days)
	}
	return days
}

func TestClassify_QuietWeekIsLow(t *testing.T) {
	p := Classify(week(t, nil))
	if p.Overall != SeverityLow {
		t.Fatalf("overall = %s, want low", p.Overall)
	}
	for _, d := range p.Days {
		if len(d.Hazards) != 0 || d.Risk != SeverityLow {
			t.Errorf("day %s: hazards=%d risk=%s, want none/low", d.Date.Format("2006-01-02"), len(d.Hazards), d.Risk)
		}
	}
}

func TestClassify_FloodSeverityTiers(t *testing.T) {
	cases := []struct {
		precip float64
		want   Severity
	}{
		{35, SeverityLow},
		{60, SeverityMedium},
		{101, SeverityHigh},
		{120, SeverityHigh},
	}
	for _, tc := range cases {
		p := Classify(week(t, func(days []forecast.Day) {
			days[3].PrecipitationMM = tc.precip
		}))
		hazards := p.Days[3].Hazards
		if len(hazards) != 1 || hazards[0].Hazard != HazardFlood {
			t.Fatalf("precip %.0f: expected a single flood hazard, got %+v", tc.precip, hazards)
		}
		if hazards[0].Severity != tc.want {
			t.Errorf("precip %.0f: severity = %s, want %s", tc.precip, hazards[0].Severity, tc.want)
		}
	}
}

func TestClassify_FloodTriggersOnProbabilityAlone(t *testing.T) {
	p := Classify(week(t, func(days []forecast.Day) {
		days[0].PrecipProbability = 85
	}))
	if len(p.Days[0].Hazards) != 1 || p.Days[0].Hazards[0].Hazard != HazardFlood {
		t.Fatalf("expected flood triggered on probability, got %+v", p.Days[0].Hazards)
	}
	if p.Days[0].Hazards[0].Severity != SeverityLow {
		t.Errorf("severity = %s, want low", p.Days[0].Hazards[0].Severity)
	}
}

func TestClassify_CycloneMediumBand(t *testing.T) {
	for _, gust := range []float64{61, 75, 90} {
		p := Classify(week(t, func(days []forecast.Day) {
			days[1].WindGustKmh = gust
		}))
		h := p.Days[1].Hazards
		if len(h) != 1 || h[0].Hazard != HazardCyclone {
			t.Fatalf("gust %.0f: expected cyclone hazard, got %+v", gust, h)
		}
		if h[0].Severity != SeverityMedium {
			t.Errorf("gust %.0f: severity = %s, want medium", gust, h[0].Severity)
		}
	}
}

func TestClassify_HeatwaveTiers(t *testing.T) {
	cases := []struct {
		temp float64
		want Severity
	}{
		{39, SeverityLow},
		{42, SeverityMedium},
		{46, SeverityHigh},
	}
	for _, tc := range cases {
		p := Classify(week(t, func(days []forecast.Day) {
			days[5].MaxTempC = tc.temp
		}))
		h := p.Days[5].Hazards
		if len(h) != 1 || h[0].Severity != tc.want {
			t.Errorf("temp %.0f: got %+v, want severity %s", tc.temp, h, tc.want)
		}
	}
}

func TestClassify_TriggeredDayNeverLow(t *testing.T) {
	// A single low-severity hazard still escalates the day to medium.
	p := Classify(week(t, func(days []forecast.Day) {
		days[2].WindGustKmh = 55
	}))
	if p.Days[2].Hazards[0].Severity != SeverityLow {
		t.Fatalf("setup: hazard severity = %s, want low", p.Days[2].Hazards[0].Severity)
	}
	if p.Days[2].Risk != SeverityMedium {
		t.Errorf("day risk = %s, want medium", p.Days[2].Risk)
	}
}

func TestClassify_OverallIsMaxAcrossDays(t *testing.T) {
	p := Classify(week(t, func(days []forecast.Day) {
		days[1].WindGustKmh = 70      // medium
		days[4].PrecipitationMM = 120 // high
	}))
	if p.Overall != SeverityHigh {
		t.Fatalf("overall = %s, want high", p.Overall)
	}
	if p.Days[4].Risk != SeverityHigh {
		t.Errorf("day 4 risk = %s, want high", p.Days[4].Risk)
	}
}

func TestClassify_SummaryNamesPriorityHazard(t *testing.T) {
	p := Classify(week(t, func(days []forecast.Day) {
		days[2].MaxTempC = 41         // medium heatwave
		days[4].PrecipitationMM = 120 // high flood
	}))
	if got := p.Summary; !strings.Contains(got, "flood") {
		t.Errorf("summary should name the high flood hazard, got %q", got)
	}
	if !strings.Contains(p.Summary, "heatwave risk on 1 day") {
		t.Errorf("summary missing heatwave count: %q", p.Summary)
	}
}

func TestHazardTypes_FirstOccurrenceOrder(t *testing.T) {
	p := Classify(week(t, func(days []forecast.Day) {
		days[0].MaxTempC = 41
		days[1].PrecipitationMM = 60
		days[2].MaxTempC = 46
	}))
	got := p.HazardTypes()
	if len(got) != 2 || got[0] != HazardHeatwave || got[1] != HazardFlood {
		t.Fatalf("hazard types = %v, want [heatwave flood]", got)
	}
}

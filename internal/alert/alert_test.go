package alert

import (
	"strings"
	"testing"
	"time"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
)

func day(offset int, hazards ...risk.Assessment) risk.DayPrediction {
	return risk.DayPrediction{
		Date:    time.Date(2026, 9, 1+offset, 0, 0, 0, 0, time.UTC),
		Hazards: hazards,
	}
}

func TestFromPredictionLevels(t *testing.T) {
	p := risk.Prediction{
		Days: []risk.DayPrediction{
			day(0, risk.Assessment{Hazard: risk.HazardFlood, Severity: risk.SeverityHigh, Indicator: "120mm expected"}),
			day(1, risk.Assessment{Hazard: risk.HazardCyclone, Severity: risk.SeverityHigh, Indicator: "gusts to 95 km/h"}),
			day(2, risk.Assessment{Hazard: risk.HazardHeatwave, Severity: risk.SeverityMedium, Indicator: "41C"}),
			day(3, risk.Assessment{Hazard: risk.HazardFlood, Severity: risk.SeverityLow, Indicator: "35mm expected"}),
		},
	}

	alerts := FromPrediction(p, "Mumbai")
	if len(alerts) != 4 {
		t.Fatalf("got %d alerts, want 4", len(alerts))
	}

	want := []Level{LevelCritical, LevelSevere, LevelModerate, LevelAdvisory}
	for i, lvl := range want {
		if alerts[i].Level != lvl {
			t.Errorf("alert %d level = %q, want %q", i, alerts[i].Level, lvl)
		}
	}

	// An imminent high hazard is critical only on the first day.
	if alerts[0].Level != LevelCritical || alerts[1].Level != LevelSevere {
		t.Errorf("imminence escalation wrong: %q then %q", alerts[0].Level, alerts[1].Level)
	}
}

func TestFromPredictionQuietWeek(t *testing.T) {
	p := risk.Prediction{Days: []risk.DayPrediction{day(0), day(1), day(2)}}
	if alerts := FromPrediction(p, "Mumbai"); len(alerts) != 0 {
		t.Errorf("quiet week issued %d alerts", len(alerts))
	}
}

func TestHeadlineContent(t *testing.T) {
	p := risk.Prediction{
		Days: []risk.DayPrediction{
			day(0, risk.Assessment{Hazard: risk.HazardFlood, Severity: risk.SeverityHigh, Indicator: "120mm expected"}),
		},
	}

	alerts := FromPrediction(p, "Chennai")
	h := alerts[0].Headline
	for _, part := range []string{"CRITICAL", "flood", "Chennai", "120mm expected"} {
		if !strings.Contains(h, part) {
			t.Errorf("headline missing %q: %q", part, h)
		}
	}
	if alerts[0].ID == "" {
		t.Error("alert has no ID")
	}
}

func TestSummaries(t *testing.T) {
	p := risk.Prediction{
		Days: []risk.DayPrediction{
			day(0, risk.Assessment{Hazard: risk.HazardFlood, Severity: risk.SeverityMedium, Indicator: "60mm expected"}),
		},
	}

	summaries := Summaries(FromPrediction(p, ""))
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if !strings.Contains(summaries[0], "your area") {
		t.Errorf("empty location should render as your area: %q", summaries[0])
	}
	if !strings.Contains(summaries[0], "Tue 01 Sep") {
		t.Errorf("summary missing date: %q", summaries[0])
	}
}

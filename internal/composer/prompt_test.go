package composer

import (
	"strings"
	"testing"
	"time"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/entity"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/forecast"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/knowledge"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/responder"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
)

func TestCompose_PersonaOnly(t *testing.T) {
	out := Compose(Input{})
	if !strings.Contains(out, "SKYNETRA") {
		t.Fatalf("persona missing: %q", out)
	}
	for _, header := range []string{"[Current Conditions", "[Active Alerts]", "[7-Day Risk Outlook", "[Detected Context]", "[Recent Conversation]", "[Safety Knowledge]", "Respond in"} {
		if strings.Contains(out, header) {
			t.Errorf("empty input should omit section %q", header)
		}
	}
}

func TestCompose_SectionOrder(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	pred := risk.Classify([]forecast.Day{{Date: day, PrecipitationMM: 120}})

	out := Compose(Input{
		LocationName:   "Mumbai",
		Current:        &forecast.Conditions{TemperatureC: 31, HumidityPct: 80, WindSpeedKmh: 10, PressureHPa: 1002},
		AlertSummaries: []string{"SEVERE flood warning for Mumbai"},
		Prediction:     &pred,
		Entities:       []entity.Entity{{Type: entity.TypeDisaster, Value: "flood"}},
		History:        []Turn{{Role: "user", Content: "hello"}},
		Knowledge:      knowledge.Retrieve("flood", pred),
		Language:       "hi",
	})

	order := []string{
		"SKYNETRA",
		"[Current Conditions — Mumbai]",
		"[Active Alerts]",
		"[7-Day Risk Outlook",
		"[Detected Context]",
		"[Recent Conversation]",
		"[Safety Knowledge]",
		"Respond in Hindi.",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		if idx < 0 {
			t.Fatalf("section %q missing from prompt:\n%s", marker, out)
		}
		if idx < last {
			t.Errorf("section %q out of order", marker)
		}
		last = idx
	}
}

func TestCompose_RiskSummaryTopThreeDays(t *testing.T) {
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	days := []forecast.Day{
		{Date: base, WindGustKmh: 55},                       // medium day
		{Date: base.AddDate(0, 0, 1), PrecipitationMM: 120}, // high day
		{Date: base.AddDate(0, 0, 2), MaxTempC: 39},         // medium day
		{Date: base.AddDate(0, 0, 3), MaxTempC: 42},         // medium day
		{Date: base.AddDate(0, 0, 4)},                       // quiet
	}
	pred := risk.Classify(days)

	out := Compose(Input{Prediction: &pred})
	if strings.Count(out, "\n- ") != 3 {
		t.Fatalf("expected 3 risk day lines, got %d:\n%s", strings.Count(out, "\n- "), out)
	}
	// The high-risk day sorts first.
	highIdx := strings.Index(out, "Wed 02 Sep")
	if highIdx < 0 {
		t.Fatalf("high risk day missing:\n%s", out)
	}
	if quiet := strings.Index(out, "Sat 05 Sep"); quiet >= 0 {
		t.Errorf("quiet day should not appear in risk summary")
	}
}

func TestLanguageDirectivesHaveOfflineTemplates(t *testing.T) {
	// Every language the composer can direct a provider toward must also be
	// answerable offline, or chain exhaustion would flip the reply to English.
	for lang := range languageNames {
		if !responder.Supports(lang) {
			t.Errorf("directive language %q has no offline responder templates", lang)
		}
	}
}

func TestCompose_DefaultLanguageOmitsDirective(t *testing.T) {
	out := Compose(Input{Language: "en"})
	if strings.Contains(out, "Respond in") {
		t.Errorf("default language should omit directive: %q", out)
	}
	out = Compose(Input{Language: "xx"})
	if strings.Contains(out, "Respond in") {
		t.Errorf("unknown language should omit directive: %q", out)
	}
}

func TestCompose_HistoryBounded(t *testing.T) {
	turns := make([]Turn, 9)
	for i := range turns {
		turns[i] = Turn{Role: "user", Content: strings.Repeat("x", i+1)}
	}
	out := Compose(Input{History: turns})
	if strings.Contains(out, "\nuser: x\n") {
		t.Errorf("oldest turn should be dropped from bounded history")
	}
	if !strings.Contains(out, "user: "+strings.Repeat("x", 9)) {
		t.Errorf("latest turn missing")
	}
}

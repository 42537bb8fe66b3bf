package responder

import (
	"strings"
	"testing"
	"time"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/entity"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
)

func TestRespondAlwaysHasContactNumber(t *testing.T) {
	queries := []string{
		"",
		"xyzzy qwerty asdf",
		"is there flood risk this week",
		"cyclone warning for chennai",
		"it is so hot today",
		"hello",
	}
	for _, q := range queries {
		for _, lang := range []string{"en", "hi", "xx"} {
			got := Respond(q, nil, nil, lang)
			if got == "" {
				t.Errorf("Respond(%q, %q) returned empty text", q, lang)
				continue
			}
			if !strings.Contains(got, "112") && !strings.Contains(got, "108") {
				t.Errorf("Respond(%q, %q) carries no contact number: %q", q, lang, got)
			}
		}
	}
}

func TestRespondHighSeverityTakesPrecedence(t *testing.T) {
	pred := &risk.Prediction{
		Days: []risk.DayPrediction{
			{
				Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				Hazards: []risk.Assessment{
					{Hazard: risk.HazardFlood, Severity: risk.SeverityHigh},
				},
				Risk: risk.SeverityHigh,
			},
		},
		Overall: risk.SeverityHigh,
	}

	// The query asks about heat but the forecast carries a high flood hazard.
	got := Respond("it is hot today", nil, pred, "en")
	if !strings.Contains(got, "FLOOD WARNING") {
		t.Errorf("high flood hazard should route to the urgent flood template, got %q", got)
	}
}

func TestRespondUrgentPicksHighestSeverity(t *testing.T) {
	pred := &risk.Prediction{
		Days: []risk.DayPrediction{
			{
				Hazards: []risk.Assessment{
					{Hazard: risk.HazardHeatwave, Severity: risk.SeverityMedium},
					{Hazard: risk.HazardCyclone, Severity: risk.SeverityHigh},
				},
				Risk: risk.SeverityHigh,
			},
		},
		Overall: risk.SeverityHigh,
	}

	got := Respond("", nil, pred, "en")
	if !strings.Contains(got, "CYCLONE WARNING") {
		t.Errorf("expected urgent cyclone template, got %q", got)
	}
}

func TestRespondEntityBeatsKeyword(t *testing.T) {
	entities := []entity.Entity{
		{Type: entity.TypeDisaster, Value: "cyclone"},
	}

	// The raw query mentions heat first; the extracted entity wins.
	got := Respond("heat and storm", entities, nil, "en")
	if !strings.Contains(got, "Cyclone safety guidance") {
		t.Errorf("primary disaster entity should route the template, got %q", got)
	}
}

func TestRespondKeywordFallback(t *testing.T) {
	got := Respond("will it rain a lot tomorrow", nil, nil, "en")
	if !strings.Contains(got, "Flood safety guidance") {
		t.Errorf("rain keyword should route to the flood template, got %q", got)
	}
}

func TestRespondEmbeddedKeywordsIgnored(t *testing.T) {
	// "photo" embeds "hot": it must not route to the heatwave template.
	got := Respond("can I send you a photo", nil, nil, "en")
	if !strings.Contains(got, "SKYNETRA") {
		t.Errorf("expected capability message, got %q", got)
	}
	if strings.Contains(got, "Heatwave safety guidance") {
		t.Errorf("embedded keyword routed to heatwave template: %q", got)
	}
}

func TestSupports(t *testing.T) {
	for _, lang := range []string{"en", "hi"} {
		if !Supports(lang) {
			t.Errorf("Supports(%q) = false", lang)
		}
	}
	for _, lang := range []string{"ta", "fr", ""} {
		if Supports(lang) {
			t.Errorf("Supports(%q) = true", lang)
		}
	}
}

func TestRespondGenericGreeting(t *testing.T) {
	got := Respond("what can you do", nil, nil, "en")
	if !strings.Contains(got, "SKYNETRA") {
		t.Errorf("expected capability message, got %q", got)
	}
	for _, number := range []string{"112", "101", "108", "100"} {
		if !strings.Contains(got, number) {
			t.Errorf("generic message missing contact %s: %q", number, got)
		}
	}
}

func TestRespondHindi(t *testing.T) {
	got := Respond("बाढ़ का खतरा है क्या", nil, nil, "hi")
	if !strings.Contains(got, "बाढ़") {
		t.Errorf("expected Hindi flood guidance, got %q", got)
	}
	if !strings.Contains(got, "112") {
		t.Errorf("Hindi flood guidance missing contact number: %q", got)
	}
}

func TestRespondUnsupportedLanguageFallsBack(t *testing.T) {
	got := Respond("flood risk", nil, nil, "fr")
	if !strings.Contains(got, "Flood safety guidance") {
		t.Errorf("unsupported language should fall back to English, got %q", got)
	}
}

func TestRespondDeterministic(t *testing.T) {
	first := Respond("flood in mumbai", nil, nil, "en")
	for i := 0; i < 5; i++ {
		if got := Respond("flood in mumbai", nil, nil, "en"); got != first {
			t.Fatalf("responder not deterministic: %q vs %q", got, first)
		}
	}
}

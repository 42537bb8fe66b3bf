package knowledge

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
)

func floodPrediction(t *testing.T) risk.Prediction {
	t.Helper()
	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	return risk.Prediction{
		Days: []risk.DayPrediction{{
			Date: day,
			Hazards: []risk.Assessment{{
				Day:      day,
				Hazard:   risk.HazardFlood,
				Severity: risk.SeverityHigh,
			}},
			Risk: risk.SeverityHigh,
		}},
		Overall: risk.SeverityHigh,
	}
}

func categories(frags []Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Category
	}
	return out
}

func TestRetrieve_KeywordMatch(t *testing.T) {
	frags := Retrieve("is there any flood risk this week", risk.Prediction{})
	got := categories(frags)
	want := []string{"flood", "general"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
}

func TestRetrieve_HindiKeywordMatch(t *testing.T) {
	frags := Retrieve("क्या बाढ़ का खतरा है", risk.Prediction{})
	got := categories(frags)
	if len(got) == 0 || got[0] != "flood" {
		t.Fatalf("categories = %v, want flood first", got)
	}
}

func TestRetrieve_UnionOfQueryAndPredictions(t *testing.T) {
	frags := Retrieve("it is so hot today", floodPrediction(t))
	got := categories(frags)
	want := []string{"flood", "heatwave", "general"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
}

func TestRetrieve_EmbeddedKeywordsIgnored(t *testing.T) {
	// "photo" must not fire the "hot" keyword, "know" must not fire anything.
	frags := Retrieve("do you know where I can upload a photo", risk.Prediction{})
	got := categories(frags)
	if !reflect.DeepEqual(got, []string{"general"}) {
		t.Fatalf("categories = %v, want [general]", got)
	}
}

func TestRetrieve_MissFallsBackToGeneral(t *testing.T) {
	frags := Retrieve("xyzzy plugh", risk.Prediction{})
	got := categories(frags)
	if !reflect.DeepEqual(got, []string{"general"}) {
		t.Fatalf("categories = %v, want [general]", got)
	}
}

func TestRetrieve_PhasesCapped(t *testing.T) {
	frags := Retrieve("flood", risk.Prediction{})
	for _, f := range frags {
		for phase, actions := range map[string][]string{
			"before": f.Phases.Before,
			"during": f.Phases.During,
			"after":  f.Phases.After,
		} {
			if len(actions) > maxPhaseActions {
				t.Errorf("%s/%s: %d actions, cap is %d", f.Category, phase, len(actions), maxPhaseActions)
			}
		}
	}
}

func TestRetrieve_Idempotent(t *testing.T) {
	p := floodPrediction(t)
	first := Retrieve("storm and flood warning", p)
	for range 5 {
		if got := Retrieve("storm and flood warning", p); !reflect.DeepEqual(got, first) {
			t.Fatalf("retrieval not idempotent: %v vs %v", categories(got), categories(first))
		}
	}
}

func TestGeneralEntryHasContactNumbers(t *testing.T) {
	e, ok := Lookup(CategoryGeneral)
	if !ok {
		t.Fatal("general entry missing")
	}
	found := false
	for _, a := range e.Phases.Before {
		if strings.Contains(a, "112") {
			found = true
		}
	}
	if !found {
		t.Error("general guidance should carry the 112 emergency number")
	}
}

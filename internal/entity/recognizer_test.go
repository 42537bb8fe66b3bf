package entity

import (
	"reflect"
	"testing"
)

func TestExtract_AllFiveTypes(t *testing.T) {
	got := Extract("Severe flood expected in Mumbai tomorrow, should we evacuate?")
	want := []Entity{
		{TypeSeverity, "severe"},
		{TypeDisaster, "flood"},
		{TypeLocation, "Mumbai"},
		{TypeTime, "tomorrow"},
		{TypeAction, "evacuate"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("entities = %v, want %v", got, want)
	}
}

func TestExtract_PositionOrderDeterminesPrimary(t *testing.T) {
	got := Extract("cyclone or flood, which is worse?")
	primary, ok := Primary(got, TypeDisaster)
	if !ok || primary != "cyclone" {
		t.Fatalf("primary disaster = %q (ok=%v), want cyclone", primary, ok)
	}
}

func TestExtract_MultiWordShadowsSubstring(t *testing.T) {
	got := Extract("heat wave warning for today")
	primary, ok := Primary(got, TypeDisaster)
	if !ok || primary != "heatwave" {
		t.Fatalf("primary disaster = %q (ok=%v), want heatwave", primary, ok)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	const text = "severe storm tonight in Chennai, need shelter now"
	first := Extract(text)
	for range 10 {
		if got := Extract(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("extraction not deterministic: %v vs %v", got, first)
		}
	}
}

func TestExtract_HindiTerms(t *testing.T) {
	got := Extract("क्या आज बाढ़ आएगी")
	if v, ok := Primary(got, TypeDisaster); !ok || v != "flood" {
		t.Fatalf("disaster = %q (ok=%v), want flood", v, ok)
	}
	if v, ok := Primary(got, TypeTime); !ok || v != "today" {
		t.Fatalf("time = %q (ok=%v), want today", v, ok)
	}
}

func TestExtract_NoMatches(t *testing.T) {
	if got := Extract("quarterly report for accounting"); len(got) != 0 {
		t.Fatalf("expected no entities, got %v", got)
	}
}

func TestExtract_WordBoundaries(t *testing.T) {
	// Short English terms must not fire inside longer words.
	got := Extract("how do I know what the weather holds")
	if v, ok := Primary(got, TypeTime); ok {
		t.Fatalf("\"know\" extracted time entity %q", v)
	}
	if got := Extract("preparedness brochures"); len(got) != 0 {
		t.Fatalf("embedded terms extracted entities: %v", got)
	}
}

func TestExtract_PluralForms(t *testing.T) {
	got := Extract("are floods or storms expected")
	if v, ok := Primary(got, TypeDisaster); !ok || v != "flood" {
		t.Fatalf("primary disaster = %q (ok=%v), want flood", v, ok)
	}
	if len(got) != 2 {
		t.Fatalf("entities = %v, want flood and cyclone", got)
	}
}

func TestContainsTerm(t *testing.T) {
	cases := []struct {
		text, term string
		want       bool
	}{
		{"is it hot today", "hot", true},
		{"i took a photo", "hot", false},
		{"come now", "now", true},
		{"i know the area", "now", false},
		{"heavy rain.", "rain", true},
		{"it is draining slowly", "rain", false},
		{"बाढ़ आ रही है", "बाढ़", true},
	}
	for _, tc := range cases {
		if got := ContainsTerm(tc.text, tc.term); got != tc.want {
			t.Errorf("ContainsTerm(%q, %q) = %v, want %v", tc.text, tc.term, got, tc.want)
		}
	}
}

func TestUrgent(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"severe flooding here", true},
		{"we need help right now", true},
		{"emergency in Delhi", true},
		{"will it rain tomorrow", false},
		{"mild heat expected", false},
	}
	for _, tc := range cases {
		if got := Urgent(Extract(tc.text)); got != tc.want {
			t.Errorf("Urgent(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

// Package entity implements fixed-vocabulary entity extraction over raw user
// text. Extraction is pattern-based and deterministic: identical text always
// yields the identical entity list. There is no confidence scoring.
package entity

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Type classifies an extracted token.
type Type string

const (
	TypeDisaster Type = "disaster"
	TypeLocation Type = "location"
	TypeSeverity Type = "severity"
	TypeTime     Type = "time"
	TypeAction   Type = "action"
)

// Entity is one typed token found in the message. Entities of the same type
// are ordered by position in the text; the first is the primary one.
type Entity struct {
	Type  Type   `json:"type"`
	Value string `json:"value"`
}

// term maps a surface form to its canonical entity. Longer surface forms are
// matched first so "right now" wins over "now".
type term struct {
	surface string
	typ     Type
	value   string
}

var vocabulary = []term{
	// Disasters (English + Hindi surface forms, canonical hazard values).
	{"flooding", TypeDisaster, "flood"},
	{"floods", TypeDisaster, "flood"},
	{"flood", TypeDisaster, "flood"},
	{"inundation", TypeDisaster, "flood"},
	{"बाढ़", TypeDisaster, "flood"},
	{"cyclones", TypeDisaster, "cyclone"},
	{"cyclone", TypeDisaster, "cyclone"},
	{"hurricanes", TypeDisaster, "cyclone"},
	{"hurricane", TypeDisaster, "cyclone"},
	{"typhoon", TypeDisaster, "cyclone"},
	{"storms", TypeDisaster, "cyclone"},
	{"storm", TypeDisaster, "cyclone"},
	{"चक्रवात", TypeDisaster, "cyclone"},
	{"तूफान", TypeDisaster, "cyclone"},
	{"heatwave", TypeDisaster, "heatwave"},
	{"heat wave", TypeDisaster, "heatwave"},
	{"लू", TypeDisaster, "heatwave"},
	{"गर्मी", TypeDisaster, "heatwave"},

	// Locations: the monitored-city list.
	{"delhi", TypeLocation, "Delhi"},
	{"mumbai", TypeLocation, "Mumbai"},
	{"chennai", TypeLocation, "Chennai"},
	{"kolkata", TypeLocation, "Kolkata"},
	{"bengaluru", TypeLocation, "Bengaluru"},
	{"bangalore", TypeLocation, "Bengaluru"},
	{"hyderabad", TypeLocation, "Hyderabad"},
	{"ahmedabad", TypeLocation, "Ahmedabad"},
	{"guwahati", TypeLocation, "Guwahati"},
	{"chandigarh", TypeLocation, "Chandigarh"},
	{"bhopal", TypeLocation, "Bhopal"},

	// Severity qualifiers.
	{"catastrophic", TypeSeverity, "extreme"},
	{"extreme", TypeSeverity, "extreme"},
	{"severe", TypeSeverity, "severe"},
	{"critical", TypeSeverity, "severe"},
	{"dangerous", TypeSeverity, "severe"},
	{"emergency", TypeSeverity, "emergency"},
	{"moderate", TypeSeverity, "moderate"},
	{"mild", TypeSeverity, "mild"},

	// Time references.
	{"right now", TypeTime, "now"},
	{"immediately", TypeTime, "now"},
	{"now", TypeTime, "now"},
	{"tonight", TypeTime, "tonight"},
	{"today", TypeTime, "today"},
	{"tomorrow", TypeTime, "tomorrow"},
	{"this week", TypeTime, "week"},
	{"अभी", TypeTime, "now"},
	{"आज", TypeTime, "today"},
	{"कल", TypeTime, "tomorrow"},

	// Requested actions.
	{"evacuate", TypeAction, "evacuate"},
	{"evacuation", TypeAction, "evacuate"},
	{"shelter", TypeAction, "shelter"},
	{"prepare", TypeAction, "prepare"},
	{"preparation", TypeAction, "prepare"},
	{"rescue", TypeAction, "rescue"},
	{"help", TypeAction, "help"},
	{"first aid", TypeAction, "firstaid"},
}

func init() {
	// Longest surface form first, so multi-word terms shadow their substrings.
	sort.SliceStable(vocabulary, func(i, j int) bool {
		return len(vocabulary[i].surface) > len(vocabulary[j].surface)
	})
}

type match struct {
	pos    int
	entity Entity
}

// Extract scans the message for vocabulary terms and returns the typed
// entities in order of first occurrence. Each (type, value) pair appears at
// most once.
func Extract(text string) []Entity {
	lower := strings.ToLower(text)

	var matches []match
	claimed := make([]bool, len(lower))
	for _, t := range vocabulary {
		ascii := isASCII(t.surface)
		offset := 0
		for {
			idx := strings.Index(lower[offset:], t.surface)
			if idx < 0 {
				break
			}
			pos := offset + idx
			offset = pos + 1
			// English terms must sit on word boundaries: "know" must not
			// yield "now". Devanagari terms match as plain substrings.
			if ascii && !wordBounded(lower, pos, len(t.surface)) {
				continue
			}
			if overlaps(claimed, pos, len(t.surface)) {
				continue
			}
			claim(claimed, pos, len(t.surface))
			matches = append(matches, match{pos: pos, entity: Entity{Type: t.typ, Value: t.value}})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })

	var out []Entity
	seen := make(map[Entity]bool)
	for _, m := range matches {
		if seen[m.entity] {
			continue
		}
		seen[m.entity] = true
		out = append(out, m.entity)
	}
	return out
}

// ContainsTerm reports whether lowercased text contains term as a whole word.
// ASCII terms only match on word boundaries; non-ASCII terms match as plain
// substrings.
func ContainsTerm(text, term string) bool {
	if !isASCII(term) {
		return strings.Contains(text, term)
	}
	offset := 0
	for {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return false
		}
		pos := offset + idx
		offset = pos + 1
		if wordBounded(text, pos, len(term)) {
			return true
		}
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// wordBounded reports whether the match at [pos, pos+n) is not embedded in a
// longer ASCII word.
func wordBounded(text string, pos, n int) bool {
	if pos > 0 && isWordByte(text[pos-1]) {
		return false
	}
	if end := pos + n; end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func overlaps(claimed []bool, pos, n int) bool {
	for i := pos; i < pos+n && i < len(claimed); i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}

func claim(claimed []bool, pos, n int) {
	for i := pos; i < pos+n && i < len(claimed); i++ {
		claimed[i] = true
	}
}

// Primary returns the first-extracted value of the given type, if any.
func Primary(entities []Entity, typ Type) (string, bool) {
	for _, e := range entities {
		if e.Type == typ {
			return e.Value, true
		}
	}
	return "", false
}

// Urgent reports whether the entities signal an urgent query: a severe or
// emergency severity qualifier, or an immediate time reference.
func Urgent(entities []Entity) bool {
	for _, e := range entities {
		switch e.Type {
		case TypeSeverity:
			if e.Value == "severe" || e.Value == "extreme" || e.Value == "emergency" {
				return true
			}
		case TypeTime:
			if e.Value == "now" {
				return true
			}
		}
	}
	return false
}

// Package knowledge holds the static hazard safety-guidance table and the
// deterministic keyword/category retriever over it. The table is file-scoped,
// loaded once, and never mutated, so unsynchronized concurrent reads are safe.
package knowledge

import (
	"strings"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/entity"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
)

// CategoryGeneral is the fallback category holding emergency contacts, the
// kit checklist, and the family plan. It is always appended when any
// hazard-specific category is retrieved, and used alone on a retrieval miss.
const CategoryGeneral = "general"

// maxPhaseActions bounds each phase's action list before it reaches the
// prompt composer.
const maxPhaseActions = 3

// Phases groups guidance by disaster phase.
type Phases struct {
	Before []string `json:"before"`
	During []string `json:"during"`
	After  []string `json:"after"`
}

// Entry is one hazard's safety-guidance block.
type Entry struct {
	Category   string `json:"category"`
	Phases     Phases `json:"phases"`
	Thresholds string `json:"trigger_thresholds"`
}

// Fragment is a retrieved, phase-capped guidance block ready for composition.
type Fragment struct {
	Category string
	Phases   Phases
}

var entries = map[string]Entry{
	string(risk.HazardFlood): {
		Category:   string(risk.HazardFlood),
		Thresholds: "precipitation above 30 mm or probability above 70%",
		Phases: Phases{
			Before: []string{
				"Move valuables and documents above expected water level",
				"Keep a waterproof emergency kit with torch, radio, and medicines",
				"Identify the nearest high ground and the route to it",
				"Learn to switch off mains electricity and gas",
			},
			During: []string{
				"Move to higher ground immediately; do not wait for orders",
				"Never walk or drive through moving flood water",
				"Stay away from electrical equipment and fallen power lines",
				"Drink only boiled or bottled water",
			},
			After: []string{
				"Return home only after authorities declare it safe",
				"Photograph damage before cleaning for insurance claims",
				"Discard food touched by flood water",
			},
		},
	},
	string(risk.HazardCyclone): {
		Category:   string(risk.HazardCyclone),
		Thresholds: "wind gusts above 50 km/h",
		Phases: Phases{
			Before: []string{
				"Secure or bring in loose outdoor objects",
				"Tape or board windows; keep curtains closed",
				"Charge phones and power banks; stock water and dry food",
				"Park vehicles away from trees and power lines",
			},
			During: []string{
				"Stay indoors in the strongest part of the building",
				"Keep away from windows and glass doors",
				"Do not go outside during the calm eye of the storm",
				"Listen to official broadcasts for evacuation orders",
			},
			After: []string{
				"Watch for fallen power lines and report them",
				"Avoid damaged buildings until inspected",
				"Help neighbours, especially the elderly",
			},
		},
	},
	string(risk.HazardHeatwave): {
		Category:   string(risk.HazardHeatwave),
		Thresholds: "maximum temperature above 38 C",
		Phases: Phases{
			Before: []string{
				"Stock oral rehydration salts and drinking water",
				"Plan outdoor work for early morning or evening",
				"Prepare a cool, shaded room in the house",
			},
			During: []string{
				"Stay indoors between 11 AM and 4 PM",
				"Drink water every 15-20 minutes even when not thirsty",
				"Never leave children or pets in parked vehicles",
				"Use damp cloths on neck and wrists to cool down",
			},
			After: []string{
				"Continue hydrating for a day after temperatures drop",
				"Watch for signs of heat exhaustion: dizziness, nausea, cramps",
			},
		},
	},
	CategoryGeneral: {
		Category:   CategoryGeneral,
		Thresholds: "always applicable",
		Phases: Phases{
			Before: []string{
				"Save emergency numbers: 112 (emergency), 101 (fire), 108 (ambulance), 100 (police), NDRF 9711077372",
				"Keep an emergency kit: water, dry food, torch, first aid, cash, documents",
				"Agree on a family meeting point and out-of-area contact",
			},
			During: []string{
				"Stay calm and follow instructions from local authorities",
				"Use SMS or messaging apps; keep phone calls short",
				"Help those who need assistance if it is safe to do so",
			},
			After: []string{
				"Register with local relief authorities if displaced",
				"Check structural safety before re-entering buildings",
				"Seek medical help for injuries, however small",
			},
		},
	},
}

// Multi-language keyword lists per hazard category (English + Hindi).
var keywords = map[string][]string{
	string(risk.HazardFlood):    {"flood", "floods", "flooding", "water", "rain", "rains", "inundation", "baadh", "बाढ़", "पानी", "बारिश"},
	string(risk.HazardCyclone):  {"cyclone", "cyclones", "storm", "storms", "hurricane", "wind", "winds", "typhoon", "toofan", "चक्रवात", "तूफान", "आंधी"},
	string(risk.HazardHeatwave): {"heat", "heatwave", "hot", "temperature", "गर्मी", "लू", "तापमान"},
}

// Lookup returns the full (untruncated) entry for a category, if present.
func Lookup(category string) (Entry, bool) {
	e, ok := entries[category]
	return e, ok
}

// Retrieve returns guidance fragments for the union of categories matched by
// query keywords and categories present in the triggered predictions. The
// result order is fixed (flood, cyclone, heatwave, then general) and each
// phase is capped at maxPhaseActions, so identical inputs always yield the
// identical fragment list.
func Retrieve(query string, prediction risk.Prediction) []Fragment {
	wanted := make(map[string]bool)

	lower := strings.ToLower(query)
	for category, terms := range keywords {
		for _, term := range terms {
			// Whole-word matching keeps "hot" from firing inside "photo".
			if entity.ContainsTerm(lower, term) {
				wanted[category] = true
				break
			}
		}
	}

	for _, h := range prediction.HazardTypes() {
		wanted[string(h)] = true
	}

	var out []Fragment
	for _, h := range []risk.Hazard{risk.HazardFlood, risk.HazardCyclone, risk.HazardHeatwave} {
		if wanted[string(h)] {
			out = append(out, truncate(entries[string(h)]))
		}
	}

	// General guidance always closes the list: alone on a miss, appended
	// otherwise.
	out = append(out, truncate(entries[CategoryGeneral]))
	return out
}

func truncate(e Entry) Fragment {
	return Fragment{
		Category: e.Category,
		Phases: Phases{
			Before: capActions(e.Phases.Before),
			During: capActions(e.Phases.During),
			After:  capActions(e.Phases.After),
		},
	}
}

func capActions(actions []string) []string {
	if len(actions) <= maxPhaseActions {
		return actions
	}
	return actions[:maxPhaseActions]
}

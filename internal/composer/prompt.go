// Package composer assembles the system instruction for the provider chain
// from the current snapshot, risk predictions, detected entities, bounded
// conversation history, and retrieved safety knowledge.
package composer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/entity"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/forecast"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/knowledge"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
)

const (
	// DefaultLanguage is the output language assumed when no directive is
	// rendered.
	DefaultLanguage = "en"

	// maxRiskDays bounds the risk summary to the highest-risk days.
	maxRiskDays = 3

	// maxHistoryTurns bounds how much recent conversation is replayed.
	maxHistoryTurns = 5
)

const persona = `You are SKYNETRA, an AI disaster response assistant for India. You provide real-time weather analysis, disaster risk predictions, emergency safety guidelines, and evacuation recommendations.

Guidelines:
1. Be concise but comprehensive.
2. Always include emergency numbers when relevant.
3. Prioritize safety above all.
4. Use the provided real-time data when asked about current conditions.

Emergency numbers (India): Emergency 112, NDRF 9711077372, Fire 101, Ambulance 108, Police 100.`

// languageNames lists the non-default output languages the pipeline supports.
// Every entry must have offline responder templates: a directive language the
// responder cannot answer in would silently flip to English when the provider
// chain is exhausted.
var languageNames = map[string]string{
	"hi": "Hindi",
}

// Turn is one prior conversation turn replayed into the prompt. It mirrors
// the session turn shape without importing the session package.
type Turn struct {
	Role    string
	Content string
}

// Input carries everything one chat turn contributes to the instruction.
// Nil or empty fields cause their section to be omitted entirely.
type Input struct {
	LocationName   string
	Current        *forecast.Conditions
	AlertSummaries []string
	Prediction     *risk.Prediction
	Entities       []entity.Entity
	History        []Turn
	Knowledge      []knowledge.Fragment
	Language       string
}

// Compose renders the instruction block in fixed section order. All length
// control happens upstream (phase caps, history bounds); Compose itself never
// truncates.
func Compose(in Input) string {
	sections := []string{persona}

	if s := snapshotSection(in.LocationName, in.Current); s != "" {
		sections = append(sections, s)
	}
	if s := alertSection(in.AlertSummaries); s != "" {
		sections = append(sections, s)
	}
	if s := riskSection(in.Prediction); s != "" {
		sections = append(sections, s)
	}
	if s := entitySection(in.Entities); s != "" {
		sections = append(sections, s)
	}
	if s := historySection(in.History); s != "" {
		sections = append(sections, s)
	}
	if s := knowledgeSection(in.Knowledge); s != "" {
		sections = append(sections, s)
	}
	if name, ok := languageNames[in.Language]; ok && in.Language != DefaultLanguage {
		sections = append(sections, "Respond in "+name+".")
	}

	return strings.Join(sections, "\n\n")
}

func snapshotSection(location string, c *forecast.Conditions) string {
	if c == nil {
		return ""
	}
	loc := location
	if loc == "" {
		loc = "the user's location"
	}
	return fmt.Sprintf("[Current Conditions — %s]\nTemperature %.1f C, humidity %.0f%%, wind %.1f km/h, pressure %.0f hPa.",
		loc, c.TemperatureC, c.HumidityPct, c.WindSpeedKmh, c.PressureHPa)
}

func alertSection(summaries []string) string {
	if len(summaries) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("[Active Alerts]")
	for _, s := range summaries {
		sb.WriteString("\n- " + s)
	}
	return sb.String()
}

// riskSection renders the top maxRiskDays nonzero-risk days, highest risk
// first, earliest date breaking ties.
func riskSection(p *risk.Prediction) string {
	if p == nil {
		return ""
	}

	var risky []risk.DayPrediction
	for _, d := range p.Days {
		if d.Risk != risk.SeverityLow {
			risky = append(risky, d)
		}
	}
	if len(risky) == 0 {
		return ""
	}

	sort.SliceStable(risky, func(i, j int) bool {
		if risky[i].Risk != risky[j].Risk {
			return risky[i].Risk.Max(risky[j].Risk) == risky[i].Risk
		}
		return risky[i].Date.Before(risky[j].Date)
	})
	if len(risky) > maxRiskDays {
		risky = risky[:maxRiskDays]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[7-Day Risk Outlook — overall %s]", p.Overall)
	for _, d := range risky {
		hazards := make([]string, len(d.Hazards))
		for i, h := range d.Hazards {
			hazards[i] = fmt.Sprintf("%s (%s, %s)", h.Hazard, h.Severity, h.Indicator)
		}
		fmt.Fprintf(&sb, "\n- %s: %s risk — %s", d.Date.Format("Mon 02 Jan"), d.Risk, strings.Join(hazards, "; "))
	}
	return sb.String()
}

func entitySection(entities []entity.Entity) string {
	if len(entities) == 0 {
		return ""
	}
	parts := make([]string, len(entities))
	for i, e := range entities {
		parts[i] = fmt.Sprintf("%s=%s", e.Type, e.Value)
	}
	return "[Detected Context]\n" + strings.Join(parts, ", ")
}

func historySection(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}
	if len(turns) > maxHistoryTurns {
		turns = turns[len(turns)-maxHistoryTurns:]
	}
	var sb strings.Builder
	sb.WriteString("[Recent Conversation]")
	for _, t := range turns {
		fmt.Fprintf(&sb, "\n%s: %s", t.Role, t.Content)
	}
	return sb.String()
}

func knowledgeSection(frags []knowledge.Fragment) string {
	if len(frags) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("[Safety Knowledge]")
	for _, f := range frags {
		fmt.Fprintf(&sb, "\n%s:", f.Category)
		writePhase(&sb, "before", f.Phases.Before)
		writePhase(&sb, "during", f.Phases.During)
		writePhase(&sb, "after", f.Phases.After)
	}
	return sb.String()
}

func writePhase(sb *strings.Builder, name string, actions []string) {
	if len(actions) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n  %s: %s", name, strings.Join(actions, "; "))
}

// Package responder generates offline safety answers. It never fails: every
// routing path returns non-empty localized text carrying an emergency number.
package responder

import (
	"strings"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/entity"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
)

// ID identifies the responder in assistant-turn sources and chat responses,
// next to real provider IDs.
const ID = "rule-based"

const defaultLanguage = "en"

type template struct {
	standard string
	urgent   string
}

// Templates are keyed by language, then hazard. Every entry ends with
// emergency contacts so the contact-number guarantee holds per hazard path.
var templates = map[string]map[risk.Hazard]template{
	"en": {
		risk.HazardFlood: {
			standard: "Flood safety guidance: move valuables and documents to upper floors, keep an emergency kit with drinking water ready, and avoid walking or driving through standing water. Just 15 cm of moving water can knock you down. Stay tuned to local authority updates. Emergency: 112 | NDRF: 9711077372.",
			urgent:   "FLOOD WARNING. Move to higher ground immediately. Do not walk or drive through floodwater. Switch off electricity at the mains if water is entering your home. Take your emergency kit and documents. Call 112 for emergencies, NDRF helpline 9711077372.",
		},
		risk.HazardCyclone: {
			standard: "Cyclone safety guidance: secure loose objects outdoors, tape or board windows, stock drinking water and charged power banks, and identify the strongest interior room of your home. Follow official bulletins for evacuation advice. Emergency: 112 | NDRF: 9711077372.",
			urgent:   "CYCLONE WARNING. Stay indoors away from windows in the strongest interior room. Do not go outside during the eye of the storm. Keep your phone charged and emergency kit at hand. Call 112 for emergencies, NDRF helpline 9711077372.",
		},
		risk.HazardHeatwave: {
			standard: "Heatwave safety guidance: drink water regularly even when not thirsty, avoid outdoor activity between noon and 4 PM, wear light cotton clothing, and check on elderly neighbours. Never leave children or pets in parked vehicles. Emergency: 112 | Ambulance: 108.",
			urgent:   "HEATWAVE WARNING. Stay indoors during peak hours, drink water every 20 minutes, and move anyone showing confusion, cramps, or hot dry skin to shade immediately. Heatstroke is a medical emergency. Call ambulance 108 or emergency 112.",
		},
	},
	"hi": {
		risk.HazardFlood: {
			standard: "बाढ़ सुरक्षा मार्गदर्शन: कीमती सामान और दस्तावेज़ ऊपरी मंज़िल पर रखें, पीने के पानी के साथ आपातकालीन किट तैयार रखें, और भरे पानी में चलने या गाड़ी चलाने से बचें। स्थानीय प्रशासन की सूचनाओं पर ध्यान दें। आपातकाल: 112 | NDRF: 9711077372।",
			urgent:   "बाढ़ चेतावनी। तुरंत ऊँची जगह पर जाएँ। बाढ़ के पानी में न चलें और न गाड़ी चलाएँ। घर में पानी घुसने पर मुख्य बिजली बंद करें। आपातकालीन किट और दस्तावेज़ साथ लें। आपातकाल के लिए 112 पर कॉल करें, NDRF हेल्पलाइन 9711077372।",
		},
		risk.HazardCyclone: {
			standard: "चक्रवात सुरक्षा मार्गदर्शन: बाहर रखा ढीला सामान सुरक्षित करें, खिड़कियों को मज़बूत करें, पीने का पानी और चार्ज किए हुए पावर बैंक रखें, और घर के सबसे मज़बूत भीतरी कमरे की पहचान करें। आधिकारिक बुलेटिन का पालन करें। आपातकाल: 112 | NDRF: 9711077372।",
			urgent:   "चक्रवात चेतावनी। खिड़कियों से दूर घर के सबसे मज़बूत भीतरी कमरे में रहें। तूफ़ान की आँख के दौरान बाहर न निकलें। फ़ोन चार्ज रखें और आपातकालीन किट पास रखें। आपातकाल के लिए 112 पर कॉल करें, NDRF हेल्पलाइन 9711077372।",
		},
		risk.HazardHeatwave: {
			standard: "लू से बचाव: प्यास न लगने पर भी नियमित पानी पिएँ, दोपहर 12 से 4 बजे के बीच बाहर जाने से बचें, हल्के सूती कपड़े पहनें, और बुज़ुर्ग पड़ोसियों का हाल पूछें। बच्चों या पालतू जानवरों को खड़ी गाड़ी में न छोड़ें। आपातकाल: 112 | एम्बुलेंस: 108।",
			urgent:   "लू की चेतावनी। चरम घंटों में घर के अंदर रहें, हर 20 मिनट में पानी पिएँ, और भ्रम, ऐंठन या गर्म सूखी त्वचा के लक्षण दिखने पर व्यक्ति को तुरंत छाया में ले जाएँ। हीटस्ट्रोक एक चिकित्सा आपातकाल है। एम्बुलेंस 108 या आपातकाल 112 पर कॉल करें।",
		},
	},
}

var generic = map[string]string{
	"en": "I am SKYNETRA, your disaster safety assistant. Ask me about flood, cyclone, or heatwave risk in your area, or how to prepare your family and home. Keep these numbers handy: Emergency 112, NDRF 9711077372, Fire 101, Ambulance 108, Police 100.",
	"hi": "मैं SKYNETRA हूँ, आपका आपदा सुरक्षा सहायक। अपने क्षेत्र में बाढ़, चक्रवात या लू के जोखिम के बारे में पूछें, या परिवार और घर की तैयारी के बारे में जानें। ये नंबर साथ रखें: आपातकाल 112, NDRF 9711077372, अग्निशमन 101, एम्बुलेंस 108, पुलिस 100।",
}

// Keyword fallbacks used only when no entity or prediction identified a
// hazard. Terms cover both supported languages.
var hazardKeywords = []struct {
	hazard risk.Hazard
	terms  []string
}{
	{risk.HazardFlood, []string{"flood", "floods", "flooding", "rain", "rains", "waterlogging", "waterlogged", "बाढ़", "बारिश"}},
	{risk.HazardCyclone, []string{"cyclone", "cyclones", "storm", "storms", "hurricane", "wind", "winds", "चक्रवात", "तूफान", "तूफ़ान"}},
	{risk.HazardHeatwave, []string{"heat", "heatwave", "hot", "temperature", "लू", "गर्मी"}},
}

// Supports reports whether the responder carries templates for a language.
func Supports(language string) bool {
	_, ok := templates[language]
	return ok
}

// Respond produces safety text for the query. Prediction and entities may be
// nil. Unsupported language codes fall back to English.
func Respond(query string, entities []entity.Entity, prediction *risk.Prediction, language string) string {
	lang := language
	if _, ok := templates[lang]; !ok {
		lang = defaultLanguage
	}

	// A high-severity hazard in the forecast outranks whatever was asked.
	if prediction != nil && prediction.HasSeverity(risk.SeverityHigh) {
		if h, ok := highestHazard(prediction); ok {
			return templates[lang][h].urgent
		}
	}

	if v, ok := entity.Primary(entities, entity.TypeDisaster); ok {
		if h, ok := hazardFromValue(v); ok {
			return templates[lang][h].standard
		}
	}

	lower := strings.ToLower(query)
	for _, hk := range hazardKeywords {
		for _, term := range hk.terms {
			if entity.ContainsTerm(lower, term) {
				return templates[lang][hk.hazard].standard
			}
		}
	}

	return generic[lang]
}

// highestHazard picks the hazard of the highest-severity assessment, earliest
// day winning ties.
func highestHazard(p *risk.Prediction) (risk.Hazard, bool) {
	var best risk.Hazard
	var bestSev risk.Severity
	found := false
	for _, day := range p.Days {
		for _, h := range day.Hazards {
			// Replace only on strictly higher severity so the earliest day wins ties.
			if !found || (bestSev.Max(h.Severity) == h.Severity && h.Severity != bestSev) {
				best = h.Hazard
				bestSev = h.Severity
				found = true
			}
		}
	}
	return best, found
}

func hazardFromValue(v string) (risk.Hazard, bool) {
	switch risk.Hazard(v) {
	case risk.HazardFlood, risk.HazardCyclone, risk.HazardHeatwave:
		return risk.Hazard(v), true
	}
	return "", false
}

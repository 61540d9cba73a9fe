// Package remedy holds the static disease lookups (yoga, Ayurvedic and
// allopathic) and the yoga pose and medicine catalog.
package remedy

import "strings"

type yogaRule struct {
	keyword string
	poses   []string
}

// yogaRules are checked in order; the first keyword found in the disease
// text wins.
var yogaRules = []yogaRule{
	{"diabetes", []string{"Surya Namaskar", "Dhanurasana", "Paschimottanasana"}},
	{"asthma", []string{"Bhujangasana", "Ardha Matsyendrasana", "Sukhasana"}},
	{"back pain", []string{"Cat-Cow Pose", "Child's Pose", "Bridge Pose"}},
	{"stress", []string{"Padmasana", "Shavasana", "Anulom Vilom"}},
}

// NoYogaFound is the single entry returned when no keyword matches.
const NoYogaFound = "No specific yoga found, try consulting an instructor."

// SuggestYoga returns poses for the first known condition mentioned anywhere
// in disease, so "chronic back pain since May" matches "back pain".
func SuggestYoga(disease string) []string {
	d := strings.ToLower(disease)
	for _, r := range yogaRules {
		if strings.Contains(d, r.keyword) {
			out := make([]string, len(r.poses))
			copy(out, r.poses)
			return out
		}
	}
	return []string{NoYogaFound}
}

var allopathic = map[string]string{
	"fever":     "Paracetamol 500 mg — 1 tablet every 8 hours after food",
	"cold":      "Cetirizine 10 mg — once at night",
	"headache":  "Paracetamol 500 mg — as needed after food",
	"back pain": "Ibuprofen 400 mg — twice daily + local heat",
	"asthma":    "Salbutamol inhaler — 2 puffs as needed",
	"diabetes":  "Metformin 500 mg — morning & night with food",
	"stress":    "Vitamin B-complex — once daily",
}

var ayurvedic = map[string]string{
	"fever":     "Tulsi + Ginger Kadha — twice daily",
	"cold":      "Steam inhalation + Chyawanprash — daily",
	"headache":  "Peppermint oil massage + Shavasana — 10 mins",
	"back pain": "Mahanarayan tailam massage + gentle Bhujangasana",
	"asthma":    "Sitopaladi churna — 1 tsp with honey twice daily",
	"diabetes":  "Karela juice — morning (empty stomach)",
	"stress":    "Ashwagandha — 1 tsp with warm milk at night",
}

// Fallback texts for diseases without an entry.
const (
	NoAllopathicSuggestion = "No ready suggestion found. Please consult a doctor."
	NoAyurvedicRemedy      = "No standard remedy found. Consult an Ayurvedic doctor."
)

// NormalizeDisease folds disease text to the form used as a lookup key.
func NormalizeDisease(disease string) string {
	return strings.ToLower(strings.TrimSpace(disease))
}

// Allopathic returns the suggested medicine for an exact disease name.
func Allopathic(disease string) (string, bool) {
	s, ok := allopathic[NormalizeDisease(disease)]
	if !ok {
		return NoAllopathicSuggestion, false
	}
	return s, true
}

// Ayurvedic returns the home remedy for an exact disease name.
func Ayurvedic(disease string) (string, bool) {
	s, ok := ayurvedic[NormalizeDisease(disease)]
	if !ok {
		return NoAyurvedicRemedy, false
	}
	return s, true
}

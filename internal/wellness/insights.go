// Package wellness scores a day's mood, sleep and stress into a wellness
// score and picks the guidance (yoga, Ayurvedic and allopathic) for the
// area that needs the most attention.
package wellness

import (
	"errors"
	"strconv"
	"strings"
)

// Mood is the self-reported mood of the day.
type Mood int

const (
	// MoodUnknown is any mood text outside the recognised set.
	MoodUnknown Mood = iota
	MoodCalm
	MoodHappy
	MoodOK
	MoodSad
	MoodTired
	MoodAngry
)

var moodNames = [...]string{
	MoodUnknown: "unknown",
	MoodCalm:    "calm",
	MoodHappy:   "happy",
	MoodOK:      "ok",
	MoodSad:     "sad",
	MoodTired:   "tired",
	MoodAngry:   "angry",
}

// moodWeights is the base score for each mood.
var moodWeights = [...]int{
	MoodUnknown: 60,
	MoodCalm:    85,
	MoodHappy:   80,
	MoodOK:      65,
	MoodSad:     45,
	MoodTired:   40,
	MoodAngry:   35,
}

// ParseMood maps free text to a Mood. Matching ignores case and surrounding
// whitespace; anything unrecognised is MoodUnknown.
func ParseMood(raw string) Mood {
	s := strings.ToLower(strings.TrimSpace(raw))
	for m, name := range moodNames {
		if Mood(m) != MoodUnknown && name == s {
			return Mood(m)
		}
	}
	return MoodUnknown
}

func (m Mood) String() string {
	if m < 0 || int(m) >= len(moodNames) {
		return moodNames[MoodUnknown]
	}
	return moodNames[m]
}

// Weight returns the base wellness score for the mood.
func (m Mood) Weight() int {
	if m < 0 || int(m) >= len(moodWeights) {
		return moodWeights[MoodUnknown]
	}
	return moodWeights[m]
}

// Condition is the focus area chosen for the day's guidance.
type Condition int

const (
	ConditionStress Condition = iota
	ConditionFatigue
	ConditionMentalBalance
	ConditionGeneralWellness
	conditionCount
)

var conditionNames = [conditionCount]string{
	ConditionStress:          "stress",
	ConditionFatigue:         "fatigue",
	ConditionMentalBalance:   "mental balance",
	ConditionGeneralWellness: "general wellness",
}

func (c Condition) String() string {
	if c < 0 || c >= conditionCount {
		return ""
	}
	return conditionNames[c]
}

// MarshalText renders the condition by name in JSON.
func (c Condition) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Guidance is the fixed advice attached to a condition.
type Guidance struct {
	YogaPoses     [3]string
	AyurvedicTip  string
	AllopathicTip string
}

var guidance = [conditionCount]Guidance{
	ConditionStress: {
		YogaPoses:     [3]string{"Padmasana", "Shavasana", "Anulom Vilom"},
		AyurvedicTip:  "Ashwagandha at night + 10 min meditation.",
		AllopathicTip: "B-complex once daily; limit caffeine; deep breathing.",
	},
	ConditionFatigue: {
		YogaPoses:     [3]string{"Tadasana", "Balasana", "Viparita Karani"},
		AyurvedicTip:  "Jeera–ajwain warm water + early light dinner.",
		AllopathicTip: "Hydration, electrolytes, and a short nap.",
	},
	ConditionMentalBalance: {
		YogaPoses:     [3]string{"Nadi Shodhana", "Bhramari", "Child's Pose"},
		AyurvedicTip:  "Brahmi tea + evening walk.",
		AllopathicTip: "Mindfulness 10 min; consult if persistent.",
	},
	ConditionGeneralWellness: {
		YogaPoses:     [3]string{"Vajrasana", "Setu Bandhasana", "Cat-Cow Pose"},
		AyurvedicTip:  "Triphala (mild) + consistent bedtime.",
		AllopathicTip: "Multivitamin (std. dose) & 30-min walk.",
	},
}

// GuidanceFor returns the advice table entry for a condition.
func GuidanceFor(c Condition) Guidance {
	if c < 0 || c >= conditionCount {
		return guidance[ConditionGeneralWellness]
	}
	return guidance[c]
}

// Defaults substituted when sleep or stress text is not an integer.
const (
	DefaultSleepHours  = 7
	DefaultStressLevel = 4
)

// InsightResult is the outcome of scoring one day.
type InsightResult struct {
	Score         int       `json:"score"`
	Condition     Condition `json:"condition"`
	YogaPoses     [3]string `json:"yoga_poses"`
	AyurvedicTip  string    `json:"ayurvedic_tip"`
	AllopathicTip string    `json:"allopathic_tip"`
}

// ComputeInsights scores mood, sleep hours and stress level (1-10 scale).
// It never fails: sleep and stress that are not integers fall back to
// DefaultSleepHours and DefaultStressLevel.
func ComputeInsights(mood Mood, sleep, stress string) InsightResult {
	score := mood.Weight()

	s := ParseOrDefault(sleep, DefaultSleepHours)
	switch {
	case s >= 7 && s <= 8:
		score += 15
	case s >= 6 && s <= 9:
		score += 5
	case s < 5 || s > 9:
		score -= 10
	}

	st := ParseOrDefault(stress, DefaultStressLevel)
	// Past ±100 the score is pinned at a bound anyway; bounding st keeps
	// the multiplication from overflowing.
	score -= (clamp(st, -100, 100) - 3) * 5

	score = clamp(score, 0, 100)

	var cond Condition
	switch {
	case st >= 7:
		cond = ConditionStress
	case s <= 5:
		cond = ConditionFatigue
	case mood == MoodAngry || mood == MoodSad:
		cond = ConditionMentalBalance
	default:
		cond = ConditionGeneralWellness
	}

	g := GuidanceFor(cond)
	return InsightResult{
		Score:         score,
		Condition:     cond,
		YogaPoses:     g.YogaPoses,
		AyurvedicTip:  g.AyurvedicTip,
		AllopathicTip: g.AllopathicTip,
	}
}

// ParseOrDefault reads raw as a base-10 integer, ignoring surrounding
// whitespace. Any text that is not an integer yields def. Integers past
// the range of int saturate to the nearest bound.
func ParseOrDefault(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return n
	}
	if err != nil {
		return def
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package anthro

import (
	"math"
	"strconv"
	"strings"
)

// FormValues is the calculator form exactly as submitted.
type FormValues struct {
	Height   string
	Weight   string
	Waist    string
	Age      string
	Sex      string
	Activity string
}

// ParseForm coerces submitted text into a BodyMetricsInput. Each numeric
// field that does not parse becomes 0, which Compute then rejects (or, for
// the waist, treats as not measured). Age accepts decimals and truncates.
// Blank sex and activity default to male and moderate.
func ParseForm(f FormValues) BodyMetricsInput {
	sex := strings.ToLower(strings.TrimSpace(f.Sex))
	if sex == "" {
		sex = string(SexMale)
	}
	activity := strings.ToLower(strings.TrimSpace(f.Activity))
	if activity == "" {
		activity = string(ActivityModerate)
	}

	return BodyMetricsInput{
		HeightCm: parseFloat(f.Height),
		WeightKg: parseFloat(f.Weight),
		WaistCm:  parseFloat(f.Waist),
		AgeYears: int(math.Trunc(parseFloat(f.Age))),
		Sex:      Sex(sex),
		Activity: ActivityLevel(activity),
	}
}

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

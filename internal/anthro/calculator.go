// Package anthro computes body-composition metrics (BMI, waist-to-height
// ratio, BMR and TDEE) and the yoga poses and tip that go with them.
package anthro

import (
	"errors"
	"math"
)

// Sex selects the Mifflin-St Jeor constant.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel scales BMR into TDEE.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "veryactive"
)

// ActivityLevels lists the recognised levels in ascending order.
var ActivityLevels = []ActivityLevel{
	ActivitySedentary,
	ActivityLight,
	ActivityModerate,
	ActivityActive,
	ActivityVeryActive,
}

// Factor returns the TDEE multiplier. Unrecognised levels count as moderate.
func (a ActivityLevel) Factor() float64 {
	switch a {
	case ActivitySedentary:
		return 1.2
	case ActivityLight:
		return 1.375
	case ActivityActive:
		return 1.725
	case ActivityVeryActive:
		return 1.9
	default:
		return 1.55
	}
}

// BMICategory is the WHO adult weight band.
type BMICategory int

const (
	Underweight BMICategory = iota
	Normal
	Overweight
	Obesity
	bmiCategoryCount
)

var bmiCategoryNames = [bmiCategoryCount]string{
	Underweight: "Underweight",
	Normal:      "Normal",
	Overweight:  "Overweight",
	Obesity:     "Obesity",
}

func (c BMICategory) String() string {
	if c < 0 || c >= bmiCategoryCount {
		return ""
	}
	return bmiCategoryNames[c]
}

// MarshalText renders the category by name in JSON.
func (c BMICategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CategorizeBMI buckets an unrounded BMI value.
func CategorizeBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Normal
	case bmi < 30:
		return Overweight
	default:
		return Obesity
	}
}

// WHtRCategory is the waist-to-height risk band. The zero value means the
// waist was not measured.
type WHtRCategory int

const (
	WHtRNotMeasured WHtRCategory = iota
	WHtRLow
	WHtRHealthy
	WHtRIncreasedRisk
	WHtRHighRisk
	whtrCategoryCount
)

var whtrCategoryNames = [whtrCategoryCount]string{
	WHtRNotMeasured:   "",
	WHtRLow:           "Low (possible under-fat)",
	WHtRHealthy:       "Healthy",
	WHtRIncreasedRisk: "Increased risk",
	WHtRHighRisk:      "High risk",
}

func (c WHtRCategory) String() string {
	if c < 0 || c >= whtrCategoryCount {
		return ""
	}
	return whtrCategoryNames[c]
}

// MarshalText renders the category by name in JSON.
func (c WHtRCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CategorizeWHtR buckets a waist-to-height ratio. Each boundary belongs to
// the higher band, so exactly 0.5 is increased risk.
func CategorizeWHtR(whtr float64) WHtRCategory {
	switch {
	case whtr < 0.4:
		return WHtRLow
	case whtr < 0.5:
		return WHtRHealthy
	case whtr < 0.6:
		return WHtRIncreasedRisk
	default:
		return WHtRHighRisk
	}
}

// Plan is the yoga sequence and lifestyle tip for a BMI band.
type Plan struct {
	Poses [3]string
	Tip   string
}

var plans = [bmiCategoryCount]Plan{
	Underweight: {
		Poses: [3]string{"Surya Namaskar", "Bridge Pose", "Bhujangasana"},
		Tip:   "Add calorie-dense nutritious foods (nuts, dairy, legumes). 3 meals + 2 snacks.",
	},
	Normal: {
		Poses: [3]string{"Vajrasana", "Cat-Cow Pose", "Shavasana"},
		Tip:   "Great balance! Maintain with regular yoga, protein, and 7–8h sleep.",
	},
	Overweight: {
		Poses: [3]string{"Tadasana", "Balasana", "Anulom Vilom"},
		Tip:   "Prioritize protein & veggies, portion control, daily walks + yoga.",
	},
	Obesity: {
		Poses: [3]string{"Utkatasana (gentle)", "Viparita Karani", "Nadi Shodhana"},
		Tip:   "Start low-impact movement; track intake; consider doctor guidance.",
	},
}

// PlanFor returns the poses and tip for a BMI band.
func PlanFor(c BMICategory) Plan {
	if c < 0 || c >= bmiCategoryCount {
		return plans[Normal]
	}
	return plans[c]
}

// ErrInvalidInput is wrapped by every validation failure from Compute.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError carries the human-readable reason a calculation was
// refused.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// Validation failures returned by Compute.
var (
	ErrInvalidMeasurements = &InvalidInputError{Reason: "invalid height/weight/age."}
	ErrInvalidSex          = &InvalidInputError{Reason: "invalid sex."}
)

// BodyMetricsInput holds one set of measurements. WaistCm <= 0 means the
// waist was not measured.
type BodyMetricsInput struct {
	HeightCm float64       `json:"height_cm"`
	WeightKg float64       `json:"weight_kg"`
	WaistCm  float64       `json:"waist_cm"`
	AgeYears int           `json:"age_years"`
	Sex      Sex           `json:"sex"`
	Activity ActivityLevel `json:"activity_level"`
}

// BodyMetricsResult is the outcome of a successful calculation.
type BodyMetricsResult struct {
	BMI          float64       `json:"bmi"`
	BMICategory  BMICategory   `json:"bmi_category"`
	WHtR         *float64      `json:"whtr,omitempty"`
	WHtRCategory WHtRCategory  `json:"whtr_category,omitempty"`
	BMR          int           `json:"bmr"`
	TDEE         int           `json:"tdee"`
	Poses        [3]string     `json:"poses"`
	Tip          string        `json:"tip"`
	Activity     ActivityLevel `json:"activity_level"`
}

// Compute validates in and derives its body metrics. A validation failure
// returns a nil result and an error wrapping ErrInvalidInput.
func Compute(in BodyMetricsInput) (*BodyMetricsResult, error) {
	if !(in.HeightCm > 0) || !(in.WeightKg > 0) || in.AgeYears <= 0 ||
		math.IsInf(in.HeightCm, 0) || math.IsInf(in.WeightKg, 0) || math.IsInf(in.WaistCm, 0) {
		return nil, ErrInvalidMeasurements
	}
	if in.Sex != SexMale && in.Sex != SexFemale {
		return nil, ErrInvalidSex
	}

	hm := in.HeightCm / 100
	bmi := in.WeightKg / (hm * hm)
	bmr := MifflinStJeor(in.WeightKg, in.HeightCm, in.AgeYears, in.Sex)
	tdee := bmr * in.Activity.Factor()
	// Extreme but finite inputs can still overflow the derived values.
	if !representable(bmi) || !representable(bmr) || !representable(tdee) {
		return nil, ErrInvalidMeasurements
	}
	cat := CategorizeBMI(bmi)

	res := &BodyMetricsResult{
		BMI:         roundTo(bmi, 1),
		BMICategory: cat,
		Activity:    in.Activity,
	}

	if in.WaistCm > 0 {
		whtr := roundTo(in.WaistCm/in.HeightCm, 2)
		res.WHtR = &whtr
		res.WHtRCategory = CategorizeWHtR(whtr)
	}

	res.BMR = roundInt(bmr)
	res.TDEE = roundInt(tdee)

	plan := PlanFor(cat)
	res.Poses = plan.Poses
	res.Tip = plan.Tip

	return res, nil
}

// MifflinStJeor estimates basal metabolic rate in kcal/day.
func MifflinStJeor(weightKg, heightCm float64, age int, sex Sex) float64 {
	// Explicit conversions round each product so no platform fuses them
	// into an FMA; half-kcal ties must land exactly.
	bmr := float64(10*weightKg) + float64(6.25*heightCm) - float64(5*float64(age))
	if sex == SexMale {
		return bmr + 5
	}
	return bmr - 161
}

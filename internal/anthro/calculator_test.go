package anthro

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func maleModerate(height, weight, waist float64, age int) BodyMetricsInput {
	return BodyMetricsInput{
		HeightCm: height,
		WeightKg: weight,
		WaistCm:  waist,
		AgeYears: age,
		Sex:      SexMale,
		Activity: ActivityModerate,
	}
}

func TestCompute_ReferenceMale(t *testing.T) {
	// Given: 175 cm, 70 kg, no waist, 30 year old moderately active male
	res, err := Compute(maleModerate(175, 70, 0, 30))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// Then: BMR = 700 + 1093.75 - 150 + 5 = 1648.75, TDEE = 1648.75 * 1.55
	if res.BMI != 22.9 {
		t.Errorf("BMI = %v, want 22.9", res.BMI)
	}
	if res.BMICategory != Normal {
		t.Errorf("BMICategory = %v, want Normal", res.BMICategory)
	}
	if res.WHtR != nil {
		t.Errorf("WHtR = %v, want nil", *res.WHtR)
	}
	if res.WHtRCategory != WHtRNotMeasured {
		t.Errorf("WHtRCategory = %v, want not measured", res.WHtRCategory)
	}
	if res.BMR != 1649 {
		t.Errorf("BMR = %d, want 1649", res.BMR)
	}
	if res.TDEE != 2556 {
		t.Errorf("TDEE = %d, want 2556", res.TDEE)
	}
	wantPoses := [3]string{"Vajrasana", "Cat-Cow Pose", "Shavasana"}
	if res.Poses != wantPoses {
		t.Errorf("Poses = %v, want %v", res.Poses, wantPoses)
	}
}

func TestCompute_Female(t *testing.T) {
	in := BodyMetricsInput{
		HeightCm: 160,
		WeightKg: 60,
		AgeYears: 25,
		Sex:      SexFemale,
		Activity: ActivitySedentary,
	}

	res, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if res.BMI != 23.4 {
		t.Errorf("BMI = %v, want 23.4", res.BMI)
	}
	if res.BMR != 1314 {
		t.Errorf("BMR = %d, want 1314", res.BMR)
	}
	if res.TDEE != 1577 {
		t.Errorf("TDEE = %d, want 1577", res.TDEE)
	}
}

func TestCompute_ActivityFactors(t *testing.T) {
	tests := []struct {
		activity ActivityLevel
		want     int
	}{
		{ActivitySedentary, 1978}, // 1978.5 ties to even
		{ActivityLight, 2267},
		{ActivityModerate, 2556},
		{ActivityActive, 2844},
		{ActivityVeryActive, 3133},
		{ActivityLevel("couch"), 2556},
		{ActivityLevel(""), 2556},
	}

	for _, tt := range tests {
		t.Run(string(tt.activity), func(t *testing.T) {
			in := maleModerate(175, 70, 0, 30)
			in.Activity = tt.activity

			res, err := Compute(in)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if res.TDEE != tt.want {
				t.Errorf("TDEE = %d, want %d", res.TDEE, tt.want)
			}
		})
	}
}

func TestCompute_BMRTiesRoundToEven(t *testing.T) {
	// 700 + 6.25*174 - 150 + 5 = 1642.5
	res, err := Compute(maleModerate(174, 70, 0, 30))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if res.BMR != 1642 {
		t.Errorf("BMR = %d, want 1642", res.BMR)
	}
}

func TestCompute_BMICategories(t *testing.T) {
	tests := []struct {
		weight  float64
		wantBMI float64
		wantCat BMICategory
		tip     string
	}{
		{50, 16.3, Underweight, "calorie-dense"},
		{56.65625, 18.5, Normal, "Great balance"},
		{70, 22.9, Normal, "Great balance"},
		{76.5625, 25.0, Overweight, "portion control"},
		{80, 26.1, Overweight, "portion control"},
		{95, 31.0, Obesity, "low-impact"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCat.String(), func(t *testing.T) {
			res, err := Compute(maleModerate(175, tt.weight, 0, 30))
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if res.BMI != tt.wantBMI {
				t.Errorf("BMI = %v, want %v", res.BMI, tt.wantBMI)
			}
			if res.BMICategory != tt.wantCat {
				t.Errorf("BMICategory = %v, want %v", res.BMICategory, tt.wantCat)
			}
			if !strings.Contains(res.Tip, tt.tip) {
				t.Errorf("Tip = %q, want it to mention %q", res.Tip, tt.tip)
			}
		})
	}
}

func TestCategorizeBMI_UsesUnroundedValue(t *testing.T) {
	// 24.96 displays as 25.0 but is still Normal.
	if got := CategorizeBMI(24.96); got != Normal {
		t.Errorf("CategorizeBMI(24.96) = %v, want Normal", got)
	}
	if got := CategorizeBMI(18.49); got != Underweight {
		t.Errorf("CategorizeBMI(18.49) = %v, want Underweight", got)
	}
	if got := CategorizeBMI(30); got != Obesity {
		t.Errorf("CategorizeBMI(30) = %v, want Obesity", got)
	}
}

func TestCompute_WHtR(t *testing.T) {
	tests := []struct {
		waist    float64
		wantRate float64
		wantCat  WHtRCategory
	}{
		{69, 0.39, WHtRLow},
		{70, 0.4, WHtRHealthy},
		{80, 0.46, WHtRHealthy},
		{87.4, 0.5, WHtRIncreasedRisk}, // 0.4994 rounds up before bucketing
		{87.5, 0.5, WHtRIncreasedRisk},
		{104, 0.59, WHtRIncreasedRisk},
		{105, 0.6, WHtRHighRisk},
	}

	for _, tt := range tests {
		t.Run(tt.wantCat.String(), func(t *testing.T) {
			res, err := Compute(maleModerate(175, 70, tt.waist, 30))
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if res.WHtR == nil {
				t.Fatal("WHtR = nil, want value")
			}
			if *res.WHtR != tt.wantRate {
				t.Errorf("WHtR = %v, want %v", *res.WHtR, tt.wantRate)
			}
			if res.WHtRCategory != tt.wantCat {
				t.Errorf("WHtRCategory = %v, want %v", res.WHtRCategory, tt.wantCat)
			}
		})
	}
}

func TestCategorizeWHtR_HalfIsIncreasedRisk(t *testing.T) {
	if got := CategorizeWHtR(0.5); got != WHtRIncreasedRisk {
		t.Errorf("CategorizeWHtR(0.5) = %v, want %v", got, WHtRIncreasedRisk)
	}
}

func TestCompute_NegativeWaistIsNotMeasured(t *testing.T) {
	res, err := Compute(maleModerate(175, 70, -5, 30))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if res.WHtR != nil {
		t.Errorf("WHtR = %v, want nil", *res.WHtR)
	}
}

func TestCompute_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   BodyMetricsInput
		want error
	}{
		{"zero height", maleModerate(0, 70, 0, 30), ErrInvalidMeasurements},
		{"negative weight", maleModerate(175, -1, 0, 30), ErrInvalidMeasurements},
		{"zero age", maleModerate(175, 70, 0, 0), ErrInvalidMeasurements},
		{"bad sex", BodyMetricsInput{HeightCm: 175, WeightKg: 70, AgeYears: 30, Sex: "other"}, ErrInvalidSex},
		{"measurements checked first", BodyMetricsInput{Sex: "other"}, ErrInvalidMeasurements},
		{"NaN height", maleModerate(math.NaN(), 70, 0, 30), ErrInvalidMeasurements},
		{"infinite height", maleModerate(math.Inf(1), 70, 0, 30), ErrInvalidMeasurements},
		{"infinite weight", maleModerate(175, math.Inf(1), 0, 30), ErrInvalidMeasurements},
		{"infinite waist", maleModerate(175, 70, math.Inf(1), 30), ErrInvalidMeasurements},
		{"weight overflows BMR", maleModerate(175, 1e308, 0, 30), ErrInvalidMeasurements},
		{"tiny height overflows BMI", maleModerate(1e-300, 70, 0, 30), ErrInvalidMeasurements},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(tt.in)
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error %v does not wrap ErrInvalidInput", err)
			}
		})
	}
}

func TestInvalidInputError_Reasons(t *testing.T) {
	if ErrInvalidMeasurements.Error() != "invalid height/weight/age." {
		t.Errorf("measurements reason = %q", ErrInvalidMeasurements.Error())
	}
	if ErrInvalidSex.Error() != "invalid sex." {
		t.Errorf("sex reason = %q", ErrInvalidSex.Error())
	}

	var iie *InvalidInputError
	if !errors.As(error(ErrInvalidSex), &iie) || iie.Reason != "invalid sex." {
		t.Errorf("errors.As failed: %v", iie)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	in := maleModerate(182, 88, 94, 41)
	a, errA := Compute(in)
	b, errB := Compute(in)
	if errA != nil || errB != nil {
		t.Fatalf("errors: %v, %v", errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Errorf("JSON differs: %s vs %s", ja, jb)
	}
}

func TestBodyMetricsResult_JSON(t *testing.T) {
	res, err := Compute(maleModerate(175, 70, 0, 30))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"bmi_category":"Normal"`) {
		t.Errorf("JSON missing category: %s", s)
	}
	if strings.Contains(s, "whtr") {
		t.Errorf("JSON should omit whtr fields when waist not measured: %s", s)
	}
}

func TestPlanFor_AllCategoriesDefined(t *testing.T) {
	for c := Underweight; c < bmiCategoryCount; c++ {
		p := PlanFor(c)
		if p.Tip == "" {
			t.Errorf("PlanFor(%v) has empty tip", c)
		}
		for i, pose := range p.Poses {
			if pose == "" {
				t.Errorf("PlanFor(%v).Poses[%d] empty", c, i)
			}
		}
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		x      float64
		places int
		want   float64
	}{
		{22.857142857142858, 1, 22.9},
		{2.675, 2, 2.67},
		{0.125, 2, 0.12},
		{0.4994, 2, 0.5},
	}
	for _, tt := range tests {
		if got := roundTo(tt.x, tt.places); got != tt.want {
			t.Errorf("roundTo(%v, %d) = %v, want %v", tt.x, tt.places, got, tt.want)
		}
	}
}

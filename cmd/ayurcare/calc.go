package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/ayurcare/internal/anthro"
	"github.com/hyperengineering/ayurcare/internal/wellness"
)

var (
	calcJSON bool

	bmiForm anthro.FormValues

	insightMood   string
	insightSleep  string
	insightStress string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run the health calculators offline",
}

var calcBMICmd = &cobra.Command{
	Use:   "bmi",
	Short: "Compute BMI, waist-to-height ratio, BMR and TDEE",
	Args:  cobra.NoArgs,
	RunE:  runCalcBMI,
}

var calcInsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Score a day's mood, sleep and stress",
	Args:  cobra.NoArgs,
	RunE:  runCalcInsights,
}

func init() {
	calcCmd.PersistentFlags().BoolVar(&calcJSON, "json", false, "Output in JSON format")

	f := calcBMICmd.Flags()
	f.StringVar(&bmiForm.Height, "height", "", "Height in cm")
	f.StringVar(&bmiForm.Weight, "weight", "", "Weight in kg")
	f.StringVar(&bmiForm.Waist, "waist", "", "Waist in cm (optional)")
	f.StringVar(&bmiForm.Age, "age", "", "Age in years")
	f.StringVar(&bmiForm.Sex, "sex", "male", "male or female")
	f.StringVar(&bmiForm.Activity, "activity", "moderate",
		"sedentary, light, moderate, active or veryactive")

	g := calcInsightsCmd.Flags()
	g.StringVar(&insightMood, "mood", "ok", "calm, happy, ok, sad, tired or angry")
	g.StringVar(&insightSleep, "sleep", "7", "Hours slept")
	g.StringVar(&insightStress, "stress", "4", "Stress level 1-10")

	calcCmd.AddCommand(calcBMICmd)
	calcCmd.AddCommand(calcInsightsCmd)
}

func runCalcBMI(cmd *cobra.Command, args []string) error {
	res, err := anthro.Compute(anthro.ParseForm(bmiForm))
	if err != nil {
		return err
	}

	if calcJSON {
		return printJSON(cmd.OutOrStdout(), res)
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintf(w, "BMI\t%.1f\t%s\n", res.BMI, res.BMICategory)
	if res.WHtR != nil {
		fmt.Fprintf(w, "WHtR\t%.2f\t%s\n", *res.WHtR, res.WHtRCategory)
	}
	fmt.Fprintf(w, "BMR\t%d\tkcal/day\n", res.BMR)
	fmt.Fprintf(w, "TDEE\t%d\tkcal/day (%s)\n", res.TDEE, res.Activity)
	fmt.Fprintf(w, "Yoga\t%s\t\n", strings.Join(res.Poses[:], ", "))
	fmt.Fprintf(w, "Tip\t%s\t\n", res.Tip)
	return w.Flush()
}

func runCalcInsights(cmd *cobra.Command, args []string) error {
	res := wellness.ComputeInsights(wellness.ParseMood(insightMood), insightSleep, insightStress)

	if calcJSON {
		return printJSON(cmd.OutOrStdout(), res)
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintf(w, "Score\t%d/100\n", res.Score)
	fmt.Fprintf(w, "Focus\t%s\n", res.Condition)
	fmt.Fprintf(w, "Yoga\t%s\n", strings.Join(res.YogaPoses[:], ", "))
	fmt.Fprintf(w, "Ayurvedic\t%s\n", res.AyurvedicTip)
	fmt.Fprintf(w, "Allopathic\t%s\n", res.AllopathicTip)
	return w.Flush()
}

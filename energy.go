package main

import "math"

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used for
// input validation in the profile handlers.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// goalDeltas maps weight goals to the daily calorie adjustment applied on top
// of TDEE. Also the source of truth for valid goal values.
var goalDeltas = map[string]int{
	"lose":     -500,
	"maintain": 0,
	"gain":     500,
}

// validGenders is the set of accepted gender values. "other" uses the female
// BMR constant — see bmrSexConstant.
var validGenders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

// bmrSexConstant returns the Mifflin-St Jeor additive constant: +5 for male,
// -161 otherwise. "other" shares the female constant.
func bmrSexConstant(gender string) float64 {
	if gender == "male" {
		return 5
	}
	return -161
}

// computeEnergyTargets computes BMR (Mifflin-St Jeor), TDEE, and the
// goal-adjusted daily calorie target from profile fields. Each stage is
// rounded before the next: TDEE is derived from the rounded BMR, so the
// stored values always agree with each other.
// Returns ok=false for an unknown activity level or goal. Range validation of
// the numeric inputs happens at the HTTP boundary, not here.
func computeEnergyTargets(gender string, age int, heightCM, weightKG float64, activityLevel, goal string) (bmr, tdee, targetCalories int, ok bool) {
	mult, found := activityMultipliers[activityLevel]
	if !found {
		return 0, 0, 0, false
	}
	delta, found := goalDeltas[goal]
	if !found {
		return 0, 0, 0, false
	}

	bmrF := 10*weightKG + 6.25*heightCM - 5*float64(age) + bmrSexConstant(gender)
	bmr = int(math.Round(bmrF))
	tdee = int(math.Round(float64(bmr) * mult))
	targetCalories = tdee + delta
	return bmr, tdee, targetCalories, true
}

// applyEnergyTargets fills the derived fields on p from its input fields.
// Every write path for profiles goes through this so bmr/tdee/target_calories
// are always recomputed together and never drift from the inputs.
func applyEnergyTargets(p *profile) bool {
	bmr, tdee, target, ok := computeEnergyTargets(p.Gender, p.Age, p.HeightCM, p.WeightKG, p.ActivityLevel, p.Goal)
	if !ok {
		return false
	}
	p.BMR = bmr
	p.TDEE = tdee
	p.TargetCalories = target
	return true
}

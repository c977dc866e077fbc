package main

import "testing"

/* ─── Worked examples ────────────────────────────────────────────────── */

// TestComputeEnergyTargets_KnownValues verifies the full BMR → TDEE → target
// pipeline against hand-computed values.
func TestComputeEnergyTargets_KnownValues(t *testing.T) {
	cases := []struct {
		name          string
		gender        string
		age           int
		heightCM      float64
		weightKG      float64
		activityLevel string
		goal          string
		wantBMR       int
		wantTDEE      int
		wantTarget    int
	}{
		{
			// bmr = round(700 + 1062.5 - 125 + 5) = 1643
			// tdee = round(1643 * 1.55) = 2547, target = 2547 - 500
			name: "male moderate lose", gender: "male", age: 25,
			heightCM: 170, weightKG: 70, activityLevel: "moderate", goal: "lose",
			wantBMR: 1643, wantTDEE: 2547, wantTarget: 2047,
		},
		{
			// bmr = round(600 + 1000 - 150 - 161) = 1289
			// tdee = round(1289 * 1.2) = 1547, target unchanged for maintain
			name: "female sedentary maintain", gender: "female", age: 30,
			heightCM: 160, weightKG: 60, activityLevel: "sedentary", goal: "maintain",
			wantBMR: 1289, wantTDEE: 1547, wantTarget: 1547,
		},
		{
			// gain adds 500 on top of TDEE
			name: "male very_active gain", gender: "male", age: 40,
			heightCM: 180, weightKG: 90, activityLevel: "very_active", goal: "gain",
			wantBMR: 1830, wantTDEE: 3477, wantTarget: 3977,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bmr, tdee, target, ok := computeEnergyTargets(tc.gender, tc.age, tc.heightCM, tc.weightKG, tc.activityLevel, tc.goal)
			if !ok {
				t.Fatal("expected ok=true, got ok=false")
			}
			if bmr != tc.wantBMR {
				t.Errorf("bmr = %d, want %d", bmr, tc.wantBMR)
			}
			if tdee != tc.wantTDEE {
				t.Errorf("tdee = %d, want %d", tdee, tc.wantTDEE)
			}
			if target != tc.wantTarget {
				t.Errorf("targetCalories = %d, want %d", target, tc.wantTarget)
			}
		})
	}
}

// TestComputeEnergyTargets_OtherMatchesFemale verifies that gender "other"
// produces the same results as "female" — they share the -161 constant.
func TestComputeEnergyTargets_OtherMatchesFemale(t *testing.T) {
	fBMR, fTDEE, fTarget, ok := computeEnergyTargets("female", 30, 160, 60, "sedentary", "maintain")
	if !ok {
		t.Fatal("female: expected ok=true")
	}
	oBMR, oTDEE, oTarget, ok := computeEnergyTargets("other", 30, 160, 60, "sedentary", "maintain")
	if !ok {
		t.Fatal("other: expected ok=true")
	}
	if oBMR != fBMR || oTDEE != fTDEE || oTarget != fTarget {
		t.Errorf("other = (%d, %d, %d), want same as female (%d, %d, %d)",
			oBMR, oTDEE, oTarget, fBMR, fTDEE, fTarget)
	}
}

// TestComputeEnergyTargets_Deterministic verifies that repeated calls with the
// same input always produce the same output.
func TestComputeEnergyTargets_Deterministic(t *testing.T) {
	bmr0, tdee0, target0, _ := computeEnergyTargets("male", 25, 170, 70, "moderate", "lose")
	for i := 0; i < 100; i++ {
		bmr, tdee, target, _ := computeEnergyTargets("male", 25, 170, 70, "moderate", "lose")
		if bmr != bmr0 || tdee != tdee0 || target != target0 {
			t.Fatalf("call %d produced (%d, %d, %d), first call produced (%d, %d, %d)",
				i, bmr, tdee, target, bmr0, tdee0, target0)
		}
	}
}

/* ─── Input guard tests ──────────────────────────────────────────────── */

// TestComputeEnergyTargets_UnknownActivityLevel verifies that an unrecognised
// activity level string produces ok=false.
func TestComputeEnergyTargets_UnknownActivityLevel(t *testing.T) {
	_, _, _, ok := computeEnergyTargets("male", 25, 170, 70, "couch", "lose")
	if ok {
		t.Error("expected ok=false for unknown activity level, got ok=true")
	}
}

// TestComputeEnergyTargets_UnknownGoal verifies that an unrecognised goal
// produces ok=false.
func TestComputeEnergyTargets_UnknownGoal(t *testing.T) {
	_, _, _, ok := computeEnergyTargets("male", 25, 170, 70, "moderate", "bulk")
	if ok {
		t.Error("expected ok=false for unknown goal, got ok=true")
	}
}

// TestApplyEnergyTargets verifies that the derived fields on a profile are
// filled in together from the input fields.
func TestApplyEnergyTargets(t *testing.T) {
	p := profile{
		Gender: "male", Age: 25, HeightCM: 170, WeightKG: 70,
		ActivityLevel: "moderate", Goal: "lose",
	}
	if !applyEnergyTargets(&p) {
		t.Fatal("expected applyEnergyTargets to succeed")
	}
	if p.BMR != 1643 || p.TDEE != 2547 || p.TargetCalories != 2047 {
		t.Errorf("derived fields = (%d, %d, %d), want (1643, 2547, 2047)",
			p.BMR, p.TDEE, p.TargetCalories)
	}
}

// TestApplyEnergyTargets_InvalidLeavesProfileUntouched verifies that a failed
// recompute does not partially overwrite the derived fields.
func TestApplyEnergyTargets_InvalidLeavesProfileUntouched(t *testing.T) {
	p := profile{
		Gender: "male", Age: 25, HeightCM: 170, WeightKG: 70,
		ActivityLevel: "unknown", Goal: "lose",
		BMR: 1643, TDEE: 2547, TargetCalories: 2047,
	}
	if applyEnergyTargets(&p) {
		t.Fatal("expected applyEnergyTargets to fail for unknown activity level")
	}
	if p.BMR != 1643 || p.TDEE != 2547 || p.TargetCalories != 2047 {
		t.Errorf("derived fields changed on failure: (%d, %d, %d)", p.BMR, p.TDEE, p.TargetCalories)
	}
}

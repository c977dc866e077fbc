package main

import "time"

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. Password is hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// profile maps to the profiles table — one row per user, created at
// onboarding. BMR, TDEE and TargetCalories are derived columns: written only
// by the server, always in the same statement as the input fields they are
// computed from, never accepted from a client.
type profile struct {
	UserID         int        `json:"user_id" db:"user_id"`
	Name           string     `json:"name" db:"name"`
	Gender         string     `json:"gender" db:"gender"`
	Age            int        `json:"age" db:"age"`
	HeightCM       float64    `json:"height_cm" db:"height_cm"`
	WeightKG       float64    `json:"weight_kg" db:"weight_kg"`
	ActivityLevel  string     `json:"activity_level" db:"activity_level"`
	Goal           string     `json:"goal" db:"goal"`
	BMR            int        `json:"bmr" db:"bmr"`
	TDEE           int        `json:"tdee" db:"tdee"`
	TargetCalories int        `json:"target_calories" db:"target_calories"`
	UpdatedAt      *time.Time `json:"updated_at" db:"updated_at"`
}

// mealEntry maps to meal_entries. Entries are append-only: once written with
// their estimated macros they can be deleted but never edited.
type mealEntry struct {
	ID              int        `json:"id" db:"id"`
	UserID          int        `json:"user_id" db:"user_id"`
	Description     string     `json:"description" db:"description"`
	Calories        float64    `json:"calories" db:"calories"`
	Protein         float64    `json:"protein" db:"protein"`
	Carbs           float64    `json:"carbs" db:"carbs"`
	Fat             float64    `json:"fat" db:"fat"`
	ClientRequestID string     `json:"client_request_id" db:"client_request_id"`
	CreatedAt       *time.Time `json:"created_at" db:"created_at"`
}

// weightEntry maps to weight_entries — an append-only log ordered by created_at.
type weightEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	WeightKG  float64    `json:"weight_kg" db:"weight_kg"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// achievement maps to achievements. UNIQUE(user_id, kind) in the schema is
// what guarantees a milestone is recorded at most once per user.
type achievement struct {
	ID          int        `json:"id" db:"id"`
	UserID      int        `json:"user_id" db:"user_id"`
	Kind        string     `json:"kind" db:"kind"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Icon        string     `json:"icon" db:"icon"`
	UnlockedAt  *time.Time `json:"unlocked_at" db:"unlocked_at"`
}

/* ─── Request / response shapes ──────────────────────────────────────── */

// createProfileRequest is the request body for POST /api/profile (onboarding).
type createProfileRequest struct {
	Name          string  `json:"name"`
	Gender        string  `json:"gender"`
	Age           int     `json:"age"`
	HeightCM      float64 `json:"height_cm"`
	WeightKG      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
}

// patchProfileRequest is the request body for PATCH /api/profile.
// All fields are pointers — only non-nil fields get written.
type patchProfileRequest struct {
	Name          *string  `json:"name"`
	Gender        *string  `json:"gender"`
	Age           *int     `json:"age"`
	HeightCM      *float64 `json:"height_cm"`
	WeightKG      *float64 `json:"weight_kg"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
}

// logMealRequest is the request body for POST /api/meals. The macros are not
// part of the request — they come from the nutrition estimator, never the client.
type logMealRequest struct {
	Description     string `json:"description"`
	ClientRequestID string `json:"client_request_id"`
}

// logMealResponse returns the persisted entry plus any milestones the insert unlocked.
type logMealResponse struct {
	Entry      mealEntry     `json:"entry"`
	NewUnlocks []achievement `json:"new_unlocks"`
}

// logWeightRequest is the request body for POST /api/weights.
type logWeightRequest struct {
	WeightKG float64 `json:"weight_kg"`
}

// logWeightResponse mirrors logMealResponse for weight entries.
type logWeightResponse struct {
	Entry      weightEntry   `json:"entry"`
	NewUnlocks []achievement `json:"new_unlocks"`
}

// dailySummary is the response shape for GET /api/meals/daily.
type dailySummary struct {
	Date           DateOnly    `json:"date"`
	TargetCalories int         `json:"target_calories"`
	Calories       float64     `json:"calories"`
	Protein        float64     `json:"protein"`
	Carbs          float64     `json:"carbs"`
	Fat            float64     `json:"fat"`
	CaloriesLeft   float64     `json:"calories_left"`
	Entries        []mealEntry `json:"entries"`
}

// weightProgress is the response shape for GET /api/weights/progress.
// DeltaKG = earliest − latest, so positive values mean weight lost.
type weightProgress struct {
	CurrentKG float64       `json:"current_kg"`
	StartKG   float64       `json:"start_kg"`
	DeltaKG   float64       `json:"delta_kg"`
	Entries   []weightEntry `json:"entries"`
}

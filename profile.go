package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// validateProfileFields checks the documented ranges and enums. Returns a
// human-readable message for the first violation, or "" when everything is in
// range. Shared by create and patch so the two paths can never diverge.
func validateProfileFields(p *profile) string {
	if strings.TrimSpace(p.Name) == "" {
		return "name is required"
	}
	if !validGenders[p.Gender] {
		return "gender must be one of: male, female, other"
	}
	if p.Age < 15 || p.Age > 100 {
		return "age must be between 15 and 100"
	}
	if p.HeightCM < 120 || p.HeightCM > 250 {
		return "height_cm must be between 120 and 250"
	}
	if p.WeightKG < 30 || p.WeightKG > 300 {
		return "weight_kg must be between 30 and 300"
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		return "activity_level must be one of: sedentary, light, moderate, active, very_active"
	}
	if _, ok := goalDeltas[p.Goal]; !ok {
		return "goal must be one of: lose, maintain, gain"
	}
	return ""
}

// saveProfile writes a fully-validated profile in a single statement. The
// derived columns go in alongside the inputs they were computed from, so a
// stored row can never carry stale bmr/tdee/target_calories.
func (h *Handler) saveProfile(c *gin.Context, p *profile, insert bool) (profile, error) {
	sql := `UPDATE profiles SET
			name = @name, gender = @gender, age = @age,
			height_cm = @heightCM, weight_kg = @weightKG,
			activity_level = @activityLevel, goal = @goal,
			bmr = @bmr, tdee = @tdee, target_calories = @targetCalories,
			updated_at = now()
		 WHERE user_id = @userID
		 RETURNING *`
	if insert {
		sql = `INSERT INTO profiles
			(user_id, name, gender, age, height_cm, weight_kg, activity_level, goal, bmr, tdee, target_calories)
		 VALUES (@userID, @name, @gender, @age, @heightCM, @weightKG, @activityLevel, @goal, @bmr, @tdee, @targetCalories)
		 RETURNING *`
	}
	return queryOne[profile](h.db, c, sql, pgx.NamedArgs{
		"userID": p.UserID, "name": p.Name, "gender": p.Gender, "age": p.Age,
		"heightCM": p.HeightCM, "weightKG": p.WeightKG,
		"activityLevel": p.ActivityLevel, "goal": p.Goal,
		"bmr": p.BMR, "tdee": p.TDEE, "targetCalories": p.TargetCalories,
	})
}

// createProfile creates the user's profile at onboarding and computes the
// energy targets. POST /api/profile. Returns 409 if a profile already exists.
func (h *Handler) createProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p := profile{
		UserID: userID, Name: body.Name, Gender: body.Gender, Age: body.Age,
		HeightCM: body.HeightCM, WeightKG: body.WeightKG,
		ActivityLevel: body.ActivityLevel, Goal: body.Goal,
	}
	if msg := validateProfileFields(&p); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}
	if !applyEnergyTargets(&p) {
		apiError(c, http.StatusBadRequest, "invalid activity_level or goal")
		return
	}

	saved, err := h.saveProfile(c, &p, true)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			apiError(c, http.StatusConflict, "profile already exists")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to create profile")
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// getProfile returns the user's profile. GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields. PATCH /api/profile.
// Pointer fields in the request distinguish "not provided" from zero. The
// merged row is validated and the energy targets recomputed before anything
// is written, so a rejected patch leaves the previous row authoritative.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	changed := false
	if body.Name != nil {
		p.Name = *body.Name
		changed = true
	}
	if body.Gender != nil {
		p.Gender = *body.Gender
		changed = true
	}
	if body.Age != nil {
		p.Age = *body.Age
		changed = true
	}
	if body.HeightCM != nil {
		p.HeightCM = *body.HeightCM
		changed = true
	}
	if body.WeightKG != nil {
		p.WeightKG = *body.WeightKG
		changed = true
	}
	if body.ActivityLevel != nil {
		p.ActivityLevel = *body.ActivityLevel
		changed = true
	}
	if body.Goal != nil {
		p.Goal = *body.Goal
		changed = true
	}
	if !changed {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	if msg := validateProfileFields(&p); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}
	if !applyEnergyTargets(&p) {
		apiError(c, http.StatusBadRequest, "invalid activity_level or goal")
		return
	}

	saved, err := h.saveProfile(c, &p, false)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, saved)
}

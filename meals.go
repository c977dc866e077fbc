package main

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// logMeal records a meal from a free-text description. The nutrition
// estimator must succeed before anything is written: a failed estimate aborts
// the action and no partial entry exists. After a successful insert the
// achievement hook runs against a history that includes the new row.
// POST /api/meals.
func (h *Handler) logMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body logMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}
	if body.ClientRequestID == "" {
		body.ClientRequestID = uuid.New().String()
	} else if _, err := uuid.Parse(body.ClientRequestID); err != nil {
		apiError(c, http.StatusBadRequest, "client_request_id must be a UUID")
		return
	}

	est, err := estimateNutrition(c.Request.Context(), h.openAIBaseURL, body.Description)
	if err != nil {
		log.Printf("[logMeal] estimation failed for user %d: %v", userID, err)
		apiError(c, http.StatusBadGateway, "could not estimate nutrition, please try again")
		return
	}

	entry, err := queryOne[mealEntry](h.db, c,
		`INSERT INTO meal_entries (user_id, description, calories, protein, carbs, fat, client_request_id)
		 VALUES (@userID, @description, @calories, @protein, @carbs, @fat, @clientRequestID)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "description": body.Description,
			"calories": est.Calories, "protein": est.Protein,
			"carbs": est.Carbs, "fat": est.Fat,
			"clientRequestID": body.ClientRequestID,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save meal")
		return
	}

	unlocks := h.unlockAchievements(c, userID)

	c.JSON(http.StatusCreated, logMealResponse{Entry: entry, NewUnlocks: unlocks})
}

// getMeals returns the user's meal entries for one date (defaults to today).
// GET /api/meals?date=YYYY-MM-DD. Returns an empty array (not null) when the
// day has no entries.
func (h *Handler) getMeals(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))

	// Validate date format before querying — an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := queryMany[mealEntry](h.db, c,
		`SELECT * FROM meal_entries
		 WHERE user_id = @userID AND (created_at AT TIME ZONE 'UTC')::date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	if entries == nil {
		entries = []mealEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// buildDailySummary sums one day's macros and compares the total to the
// profile's calorie target. Pure — the handler owns fetching.
func buildDailySummary(date DateOnly, targetCalories int, entries []mealEntry) dailySummary {
	summary := dailySummary{
		Date:           date,
		TargetCalories: targetCalories,
		Entries:        entries,
	}
	for _, e := range entries {
		summary.Calories += e.Calories
		summary.Protein += e.Protein
		summary.Carbs += e.Carbs
		summary.Fat += e.Fat
	}
	summary.CaloriesLeft = float64(targetCalories) - summary.Calories
	return summary
}

// getDailySummary returns one day's entries with summed macros and how the
// total compares to the profile's calorie target.
// GET /api/meals/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailySummary(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := queryMany[mealEntry](h.db, c,
		`SELECT * FROM meal_entries
		 WHERE user_id = @userID AND (created_at AT TIME ZONE 'UTC')::date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	if entries == nil {
		entries = []mealEntry{}
	}

	// The calorie target comes from the profile. A user who hasn't finished
	// onboarding gets totals with a zero target; any other lookup failure is
	// a real error, not a degraded summary.
	var targetCalories int
	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err == nil {
		targetCalories = p.TargetCalories
	} else if !errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, buildDailySummary(DateOnly{day}, targetCalories, entries))
}

// deleteMeal removes a meal entry. Deletion is the only mutation an entry
// supports — there is no update route. DELETE /api/meals/:id.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM meal_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	c.Status(http.StatusNoContent)
}

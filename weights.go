package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// logWeight appends a weigh-in to the user's weight log and runs the
// achievement hook against the updated history. POST /api/weights.
func (h *Handler) logWeight(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body logWeightRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.WeightKG < 30 || body.WeightKG > 300 {
		apiError(c, http.StatusBadRequest, "weight_kg must be between 30 and 300")
		return
	}

	entry, err := queryOne[weightEntry](h.db, c,
		`INSERT INTO weight_entries (user_id, weight_kg)
		 VALUES (@userID, @weightKG)
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "weightKG": body.WeightKG})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save weight entry")
		return
	}

	unlocks := h.unlockAchievements(c, userID)

	c.JSON(http.StatusCreated, logWeightResponse{Entry: entry, NewUnlocks: unlocks})
}

// getWeights returns the user's weight entries within [start, end], oldest
// first, shaped for charting. GET /api/weights?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Omitting both params returns the full history.
func (h *Handler) getWeights(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start != "" {
		if _, err := time.Parse("2006-01-02", start); err != nil {
			apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
			return
		}
	}
	if end != "" {
		if _, err := time.Parse("2006-01-02", end); err != nil {
			apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
			return
		}
	}
	if start != "" && end != "" && start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	// NULL range bounds mean "unbounded" — COALESCE keeps one query for all
	// four param combinations.
	var startArg, endArg *string
	if start != "" {
		startArg = &start
	}
	if end != "" {
		endArg = &end
	}
	entries, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_entries
		 WHERE user_id = @userID
		   AND (created_at AT TIME ZONE 'UTC')::date >= COALESCE(@start::date, '-infinity'::date)
		   AND (created_at AT TIME ZONE 'UTC')::date <= COALESCE(@end::date, 'infinity'::date)
		 ORDER BY created_at ASC`,
		pgx.NamedArgs{"userID": userID, "start": startArg, "end": endArg})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}
	if entries == nil {
		entries = []weightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// getWeightProgress returns the full weight series with start/current/delta.
// Delta is earliest minus latest, so a positive delta means weight lost —
// the same orientation the weight-loss milestone uses.
// GET /api/weights/progress.
func (h *Handler) getWeightProgress(c *gin.Context) {
	userID := c.GetInt("user_id")

	entries, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_entries
		 WHERE user_id = @userID
		 ORDER BY created_at ASC`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}
	if entries == nil {
		entries = []weightEntry{}
	}

	progress := weightProgress{Entries: entries}
	if len(entries) > 0 {
		progress.StartKG = entries[0].WeightKG
		progress.CurrentKG = entries[len(entries)-1].WeightKG
		progress.DeltaKG = progress.StartKG - progress.CurrentKG
	}

	c.JSON(http.StatusOK, progress)
}

// deleteWeight removes a weight entry by ID. DELETE /api/weights/:id.
// Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteWeight(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM weight_entries WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}

package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

/* ─── Milestone catalog ──────────────────────────────────────────────── */

// milestone is one of the fixed badge categories. Kind is the stable
// identifier stored in the DB; the rest is display metadata.
type milestone struct {
	Kind        string
	Title       string
	Description string
	Icon        string
}

// milestoneCatalog lists every milestone in evaluation order.
var milestoneCatalog = []milestone{
	{Kind: "first_meal", Title: "First Bite", Description: "Logged your first meal", Icon: "🍽️"},
	{Kind: "ten_meals", Title: "Regular", Description: "Logged 10 meals", Icon: "🔟"},
	{Kind: "week_streak", Title: "Week One", Description: "Logged meals on 7 different days", Icon: "📅"},
	{Kind: "weight_loss_5kg", Title: "5 Down", Description: "Lost 5 kg since your first weigh-in", Icon: "⚖️"},
}

// milestoneByKind indexes the catalog for the unlock hook.
var milestoneByKind = func() map[string]milestone {
	m := make(map[string]milestone, len(milestoneCatalog))
	for _, ms := range milestoneCatalog {
		m[ms.Kind] = ms
	}
	return m
}()

/* ─── Rule evaluator ─────────────────────────────────────────────────── */

// distinctMealDays counts the number of distinct UTC calendar days that have
// at least one meal. Days do not need to be consecutive.
func distinctMealDays(meals []mealEntry) int {
	days := make(map[string]bool)
	for _, m := range meals {
		if m.CreatedAt == nil {
			continue
		}
		days[m.CreatedAt.UTC().Format("2006-01-02")] = true
	}
	return len(days)
}

// newlyUnlocked evaluates every milestone rule against the full history and
// returns the kinds that qualify now and are not in unlocked yet. Each rule is
// independent; one triggering event can unlock several kinds at once. Count
// rules fire on the exact transition (== 1, == 10), so the unlocked filter is
// what keeps re-evaluation from ever re-emitting a badge.
func newlyUnlocked(meals []mealEntry, weights []weightEntry, unlocked map[string]bool) []string {
	qualifies := map[string]bool{
		"first_meal":  len(meals) == 1,
		"ten_meals":   len(meals) == 10,
		"week_streak": distinctMealDays(meals) >= 7,
	}

	// weight_loss_5kg: earliest minus latest entry must be at least 5 kg.
	// weights are expected in created_at ascending order.
	if len(weights) >= 2 {
		first := weights[0].WeightKG
		latest := weights[len(weights)-1].WeightKG
		qualifies["weight_loss_5kg"] = first > latest && first-latest >= 5
	}

	var kinds []string
	for _, ms := range milestoneCatalog {
		if qualifies[ms.Kind] && !unlocked[ms.Kind] {
			kinds = append(kinds, ms.Kind)
		}
	}
	return kinds
}

/* ─── Post-insert hook ───────────────────────────────────────────────── */

// unlockAchievements re-scans the user's full meal and weight history,
// evaluates the milestone rules, and records any newly-qualifying badges.
// Called by the meal and weight handlers immediately after a successful
// insert, so the history it reads always includes the triggering row.
//
// Failures here never fail the triggering request: evaluation errors are
// logged and an empty slice is returned. The ON CONFLICT DO NOTHING insert
// makes concurrent duplicate unlocks a silent no-op — the UNIQUE(user_id,
// kind) constraint decides the winner and the loser's row simply isn't
// returned.
func (h *Handler) unlockAchievements(c *gin.Context, userID int) []achievement {
	meals, err := queryMany[mealEntry](h.db, c,
		"SELECT * FROM meal_entries WHERE user_id = @userID ORDER BY created_at ASC",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		log.Printf("[unlockAchievements] meal history query failed for user %d: %v", userID, err)
		return []achievement{}
	}
	weights, err := queryMany[weightEntry](h.db, c,
		"SELECT * FROM weight_entries WHERE user_id = @userID ORDER BY created_at ASC",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		log.Printf("[unlockAchievements] weight history query failed for user %d: %v", userID, err)
		return []achievement{}
	}

	existing, err := queryMany[achievement](h.db, c,
		"SELECT * FROM achievements WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		log.Printf("[unlockAchievements] achievements query failed for user %d: %v", userID, err)
		return []achievement{}
	}
	unlocked := make(map[string]bool, len(existing))
	for _, a := range existing {
		unlocked[a.Kind] = true
	}

	newKinds := newlyUnlocked(meals, weights, unlocked)

	inserted := []achievement{}
	for _, kind := range newKinds {
		ms := milestoneByKind[kind]
		rows, err := h.db.Query(c,
			`INSERT INTO achievements (user_id, kind, title, description, icon)
			 VALUES (@userID, @kind, @title, @description, @icon)
			 ON CONFLICT (user_id, kind) DO NOTHING
			 RETURNING *`,
			pgx.NamedArgs{
				"userID": userID, "kind": ms.Kind, "title": ms.Title,
				"description": ms.Description, "icon": ms.Icon,
			})
		if err != nil {
			log.Printf("[unlockAchievements] insert failed for user %d kind %s: %v", userID, kind, err)
			continue
		}
		a, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[achievement])
		if err != nil {
			// ErrNoRows means another request won the race and the badge is
			// already recorded — an expected outcome, not an error.
			if !errors.Is(err, pgx.ErrNoRows) {
				log.Printf("[unlockAchievements] scan failed for user %d kind %s: %v", userID, kind, err)
			}
			continue
		}
		inserted = append(inserted, a)
		h.hub.Broadcast(userID, gin.H{
			"kind":        a.Kind,
			"title":       a.Title,
			"description": a.Description,
			"icon":        a.Icon,
			"unlocked_at": a.UnlockedAt.Format(time.RFC3339),
		})
	}
	return inserted
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getAchievements returns the user's unlocked badges, newest first.
// GET /api/achievements.
func (h *Handler) getAchievements(c *gin.Context) {
	userID := c.GetInt("user_id")

	rows, err := queryMany[achievement](h.db, c,
		"SELECT * FROM achievements WHERE user_id = @userID ORDER BY unlocked_at DESC",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch achievements")
		return
	}
	if rows == nil {
		rows = []achievement{}
	}

	c.JSON(http.StatusOK, rows)
}

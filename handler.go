package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (db pool, config, realtime hub) for all
// route handlers.
type Handler struct {
	db            *pgxpool.Pool
	hub           *realtimeHub
	jwtSecret     []byte
	openAIBaseURL string // Base URL for OpenAI API (overridable for tests)
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn)
// because managed Postgres providers close idle connections after a few
// minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Navigation gate for page routes (everything outside /api and /ws)
	router.Use(h.sessionGate())

	// Public routes
	router.POST("/api/auth/register", h.register)
	router.POST("/api/auth/login", h.login)
	router.POST("/api/auth/logout", h.logout)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.POST("/profile", h.createProfile)
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.POST("/meals", h.logMeal)
	api.GET("/meals", h.getMeals)
	api.GET("/meals/daily", h.getDailySummary)
	api.DELETE("/meals/:id", h.deleteMeal)
	api.POST("/weights", h.logWeight)
	api.GET("/weights", h.getWeights)
	api.GET("/weights/progress", h.getWeightProgress)
	api.DELETE("/weights/:id", h.deleteWeight)
	api.GET("/achievements", h.getAchievements)

	// Realtime unlock notifications
	router.GET("/ws/achievements", h.authMiddleware(), h.achievementsSocket)
}

package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookieName = "session"
	sessionTTL        = 72 * time.Hour
)

// dummyHash is a pre-computed bcrypt hash used when a login email isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based account enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

/* ─── Session tokens ─────────────────────────────────────────────────── */

// issueSessionToken signs an HS256 JWT carrying the user id. The jti claim
// makes each token unique even for back-to-back logins in the same second.
func (h *Handler) issueSessionToken(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.New().String(),
		"exp":     time.Now().Add(sessionTTL).Unix(),
	})
	return token.SignedString(h.jwtSecret)
}

// parseSessionToken validates an HS256 JWT and returns the user id it carries.
func (h *Handler) parseSessionToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	// JSON numbers decode as float64
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("user_id claim missing")
	}
	return int(id), nil
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// register creates a new account. POST /api/auth/register (public).
// Returns 409 when the email is already taken.
func (h *Handler) register(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	body.Email = strings.TrimSpace(body.Email)
	if body.Username == "" || body.Email == "" {
		apiError(c, http.StatusBadRequest, "username and email are required")
		return
	}
	if len(body.Password) < 8 {
		apiError(c, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create account")
		return
	}

	u, err := queryOne[user](h.db, c,
		`INSERT INTO users (username, email, password)
		 VALUES (@username, @email, @password)
		 RETURNING *`,
		pgx.NamedArgs{"username": body.Username, "email": body.Email, "password": string(hash)})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			apiError(c, http.StatusConflict, "email already registered")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to create account")
		return
	}

	c.JSON(http.StatusCreated, u)
}

// login verifies email/password and returns a session token.
// POST /api/auth/login (public — no auth required). The token is returned in
// the body for API clients and also set as the session cookie the navigation
// gate reads.
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE email = @email",
		pgx.NamedArgs{"email": body.Email})

	// Always run bcrypt to keep response time constant regardless of whether
	// the account was found — prevents timing-based account enumeration.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.issueSessionToken(u.ID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to issue session")
		return
	}

	c.SetCookie(sessionCookieName, token, int(sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": u.ID})
}

// logout clears the session cookie. POST /api/auth/logout.
func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// authMiddleware authenticates API requests and sets user_id on the context.
// Accepts a Bearer token or, for browser clients, the session cookie.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := c.Cookie(sessionCookieName); err == nil {
			token = cookie
		}
		if token == "" {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization")
			c.Abort()
			return
		}

		userID, err := h.parseSessionToken(token)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

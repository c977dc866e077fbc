package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Navigation anchors the gate cares about. Everything else passes through.
const (
	loginPath     = "/auth/login"
	dashboardHome = "/dashboard"
)

// gateResult is the outcome of a single navigation decision: either the
// request proceeds, or the browser is sent to RedirectTo.
type gateResult struct {
	Allow      bool
	RedirectTo string
}

// gateDecision maps (authenticated?, requested path) to a navigation outcome:
//   - signed-in users are bounced off the auth pages and the root onto the
//     dashboard home
//   - signed-out users are bounced off the dashboard and onboarding areas
//     onto the login page
//   - every other path is untouched
//
// Pure and stateless — evaluated once per navigation with no side effects.
func gateDecision(authenticated bool, path string) gateResult {
	if authenticated {
		if path == "/" || path == "/auth" || strings.HasPrefix(path, "/auth/") {
			return gateResult{RedirectTo: dashboardHome}
		}
		return gateResult{Allow: true}
	}

	if path == dashboardHome || strings.HasPrefix(path, dashboardHome+"/") || path == "/onboarding" {
		return gateResult{RedirectTo: loginPath}
	}
	return gateResult{Allow: true}
}

// sessionGate applies gateDecision to page navigations. Authentication is
// read from the session cookie; API routes carry Bearer tokens and are
// guarded by authMiddleware instead, so /api is excluded here.
func (h *Handler) sessionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/ws/") {
			c.Next()
			return
		}

		authenticated := false
		if cookie, err := c.Cookie(sessionCookieName); err == nil {
			if _, err := h.parseSessionToken(cookie); err == nil {
				authenticated = true
			}
		}

		if d := gateDecision(authenticated, path); !d.Allow {
			c.Redirect(http.StatusFound, d.RedirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jartiste/smartshop/internal/domain/user"
	"github.com/jartiste/smartshop/pkg/session"
)

// claimsKey is the gin context key the parsed session claims live under.
const claimsKey = "session.claims"

// RequireSession rejects requests without a valid session cookie and stores
// the parsed claims in the request context for downstream handlers.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil {
			abortProblem(c, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}

		claims, err := h.sessions.Parse(token)
		if err != nil {
			abortProblem(c, http.StatusUnauthorized, "Unauthorized", "invalid or expired session")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose session does not carry the
// given role. Must run after RequireSession.
func (h *Handler) RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims(c).Role != string(role) {
			abortProblem(c, http.StatusForbidden, "Forbidden", "insufficient privileges")
			return
		}
		c.Next()
	}
}

// claims returns the session claims stored by RequireSession. Calling it on a
// route outside the authenticated group is a programming error and panics.
func claims(c *gin.Context) *session.Claims {
	return c.MustGet(claimsKey).(*session.Claims)
}

// isAdmin reports whether the current session carries the admin role.
func isAdmin(c *gin.Context) bool {
	return claims(c).Role == string(user.RoleAdmin)
}

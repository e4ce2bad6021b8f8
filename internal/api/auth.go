package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/shield-engine/internal/authn"
)

// currentUserKey is the gin.Context key the verified user is stashed
// under by AuthMiddleware, for handlers that need to attribute an
// event-log entry to a caller.
const currentUserKey = "shield.currentUser"

// AuthMiddleware validates the bearer token via the authn collaborator
// and stashes the resulting user on the context. In dev mode (no
// secret or static token configured) every request is accepted as an
// anonymous admin, matching the verifier's own dev-mode bypass.
func AuthMiddleware(verifier *authn.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier.DevMode() {
			c.Set(currentUserKey, authn.User{ID: "dev", Role: "admin"})
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing Authorization header",
				"hint":  "Use: Authorization: Bearer <token>",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid Authorization header format"})
			c.Abort()
			return
		}

		user, err := verifier.GetCurrentUser(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) (authn.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return authn.User{}, false
	}
	u, ok := v.(authn.User)
	return u, ok
}

package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/parcops/parc_backend/utils"
)

// AuthMiddleware validates a bearer token and populates the caller identity
// into the request context. The movement core trusts the identity as given;
// issuing tokens is the identity provider's job.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, _ := validate.Claims.(*utils.JwtCustomClaim)

		ctx := c.Request.Context()
		ctx = utils.SetTokenInContext(ctx, auth)
		ctx = utils.SetUserIdInContext(ctx, claim.ID)
		ctx = utils.SetUserNameInContext(ctx, claim.Name)
		ctx = utils.SetRoleInContext(ctx, claim.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireUser rejects requests that reached a mutating endpoint without an
// authenticated identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

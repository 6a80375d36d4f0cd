package middleware

import (
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
)

// RiderIDKey for storing the authenticated rider id in Gin context
const RiderIDKey = "rider_id"

// RiderIDHeader is trusted by HeaderAuth only.
const RiderIDHeader = "X-Rider-ID"

// GetRiderID returns the rider id set by HeaderAuth, or else the subject
// of the validated JWT in the request context.
func GetRiderID(c *gin.Context) (string, bool) {
	if v, exists := c.Get(RiderIDKey); exists {
		id, ok := v.(string)
		return id, ok && id != ""
	}

	claims, exists := c.Request.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !exists {
		GetLogger(c).DebugContext(c, "no rider claims found in context")
		return "", false
	}
	if claims.RegisteredClaims.Subject == "" {
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}

// RequireRider aborts with 401 unless an earlier handler established who
// the rider is.
func RequireRider() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetRiderID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"})
			return
		}
		c.Set(RiderIDKey, id)
		c.Next()
	}
}

// HeaderAuth takes the rider id from the X-Rider-ID header. It does no
// verification and is only for tests and local development.
func HeaderAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(RiderIDHeader); id != "" {
			c.Set(RiderIDKey, id)
		}
		c.Next()
	}
}

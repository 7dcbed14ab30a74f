package ginserver

import (
	"strings"

	gin "github.com/gin-gonic/gin"
)

const callerContextKey = "teamdesk.caller"

// Identity trusts the gateway-authenticated X-User-ID header. The service
// never sees credentials; an absent header surfaces as a missing-identity
// error in the handlers rather than a transport rejection.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader("X-User-ID")); id != "" {
			c.Set(callerContextKey, id)
		}
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(callerContextKey)
}

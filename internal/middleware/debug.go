package middleware

import (
	"apartments/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Debug marks every request with whether error details may be exposed.
func Debug(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.DebugKey, enabled)
		c.Next()
	}
}

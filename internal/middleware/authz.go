package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireMode guards routes that only make sense under one lens, like
// applying to tasks under tasker mode.
func RequireMode(mode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("mode")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no mode in context"})
			return
		}
		current, _ := v.(string)
		if current != mode {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "switch to " + mode + " mode first"})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get("is_admin")
		isAdmin, _ := v.(bool)
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

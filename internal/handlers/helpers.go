package handlers

import (
	"github.com/gin-gonic/gin"
)

func getStrFromCtx(c *gin.Context, key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func currentUser(c *gin.Context) (userID, role, mode string) {
	if v, ok := getStrFromCtx(c, "user_id"); ok {
		userID = v
	}
	if v, ok := getStrFromCtx(c, "role"); ok {
		role = v
	}
	if v, ok := getStrFromCtx(c, "mode"); ok {
		mode = v
	}
	return
}

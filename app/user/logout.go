package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Logout destroys the session unconditionally by expiring the cookies.
func Logout(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.SetCookie("logged_in", "", -1, "/", "", false, false)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Session ended",
		"category":  "info",
		"requestID": requestID,
	})
}

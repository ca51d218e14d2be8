package user

import (
	"net/http"

	"discoverlx/poi-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Delete removes the logged-in user's account together with all their
// contents and media files.
func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	if err := d.Accounts.Delete(c.Request.Context(), userID); err != nil {
		status, category := statusOf(err)

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"category":  category,
			"requestID": requestID,
		})

		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to delete account", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.SetCookie("logged_in", "", -1, "/", "", false, false)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Account deleted",
		"category":  "success",
		"requestID": requestID,
	})
}

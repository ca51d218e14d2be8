package user

import (
	"errors"
	"net/http"

	"discoverlx/poi-api/internal"
	"discoverlx/poi-api/internal/account"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Validate handles the activation link from the mail. On success the
// response carries the setup token the caller must present to SetPassword.
func Validate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No validation token provided",
			"category":  "error",
			"requestID": requestID,
		})
		return
	}

	res, err := d.Accounts.Activate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, account.ErrAlreadyValidated) {
			c.JSON(http.StatusOK, gin.H{
				"message":   "Email already validated. You can log in",
				"category":  "info",
				"requestID": requestID,
			})
			return
		}

		status, category := statusOf(err)

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"category":  category,
			"requestID": requestID,
		})

		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to validate account", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Email validated successfully! Set your password now",
		"category":   "success",
		"setupToken": res.SetupToken,
		"username":   res.User.Username,
		"requestID":  requestID,
	})
}

package user

import (
	"net/http"

	"discoverlx/poi-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type setPasswordBody struct {
	SetupToken      string `json:"setupToken"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func SetPassword(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data setPasswordBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"category":  "error",
			"requestID": requestID,
		})
		return
	}

	_, err := d.Accounts.SetPassword(c.Request.Context(), data.SetupToken, data.Password, data.PasswordConfirm)
	if err != nil {
		status, category := statusOf(err)

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"category":  category,
			"requestID": requestID,
		})

		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to set password", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Password set successfully! You can now log in",
		"category":  "success",
		"requestID": requestID,
	})
}

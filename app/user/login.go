package user

import (
	"fmt"
	"net/http"

	"discoverlx/poi-api/internal"
	"discoverlx/poi-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Remember   bool   `json:"remember"`
}

func Login(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"category":  "error",
			"requestID": requestID,
		})
		return
	}

	user, err := d.Accounts.Login(c.Request.Context(), data.Identifier, data.Password)
	if err != nil {
		status, category := statusOf(err)

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"category":  category,
			"requestID": requestID,
		})

		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to log in user", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	ttl := security.SessionTTL
	if data.Remember {
		ttl = security.RememberSessionTTL
	}

	authToken, err := d.Sessions.Issue(user.ID, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"category":  "error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue session token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	maxAge := int(ttl.Seconds())

	c.SetCookie("auth_token", authToken, maxAge, "/", "", false, true)
	c.SetCookie("logged_in", "1", maxAge, "/", "", false, false)
	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("Welcome, %s!", user.Username),
		"category":  "success",
		"userID":    user.ID,
		"username":  user.Username,
		"requestID": requestID,
	})
}

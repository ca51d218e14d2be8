package user

import (
	"fmt"
	"net/http"

	"discoverlx/poi-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func Register(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"category":  "error",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	res, err := d.Accounts.Register(c.Request.Context(), data.Username, data.Email)
	if err != nil {
		status, category := statusOf(err)

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"category":  category,
			"requestID": requestID,
		})

		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to register user", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	if !res.MailSent {
		// Mail delivery is best-effort. The account is committed either
		// way, so hand the link to the caller instead of failing
		c.JSON(http.StatusOK, gin.H{
			"message":        fmt.Sprintf("Registration complete! We couldn't send the validation mail, use this link instead: %s", res.ActivationLink),
			"category":       "warning",
			"activationLink": res.ActivationLink,
			"requestID":      requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("Registration complete! Check %s to validate your account", res.User.Email),
		"category":  "success",
		"requestID": requestID,
	})
}

package middleware

import (
	"errors"
	"net/http"

	"discoverlx/poi-api/internal/model"
	"discoverlx/poi-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewAuthMiddleware guards routes behind a valid session cookie. The account
// is re-checked against the database so a deleted or not yet validated user
// can't keep using an old session token.
func NewAuthMiddleware(db *gorm.DB, sessions *security.SessionGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr, err := c.Cookie("auth_token")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Please log in to access this page",
				"category":  "info",
				"requestID": requestID,
			})
			return
		}

		userID, err := sessions.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Session expired. Please log in again",
				"category":  "info",
				"requestID": requestID,
			})
			return
		}

		var user model.User

		err = db.Where("id = ?", userID).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Account no longer exists",
					"category":  "error",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"category":  "error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !user.Validated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Please validate your email before using the service",
				"category":  "warning",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", user.ID)
		c.Set("username", user.Username)
		c.Next()
	}
}

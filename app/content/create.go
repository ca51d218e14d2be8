package content

import (
	"net/http"

	"discoverlx/poi-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	media, f, err := formMedia(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"category":  "error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open multipart file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	if f != nil {
		defer f.Close()
	}

	created, err := d.Contents.Create(c.Request.Context(), userID, formInput(c), media)
	if err != nil {
		status, category := statusOf(err)

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"category":  category,
			"requestID": requestID,
		})

		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to create content", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Content created successfully!",
		"category":  "success",
		"content":   created,
		"requestID": requestID,
	})
}

package content

import (
	"net/http"
	"strconv"

	"discoverlx/poi-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Edit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid content ID",
			"category":  "error",
			"requestID": requestID,
		})
		return
	}

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

	updated, err := d.Contents.Update(c.Request.Context(), userID, uint(id), formInput(c), media)
	if err != nil {
		status, category := statusOf(err)

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"category":  category,
			"requestID": requestID,
		})

		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to update content", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Content updated successfully!",
		"category":  "success",
		"content":   updated,
		"requestID": requestID,
	})
}

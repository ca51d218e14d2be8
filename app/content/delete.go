package content

import (
	"net/http"
	"strconv"

	"discoverlx/poi-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Delete(c *gin.Context, d *internal.Deps) {
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

	if err := d.Contents.Delete(c.Request.Context(), userID, uint(id)); err != nil {
		status, category := statusOf(err)

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"category":  category,
			"requestID": requestID,
		})

		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to delete content", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Content deleted successfully!",
		"category":  "success",
		"requestID": requestID,
	})
}

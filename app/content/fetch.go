package content

import (
	"net/http"
	"strconv"

	"discoverlx/poi-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Fetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid content ID",
			"category":  "error",
			"requestID": requestID,
		})
		return
	}

	v, err := d.Contents.Get(c.Request.Context(), uint(id))
	if err != nil {
		status, category := statusOf(err)

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"category":  category,
			"requestID": requestID,
		})

		if status == http.StatusInternalServerError {
			zap.L().Error("Failed to fetch content", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, v)
}

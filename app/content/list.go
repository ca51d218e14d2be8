package content

import (
	"net/http"

	"discoverlx/poi-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// List returns every geo-tagged content for the public map.
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	views, err := d.Contents.ListGeo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"category":  "error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list contents", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, views)
}

package content

import (
	"errors"
	"io"
	"net/http"

	"discoverlx/poi-api/internal"
	"discoverlx/poi-api/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Serve streams a stored media file by its key.
func Serve(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No media key provided",
			"category":  "error",
			"requestID": requestID,
		})
		return
	}

	r, err := d.Store.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Media not found",
				"category":  "error",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"category":  "error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open media file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer r.Close()

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, r); err != nil {
		zap.L().Debug("Media stream interrupted", zap.Error(err), zap.String("requestID", requestID))
	}
}

package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SearchLocation only acknowledges the query. Geocoding is delegated to the
// frontend, which calls Nominatim directly.
func SearchLocation(c *gin.Context) {
	if c.Query("q") == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Empty query",
			"category": "error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Use the frontend to search locations",
	})
}

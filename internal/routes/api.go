package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Setup404Handler configures the fallback for unknown paths. The webhook
// surface is tiny, so anything else is a misconfigured subscription URL.
func Setup404Handler(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not_found",
			"path":  c.Request.URL.Path,
		})
	})
}

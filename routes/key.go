package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"internship-registry-server/config"
)

// RegisterKeyRoutes registers the assistant key handout route
func RegisterKeyRoutes(router *gin.Engine) {
	router.GET("/getGeminiKey", getGeminiKey)
}

// getGeminiKey hands the client the Gemini API key used by the in-app
// assistant. The key lives in server config so the mobile build does not
// have to ship it.
func getGeminiKey(c *gin.Context) {
	key := config.AppConfig.Assistant.GeminiAPIKey
	if key == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key})
}

package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title TrustStars Ingestion API
// @version 1.0
// @description Ingestion and scoring pipeline for tracked GitHub repositories
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the sync secret.

// SetupRouter configures the API routes
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		repositories := v1.Group("/repositories")
		{
			repositories.GET("", h.ListRepositories)
			repositories.POST("", h.AddRepository)
			repositories.GET("/:owner/:repo", h.GetRepository)
			repositories.GET("/:owner/:repo/history", h.GetRepositoryHistory)
		}

		v1.POST("/sync", h.SyncAll)

		v1.DELETE("/users/:id/repositories/:owner/:repo", h.UnlinkRepository)
	}

	return r
}

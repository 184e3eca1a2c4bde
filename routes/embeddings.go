package routes

import (
	"errors"
	"net/http"

	"knowledgebase-backend/internal/config"
	"knowledgebase-backend/internal/telemetry"
	"knowledgebase-backend/middleware"
	"knowledgebase-backend/models"
	"knowledgebase-backend/services"
	"knowledgebase-backend/utils"

	"github.com/gin-gonic/gin"
)

// SetupEmbeddingRoutes registers the synchronous regeneration endpoint,
// token-gated. The background queue uses the same service; this endpoint
// exists for scripted rebuilds and debugging.
func SetupEmbeddingRoutes(router *gin.Engine, cfg *config.Config, embeddings *services.EmbeddingService, metrics *telemetry.Metrics) {
	group := router.Group("/api/embeddings")
	group.Use(middleware.RequireEditToken(cfg))

	group.POST("/generate", func(c *gin.Context) {
		var req struct {
			Collection string `json:"collection"`
			Slug       string `json:"slug" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Slug required", err.Error())
			return
		}

		collection := models.CollectionArticles
		switch req.Collection {
		case "", string(models.CollectionArticles):
		case string(models.CollectionProfiles):
			collection = models.CollectionProfiles
		default:
			utils.RespondWithBadRequest(c, "Unknown collection", "use \"articles\" or \"profiles\"")
			return
		}

		count, err := embeddings.Regenerate(c.Request.Context(), collection, req.Slug)
		if metrics != nil {
			metrics.RecordRegeneration(string(collection), count, err == nil)
		}
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithNotFound(c, "Document not found")
			return
		}
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate embeddings", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "chunksCreated": count})
	})
}

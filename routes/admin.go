package routes

import (
	"net/http"

	"knowledgebase-backend/internal/config"
	"knowledgebase-backend/internal/store"
	"knowledgebase-backend/middleware"
	"knowledgebase-backend/models"
	"knowledgebase-backend/services"
	"knowledgebase-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// SetupAdminRoutes registers the editorial tooling: page import and content
// export. Both sit behind the edit token.
func SetupAdminRoutes(router *gin.Engine, cfg *config.Config, st *store.MongoStore, importer *services.ImportService, exporter *services.ExportService, tasks *asynq.Client) {
	group := router.Group("/api/admin")
	group.Use(middleware.RequireEditToken(cfg))

	group.POST("/import", func(c *gin.Context) {
		var req struct {
			URL string `json:"url" binding:"required,url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "URL required", err.Error())
			return
		}

		article, err := importer.ImportPage(req.URL)
		if err != nil {
			utils.RespondWithInternalError(c, "Import failed", err.Error())
			return
		}

		if err := st.UpsertArticle(c.Request.Context(), article); err != nil {
			utils.RespondWithInternalError(c, "Failed to save imported article", err.Error())
			return
		}

		// Chunks are built now but stay invisible to retrieval until the
		// draft is approved.
		enqueueRegeneration(tasks, models.CollectionArticles, article.Slug)

		c.JSON(http.StatusOK, gin.H{
			"ok":     true,
			"slug":   article.Slug,
			"title":  article.Title,
			"status": article.Status,
		})
	})

	group.GET("/export", func(c *gin.Context) {
		collection := models.Collection(c.DefaultQuery("collection", string(models.CollectionArticles)))
		if collection != models.CollectionArticles && collection != models.CollectionProfiles {
			utils.RespondWithBadRequest(c, "Unknown collection", "use \"articles\" or \"profiles\"")
			return
		}

		if err := exporter.StreamExcel(c, collection); err != nil {
			utils.RespondWithInternalError(c, "Export failed", err.Error())
		}
	})
}

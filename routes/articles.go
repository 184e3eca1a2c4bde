package routes

import (
	"errors"
	"net/http"

	"knowledgebase-backend/internal/config"
	"knowledgebase-backend/internal/logger"
	"knowledgebase-backend/internal/queue"
	"knowledgebase-backend/internal/store"
	"knowledgebase-backend/middleware"
	"knowledgebase-backend/models"
	"knowledgebase-backend/services"
	"knowledgebase-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// SetupArticleRoutes registers public reads and token-gated writes for
// articles. Every successful write enqueues a background regeneration of
// the document's embedding chunks; the write acknowledges before that work
// starts.
func SetupArticleRoutes(router *gin.Engine, cfg *config.Config, st *store.MongoStore, tasks *asynq.Client) {
	group := router.Group("/api/articles")

	group.GET("", func(c *gin.Context) {
		articles, err := st.ListArticles(c.Request.Context(), true)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list articles", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"articles": articles, "total": len(articles)})
	})

	group.GET("/:slug", func(c *gin.Context) {
		article, err := st.GetArticle(c.Request.Context(), c.Param("slug"))
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithNotFound(c, "Article not found")
			return
		}
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load article", err.Error())
			return
		}
		if article.Status != models.StatusApproved {
			utils.RespondWithNotFound(c, "Article not found")
			return
		}
		c.JSON(http.StatusOK, article)
	})

	gated := group.Group("")
	gated.Use(middleware.RequireEditToken(cfg))

	gated.POST("/upsert", func(c *gin.Context) {
		var article models.Article
		if err := c.ShouldBindJSON(&article); err != nil {
			utils.RespondWithBadRequest(c, "Invalid article", err.Error())
			return
		}

		if err := st.UpsertArticle(c.Request.Context(), &article); err != nil {
			utils.RespondWithInternalError(c, "Failed to save article", err.Error())
			return
		}

		enqueueRegeneration(tasks, models.CollectionArticles, article.Slug)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	gated.POST("/delete", func(c *gin.Context) {
		var req struct {
			Slug string `json:"slug" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Missing slug", err.Error())
			return
		}

		// Chunks go first so the document never outlives its owner check;
		// a chunk cleanup failure is surfaced but does not block deletion.
		if err := st.DeleteChunks(c.Request.Context(), models.CollectionArticles, req.Slug); err != nil {
			logger.Warn("failed to delete article chunks", "slug", req.Slug, "error", err)
		}

		err := st.DeleteArticle(c.Request.Context(), req.Slug)
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithNotFound(c, "Article not found")
			return
		}
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to delete article", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": req.Slug})
	})
}

// enqueueRegeneration dispatches the fire-and-forget chunk rebuild. Enqueue
// failures are logged only; the write has already succeeded.
func enqueueRegeneration(tasks *asynq.Client, collection models.Collection, slug string) {
	task, err := queue.NewRegenerateTask(collection, slug)
	if err != nil {
		logger.Error("failed to build regeneration task", "slug", slug, "error", err)
		return
	}
	if _, err := tasks.Enqueue(task); err != nil {
		logger.Error("failed to enqueue regeneration", "slug", slug, "error", err)
	}
}

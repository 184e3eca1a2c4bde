package routes

import (
	"errors"
	"net/http"

	"knowledgebase-backend/internal/config"
	"knowledgebase-backend/internal/logger"
	"knowledgebase-backend/internal/store"
	"knowledgebase-backend/middleware"
	"knowledgebase-backend/models"
	"knowledgebase-backend/services"
	"knowledgebase-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// SetupProfileRoutes mirrors the article routes for people profiles.
func SetupProfileRoutes(router *gin.Engine, cfg *config.Config, st *store.MongoStore, tasks *asynq.Client) {
	group := router.Group("/api/profiles")

	group.GET("", func(c *gin.Context) {
		profiles, err := st.ListProfiles(c.Request.Context(), true)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list profiles", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"profiles": profiles, "total": len(profiles)})
	})

	group.GET("/:slug", func(c *gin.Context) {
		profile, err := st.GetProfile(c.Request.Context(), c.Param("slug"))
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithNotFound(c, "Profile not found")
			return
		}
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load profile", err.Error())
			return
		}
		if profile.Status != models.StatusApproved {
			utils.RespondWithNotFound(c, "Profile not found")
			return
		}
		c.JSON(http.StatusOK, profile)
	})

	gated := group.Group("")
	gated.Use(middleware.RequireEditToken(cfg))

	gated.POST("/upsert", func(c *gin.Context) {
		var profile models.Profile
		if err := c.ShouldBindJSON(&profile); err != nil {
			utils.RespondWithBadRequest(c, "Missing required fields", err.Error())
			return
		}

		if err := st.UpsertProfile(c.Request.Context(), &profile); err != nil {
			utils.RespondWithInternalError(c, "Failed to save profile", err.Error())
			return
		}

		enqueueRegeneration(tasks, models.CollectionProfiles, profile.Slug)

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

		if err := st.DeleteChunks(c.Request.Context(), models.CollectionProfiles, req.Slug); err != nil {
			logger.Warn("failed to delete profile chunks", "slug", req.Slug, "error", err)
		}

		err := st.DeleteProfile(c.Request.Context(), req.Slug)
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithNotFound(c, "Profile not found")
			return
		}
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to delete profile", err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": req.Slug})
	})
}

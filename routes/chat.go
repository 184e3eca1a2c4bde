package routes

import (
	"net/http"

	"knowledgebase-backend/internal/logger"
	"knowledgebase-backend/models"
	"knowledgebase-backend/services"
	"knowledgebase-backend/utils"

	"github.com/gin-gonic/gin"
)

// SetupChatRoutes registers the public question-answering endpoint.
func SetupChatRoutes(router *gin.Engine, retrieval *services.RetrievalService) {
	router.POST("/api/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Message required", err.Error())
			return
		}

		resp, err := retrieval.Answer(c.Request.Context(), req.Message)
		if err != nil {
			logger.Error("chat request failed", "error", err)
			utils.RespondWithInternalError(c, "Failed to answer question", err.Error())
			return
		}

		c.JSON(http.StatusOK, resp)
	})
}

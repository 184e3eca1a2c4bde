package middleware

import (
	"crypto/subtle"

	"knowledgebase-backend/internal/config"
	"knowledgebase-backend/utils"

	"github.com/gin-gonic/gin"
)

// EditTokenHeader carries the shared write secret. The scheme is a single
// static token by design; there are no users or sessions to manage.
const EditTokenHeader = "x-edit-token"

// RequireEditToken gates write endpoints. The check runs before any side
// effect and rejects with 401 on mismatch.
func RequireEditToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(EditTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.EditToken)) != 1 {
			utils.RespondWithUnauthorized(c, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

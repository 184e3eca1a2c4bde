package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"knowledgebase-backend/internal/config"

	"github.com/gin-gonic/gin"
)

func editTokenRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/write", RequireEditToken(&config.Config{EditToken: token}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestRequireEditToken(t *testing.T) {
	router := editTokenRouter("s3cret")

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "s3cret", http.StatusOK},
		{"wrong token", "wrong", http.StatusUnauthorized},
		{"missing token", "", http.StatusUnauthorized},
		{"prefix only", "s3c", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/write", nil)
			if tc.header != "" {
				req.Header.Set(EditTokenHeader, tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("status %d, want %d", w.Code, tc.want)
			}
		})
	}
}

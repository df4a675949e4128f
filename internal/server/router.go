package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all routes registered under
// /api/v1.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		documents := v1.Group("/documents")
		{
			documents.POST("", h.UploadDocuments)
			documents.DELETE("", h.ClearDocuments)
		}

		v1.POST("/chat", h.Chat)

		sessions := v1.Group("/sessions")
		{
			sessions.GET("", h.ListSessions)
			sessions.GET("/:id", h.GetSession)
			sessions.POST("/:id/export", h.ExportSession)
			sessions.DELETE("/:id", h.DeleteSession)
		}

		voice := v1.Group("/voice")
		{
			voice.POST("/transcriptions", h.Transcribe)
			voice.POST("/speech", h.Speak)
		}
	}

	return router
}

// Package server exposes the service over HTTP with gin. Handlers stay
// thin: bind the request, call the underlying component, translate the
// error into a status code.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"neochat/internal/chat"
	"neochat/internal/rag/pipeline"
	"neochat/internal/rag/vectorstore"
	"neochat/internal/session"
	"neochat/internal/voice"
	"neochat/pkg/logger"
)

// Handler wraps all API endpoint handlers.
type Handler struct {
	orchestrator *chat.Orchestrator
	indexer      *pipeline.Indexer
	store        *vectorstore.Store
	sessions     *session.Store
	transcriber  voice.Transcriber
	synthesizer  voice.Synthesizer
	uploadDir    string
	log          *logger.Logger
}

// NewHandler creates a new Handler. The transcriber and synthesizer may
// be nil when no voice backend is configured; their endpoints then
// report the feature as unavailable.
func NewHandler(
	orchestrator *chat.Orchestrator,
	indexer *pipeline.Indexer,
	store *vectorstore.Store,
	sessions *session.Store,
	transcriber voice.Transcriber,
	synthesizer voice.Synthesizer,
	uploadDir string,
	log *logger.Logger,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		indexer:      indexer,
		store:        store,
		sessions:     sessions,
		transcriber:  transcriber,
		synthesizer:  synthesizer,
		uploadDir:    uploadDir,
		log:          log,
	}
}

// --- Document Handlers ---

// UploadDocuments receives multipart file uploads, saves them to the
// upload directory and runs the indexing pipeline over them.
func (h *Handler) UploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	var paths []string
	for _, file := range files {
		dst := filepath.Join(h.uploadDir, filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to save %s: %v", file.Filename, err)})
			return
		}
		paths = append(paths, dst)
	}

	if err := h.indexer.IndexFiles(c.Request.Context(), paths); err != nil {
		if errors.Is(err, pipeline.ErrNoDocuments) || errors.Is(err, pipeline.ErrNoChunks) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "documents indexed", "files": len(paths)})
}

// ClearDocuments drops the vector index.
func (h *Handler) ClearDocuments(c *gin.Context) {
	if err := h.store.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vector store cleared"})
}

// --- Chat Handlers ---

// ChatRequest is the JSON body of a chat turn.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
	Mode      string `json:"mode"` // "concise" (default) or "detailed"
}

// Chat runs one conversation turn. An empty session_id starts a new
// session; the ID is always echoed back so the client can continue it.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = h.sessions.NewSession()
	}

	reply, err := h.orchestrator.Turn(c.Request.Context(), sessionID, req.Message, chat.Options{Mode: req.Mode})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "reply": reply})
}

// --- Session Handlers ---

// ListSessions returns session IDs ordered by most recent activity.
func (h *Handler) ListSessions(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	ids, err := h.sessions.ListSessions(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": ids})
}

// GetSession returns the full message history of one session.
func (h *Handler) GetSession(c *gin.Context) {
	sessionID := c.Param("id")

	messages, err := h.sessions.Load(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "messages": messages})
}

// ExportSession writes the session to its JSON export file and returns
// the path.
func (h *Handler) ExportSession(c *gin.Context) {
	sessionID := c.Param("id")

	path, err := h.sessions.Export(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "path": path})
}

// DeleteSession removes a session's messages and its export artifact.
func (h *Handler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.sessions.Delete(sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}

// --- Voice Handlers ---

// Transcribe converts an uploaded audio file into text.
func (h *Handler) Transcribe(c *gin.Context) {
	if h.transcriber == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "voice transcription is not configured"})
		return
	}

	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	text, err := h.transcriber.Transcribe(c.Request.Context(), src, file.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// SpeakRequest is the JSON body of a speech synthesis request.
type SpeakRequest struct {
	Text string `json:"text" binding:"required"`
}

// Speak renders text as speech and streams the audio file back.
func (h *Handler) Speak(c *gin.Context) {
	if h.synthesizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "speech synthesis is not configured"})
		return
	}

	var req SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path, err := h.synthesizer.Synthesize(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"property-assistant/internal/model"
	"property-assistant/internal/service"
)

// ChatHandler handles conversation HTTP requests
type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// CreateSession handles POST /api/v1/chat/sessions
func (h *ChatHandler) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.chatService.CreateSession())
}

// ListSessions handles GET /api/v1/chat/sessions
func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions := h.chatService.ListSessions()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// DeleteSession handles DELETE /api/v1/chat/sessions/:id
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	if err := h.chatService.DeleteSession(c.Param("id")); err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), req.SessionID, req.Query)
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ChatStream handles POST /api/v1/chat/stream - SSE streaming reply
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", map[string]any{"session_id": req.SessionID, "query": req.Query})
	flusher.Flush()

	resp, err := h.chatService.ChatStream(c.Request.Context(), req.SessionID, req.Query, func(chunk string) error {
		if err := c.Request.Context().Err(); err != nil {
			return err
		}
		sendSSE(c, "chunk", map[string]any{"text": chunk})
		flusher.Flush()
		return nil
	})
	if err != nil {
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	sendSSE(c, "results", resp)
	flusher.Flush()

	sendSSE(c, "done", nil)
	flusher.Flush()
}

// GetPreferences handles GET /api/v1/chat/sessions/:id/preferences
func (h *ChatHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.chatService.Preferences(c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"preferences": prefs,
		"summary":     prefs.Summary(),
	})
}

// UpdatePreferences handles PUT /api/v1/chat/sessions/:id/preferences
func (h *ChatHandler) UpdatePreferences(c *gin.Context) {
	var prefs model.PreferenceSet
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	updated, err := h.chatService.ReplacePreferences(c.Param("id"), prefs)
	if errors.Is(err, model.ErrInvalidPreference) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"preferences": updated,
		"summary":     updated.Summary(),
	})
}

// ClearPreferences handles DELETE /api/v1/chat/sessions/:id/preferences
func (h *ChatHandler) ClearPreferences(c *gin.Context) {
	if err := h.chatService.ClearPreferences(c.Param("id")); err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Preferences cleared"})
}

// Stats handles GET /api/v1/chat/sessions/:id/stats
func (h *ChatHandler) Stats(c *gin.Context) {
	stats, err := h.chatService.Stats(c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ChatHandler) sessionError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	h.logger.Error("chat request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}

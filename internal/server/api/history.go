package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ayusman/mudra/internal/store"
)

// HistoryHandler serves the dispatch history.
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler creates a new HistoryHandler with the given store.
func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

// Register mounts GET /history and DELETE /history on g.
func (h *HistoryHandler) Register(g *gin.RouterGroup) {
	g.GET("/history", h.list)
	g.DELETE("/history", h.clear)
}

type listHistoryResponse struct {
	Entries []store.Entry `json:"entries"`
}

// list handles GET /history?limit=N and returns the newest entries first.
func (h *HistoryHandler) list(c *gin.Context) {
	limit := store.DefaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.store.History().Recent(limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to list history")
		return
	}

	c.JSON(http.StatusOK, listHistoryResponse{Entries: entries})
}

// clear handles DELETE /history.
func (h *HistoryHandler) clear(c *gin.Context) {
	if err := h.store.History().Clear(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to clear history")
		return
	}
	c.Status(http.StatusNoContent)
}

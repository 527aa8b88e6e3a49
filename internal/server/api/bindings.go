// Package api provides HTTP API handlers for managing command bindings and
// browsing dispatch history.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/ayusman/mudra/internal/store"
)

// BindingHandler handles HTTP requests for binding resources.
type BindingHandler struct {
	store *store.Store
}

// NewBindingHandler creates a new BindingHandler with the given store.
func NewBindingHandler(s *store.Store) *BindingHandler {
	return &BindingHandler{store: s}
}

// Register mounts the binding routes on g:
//
//	GET    /bindings
//	POST   /bindings
//	GET    /bindings/:id
//	PUT    /bindings/:id
//	DELETE /bindings/:id
func (h *BindingHandler) Register(g *gin.RouterGroup) {
	g.GET("/bindings", h.list)
	g.POST("/bindings", h.create)
	g.GET("/bindings/:id", h.get)
	g.PUT("/bindings/:id", h.update)
	g.DELETE("/bindings/:id", h.delete)
}

// Request and response types

type createBindingRequest struct {
	FingerCount int    `json:"finger_count"`
	Command     string `json:"command"`
	Enabled     *bool  `json:"enabled"`
}

type updateBindingRequest struct {
	FingerCount *int    `json:"finger_count"`
	Command     *string `json:"command"`
	Enabled     *bool   `json:"enabled"`
}

type bindingResponse struct {
	ID          string `json:"id"`
	FingerCount int    `json:"finger_count"`
	Command     string `json:"command"`
	Enabled     bool   `json:"enabled"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Binding to a bindingResponse.
func toResponse(b *store.Binding) bindingResponse {
	return bindingResponse{
		ID:          b.ID,
		FingerCount: b.FingerCount,
		Command:     b.Command,
		Enabled:     b.Enabled,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
}

// writeError writes a JSON error response and stops the handler chain.
func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}

// writeStoreError maps store sentinels onto HTTP statuses.
func writeStoreError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(c, http.StatusNotFound, "Binding not found")
	case errors.Is(err, store.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalid):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "Failed to "+action+" binding")
	}
}

// list handles GET /bindings and returns all bindings.
func (h *BindingHandler) list(c *gin.Context) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeStoreError(c, err, "list")
		return
	}

	response := listBindingsResponse{
		Bindings: make([]bindingResponse, 0, len(bindings)),
	}
	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toResponse(b))
	}

	c.JSON(http.StatusOK, response)
}

// get handles GET /bindings/:id and returns a single binding.
func (h *BindingHandler) get(c *gin.Context) {
	b, err := h.store.Bindings().GetByID(c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "get")
		return
	}

	c.JSON(http.StatusOK, toResponse(b))
}

// create handles POST /bindings. New bindings are enabled unless the
// request says otherwise.
func (h *BindingHandler) create(c *gin.Context) {
	var req createBindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid JSON")
		return
	}

	b := &store.Binding{
		FingerCount: req.FingerCount,
		Command:     req.Command,
		Enabled:     true,
	}
	if req.Enabled != nil {
		b.Enabled = *req.Enabled
	}

	if err := h.store.Bindings().Create(b); err != nil {
		writeStoreError(c, err, "create")
		return
	}

	c.JSON(http.StatusCreated, toResponse(b))
}

// update handles PUT /bindings/:id. Fields absent from the request keep
// their stored values.
func (h *BindingHandler) update(c *gin.Context) {
	b, err := h.store.Bindings().GetByID(c.Param("id"))
	if err != nil {
		writeStoreError(c, err, "get")
		return
	}

	var req updateBindingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.FingerCount != nil {
		b.FingerCount = *req.FingerCount
	}
	if req.Command != nil {
		b.Command = *req.Command
	}
	if req.Enabled != nil {
		b.Enabled = *req.Enabled
	}

	if err := h.store.Bindings().Update(b); err != nil {
		writeStoreError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, toResponse(b))
}

// delete handles DELETE /bindings/:id.
func (h *BindingHandler) delete(c *gin.Context) {
	if err := h.store.Bindings().Delete(c.Param("id")); err != nil {
		writeStoreError(c, err, "delete")
		return
	}

	c.Status(http.StatusNoContent)
}

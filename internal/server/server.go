// Package server provides the HTTP server: bindings and history APIs, a
// live annotated MJPEG preview and a WebSocket feed of finger counts.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// DefaultPreviewWidth is the width, in pixels, of streamed preview frames.
const DefaultPreviewWidth = 320

// Source publishes processed frames.
type Source interface {
	Subscribe() (<-chan app.Snapshot, func())
	Latest() (app.Snapshot, bool)
}

// Controller is the running application as seen by the server.
type Controller interface {
	Source
	SetEnabled(enabled bool)
	IsEnabled() bool
	IsRunning() bool
	Stats() app.Stats
}

// Config holds the server configuration. Routes whose dependency is nil
// are not registered.
type Config struct {
	StaticDir    string
	Store        *store.Store
	App          Controller
	Settings     *config.Config
	PreviewWidth int
}

// Server represents the HTTP server for the mudra application.
type Server struct {
	config Config
	engine *gin.Engine
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.PreviewWidth <= 0 {
		config.PreviewWidth = DefaultPreviewWidth
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.HandleMethodNotAllowed = true

	s := &Server{
		config: config,
		engine: engine,
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	g := s.engine.Group("/api")
	g.GET("/health", s.handleHealth)

	if s.config.Settings != nil {
		g.GET("/config", s.handleConfig)
	}

	if s.config.Store != nil {
		api.NewBindingHandler(s.config.Store).Register(g)
		api.NewHistoryHandler(s.config.Store).Register(g)
	}

	if s.config.App != nil {
		g.GET("/enabled", s.handleGetEnabled)
		g.PUT("/enabled", s.handleSetEnabled)

		stream := NewStreamHandler(s.config.App, s.config.PreviewWidth)
		g.GET("/stream", stream.Stream)
		g.GET("/snapshot.jpg", stream.Snapshot)

		g.GET("/results", gin.WrapH(NewResultsHandler(s.config.App)))
	}

	if s.config.StaticDir != "" {
		s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.config.StaticDir))))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

type healthResponse struct {
	Status  string     `json:"status"`
	Uptime  string     `json:"uptime"`
	Running *bool      `json:"running,omitempty"`
	Enabled *bool      `json:"enabled,omitempty"`
	Stats   *app.Stats `json:"stats,omitempty"`
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{
		Status: "ok",
		Uptime: time.Since(s.start).Round(time.Second).String(),
	}

	if a := s.config.App; a != nil {
		running, enabled, stats := a.IsRunning(), a.IsEnabled(), a.Stats()
		resp.Running = &running
		resp.Enabled = &enabled
		resp.Stats = &stats
	}

	c.JSON(http.StatusOK, resp)
}

// handleConfig handles GET /api/config and returns the effective settings.
func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.config.Settings)
}

type enabledBody struct {
	Enabled *bool `json:"enabled"`
}

// handleGetEnabled handles GET /api/enabled.
func (s *Server) handleGetEnabled(c *gin.Context) {
	enabled := s.config.App.IsEnabled()
	c.JSON(http.StatusOK, enabledBody{Enabled: &enabled})
}

// handleSetEnabled handles PUT /api/enabled with {"enabled": bool}.
func (s *Server) handleSetEnabled(c *gin.Context) {
	var body enabledBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Enabled == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": `body must be {"enabled": true|false}`})
		return
	}

	s.config.App.SetEnabled(*body.Enabled)
	c.JSON(http.StatusOK, body)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return s.engine.Run(addr)
}

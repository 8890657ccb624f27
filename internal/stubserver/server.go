// Package stubserver provides a local stand-in for the chat backend.
package stubserver

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server answers POST /chat with an echo of the message
type Server struct {
	echo     *echo.Echo
	requests atomic.Int64
}

// NewServer creates the stub backend
func NewServer() *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	s := &Server{echo: e}

	e.GET("/health", s.handleHealth)
	e.POST("/chat", s.handleChat)

	return s
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ChatRequest is the body the widget posts
type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// ChatResponse carries the reply text
type ChatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "healthy",
		"requests": s.requests.Load(),
	})
}

func (s *Server) handleChat(c echo.Context) error {
	s.requests.Add(1)

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_id is required"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	c.Logger().Debugf("stub reply for %s", req.UserID)
	return c.JSON(http.StatusOK, ChatResponse{Reply: "Echo: " + req.Message})
}

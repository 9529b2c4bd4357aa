// Package rest exposes the account and verification flows over HTTP using
// gin. Routes live under /api/v1; the user endpoints require a bearer token.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmatveev/authd/internal/logging"
)

// Server wraps the HTTP listener around the gin router.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

func NewServer(addr string, h *Handler, parser TokenParser, logger logging.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(h, parser),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With("module", "http_server"),
	}
}

// NewRouter assembles the gin engine with recovery, CORS and all routes.
func NewRouter(h *Handler, parser TokenParser) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api/v1")

	api.POST("/auth/signup", h.SignUp)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/verify", h.Verify)
	api.POST("/auth/resend", h.Resend)

	protected := api.Group("", RequireToken(parser))
	protected.GET("/users/me", h.Me)
	protected.GET("/users", h.ListUsers)
	protected.GET("/users/:id", h.GetUser)
	protected.PUT("/users/:id", h.UpdateUser)
	protected.DELETE("/users/:id", h.DeleteUser)

	return r
}

// Run blocks serving requests until Shutdown is called.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "http server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "http server stopping")
	return s.httpServer.Shutdown(ctx)
}

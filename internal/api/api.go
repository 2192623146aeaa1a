package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/stackmatch/stackmatch/internal/api/handler"
	"github.com/stackmatch/stackmatch/internal/api/middleware"
	"github.com/stackmatch/stackmatch/internal/config"
	"github.com/stackmatch/stackmatch/internal/database"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	db        database.DB
}

func New(cfg *config.Config, db database.DB) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	s := &Server{
		cfg:       cfg,
		ginEngine: gin.New(),
		db:        db,
	}
	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.ginEngine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log.Default().WithPrefix("http")),
	)
	if s.cfg.Gzip {
		s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	s.ginEngine.Use(middleware.CORS())
}

func (s *Server) setupRoutes() {
	h := handler.New(s.db)

	s.ginEngine.GET("/", h.Health)

	s.ginEngine.POST("/users", h.RegisterUser)
	s.ginEngine.GET("/users", h.ListUsers)
	s.ginEngine.PUT("/users/:id", h.UpdateUser)
	s.ginEngine.POST("/login", h.Login)

	s.ginEngine.POST("/send", h.SendMessage)
	s.ginEngine.GET("/messages/:user_id", h.GetMessages)

	s.ginEngine.POST("/swipe", h.SaveSwipe)
	s.ginEngine.GET("/swipes/:user_id", h.GetSwipedUsers)

	// preflight requests are answered by the CORS middleware
	s.ginEngine.OPTIONS("/*path", func(c *gin.Context) {})
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.ginEngine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

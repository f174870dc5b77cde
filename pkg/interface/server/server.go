package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// UseCase is the part of the lookup use case the API exposes
type UseCase interface {
	Run(ctx context.Context, kind entity.TargetKind, value string) (any, error)
	Platforms() []string
}

// Config holds the API server configuration
type Config struct {
	// Listen is the TCP address to bind
	Listen string
	// Metrics serves /metrics when set
	Metrics http.Handler
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration
}

// Server is the JSON API over the lookup tools
type Server struct {
	config  Config
	useCase UseCase
	engine  *gin.Engine
}

// New creates the API server and registers its routes
func New(config Config, useCase UseCase) *Server {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		config:  config,
		useCase: useCase,
		engine:  gin.New(),
	}
	s.engine.Use(gin.Recovery(), accessLog())
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	for _, kind := range entity.TargetKinds {
		api.GET("/"+string(kind), s.handleTool(kind))
	}
	api.GET("/platforms", s.handlePlatforms)

	s.engine.GET("/healthz", func(c *gin.Context) {
		writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
	})
	if s.config.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.config.Metrics))
	}
}

// Handler returns the HTTP handler of the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("listen", s.config.Listen).Info("serving JSON API")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleTool(kind entity.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			writeJSON(c, http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
			return
		}

		report, err := s.useCase.Run(c.Request.Context(), kind, query)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, entity.ErrEmptyTarget) {
				status = http.StatusBadRequest
			}
			writeJSON(c, status, gin.H{"error": err.Error()})
			return
		}

		writeJSON(c, http.StatusOK, report)
	}
}

func (s *Server) handlePlatforms(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"platforms": s.useCase.Platforms()})
}

func writeJSON(c *gin.Context, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"query":    c.Request.URL.RawQuery,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}).Info("request")
	}
}

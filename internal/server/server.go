// Package server exposes the decode pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/decode"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
)

// MaxBodyBytes bounds request bodies. Uploads arrive base64-encoded.
const MaxBodyBytes = 32 << 20

// Server wires the handlers into a gin engine.
type Server struct {
	engine *gin.Engine
	svc    *decode.Service
	log    *logger.Logger
}

// New builds the router for svc.
func New(svc *decode.Service, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{svc: svc, log: log.With("component", "server")}
	s.engine = s.router()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("k30"))
	r.Use(AttachRequestID())
	r.Use(RequestLogger(s.log))
	r.Use(LimitBody(MaxBodyBytes))

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "not found"})
	})

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	{
		api.POST("/decode", s.decode)
		api.POST("/hints", s.hints)
		api.POST("/refine", s.refine)
		api.POST("/extract", s.extract)
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

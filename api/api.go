package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mylucky2d3d/crawler/storage"
	"go.uber.org/zap"
)

// Server serves the stored documents read-only.
type Server struct {
	options
	store  storage.Store
	router *gin.Engine
}

func New(store storage.Store, opts ...Option) *Server {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	s := &Server{options: options, store: store}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("address", s.address))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(s.mode)
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog(), cors())

	r.GET("/", s.home)

	g := r.Group("/api/lottery")
	g.GET("", s.daily)
	g.GET("/data", s.dailyData)
	g.GET("/am", s.dailyField("am"))
	g.GET("/pm", s.dailyField("pm"))
	g.GET("/additional", s.dailyField("additional"))
	g.GET("/live", s.live)
	g.GET("/weekly", s.list(storage.Weekly))
	g.GET("/weekly/*date", s.weeklyByDate)
	g.GET("/3d", s.list(storage.ThreeD))
	g.GET("/3d/*date", s.threeDByDate)

	r.NoRoute(s.notFound)
	return r
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

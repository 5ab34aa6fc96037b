package httpapi

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"logistics-insights/internal/config"
	"logistics-insights/internal/metrics"
	"logistics-insights/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// Server is the REST transport of the analyses.
type Server struct {
	svc     *service.Service
	addr    string
	timeout time.Duration
	engine  *gin.Engine
}

var registerTagNames sync.Once

// NewServer builds the router. Call gin.SetMode before it to change the gin mode.
func NewServer(cfg *config.AppConfig, svc *service.Service) *Server {
	registerTagNames.Do(useWireNamesInValidation)

	s := &Server{
		svc:     svc,
		addr:    cfg.HTTPAddr,
		timeout: cfg.RequestTimeout,
		engine:  gin.New(),
	}
	s.engine.Use(gin.Recovery(), s.observe(), s.withTimeout())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.engine.Group("/api/v1/analytics")
	api.GET("/demand", s.handleDemand)
	api.POST("/carriers/recommend", s.handleRecommendCarrier)
	api.GET("/anomalies", s.handleAnomalies)
	api.GET("/warehouses/:id/insights", s.handleWarehouseInsights)
}

// Handler returns the router for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.ObserveHTTP(route, c.Request.Method, strconv.Itoa(status), elapsed)
		log.Debug().
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("HTTP request served")
	}
}

func (s *Server) withTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// useWireNamesInValidation reports validation failures under the query, JSON or path name of a field.
func useWireNamesInValidation() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json", "uri"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

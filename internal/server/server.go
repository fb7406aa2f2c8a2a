// Package server exposes the prediction pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abhisek/learnpulse/internal/dataset"
	"github.com/abhisek/learnpulse/internal/pipeline"
)

const requestIDHeader = "X-Request-Id"

// newcomerMessage greets a learner who has no activity to score yet.
const newcomerMessage = "Welcome! Start learning and your first insight will be ready soon."

// Server wires the HTTP routes to the prediction pipeline.
type Server struct {
	router   *gin.Engine
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
	metrics  *Metrics
}

// New builds the server with logging, recovery, request-id and metrics
// middleware installed.
func New(logger *zap.Logger, p *pipeline.Pipeline, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestID())
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	s := &Server{
		router:   router,
		logger:   logger,
		pipeline: p,
		metrics:  metrics,
	}
	s.registerRoutes()
	return s
}

// Router returns the gin engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.health)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		s.metrics.Registry(), promhttp.HandlerOpts{})))

	v1 := s.router.Group("/v1")
	v1.Use(s.observe())
	v1.POST("/predict", s.predict)
}

// Run serves until ctx is cancelled, then shuts down within grace.
func (s *Server) Run(ctx context.Context, addr string, grace time.Duration) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) predict(c *gin.Context) {
	if s.pipeline == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model artifacts unavailable; train first"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read request body: " + err.Error()})
		return
	}
	ds, err := dataset.Decode(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	results, err := s.pipeline.Predict(c.Request.Context(), ds)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrInsufficientData):
			// A brand-new learner with no events gets a welcome, not an
			// error or a fabricated cluster.
			c.JSON(http.StatusOK, gin.H{
				"user_id":         0,
				"category":        "Newcomer",
				"insight_message": newcomerMessage,
				"metrics":         gin.H{},
			})
		case errors.Is(err, pipeline.ErrModelUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			s.logger.Error("predict failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	for _, r := range results {
		s.metrics.CountPrediction(r.Category)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// observe records request count and latency per route.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(route, c.Request.Method,
			strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// requestID echoes or assigns an X-Request-Id for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

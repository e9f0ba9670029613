// Package server exposes the directory, bot, and webhook HTTP surface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"town-connect/internal/common/config"
	"town-connect/internal/common/logger"
	"town-connect/internal/directory/catalog"
	"town-connect/internal/notify"
	"town-connect/internal/payments"
	"town-connect/internal/search"
	"town-connect/internal/tenant"
)

// Pinger is the readiness contract the backing stores satisfy.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires handlers to their collaborators.
type Server struct {
	cfg      *config.Config
	logger   logger.Logger
	resolver *tenant.Resolver
	catalog  *catalog.Service
	search   *search.Service
	ledger   payments.Ledger
	notifier notify.Notifier
	pingers  []Pinger

	engine *gin.Engine
}

func New(
	cfg *config.Config,
	log logger.Logger,
	resolver *tenant.Resolver,
	cat *catalog.Service,
	searchSvc *search.Service,
	ledger payments.Ledger,
	notifier notify.Notifier,
	pingers ...Pinger,
) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		logger:   log,
		resolver: resolver,
		catalog:  cat,
		search:   searchSvc,
		ledger:   ledger,
		notifier: notifier,
		pingers:  pingers,
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(s.withTenant())

	router.GET("/health", s.handleHealth)
	router.GET("/ready", s.handleReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/tenant", s.handleTenant)
		api.GET("/pricing", s.handlePricing)
		api.GET("/businesses", s.handleBusinesses)
		api.GET("/emergency", s.handleEmergency)
	}

	router.POST("/bot/whatsapp", s.handleWhatsApp)
	router.POST("/webhooks/payfast", s.handlePayFast)

	return router
}

// Handler exposes the router for tests and the HTTP server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestLogger logs one line per request in the structured format.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}

const tenantKey = "tenant"

// withTenant resolves the tenant for every request from the Host header
// and stores it in the request context. Resolution never fails.
func (s *Server) withTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := s.resolver.Resolve(c.Request.Host)
		c.Set(tenantKey, cfg)
		c.Next()
	}
}

func (s *Server) tenantFrom(c *gin.Context) *tenant.Config {
	return c.MustGet(tenantKey).(*tenant.Config)
}

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grachmannico95/donation-be/internal/config"
	"github.com/grachmannico95/donation-be/internal/handler"
	"github.com/grachmannico95/donation-be/internal/metrics"
	"github.com/grachmannico95/donation-be/internal/middleware"
	"github.com/grachmannico95/donation-be/pkg/logger"
)

type Handlers struct {
	Donation  *handler.DonationHandler
	WebSocket *handler.WebSocketHandler
	Health    *handler.HealthHandler
}

type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	logger   *logger.Logger
	handlers Handlers
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	limiter  echoMiddleware.RateLimiterStore
	ready    bool
}

func New(
	cfg *config.Config,
	log *logger.Logger,
	handlers Handlers,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	limiter echoMiddleware.RateLimiterStore,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	return &Server{
		echo:     e,
		cfg:      cfg,
		logger:   log,
		handlers: handlers,
		metrics:  m,
		gatherer: gatherer,
		limiter:  limiter,
	}
}

func (s *Server) Start() error {
	s.setup()

	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info(context.Background(), "Starting HTTP server",
		"address", addr,
	)

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) setup() {
	if s.ready {
		return
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.ready = true
}

func (s *Server) setupMiddleware() {
	s.echo.Use(echoMiddleware.Recover())
	s.echo.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: s.cfg.Realtime.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.HeaderTraceID},
	}))
	s.echo.Use(middleware.RequestID())
	s.echo.Use(middleware.Logging(s.logger))
	s.echo.Use(middleware.Metrics(s.metrics))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.handlers.Health.Welcome)
	s.echo.GET("/health", s.handlers.Health.Check)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	donation := s.echo.Group("/donation")
	donation.POST("/initiate", s.handlers.Donation.Initiate, middleware.RateLimit(s.limiter))
	donation.POST("/callback", s.handlers.Donation.Callback)
	donation.GET("/donors", s.handlers.Donation.Donors)
	donation.GET("/top", s.handlers.Donation.TopDonors)
	donation.GET("/ws", s.handlers.WebSocket.Serve)
}

func (s *Server) Handler() *echo.Echo {
	s.setup()
	return s.echo
}

// Package server provides the HTTP server and route wiring
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platewise/v1/internal/application/demo"
	"github.com/platewise/v1/internal/infrastructure/config"
	"github.com/platewise/v1/internal/infrastructure/http/handlers"
	"github.com/platewise/v1/internal/infrastructure/http/middleware"
	"github.com/platewise/v1/internal/infrastructure/monitoring"
	"github.com/platewise/v1/internal/infrastructure/security"
	"github.com/platewise/v1/internal/ports/inbound"
	"github.com/platewise/v1/pkg/healthcheck"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	router *gin.Engine
	server *http.Server
}

// Services bundles the application services the routes depend on
type Services struct {
	Users           inbound.UserService
	Foods           inbound.FoodService
	Barcode         inbound.BarcodeService
	Dashboard       inbound.DashboardService
	Recommendations inbound.RecommendationService
	Demo            *demo.Generator
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	services Services,
	auth *security.AuthService,
	validator *security.ValidationService,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: cfg,
		logger: logger,
	}
	s.router = s.setupRouter(services, auth, validator, metrics, health)

	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

func (s *Server) setupRouter(
	services Services,
	auth *security.AuthService,
	validator *security.ValidationService,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
) *gin.Engine {
	router := gin.New()

	mw := middleware.New(s.config, s.logger)
	router.Use(mw.RequestID())
	router.Use(mw.Recovery())
	router.Use(mw.Logger())
	router.Use(mw.Security())
	router.Use(mw.CORS())
	router.Use(mw.RateLimit())
	router.Use(metrics.HTTPMiddleware())

	router.MaxMultipartMemory = s.config.Upload.MaxFileSize

	// Probes and metrics sit outside the versioned API
	router.GET(s.config.Monitoring.HealthCheckPath, health.Handler())
	router.GET("/live", health.LivenessHandler())
	router.GET(s.config.Monitoring.ReadinessPath, health.ReadinessHandler())
	if s.config.Monitoring.EnableMetrics {
		router.GET(s.config.Monitoring.MetricsPath, metrics.Handler())
	}

	authHandlers := handlers.NewAuthHandlers(services.Users, validator, s.logger)
	foodHandlers := handlers.NewFoodHandlers(services.Foods, validator, s.logger)
	barcodeHandlers := handlers.NewBarcodeHandlers(services.Barcode, s.config, s.logger)
	dashboardHandlers := handlers.NewDashboardHandlers(services.Dashboard, validator, s.logger)
	aiHandlers := handlers.NewAIHandlers(services.Recommendations, validator, s.logger)
	demoHandlers := handlers.NewDemoHandlers(services.Demo, s.logger)

	// Probes keep responding during maintenance, the API does not
	v1 := router.Group("/api/v1")
	v1.Use(mw.Maintenance())

	public := v1.Group("/auth")
	{
		public.POST("/register", authHandlers.Register)
		public.POST("/login", authHandlers.Login)
		public.POST("/refresh", authHandlers.Refresh)
	}

	private := v1.Group("")
	private.Use(auth.AuthMiddleware())
	{
		private.POST("/auth/logout", authHandlers.Logout)

		private.GET("/users/me", authHandlers.Profile)
		private.PUT("/users/me", authHandlers.UpdateProfile)
		private.PUT("/users/me/preferences", authHandlers.UpdatePreferences)

		private.GET("/foods/search", foodHandlers.Search)
		private.GET("/foods/upc/:code", foodHandlers.LookupUPC)
		private.GET("/foods/:id", foodHandlers.GetFood)
		private.POST("/foods", foodHandlers.CreateFood)

		private.POST("/logs", foodHandlers.LogFood)
		private.GET("/logs", foodHandlers.History)
		private.PUT("/logs/:id", foodHandlers.UpdateLog)
		private.DELETE("/logs/:id", foodHandlers.DeleteLog)

		if s.config.Features.EnableBarcodeScan {
			private.POST("/barcode/scan",
				mw.MaxBodySize(s.config.Upload.MaxFileSize+1<<20),
				barcodeHandlers.Scan)
		}

		private.GET("/dashboard", dashboardHandlers.Today)
		private.GET("/dashboard/nutrition", dashboardHandlers.Nutrition)
		private.GET("/dashboard/analytics", dashboardHandlers.Analytics)
		private.GET("/planner", dashboardHandlers.Planner)
		private.POST("/planner", dashboardHandlers.SavePlan)

		if s.config.Features.EnableAIRecommendations {
			private.POST("/ai/recommendation", aiHandlers.Recommend)
			private.POST("/ai/insights", aiHandlers.Insights)
			private.POST("/ai/recommendation/:id/rate", aiHandlers.Rate)
			private.GET("/ai/recommendations", aiHandlers.List)
		}

		if s.config.Features.EnableDemoData {
			private.POST("/demo/generate", demoHandlers.Generate)
		}
	}

	return router
}

// Router exposes the configured engine, used by tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins listening for requests
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting",
		zap.String("addr", s.server.Addr),
		zap.String("environment", s.config.App.Environment))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

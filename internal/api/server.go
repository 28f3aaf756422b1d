package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/motormart/services/showroom/config"
	"example.com/motormart/services/showroom/internal/api/handlers"
	"example.com/motormart/services/showroom/internal/api/middleware"
	"example.com/motormart/services/showroom/internal/metrics"
	"example.com/motormart/services/showroom/internal/models"
	"example.com/motormart/services/showroom/internal/services"
)

// Server is the HTTP surface of the showroom service.
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server

	authService      *services.AuthService
	saleService      *services.SaleService
	stockService     *services.StockService
	adminService     *services.AdminService
	reportingService *services.ReportingService
	metrics          *metrics.Metrics
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(
	cfg config.Config,
	authService *services.AuthService,
	saleService *services.SaleService,
	stockService *services.StockService,
	adminService *services.AdminService,
	reportingService *services.ReportingService,
	m *metrics.Metrics,
) *Server {
	server := &Server{
		config:           cfg,
		authService:      authService,
		saleService:      saleService,
		stockService:     stockService,
		adminService:     adminService,
		reportingService: reportingService,
		metrics:          m,
	}

	gin.SetMode(cfg.Server.Mode)
	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	return server
}

// setupRouter configures the HTTP router.
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(s.metrics))

	if s.config.Server.CorsEnabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = s.config.Server.CorsOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		router.Use(cors.New(corsConfig))
	}

	handlers.NewAuthHandler(s.authService).RegisterRoutes(router)
	handlers.NewMetricsHandler(s.metrics).RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(s.config.Auth.JWTSecret))

	handlers.NewSalesHandler(s.saleService, s.reportingService).RegisterRoutes(v1)
	handlers.NewVehiclesHandler(s.stockService, s.reportingService).RegisterRoutes(v1)
	handlers.NewDashboardHandler(s.reportingService).RegisterRoutes(v1)
	handlers.NewMovementsHandler(s.reportingService).RegisterRoutes(v1)

	admin := v1.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	handlers.NewUsersHandler(s.adminService).RegisterRoutes(admin)

	return router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Info().Str("address", s.config.Server.Address).Msg("starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}
	return nil
}

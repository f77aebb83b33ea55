// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	authHTTP "github.com/lynlab/luppiter/internal/auth/http"
	authUseCase "github.com/lynlab/luppiter/internal/auth/usecase"
	certsHTTP "github.com/lynlab/luppiter/internal/certs/http"
	cloudcontainerHTTP "github.com/lynlab/luppiter/internal/cloudcontainer/http"
	"github.com/lynlab/luppiter/internal/config"
	hostingHTTP "github.com/lynlab/luppiter/internal/hosting/http"
	"github.com/lynlab/luppiter/internal/metrics"
	storageHTTP "github.com/lynlab/luppiter/internal/storage/http"
)

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// RouterDeps groups the handlers and use cases mounted by SetupRouter.
type RouterDeps struct {
	MemberHandler      *authHTTP.MemberHandler
	APIKeyHandler      *authHTTP.APIKeyHandler
	PermissionHandler  *authHTTP.PermissionHandler
	CertificateHandler *certsHTTP.CertificateHandler
	InstanceHandler    *hostingHTTP.InstanceHandler
	BucketHandler      *storageHTTP.BucketHandler
	ObjectHandler      *storageHTTP.ObjectHandler
	TaskHandler        *cloudcontainerHTTP.TaskHandler

	MemberUseCase authUseCase.MemberUseCase
	APIKeyUseCase authUseCase.APIKeyUseCase

	// MetricsProvider enables HTTP metrics when not nil.
	MetricsProvider  *metrics.Provider
	MetricsNamespace string
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin router with every route of the API.
func (s *Server) SetupRouter(cfg *config.Config, deps RouterDeps) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), deps.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)
	router.GET("/ping", s.pingHandler)

	// Per caller rate limiting, mounted after the permission check so keys are known.
	var rateLimit gin.HandlerFunc
	if cfg.RateLimitEnabled {
		rateLimit = authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger)
	} else {
		rateLimit = func(c *gin.Context) { c.Next() }
	}

	require := func(permission string, opts ...authHTTP.PermissionOption) gin.HandlerFunc {
		return authHTTP.RequirePermission(deps.APIKeyUseCase, permission, s.logger, opts...)
	}

	vulcan := router.Group("/vulcan")

	// Member console, authenticated by the identity provider
	auth := vulcan.Group("/auth")
	{
		auth.GET("/me", deps.MemberHandler.MeHandler)

		member := auth.Group("", authHTTP.MemberAuthenticationMiddleware(deps.MemberUseCase, s.logger), rateLimit)
		member.GET("/api_keys", deps.APIKeyHandler.ListHandler)
		member.POST("/api_keys", deps.APIKeyHandler.CreateHandler)
		member.DELETE("/api_keys/:key", deps.APIKeyHandler.DeleteHandler)
		member.GET("/api_keys/:key/permissions", deps.APIKeyHandler.ListPermissionsHandler)
		member.POST("/api_keys/:key/permissions", deps.APIKeyHandler.GrantPermissionHandler)
		member.DELETE("/api_keys/:key/permissions", deps.APIKeyHandler.RevokePermissionHandler)
		member.GET("/permissions", deps.PermissionHandler.SearchHandler)
	}

	certs := vulcan.Group("/certs")
	{
		certs.GET("/certificates",
			require(authDomain.PermCertsRead), rateLimit, deps.CertificateHandler.ListHandler)
		certs.POST("/certificates",
			require(authDomain.PermCertsWrite), rateLimit, deps.CertificateHandler.CreateHandler)
		certs.GET("/certificates/:uuid",
			require(authDomain.PermCertsRead), rateLimit, deps.CertificateHandler.GetHandler)
		certs.GET("/certificates/:uuid/provision",
			require(authDomain.PermCertsWrite), rateLimit, deps.CertificateHandler.ProvisionHandler)
	}

	hosting := vulcan.Group("/hosting")
	{
		hosting.GET("/instances",
			require(authDomain.PermHostingRead), rateLimit, deps.InstanceHandler.ListHandler)
		hosting.POST("/instances",
			require(authDomain.PermHostingWrite), rateLimit, deps.InstanceHandler.CreateHandler)
		hosting.DELETE("/instances/:uuid",
			require(authDomain.PermHostingWrite), rateLimit, deps.InstanceHandler.DeleteHandler)
		hosting.GET("/instances/:uuid/backend",
			require(authDomain.PermHostingRead), rateLimit, deps.InstanceHandler.GetBackendHandler)
		hosting.PUT("/instances/:uuid/backend",
			require(authDomain.PermHostingWrite), rateLimit, deps.InstanceHandler.PutBackendHandler)
	}

	storage := vulcan.Group("/storage")
	{
		storage.GET("/buckets",
			require(authDomain.PermStorageRead), rateLimit, deps.BucketHandler.ListHandler)
		storage.POST("/buckets",
			require(authDomain.PermStorageWrite), rateLimit, deps.BucketHandler.CreateHandler)
		storage.PUT("/buckets/:name",
			require(authDomain.PermStorageWrite), rateLimit, deps.BucketHandler.UpdateHandler)
		storage.DELETE("/buckets/:name",
			require(authDomain.PermStorageWrite), rateLimit, deps.BucketHandler.DeleteHandler)
	}

	cloudcontainer := vulcan.Group("/cloudcontainer")
	{
		cloudcontainer.GET("/tasks",
			require(authDomain.PermCloudContainerRead), rateLimit, deps.TaskHandler.ListHandler)
		cloudcontainer.POST("/tasks",
			require(authDomain.PermCloudContainerWrite), rateLimit, deps.TaskHandler.CreateHandler)
		cloudcontainer.PUT("/tasks/:uuid",
			require(authDomain.PermCloudContainerWrite), rateLimit, deps.TaskHandler.UpdateHandler)
		cloudcontainer.DELETE("/tasks/:uuid",
			require(authDomain.PermCloudContainerWrite), rateLimit, deps.TaskHandler.DeleteHandler)
		cloudcontainer.POST("/tasks/:uuid/run",
			require(authDomain.PermCloudContainerWrite), rateLimit, deps.TaskHandler.RunHandler)
		cloudcontainer.GET("/tasks/:uuid/histories",
			require(authDomain.PermCloudContainerRead), rateLimit, deps.TaskHandler.ListHistoriesHandler)
	}

	// Object data plane, public buckets are readable without a key
	objects := router.Group("/storage")
	{
		objects.GET("/:bucket/*key",
			require(authDomain.PermStorageRead, authHTTP.Optional()), rateLimit, deps.ObjectHandler.GetHandler)
		objects.POST("/:bucket/*key",
			require(authDomain.PermStorageWrite), rateLimit, deps.ObjectHandler.PutHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not initialized, call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness, which requires a reachable database.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.db.PingContext(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}

func (s *Server) pingHandler(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

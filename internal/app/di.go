// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"google.golang.org/grpc"

	certsGRPC "github.com/lynlab/luppiter/internal/certs/grpc"
	"github.com/lynlab/luppiter/internal/config"
	"github.com/lynlab/luppiter/internal/database"
	"github.com/lynlab/luppiter/internal/dns"
	"github.com/lynlab/luppiter/internal/http"
	"github.com/lynlab/luppiter/internal/httputil"
	"github.com/lynlab/luppiter/internal/metrics"
)

// upstreamTimeout bounds one request to the identity provider or a DNS provider.
const upstreamTimeout = 10 * time.Second

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	httpClient      *retryablehttp.Client
	dnsProvider     dns.Provider

	// Auth
	authComponents

	// Certificates
	certsComponents

	// Hosting
	hostingComponents

	// Storage
	storageComponents

	// Cloud container
	cloudcontainerComponents

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	grpcServer    *grpc.Server

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	httpClientInit      sync.Once
	dnsProviderInit     sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	grpcServerInit      sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder used by use case decorators.
// A no-op recorder is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPClient returns the retrying HTTP client shared by the identity provider and DNS clients.
func (c *Container) HTTPClient() *retryablehttp.Client {
	c.httpClientInit.Do(func() {
		c.httpClient = httputil.NewRetryableClient(c.config.HTTPRetryMax, upstreamTimeout, c.Logger())
	})
	return c.httpClient
}

// DNSProvider returns the DNS provider selected by configuration.
func (c *Container) DNSProvider() (dns.Provider, error) {
	var err error
	c.dnsProviderInit.Do(func() {
		c.dnsProvider, err = dns.NewProvider(c.config, c.HTTPClient(), c.Logger())
		if err != nil {
			err = fmt.Errorf("failed to create dns provider: %w", err)
			c.initErrors["dnsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dnsProvider"]; exists {
		return nil, storedErr
	}
	return c.dnsProvider, nil
}

// HTTPServer returns the HTTP server instance with its router set up.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// GRPCServer returns the issuance worker RPC server.
func (c *Container) GRPCServer() (*grpc.Server, error) {
	var err error
	c.grpcServerInit.Do(func() {
		c.grpcServer, err = c.initGRPCServer()
		if err != nil {
			c.initErrors["grpcServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grpcServer"]; exists {
		return nil, storedErr
	}
	return c.grpcServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// Servers must already be stopped; background work is drained before the database closes.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.certificateUseCase != nil {
		c.certificateUseCase.Wait()
	}
	if c.taskUseCase != nil {
		c.taskUseCase.Wait()
	}

	if c.keySealer != nil {
		if err := c.keySealer.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("key sealer close: %w", err))
		}
	}

	if c.cachedObjectStore != nil {
		if err := c.cachedObjectStore.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("object cache close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the OpenTelemetry provider with its Prometheus exporter.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the HTTP server and mounts every handler.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	memberHandler, apiKeyHandler, permissionHandler, err := c.authHandlers()
	if err != nil {
		return nil, err
	}

	certificateHandler, err := c.certificateHandler()
	if err != nil {
		return nil, err
	}

	instanceHandler, err := c.instanceHandler()
	if err != nil {
		return nil, err
	}

	bucketHandler, objectHandler, err := c.storageHandlers()
	if err != nil {
		return nil, err
	}

	taskHandler, err := c.taskHandler()
	if err != nil {
		return nil, err
	}

	memberUseCase, err := c.MemberUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get member use case for http server: %w", err)
	}

	apiKeyUseCase, err := c.APIKeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key use case for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(c.config, http.RouterDeps{
		MemberHandler:      memberHandler,
		APIKeyHandler:      apiKeyHandler,
		PermissionHandler:  permissionHandler,
		CertificateHandler: certificateHandler,
		InstanceHandler:    instanceHandler,
		BucketHandler:      bucketHandler,
		ObjectHandler:      objectHandler,
		TaskHandler:        taskHandler,
		MemberUseCase:      memberUseCase,
		APIKeyUseCase:      apiKeyUseCase,
		MetricsProvider:    metricsProvider,
		MetricsNamespace:   c.config.MetricsNamespace,
	})

	return server, nil
}

// initMetricsServer creates the metrics server exposing /metrics.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("metrics are disabled")
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}

// initGRPCServer creates the RPC server used by issuance workers.
func (c *Container) initGRPCServer() (*grpc.Server, error) {
	issuanceUseCase, err := c.IssuanceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get issuance use case for grpc server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for grpc server: %w", err)
	}

	opts := certsGRPC.ServerOptions{
		WorkerToken:      c.config.CertsWorkerToken,
		MetricsNamespace: c.config.MetricsNamespace,
	}
	if metricsProvider != nil {
		opts.MeterProvider = metricsProvider.MeterProvider()
	}

	return certsGRPC.NewServer(issuanceUseCase, opts, c.Logger()), nil
}

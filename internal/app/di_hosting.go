package app

import (
	"fmt"
	"sync"

	hostingHTTP "github.com/lynlab/luppiter/internal/hosting/http"
	hostingRepository "github.com/lynlab/luppiter/internal/hosting/repository"
	hostingUseCase "github.com/lynlab/luppiter/internal/hosting/usecase"
)

// hostingComponents holds the hosting instance components.
type hostingComponents struct {
	instanceRepo    hostingUseCase.InstanceRepository
	backendRepo     hostingUseCase.BackendRepository
	instanceUseCase hostingUseCase.InstanceUseCase

	instanceRepoInit    sync.Once
	backendRepoInit     sync.Once
	instanceUseCaseInit sync.Once
}

// InstanceRepository returns the hosting instance repository based on database driver.
func (c *Container) InstanceRepository() (hostingUseCase.InstanceRepository, error) {
	var err error
	c.instanceRepoInit.Do(func() {
		c.instanceRepo, err = c.initInstanceRepository()
		if err != nil {
			c.initErrors["instanceRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["instanceRepo"]; exists {
		return nil, storedErr
	}
	return c.instanceRepo, nil
}

// BackendRepository returns the hosting backend repository based on database driver.
func (c *Container) BackendRepository() (hostingUseCase.BackendRepository, error) {
	var err error
	c.backendRepoInit.Do(func() {
		c.backendRepo, err = c.initBackendRepository()
		if err != nil {
			c.initErrors["backendRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["backendRepo"]; exists {
		return nil, storedErr
	}
	return c.backendRepo, nil
}

// InstanceUseCase returns the hosting instance use case.
func (c *Container) InstanceUseCase() (hostingUseCase.InstanceUseCase, error) {
	var err error
	c.instanceUseCaseInit.Do(func() {
		c.instanceUseCase, err = c.initInstanceUseCase()
		if err != nil {
			c.initErrors["instanceUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["instanceUseCase"]; exists {
		return nil, storedErr
	}
	return c.instanceUseCase, nil
}

// initInstanceRepository creates the instance repository based on the database driver.
func (c *Container) initInstanceRepository() (hostingUseCase.InstanceRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for instance repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return hostingRepository.NewMySQLInstanceRepository(db), nil
	case "postgres":
		return hostingRepository.NewPostgreSQLInstanceRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initBackendRepository creates the backend repository based on the database driver.
func (c *Container) initBackendRepository() (hostingUseCase.BackendRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for backend repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return hostingRepository.NewMySQLBackendRepository(db), nil
	case "postgres":
		return hostingRepository.NewPostgreSQLBackendRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initInstanceUseCase creates the instance use case. Certificates and buckets are resolved
// through their own use cases.
func (c *Container) initInstanceUseCase() (hostingUseCase.InstanceUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for instance use case: %w", err)
	}

	instanceRepo, err := c.InstanceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get instance repository for instance use case: %w", err)
	}

	backendRepo, err := c.BackendRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get backend repository for instance use case: %w", err)
	}

	certificateUseCase, err := c.CertificateUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate use case for instance use case: %w", err)
	}

	bucketUseCase, err := c.BucketUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket use case for instance use case: %w", err)
	}

	dnsProvider, err := c.DNSProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get dns provider for instance use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for instance use case: %w", err)
	}

	useCase := hostingUseCase.NewInstanceUseCase(
		txManager,
		instanceRepo,
		backendRepo,
		certificateUseCase,
		bucketUseCase,
		dnsProvider,
		c.TokenService(),
		hostingUseCase.InstanceConfig{
			DNSZone:       c.config.DNSZone,
			HostingDomain: c.config.HostingDomain,
			CNAMETarget:   c.config.HostingCNAMETarget,
		},
		c.Logger(),
	)
	return hostingUseCase.NewInstanceUseCaseWithMetrics(useCase, businessMetrics), nil
}

// instanceHandler builds the hosting instance HTTP handler.
func (c *Container) instanceHandler() (*hostingHTTP.InstanceHandler, error) {
	instanceUseCase, err := c.InstanceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get instance use case for instance handler: %w", err)
	}
	return hostingHTTP.NewInstanceHandler(instanceUseCase, c.config.HostingDomain, c.Logger()), nil
}

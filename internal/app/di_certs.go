package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	certsHTTP "github.com/lynlab/luppiter/internal/certs/http"
	certsRepository "github.com/lynlab/luppiter/internal/certs/repository"
	certsService "github.com/lynlab/luppiter/internal/certs/service"
	certsUseCase "github.com/lynlab/luppiter/internal/certs/usecase"
	cloudcontainerService "github.com/lynlab/luppiter/internal/cloudcontainer/service"
)

// launchRetryDelay is the pause between issuance worker launch attempts.
const launchRetryDelay = 2 * time.Second

// certsComponents holds the certificate lifecycle components.
type certsComponents struct {
	certificateRepo    certsUseCase.CertificateRepository
	provisionRepo      certsUseCase.ProvisionRepository
	keySealer          certsService.KeySealer
	issuanceLauncher   certsService.IssuanceLauncher
	certificateUseCase certsUseCase.CertificateUseCase
	issuanceUseCase    certsUseCase.IssuanceUseCase
	expiryUseCase      certsUseCase.ExpiryUseCase

	certificateRepoInit    sync.Once
	provisionRepoInit      sync.Once
	keySealerInit          sync.Once
	issuanceLauncherInit   sync.Once
	certificateUseCaseInit sync.Once
	issuanceUseCaseInit    sync.Once
	expiryUseCaseInit      sync.Once
}

// CertificateRepository returns the certificate repository based on database driver.
func (c *Container) CertificateRepository() (certsUseCase.CertificateRepository, error) {
	var err error
	c.certificateRepoInit.Do(func() {
		c.certificateRepo, err = c.initCertificateRepository()
		if err != nil {
			c.initErrors["certificateRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["certificateRepo"]; exists {
		return nil, storedErr
	}
	return c.certificateRepo, nil
}

// ProvisionRepository returns the provision repository based on database driver.
func (c *Container) ProvisionRepository() (certsUseCase.ProvisionRepository, error) {
	var err error
	c.provisionRepoInit.Do(func() {
		c.provisionRepo, err = c.initProvisionRepository()
		if err != nil {
			c.initErrors["provisionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["provisionRepo"]; exists {
		return nil, storedErr
	}
	return c.provisionRepo, nil
}

// KeySealer returns the sealer protecting provision private keys at rest.
func (c *Container) KeySealer() (certsService.KeySealer, error) {
	var err error
	c.keySealerInit.Do(func() {
		c.keySealer, err = certsService.NewKeySealer(context.Background(), c.config.SecretsKeeperURL)
		if err != nil {
			c.initErrors["keySealer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keySealer"]; exists {
		return nil, storedErr
	}
	return c.keySealer, nil
}

// IssuanceLauncher returns the issuance worker launcher. Without a worker image configured,
// launches are only logged.
func (c *Container) IssuanceLauncher() (certsService.IssuanceLauncher, error) {
	var err error
	c.issuanceLauncherInit.Do(func() {
		if c.config.CertsWorkerImage == "" {
			c.issuanceLauncher = certsService.NewNoopLauncher(c.Logger())
			return
		}

		var dockerClient cloudcontainerService.DockerClient
		dockerClient, err = c.DockerClient()
		if err != nil {
			err = fmt.Errorf("failed to get docker client for issuance launcher: %w", err)
			c.initErrors["issuanceLauncher"] = err
			return
		}
		c.issuanceLauncher = certsService.NewDockerLauncher(
			dockerClient,
			c.config.CertsWorkerImage,
			c.config.CertsLaunchAttempts,
			launchRetryDelay,
			c.Logger(),
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["issuanceLauncher"]; exists {
		return nil, storedErr
	}
	return c.issuanceLauncher, nil
}

// CertificateUseCase returns the member facing certificate use case.
func (c *Container) CertificateUseCase() (certsUseCase.CertificateUseCase, error) {
	var err error
	c.certificateUseCaseInit.Do(func() {
		c.certificateUseCase, err = c.initCertificateUseCase()
		if err != nil {
			c.initErrors["certificateUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["certificateUseCase"]; exists {
		return nil, storedErr
	}
	return c.certificateUseCase, nil
}

// IssuanceUseCase returns the worker facing issuance use case.
func (c *Container) IssuanceUseCase() (certsUseCase.IssuanceUseCase, error) {
	var err error
	c.issuanceUseCaseInit.Do(func() {
		c.issuanceUseCase, err = c.initIssuanceUseCase()
		if err != nil {
			c.initErrors["issuanceUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["issuanceUseCase"]; exists {
		return nil, storedErr
	}
	return c.issuanceUseCase, nil
}

// ExpiryUseCase returns the certificate expiry sweep use case.
func (c *Container) ExpiryUseCase() (certsUseCase.ExpiryUseCase, error) {
	var err error
	c.expiryUseCaseInit.Do(func() {
		c.expiryUseCase, err = c.initExpiryUseCase()
		if err != nil {
			c.initErrors["expiryUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["expiryUseCase"]; exists {
		return nil, storedErr
	}
	return c.expiryUseCase, nil
}

// initCertificateRepository creates the certificate repository based on the database driver.
func (c *Container) initCertificateRepository() (certsUseCase.CertificateRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for certificate repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return certsRepository.NewMySQLCertificateRepository(db), nil
	case "postgres":
		return certsRepository.NewPostgreSQLCertificateRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initProvisionRepository creates the provision repository based on the database driver.
func (c *Container) initProvisionRepository() (certsUseCase.ProvisionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for provision repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return certsRepository.NewMySQLProvisionRepository(db), nil
	case "postgres":
		return certsRepository.NewPostgreSQLProvisionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCertificateUseCase creates the certificate use case wrapped with metrics.
func (c *Container) initCertificateUseCase() (certsUseCase.CertificateUseCase, error) {
	certRepo, err := c.CertificateRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate repository for certificate use case: %w", err)
	}

	provisionRepo, err := c.ProvisionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get provision repository for certificate use case: %w", err)
	}

	keySealer, err := c.KeySealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get key sealer for certificate use case: %w", err)
	}

	launcher, err := c.IssuanceLauncher()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for certificate use case: %w", err)
	}

	useCase := certsUseCase.NewCertificateUseCase(
		certRepo,
		provisionRepo,
		keySealer,
		c.TokenService(),
		launcher,
		c.Logger(),
	)
	return certsUseCase.NewCertificateUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initIssuanceUseCase creates the issuance use case wrapped with metrics.
func (c *Container) initIssuanceUseCase() (certsUseCase.IssuanceUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for issuance use case: %w", err)
	}

	certRepo, err := c.CertificateRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate repository for issuance use case: %w", err)
	}

	provisionRepo, err := c.ProvisionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get provision repository for issuance use case: %w", err)
	}

	dnsProvider, err := c.DNSProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get dns provider for issuance use case: %w", err)
	}

	keySealer, err := c.KeySealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get key sealer for issuance use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for issuance use case: %w", err)
	}

	useCase := certsUseCase.NewIssuanceUseCase(
		txManager,
		certRepo,
		provisionRepo,
		dnsProvider,
		keySealer,
		certsUseCase.IssuanceConfig{
			DNSZone:       c.config.DNSZone,
			HostingDomain: c.config.HostingDomain,
			ProvisionTTL:  c.config.CertsProvisionTTL,
		},
		c.Logger(),
	)
	return certsUseCase.NewIssuanceUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initExpiryUseCase creates the expiry sweep use case.
func (c *Container) initExpiryUseCase() (certsUseCase.ExpiryUseCase, error) {
	certRepo, err := c.CertificateRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate repository for expiry use case: %w", err)
	}

	provisionRepo, err := c.ProvisionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get provision repository for expiry use case: %w", err)
	}

	return certsUseCase.NewExpiryUseCase(certRepo, provisionRepo, c.Logger()), nil
}

// certificateHandler builds the certificate HTTP handler.
func (c *Container) certificateHandler() (*certsHTTP.CertificateHandler, error) {
	certificateUseCase, err := c.CertificateUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate use case for certificate handler: %w", err)
	}
	return certsHTTP.NewCertificateHandler(certificateUseCase, c.Logger()), nil
}

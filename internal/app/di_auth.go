package app

import (
	"fmt"
	"sync"

	authHTTP "github.com/lynlab/luppiter/internal/auth/http"
	authRepository "github.com/lynlab/luppiter/internal/auth/repository"
	authService "github.com/lynlab/luppiter/internal/auth/service"
	authUseCase "github.com/lynlab/luppiter/internal/auth/usecase"
)

// authComponents holds the members, API keys and permissions components.
type authComponents struct {
	tokenService      authService.TokenService
	identityProvider  authService.IdentityProvider
	memberRepo        authUseCase.MemberRepository
	apiKeyRepo        authUseCase.APIKeyRepository
	permissionRepo    authUseCase.PermissionRepository
	memberUseCase     authUseCase.MemberUseCase
	apiKeyUseCase     authUseCase.APIKeyUseCase
	permissionUseCase authUseCase.PermissionUseCase

	tokenServiceInit      sync.Once
	identityProviderInit  sync.Once
	memberRepoInit        sync.Once
	apiKeyRepoInit        sync.Once
	permissionRepoInit    sync.Once
	memberUseCaseInit     sync.Once
	apiKeyUseCaseInit     sync.Once
	permissionUseCaseInit sync.Once
}

// TokenService returns the random token generator shared by API keys, certificates and
// hosting instances.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// IdentityProvider returns the identity provider client.
func (c *Container) IdentityProvider() authService.IdentityProvider {
	c.identityProviderInit.Do(func() {
		c.identityProvider = authService.NewIdentityClient(c.config.IdentityProviderURL, c.HTTPClient(), c.Logger())
	})
	return c.identityProvider
}

// MemberRepository returns the member repository based on database driver.
func (c *Container) MemberRepository() (authUseCase.MemberRepository, error) {
	var err error
	c.memberRepoInit.Do(func() {
		c.memberRepo, err = c.initMemberRepository()
		if err != nil {
			c.initErrors["memberRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["memberRepo"]; exists {
		return nil, storedErr
	}
	return c.memberRepo, nil
}

// APIKeyRepository returns the API key repository based on database driver.
func (c *Container) APIKeyRepository() (authUseCase.APIKeyRepository, error) {
	var err error
	c.apiKeyRepoInit.Do(func() {
		c.apiKeyRepo, err = c.initAPIKeyRepository()
		if err != nil {
			c.initErrors["apiKeyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiKeyRepo"]; exists {
		return nil, storedErr
	}
	return c.apiKeyRepo, nil
}

// PermissionRepository returns the permission repository based on database driver.
func (c *Container) PermissionRepository() (authUseCase.PermissionRepository, error) {
	var err error
	c.permissionRepoInit.Do(func() {
		c.permissionRepo, err = c.initPermissionRepository()
		if err != nil {
			c.initErrors["permissionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionRepo"]; exists {
		return nil, storedErr
	}
	return c.permissionRepo, nil
}

// MemberUseCase returns the member use case.
func (c *Container) MemberUseCase() (authUseCase.MemberUseCase, error) {
	var err error
	c.memberUseCaseInit.Do(func() {
		c.memberUseCase, err = c.initMemberUseCase()
		if err != nil {
			c.initErrors["memberUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["memberUseCase"]; exists {
		return nil, storedErr
	}
	return c.memberUseCase, nil
}

// APIKeyUseCase returns the API key use case.
func (c *Container) APIKeyUseCase() (authUseCase.APIKeyUseCase, error) {
	var err error
	c.apiKeyUseCaseInit.Do(func() {
		c.apiKeyUseCase, err = c.initAPIKeyUseCase()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.apiKeyUseCase, nil
}

// PermissionUseCase returns the permission catalog use case.
func (c *Container) PermissionUseCase() (authUseCase.PermissionUseCase, error) {
	var err error
	c.permissionUseCaseInit.Do(func() {
		c.permissionUseCase, err = c.initPermissionUseCase()
		if err != nil {
			c.initErrors["permissionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionUseCase"]; exists {
		return nil, storedErr
	}
	return c.permissionUseCase, nil
}

// initMemberRepository creates the member repository based on the database driver.
func (c *Container) initMemberRepository() (authUseCase.MemberRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for member repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLMemberRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLMemberRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAPIKeyRepository creates the API key repository based on the database driver.
func (c *Container) initAPIKeyRepository() (authUseCase.APIKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for api key repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLAPIKeyRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLAPIKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPermissionRepository creates the permission repository based on the database driver.
func (c *Container) initPermissionRepository() (authUseCase.PermissionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for permission repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLPermissionRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLPermissionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initMemberUseCase creates the member use case.
func (c *Container) initMemberUseCase() (authUseCase.MemberUseCase, error) {
	memberRepo, err := c.MemberRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get member repository for member use case: %w", err)
	}
	return authUseCase.NewMemberUseCase(memberRepo, c.IdentityProvider()), nil
}

// initAPIKeyUseCase creates the API key use case wrapped with metrics.
func (c *Container) initAPIKeyUseCase() (authUseCase.APIKeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for api key use case: %w", err)
	}

	apiKeyRepo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for api key use case: %w", err)
	}

	permissionRepo, err := c.PermissionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission repository for api key use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for api key use case: %w", err)
	}

	useCase := authUseCase.NewAPIKeyUseCase(txManager, apiKeyRepo, permissionRepo, c.TokenService())
	return authUseCase.NewAPIKeyUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initPermissionUseCase creates the permission catalog use case.
func (c *Container) initPermissionUseCase() (authUseCase.PermissionUseCase, error) {
	permissionRepo, err := c.PermissionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission repository for permission use case: %w", err)
	}
	return authUseCase.NewPermissionUseCase(permissionRepo), nil
}

// authHandlers builds the member console handlers.
func (c *Container) authHandlers() (
	*authHTTP.MemberHandler,
	*authHTTP.APIKeyHandler,
	*authHTTP.PermissionHandler,
	error,
) {
	memberUseCase, err := c.MemberUseCase()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get member use case for member handler: %w", err)
	}

	apiKeyUseCase, err := c.APIKeyUseCase()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get api key use case for api key handler: %w", err)
	}

	permissionUseCase, err := c.PermissionUseCase()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get permission use case for permission handler: %w", err)
	}

	logger := c.Logger()
	return authHTTP.NewMemberHandler(memberUseCase, logger),
		authHTTP.NewAPIKeyHandler(apiKeyUseCase, logger),
		authHTTP.NewPermissionHandler(permissionUseCase, logger),
		nil
}

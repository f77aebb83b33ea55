package app

import (
	"fmt"
	"sync"

	cloudcontainerHTTP "github.com/lynlab/luppiter/internal/cloudcontainer/http"
	cloudcontainerRepository "github.com/lynlab/luppiter/internal/cloudcontainer/repository"
	cloudcontainerService "github.com/lynlab/luppiter/internal/cloudcontainer/service"
	cloudcontainerUseCase "github.com/lynlab/luppiter/internal/cloudcontainer/usecase"
	"github.com/lynlab/luppiter/internal/httputil"
)

// cloudcontainerComponents holds the container task components.
type cloudcontainerComponents struct {
	dockerClient cloudcontainerService.DockerClient
	taskRepo     cloudcontainerUseCase.TaskRepository
	historyRepo  cloudcontainerUseCase.HistoryRepository
	taskUseCase  cloudcontainerUseCase.TaskUseCase

	dockerClientInit sync.Once
	taskRepoInit     sync.Once
	historyRepoInit  sync.Once
	taskUseCaseInit  sync.Once
}

// DockerClient returns the docker engine client shared by container tasks and issuance
// workers. Requests carry no client timeout since waits are bounded by their context.
func (c *Container) DockerClient() (cloudcontainerService.DockerClient, error) {
	var err error
	c.dockerClientInit.Do(func() {
		c.dockerClient, err = cloudcontainerService.NewDockerClient(
			c.config.DockerRemoteHost,
			c.config.DockerRemotePort,
			c.config.DockerAPIVersion,
			httputil.NewRetryableClient(c.config.HTTPRetryMax, 0, c.Logger()),
			c.Logger(),
		)
		if err != nil {
			c.initErrors["dockerClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dockerClient"]; exists {
		return nil, storedErr
	}
	return c.dockerClient, nil
}

// TaskRepository returns the task repository based on database driver.
func (c *Container) TaskRepository() (cloudcontainerUseCase.TaskRepository, error) {
	var err error
	c.taskRepoInit.Do(func() {
		c.taskRepo, err = c.initTaskRepository()
		if err != nil {
			c.initErrors["taskRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["taskRepo"]; exists {
		return nil, storedErr
	}
	return c.taskRepo, nil
}

// HistoryRepository returns the run history repository based on database driver.
func (c *Container) HistoryRepository() (cloudcontainerUseCase.HistoryRepository, error) {
	var err error
	c.historyRepoInit.Do(func() {
		c.historyRepo, err = c.initHistoryRepository()
		if err != nil {
			c.initErrors["historyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["historyRepo"]; exists {
		return nil, storedErr
	}
	return c.historyRepo, nil
}

// TaskUseCase returns the container task use case.
func (c *Container) TaskUseCase() (cloudcontainerUseCase.TaskUseCase, error) {
	var err error
	c.taskUseCaseInit.Do(func() {
		c.taskUseCase, err = c.initTaskUseCase()
		if err != nil {
			c.initErrors["taskUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["taskUseCase"]; exists {
		return nil, storedErr
	}
	return c.taskUseCase, nil
}

// initTaskRepository creates the task repository based on the database driver.
func (c *Container) initTaskRepository() (cloudcontainerUseCase.TaskRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for task repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return cloudcontainerRepository.NewMySQLTaskRepository(db), nil
	case "postgres":
		return cloudcontainerRepository.NewPostgreSQLTaskRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initHistoryRepository creates the history repository based on the database driver.
func (c *Container) initHistoryRepository() (cloudcontainerUseCase.HistoryRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for history repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return cloudcontainerRepository.NewMySQLHistoryRepository(db), nil
	case "postgres":
		return cloudcontainerRepository.NewPostgreSQLHistoryRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTaskUseCase creates the task use case wrapped with metrics.
func (c *Container) initTaskUseCase() (cloudcontainerUseCase.TaskUseCase, error) {
	taskRepo, err := c.TaskRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get task repository for task use case: %w", err)
	}

	historyRepo, err := c.HistoryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get history repository for task use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for task use case: %w", err)
	}

	dockerClient, err := c.DockerClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get docker client for task use case: %w", err)
	}

	useCase := cloudcontainerUseCase.NewTaskUseCase(taskRepo, historyRepo, dockerClient, c.Logger())
	return cloudcontainerUseCase.NewTaskUseCaseWithMetrics(useCase, businessMetrics), nil
}

// taskHandler builds the container task HTTP handler.
func (c *Container) taskHandler() (*cloudcontainerHTTP.TaskHandler, error) {
	taskUseCase, err := c.TaskUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get task use case for task handler: %w", err)
	}
	return cloudcontainerHTTP.NewTaskHandler(taskUseCase, c.Logger()), nil
}

package app

import (
	"context"
	"fmt"
	"sync"

	storageHTTP "github.com/lynlab/luppiter/internal/storage/http"
	storageRepository "github.com/lynlab/luppiter/internal/storage/repository"
	storageService "github.com/lynlab/luppiter/internal/storage/service"
	storageUseCase "github.com/lynlab/luppiter/internal/storage/usecase"
)

// storageComponents holds the storage bucket and object components.
type storageComponents struct {
	bucketRepo        storageUseCase.BucketRepository
	cachedObjectStore *storageService.CachedObjectStore
	bucketUseCase     storageUseCase.BucketUseCase
	objectUseCase     storageUseCase.ObjectUseCase

	bucketRepoInit    sync.Once
	objectStoreInit   sync.Once
	bucketUseCaseInit sync.Once
	objectUseCaseInit sync.Once
}

// BucketRepository returns the bucket repository based on database driver.
func (c *Container) BucketRepository() (storageUseCase.BucketRepository, error) {
	var err error
	c.bucketRepoInit.Do(func() {
		c.bucketRepo, err = c.initBucketRepository()
		if err != nil {
			c.initErrors["bucketRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["bucketRepo"]; exists {
		return nil, storedErr
	}
	return c.bucketRepo, nil
}

// ObjectStore returns the S3 object store behind its disk cache.
func (c *Container) ObjectStore() (storageService.ObjectStore, error) {
	var err error
	c.objectStoreInit.Do(func() {
		c.cachedObjectStore, err = c.initObjectStore()
		if err != nil {
			c.initErrors["objectStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["objectStore"]; exists {
		return nil, storedErr
	}
	return c.cachedObjectStore, nil
}

// BucketUseCase returns the bucket use case.
func (c *Container) BucketUseCase() (storageUseCase.BucketUseCase, error) {
	var err error
	c.bucketUseCaseInit.Do(func() {
		c.bucketUseCase, err = c.initBucketUseCase()
		if err != nil {
			c.initErrors["bucketUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["bucketUseCase"]; exists {
		return nil, storedErr
	}
	return c.bucketUseCase, nil
}

// ObjectUseCase returns the object use case.
func (c *Container) ObjectUseCase() (storageUseCase.ObjectUseCase, error) {
	var err error
	c.objectUseCaseInit.Do(func() {
		c.objectUseCase, err = c.initObjectUseCase()
		if err != nil {
			c.initErrors["objectUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["objectUseCase"]; exists {
		return nil, storedErr
	}
	return c.objectUseCase, nil
}

// initBucketRepository creates the bucket repository based on the database driver.
func (c *Container) initBucketRepository() (storageUseCase.BucketRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for bucket repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return storageRepository.NewMySQLBucketRepository(db), nil
	case "postgres":
		return storageRepository.NewPostgreSQLBucketRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initObjectStore connects to S3 and wraps the store with the disk cache.
func (c *Container) initObjectStore() (*storageService.CachedObjectStore, error) {
	client, err := storageService.NewS3Client(context.Background(), c.config.StorageS3Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	s3Store := storageService.NewS3ObjectStore(client, c.config.StorageS3BucketName)

	cached, err := storageService.NewCachedObjectStore(s3Store, c.config.StorageCachePath, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create object cache: %w", err)
	}
	return cached, nil
}

// initBucketUseCase creates the bucket use case.
func (c *Container) initBucketUseCase() (storageUseCase.BucketUseCase, error) {
	bucketRepo, err := c.BucketRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket repository for bucket use case: %w", err)
	}
	return storageUseCase.NewBucketUseCase(bucketRepo, c.Logger()), nil
}

// initObjectUseCase creates the object use case wrapped with metrics.
func (c *Container) initObjectUseCase() (storageUseCase.ObjectUseCase, error) {
	bucketRepo, err := c.BucketRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket repository for object use case: %w", err)
	}

	objectStore, err := c.ObjectStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get object store for object use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for object use case: %w", err)
	}

	useCase := storageUseCase.NewObjectUseCase(bucketRepo, objectStore, c.config.StorageMaxUploadBytes, c.Logger())
	return storageUseCase.NewObjectUseCaseWithMetrics(useCase, businessMetrics), nil
}

// storageHandlers builds the bucket and object HTTP handlers.
func (c *Container) storageHandlers() (*storageHTTP.BucketHandler, *storageHTTP.ObjectHandler, error) {
	bucketUseCase, err := c.BucketUseCase()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get bucket use case for bucket handler: %w", err)
	}

	objectUseCase, err := c.ObjectUseCase()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get object use case for object handler: %w", err)
	}

	logger := c.Logger()
	return storageHTTP.NewBucketHandler(bucketUseCase, logger),
		storageHTTP.NewObjectHandler(objectUseCase, c.config.StorageMaxUploadBytes, logger),
		nil
}

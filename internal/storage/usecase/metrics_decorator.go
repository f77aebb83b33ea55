package usecase

import (
	"context"
	"time"

	"github.com/lynlab/luppiter/internal/metrics"
	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

func recordMetrics(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, "storage", operation, status)
	m.RecordDuration(ctx, "storage", operation, time.Since(start), status)
}

// objectUseCaseWithMetrics decorates ObjectUseCase with metrics instrumentation.
// Bucket management is not instrumented.
type objectUseCaseWithMetrics struct {
	next    ObjectUseCase
	metrics metrics.BusinessMetrics
}

// NewObjectUseCaseWithMetrics wraps an ObjectUseCase with metrics recording.
func NewObjectUseCaseWithMetrics(useCase ObjectUseCase, m metrics.BusinessMetrics) ObjectUseCase {
	return &objectUseCaseWithMetrics{next: useCase, metrics: m}
}

// Get records metrics for object reads.
func (o *objectUseCaseWithMetrics) Get(
	ctx context.Context,
	readerID *int64,
	bucketName, key string,
) (*storageDomain.Object, error) {
	start := time.Now()
	object, err := o.next.Get(ctx, readerID, bucketName, key)
	recordMetrics(ctx, o.metrics, "object_get", start, err)
	return object, err
}

// Put records metrics for object uploads.
func (o *objectUseCaseWithMetrics) Put(ctx context.Context, input PutObjectInput) (*storageDomain.Object, error) {
	start := time.Now()
	object, err := o.next.Put(ctx, input)
	recordMetrics(ctx, o.metrics, "object_put", start, err)
	return object, err
}

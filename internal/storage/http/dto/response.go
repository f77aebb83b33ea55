package dto

import (
	"time"

	"github.com/samber/lo"

	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// BucketResponse represents a bucket in API responses.
type BucketResponse struct {
	Name      string    `json:"name"`
	IsPublic  bool      `json:"isPublic"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MapBucketToResponse converts a domain bucket to an API response.
func MapBucketToResponse(bucket *storageDomain.Bucket) BucketResponse {
	return BucketResponse{
		Name:      bucket.Name,
		IsPublic:  bucket.IsPublic,
		CreatedAt: bucket.CreatedAt,
		UpdatedAt: bucket.UpdatedAt,
	}
}

// MapBucketsToResponse converts domain buckets to API responses.
func MapBucketsToResponse(buckets []*storageDomain.Bucket) []BucketResponse {
	return lo.Map(buckets, func(bucket *storageDomain.Bucket, _ int) BucketResponse {
		return MapBucketToResponse(bucket)
	})
}

// ObjectResponse describes a stored object.
type ObjectResponse struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// MapObjectToResponse converts a stored object to an API response.
func MapObjectToResponse(object *storageDomain.Object) ObjectResponse {
	return ObjectResponse{
		Key:         object.Key,
		ContentType: object.ContentType,
		Size:        len(object.Body),
	}
}

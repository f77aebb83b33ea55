package service

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	apperrors "github.com/lynlab/luppiter/internal/errors"
	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
)

// S3API is the subset of the S3 client used by S3ObjectStore.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ObjectStore stores every storage bucket under one S3 bucket.
type S3ObjectStore struct {
	client     S3API
	bucketName string
}

// Get downloads the object at path.
func (s *S3ObjectStore) Get(ctx context.Context, path string) (*storageDomain.Object, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(path),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return nil, storageDomain.ErrObjectNotFound
		}
		return nil, apperrors.Wrapf(apperrors.ErrUpstream, "s3 get object: %v", err)
	}
	defer func() {
		_ = output.Body.Close()
	}()

	body, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrUpstream, "s3 read object: %v", err)
	}

	return &storageDomain.Object{
		Key:         path,
		ContentType: aws.ToString(output.ContentType),
		Body:        body,
	}, nil
}

// Put uploads the object body.
func (s *S3ObjectStore) Put(ctx context.Context, object *storageDomain.Object) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(object.Key),
		Body:        bytes.NewReader(object.Body),
		ContentType: aws.String(object.ContentType),
	})
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrUpstream, "s3 put object: %v", err)
	}
	return nil
}

// NewS3ObjectStore creates an object store over an S3 client.
func NewS3ObjectStore(client S3API, bucketName string) *S3ObjectStore {
	return &S3ObjectStore{client: client, bucketName: bucketName}
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load aws configuration")
	}
	return s3.NewFromConfig(cfg), nil
}

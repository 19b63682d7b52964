package actions

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/savaki/slack-relay/pkg/format"
	"github.com/savaki/slack-relay/pkg/models"
)

// ListBucketsAPI is the subset of the S3 client used for listing
type ListBucketsAPI interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// StorageLister reports the account's S3 buckets
type StorageLister struct {
	client ListBucketsAPI
}

// NewStorageLister creates a lister backed by an S3 client built from cfg
func NewStorageLister(cfg aws.Config) *StorageLister {
	return NewStorageListerWithAPI(s3.NewFromConfig(cfg))
}

// NewStorageListerWithAPI creates a lister around an existing S3 API
func NewStorageListerWithAPI(api ListBucketsAPI) *StorageLister {
	return &StorageLister{client: api}
}

// Handle implements Handler
func (s *StorageLister) Handle(ctx context.Context, _ models.Intent) models.Response {
	return s.List(ctx)
}

// List fetches the bucket list; failures become an error reply
func (s *StorageLister) List(ctx context.Context) models.Response {
	out, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		log.Printf("S3 ListBuckets failed: %v", err)
		return format.StorageError(err)
	}

	buckets := make([]format.Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, format.Bucket{
			Name:      aws.ToString(b.Name),
			CreatedAt: aws.ToTime(b.CreationDate),
		})
	}

	log.Printf("Listed %d S3 buckets", len(buckets))
	return format.BucketList(buckets)
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/bridgekeeper/internal/client/models"
)

// BucketService manages buckets. Input is validated before any request is
// made.
type BucketService interface {
	Create(ctx context.Context, name string, quota *models.Quota) (*models.Bucket, error)
	// List returns client.ErrEmptyResult with an empty slice when the account
	// has no buckets.
	List(ctx context.Context) ([]models.Bucket, error)
	Get(ctx context.Context, id string) (*models.Bucket, error)
	Destroy(ctx context.Context, id string) error
}

type bucketService struct {
	client client.Client
}

func NewBucketService(c client.Client) BucketService {
	return &bucketService{client: c}
}

func (s *bucketService) Create(ctx context.Context, name string, quota *models.Quota) (*models.Bucket, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: bucket name is empty", client.ErrValidation)
	}
	if quota != nil && (quota.Storage < 0 || quota.Transfer < 0) {
		return nil, fmt.Errorf("%w: bucket quota is negative", client.ErrValidation)
	}
	return s.client.CreateBucket(ctx, name, quota)
}

func (s *bucketService) List(ctx context.Context) ([]models.Bucket, error) {
	buckets, err := s.client.GetBuckets(ctx)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		return []models.Bucket{}, client.ErrEmptyResult
	}
	return buckets, nil
}

func (s *bucketService) Get(ctx context.Context, id string) (*models.Bucket, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: bucket id is empty", client.ErrValidation)
	}
	return s.client.GetBucket(ctx, id)
}

func (s *bucketService) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: bucket id is empty", client.ErrValidation)
	}
	return s.client.DestroyBucket(ctx, id)
}

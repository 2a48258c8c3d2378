package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ksolovey/modacart/internal/common"
	"github.com/ksolovey/modacart/internal/dbx"
	sc "github.com/ksolovey/modacart/internal/server/config"
	"github.com/ksolovey/modacart/internal/server/models"
	"github.com/ksolovey/modacart/internal/server/repositories/products"
	"github.com/ksolovey/modacart/internal/server/repositories/repomanager"
)

// presignExpiry bounds how long issued image URLs stay usable.
const presignExpiry = 15 * time.Minute

// Seams for testing the S3 presign path without network access.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ProductRequest carries the mutable fields of a catalog item plus its
// variant sets.
type ProductRequest struct {
	Name        string
	Description string
	Category    string
	Price       int64
	Stock       int
	ImageKey    string
	IsActive    bool
	Colors      []string
	Sizes       []string
}

// ProductService manages the catalog: vendor-owned products, their
// color/size variants, and presigned image URLs.
type ProductService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	config       *sc.Config
	storeTimeout time.Duration
}

// NewProductService constructs a ProductService.
func NewProductService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *ProductService {
	return &ProductService{db: db, repomanager: m, config: cfg, storeTimeout: cfg.StoreTimeout}
}

// Create inserts a product owned by vendorID together with its variants.
func (s *ProductService) Create(ctx context.Context, vendorID string, req ProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, ValidationErrors{{Field: "name", Message: "must not be empty"}}
	}
	if req.Price < 0 {
		return nil, ValidationErrors{{Field: "price", Message: "must not be negative"}}
	}

	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	var created *models.Product
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)
		p := &models.Product{
			VendorID:    vendorID,
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Stock:       req.Stock,
			ImageKey:    req.ImageKey,
			IsActive:    req.IsActive,
		}
		var err error
		created, err = repo.Create(ctx, p)
		if err != nil {
			return err
		}
		if err := repo.ReplaceColors(ctx, created.ID, req.Colors); err != nil {
			return err
		}
		return repo.ReplaceSizes(ctx, created.ID, req.Sizes)
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return s.repomanager.Products(s.db).GetByID(ctx, created.ID)
}

// Get returns a product with variants loaded.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	p, err := s.repomanager.Products(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, storeErr(err)
	}
	return p, nil
}

// List returns products matching the filter.
func (s *ProductService) List(ctx context.Context, f products.Filter) ([]*models.Product, error) {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	result, err := s.repomanager.Products(s.db).List(ctx, f)
	if err != nil {
		return nil, storeErr(err)
	}
	return result, nil
}

// Update rewrites a product and its variants; only the owning vendor may
// do so.
func (s *ProductService) Update(ctx context.Context, vendorID, productID string, req ProductRequest) (*models.Product, error) {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)
		p := &models.Product{
			ID:          productID,
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Stock:       req.Stock,
			ImageKey:    req.ImageKey,
			IsActive:    req.IsActive,
		}
		if err := repo.Update(ctx, vendorID, p); err != nil {
			return err
		}
		if err := repo.ReplaceColors(ctx, productID, req.Colors); err != nil {
			return err
		}
		return repo.ReplaceSizes(ctx, productID, req.Sizes)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, storeErr(err)
	}
	return s.repomanager.Products(s.db).GetByID(ctx, productID)
}

// Delete removes a product; only the owning vendor may do so.
func (s *ProductService) Delete(ctx context.Context, vendorID, productID string) error {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	err := s.repomanager.Products(s.db).Delete(ctx, vendorID, productID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return storeErr(err)
	}
	return nil
}

// randomStorageKey places uploads under a date-partitioned prefix.
func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("products/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ProductService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// GetImageUploadURL issues a presigned PUT URL for a new product image and
// returns the storage key the vendor should save on the product.
func (s *ProductService) GetImageUploadURL(ctx context.Context) (key string, url string, err error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key = randomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// GetImageDownloadURL issues a presigned GET URL for a stored product image.
func (s *ProductService) GetImageDownloadURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	ErrPhotoRequired        = errors.New("s3: photo body is required")
	ErrPhotoTypeUnsupported = errors.New("s3: photo must be a jpeg, png or webp image")
	ErrStoreDisabled        = errors.New("s3: photo storage is not configured")
)

// Photo is one listing image as received from the multipart form.
type Photo struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// PhotoStore persists listing photos and returns the public URL the catalog
// and the bot gateway embed.
type PhotoStore interface {
	StoreListingPhoto(ctx context.Context, listingID string, photo Photo) (publicURL string, err error)
}

// photoExtensions maps the accepted image types to the extension used in the
// object key. Anything else is rejected before touching the bucket.
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Client stores photos in a MinIO/S3 bucket. Keys follow
// listings/<listing-id>/<uuid><ext> so one prefix holds everything a listing
// owns and deletion stays a prefix walk.
type Client struct {
	bucket         string
	publicBaseURL  string
	client         *minio.Client
	logger         *slog.Logger
	bucketInitOnce sync.Once
	bucketInitErr  error
}

// NewClient configures the photo store against the given S3 endpoint.
func NewClient(endpoint string, useSSL bool, accessKey, secretKey, bucket, publicBaseURL string, logger *slog.Logger) (*Client, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	minioClient, err := minio.New(hostOf(cleanEndpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	base := strings.TrimSpace(publicBaseURL)
	if base == "" {
		base = cleanEndpoint
	}
	return &Client{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		client:        minioClient,
		logger:        logger,
	}, nil
}

// StoreListingPhoto validates the image type, mints the object key and
// uploads. The bucket is made publicly readable so the returned URL works
// without signing; photos are the only thing this service keeps in S3.
func (c *Client) StoreListingPhoto(ctx context.Context, listingID string, photo Photo) (string, error) {
	if photo.Body == nil {
		return "", ErrPhotoRequired
	}
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return "", errors.New("s3: listing id is required")
	}
	contentType, ext, err := classifyPhoto(photo)
	if err != nil {
		return "", err
	}
	if err := c.ensureBucket(ctx); err != nil {
		return "", err
	}

	key := "listings/" + listingID + "/" + uuid.NewString() + ext
	_, err = c.client.PutObject(ctx, c.bucket, key, photo.Body, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3: store photo for listing %s: %w", listingID, err)
	}

	publicURL := c.photoURL(key)
	if c.logger != nil {
		c.logger.Info("listing photo stored", "bucket", c.bucket, "listing_id", listingID, "key", key, "url", publicURL)
	}
	return publicURL, nil
}

// classifyPhoto resolves the content type from the header or the file
// extension and rejects non-image uploads.
func classifyPhoto(photo Photo) (contentType, ext string, err error) {
	contentType = strings.ToLower(strings.TrimSpace(photo.ContentType))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = typeFromFileName(photo.FileName)
	}
	ext, ok := photoExtensions[contentType]
	if !ok {
		return "", "", ErrPhotoTypeUnsupported
	}
	return contentType, ext, nil
}

func typeFromFileName(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	switch strings.ToLower(name[idx:]) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}

// Disabled is the fallback photo store used when S3 is unreachable at boot;
// uploads fail fast while the rest of the API stays up.
type Disabled struct{}

func (Disabled) StoreListingPhoto(context.Context, string, Photo) (string, error) {
	return "", ErrStoreDisabled
}

func (c *Client) ensureBucket(ctx context.Context) error {
	c.bucketInitOnce.Do(func() {
		exists, err := c.client.BucketExists(ctx, c.bucket)
		if err != nil {
			c.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if !exists {
			if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
				c.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
				return
			}
		}
		// Photos are public content; a read-only anonymous policy keeps the
		// catalog URLs signing-free.
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, c.bucket)
		if err := c.client.SetBucketPolicy(ctx, c.bucket, policy); err != nil {
			c.bucketInitErr = fmt.Errorf("s3: set bucket policy: %w", err)
		}
	})
	return c.bucketInitErr
}

func (c *Client) photoURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, key)
}

func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ PhotoStore = (*Client)(nil)
var _ PhotoStore = Disabled{}

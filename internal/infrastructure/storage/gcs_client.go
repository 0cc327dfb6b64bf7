package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	apperrors "trifoody/pkg/errors"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	storageClient := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}

	if err := storageClient.setBucketCORS(ctx); err != nil {
		log.Printf("Warning: failed to set CORS configuration: %v", err)
	}

	return storageClient, nil
}

func (c *CloudStorageClient) setBucketCORS(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)

	bucketAttrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %v", err)
	}
	if len(bucketAttrs.CORS) > 0 {
		return nil
	}

	_, err = bucket.Update(ctx, storage.BucketAttrsToUpdate{
		CORS: []storage.CORS{{
			MaxAge:          3600,
			Methods:         []string{"GET", "HEAD"},
			Origins:         []string{"*"},
			ResponseHeaders: []string{"Content-Type"},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to update bucket CORS: %v", err)
	}
	return nil
}

// Upload writes body under key, replacing whatever was there, and makes it world readable.
func (c *CloudStorageClient) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	obj := c.client.Bucket(c.bucketName).Object(key)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "no-cache"

	if _, err := io.Copy(wc, body); err != nil {
		wc.Close()
		return apperrors.Unavailable(fmt.Sprintf("failed to upload %s", key), err)
	}
	if err := wc.Close(); err != nil {
		return apperrors.Unavailable(fmt.Sprintf("failed to upload %s", key), err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return apperrors.Unavailable("failed to set object ACL", err)
	}
	return nil
}

// Download reads at most maxBytes of the object. Larger objects are rejected.
func (c *CloudStorageClient) Download(ctx context.Context, key string, maxBytes int64) ([]byte, error) {
	obj := c.client.Bucket(c.bucketName).Object(key)

	rc, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, apperrors.NotFound("object", nil)
		}
		return nil, apperrors.Unavailable(fmt.Sprintf("failed to read %s", key), err)
	}
	defer rc.Close()

	if rc.Attrs.Size > maxBytes {
		return nil, apperrors.BadRequest(fmt.Sprintf("object exceeds %d bytes", maxBytes), nil)
	}

	data, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
	if err != nil {
		return nil, apperrors.Unavailable(fmt.Sprintf("failed to read %s", key), err)
	}
	if int64(len(data)) > maxBytes {
		return nil, apperrors.BadRequest(fmt.Sprintf("object exceeds %d bytes", maxBytes), nil)
	}
	return data, nil
}

func (c *CloudStorageClient) PublicURL(ctx context.Context, key string) (string, error) {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, key), nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

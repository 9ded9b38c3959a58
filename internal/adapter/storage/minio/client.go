// Package minio реализует PhotoStore поверх S3-совместимого хранилища (MinIO, AWS S3).
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/GoArmGo/CatsApp/internal/adapter/storage"
	appconfig "github.com/GoArmGo/CatsApp/internal/config"
	"github.com/GoArmGo/CatsApp/internal/domain"
)

// Client представляет собой клиент для взаимодействия с MinIO (S3-совместимым хранилищем).
type Client struct {
	s3Client   *s3.Client
	uploader   *manager.Uploader
	bucketName string
	prefix     string
	baseURL    string
	logger     *slog.Logger
}

// NewMinioClient создает и инициализирует новый MinIO Client, используя переданную конфигурацию.
// Бакет создаётся, если его ещё нет.
func NewMinioClient(ctx context.Context, cfg *appconfig.Config, logger *slog.Logger) (*Client, error) {
	if cfg.MinioAccessKeyID == "" || cfg.MinioSecretAccessKey == "" || cfg.MinioBucketName == "" || cfg.MinioEndpoint == "" || cfg.MinioRegion == "" {
		return nil, &domain.StorageError{Op: "init", Err: errors.New("MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY, MINIO_BUCKET_NAME, MINIO_ENDPOINT and MINIO_REGION must be set")}
	}

	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}
	endpoint := fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.MinioRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.MinioAccessKeyID, cfg.MinioSecretAccessKey, "")),
	)
	if err != nil {
		return nil, &domain.StorageError{Op: "init", Err: fmt.Errorf("load AWS config for MinIO: %w", err)}
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	c := &Client{
		s3Client:   s3Client,
		uploader:   manager.NewUploader(s3Client),
		bucketName: cfg.MinioBucketName,
		prefix:     cfg.PhotoBucket,
		baseURL:    cfg.PublicBaseURL,
		logger:     logger,
	}

	if err := c.ensureBucket(ctx, cfg.MinioRegion); err != nil {
		return nil, err
	}
	return c, nil
}

// ensureBucket проверяет существование бакета и создаёт его при необходимости
func (c *Client) ensureBucket(ctx context.Context, region string) error {
	headCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.s3Client.HeadBucket(headCtx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)})
	if err == nil {
		c.logger.Info("bucket already exists", "bucket", c.bucketName)
		return nil
	}

	c.logger.Warn("bucket not found, creating", "bucket", c.bucketName, "error", err)

	input := &s3.CreateBucketInput{Bucket: aws.String(c.bucketName)}
	// us-east-1 не принимает LocationConstraint
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	if _, err := c.s3Client.CreateBucket(ctx, input); err != nil {
		return &domain.StorageError{Op: "init", Path: c.bucketName, Err: fmt.Errorf("create bucket: %w", err)}
	}

	waiter := s3.NewBucketExistsWaiter(c.s3Client)
	if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)}, 30*time.Second); err != nil {
		return &domain.StorageError{Op: "init", Path: c.bucketName, Err: fmt.Errorf("wait for bucket: %w", err)}
	}

	c.logger.Info("bucket created successfully", "bucket", c.bucketName)
	return nil
}

// Store загружает файл в бакет под сгенерированным ключом <prefix>/<uuid><ext>
func (c *Client) Store(ctx context.Context, content []byte, originalName, contentType string) (string, error) {
	start := time.Now()
	key := storage.NewObjectKey(c.prefix, originalName, contentType)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		c.logger.Error("failed to upload photo", "key", key, "bucket", c.bucketName, "error", err)
		return "", &domain.StorageError{Op: "store", Path: key, Err: err}
	}

	c.logger.Info("photo uploaded",
		"key", key,
		"bucket", c.bucketName,
		"bytes", len(content),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return key, nil
}

// Open получает содержимое файла из MinIO.
func (c *Client) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	clean, err := storage.CleanKey(key)
	if err != nil {
		return nil, &domain.StorageError{Op: "open", Path: key, Err: err}
	}

	output, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(clean),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			err = fmt.Errorf("%w: %v", fs.ErrNotExist, err)
		}
		return nil, &domain.StorageError{Op: "open", Path: clean, Err: err}
	}
	return output.Body, nil
}

// Delete удаляет файл из MinIO. S3 не возвращает ошибку для отсутствующего ключа.
func (c *Client) Delete(ctx context.Context, key string) error {
	clean, err := storage.CleanKey(key)
	if err != nil {
		return &domain.StorageError{Op: "delete", Path: key, Err: err}
	}

	_, err = c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(clean),
	})
	if err != nil {
		c.logger.Error("failed to delete photo", "key", clean, "bucket", c.bucketName, "error", err)
		return &domain.StorageError{Op: "delete", Path: clean, Err: err}
	}

	c.logger.Info("photo deleted", "key", clean, "bucket", c.bucketName)
	return nil
}

// PublicURL возвращает {base}/storage/{path}; файл проксируется сервером через Open
func (c *Client) PublicURL(key string) string {
	return storage.PublicURL(c.baseURL, key)
}

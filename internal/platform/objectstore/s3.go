// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures [NewS3].
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Store implements [Store] on top of aws-sdk-go-v2.
type S3Store struct {
	client *s3.Client
	bucket string
	logger *slog.Logger
}

// NewS3 builds an S3 client.
//
// Static credentials are used when both keys are set; otherwise the default
// AWS credential chain applies. A custom endpoint switches to path-style
// addressing, which R2 and MinIO require.
func NewS3(ctx context.Context, options S3Options, logger *slog.Logger) (*S3Store, error) {
	if options.Bucket == "" {
		return nil, fmt.Errorf("objectstore: bucket is required")
	}

	loadOptions := []func(*config.LoadOptions) error{config.WithRegion(options.Region)}
	if options.AccessKey != "" && options.SecretKey != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("object_store_configured",
		slog.String("bucket", options.Bucket),
		slog.String("region", options.Region),
		slog.Bool("custom_endpoint", options.Endpoint != ""),
	)

	return &S3Store{client: client, bucket: options.Bucket, logger: logger}, nil
}

func (store *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("objectstore: put %s: %w", key, err)
	}
	return nil
}

func (store *S3Store) Get(ctx context.Context, key string) (*Object, error) {
	output, err := store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("objectstore: get %s: %w", key, err)
	}

	return &Object{
		Body:          output.Body,
		ContentType:   aws.ToString(output.ContentType),
		ContentLength: aws.ToInt64(output.ContentLength),
	}, nil
}

// Delete removes key. S3 treats deleting a missing key as success.
func (store *S3Store) Delete(ctx context.Context, key string) error {
	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("objectstore: delete %s: %w", key, err)
	}
	return nil
}

// Ping checks that the bucket is reachable with the configured credentials.
func (store *S3Store) Ping(ctx context.Context) error {
	_, err := store.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(store.bucket)})
	if err != nil {
		return fmt.Errorf("objectstore: head bucket: %w", err)
	}
	return nil
}

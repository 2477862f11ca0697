package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// S3API is the subset of the S3 client used by S3FileStorage
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3FileStorage implements FileStorage on an S3-compatible bucket
type S3FileStorage struct {
	client S3API
	bucket string
}

// NewS3FileStorage builds an S3 client from config. A custom endpoint switches
// to path-style addressing for MinIO and LocalStack.
func NewS3FileStorage(ctx context.Context, cfg *StorageConfig) (*S3FileStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logrus.WithFields(logrus.Fields{
		"bucket":   cfg.Bucket,
		"region":   cfg.Region,
		"endpoint": cfg.Endpoint,
	}).Info("S3 storage initialized")

	return NewS3FileStorageWithClient(client, cfg.Bucket), nil
}

// NewS3FileStorageWithClient wraps an existing client
func NewS3FileStorageWithClient(client S3API, bucket string) *S3FileStorage {
	return &S3FileStorage{client: client, bucket: bucket}
}

// Store implements FileStorage.Store
func (s *S3FileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}

	if opts == nil {
		opts = &StoreOptions{}
	}

	if !opts.Overwrite {
		exists, err := s.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return NewStorageError("Store", key, ErrFileAlreadyExists, false)
		}
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentTypeFor(key, opts.ContentType)),
		Metadata:      opts.Metadata,
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	return nil
}

// Delete implements FileStorage.Delete
func (s *S3FileStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Delete", key, err, false)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return NewStorageError("Delete", key, translateS3Error(err), false)
	}
	return nil
}

// Exists implements FileStorage.Exists
func (s *S3FileStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.GetMetadata(ctx, key)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetMetadata implements FileStorage.GetMetadata
func (s *S3FileStorage) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("GetMetadata", key, err, false)
	}

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, NewStorageError("GetMetadata", key, translateS3Error(err), false)
	}

	metadata := &FileMetadata{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
		Metadata:    out.Metadata,
	}
	if out.LastModified != nil {
		metadata.LastModified = *out.LastModified
	}
	return metadata, nil
}

// List implements FileStorage.List
func (s *S3FileStorage) List(ctx context.Context, opts *ListOptions) (*ListResult, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(int32(opts.limit())),
	}
	if prefix := opts.prefix(); prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, NewStorageError("List", "", err, false)
	}

	result := &ListResult{IsTruncated: aws.ToBool(out.IsTruncated)}
	for _, obj := range out.Contents {
		file := FileMetadata{
			Key:         aws.ToString(obj.Key),
			Size:        aws.ToInt64(obj.Size),
			ContentType: contentTypeFor(aws.ToString(obj.Key), ""),
			ETag:        strings.Trim(aws.ToString(obj.ETag), `"`),
		}
		if obj.LastModified != nil {
			file.LastModified = *obj.LastModified
		}
		result.Files = append(result.Files, file)
	}
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Key < result.Files[j].Key })

	return result, nil
}

// Close implements FileStorage.Close
func (s *S3FileStorage) Close() error {
	return nil
}

// translateS3Error maps missing-object errors onto ErrFileNotFound
func translateS3Error(err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}
	return err
}

package storage

import (
	"context"
	"time"
)

// FileMetadata describes a published artifact
type FileMetadata struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	LastModified time.Time         `json:"last_modified"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ListOptions narrows a listing to keys under Prefix
type ListOptions struct {
	Prefix     string
	MaxResults int // 0 means defaultMaxResults
}

// ListResult holds one page of artifacts, ordered by key
type ListResult struct {
	Files       []FileMetadata
	IsTruncated bool
}

// StoreOptions controls how an artifact is written
type StoreOptions struct {
	ContentType string
	Metadata    map[string]string
	Overwrite   bool
}

// FileStorage is where packaged function archives are published.
// Keys are slash separated and relative, e.g. "functions/workoutPlanner.zip".
type FileStorage interface {
	Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error
	Exists(ctx context.Context, key string) (bool, error)
	GetMetadata(ctx context.Context, key string) (*FileMetadata, error)
	List(ctx context.Context, opts *ListOptions) (*ListResult, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// StorageConfig selects and configures a FileStorage backend
type StorageConfig struct {
	Type            string // "local", "s3" or "mock"
	BasePath        string // local root directory
	Bucket          string
	Region          string
	Endpoint        string // S3-compatible endpoint such as MinIO or LocalStack
	AccessKeyID     string // static credentials, both or neither
	SecretAccessKey string
}

const defaultMaxResults = 1000

func (o *ListOptions) limit() int {
	if o == nil || o.MaxResults <= 0 {
		return defaultMaxResults
	}
	return o.MaxResults
}

func (o *ListOptions) prefix() string {
	if o == nil {
		return ""
	}
	return o.Prefix
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFactory(t *testing.T) {
	factory := DefaultFactory()
	ctx := context.Background()

	t.Run("CreateMockStorage", func(t *testing.T) {
		storage, err := factory.Create(ctx, &StorageConfig{Type: "mock"})
		if err != nil {
			t.Fatalf("Failed to create mock storage: %v", err)
		}
		defer storage.Close()

		if _, ok := storage.(*RetryableFileStorage); !ok {
			t.Errorf("Expected retry wrapper, got %T", storage)
		}

		if err := storage.Store(ctx, "functions/hello.zip", []byte("zip"), nil); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
		metadata, err := storage.GetMetadata(ctx, "functions/hello.zip")
		if err != nil {
			t.Fatalf("GetMetadata failed: %v", err)
		}
		if metadata.Size != 3 {
			t.Errorf("Size mismatch: got %d, want 3", metadata.Size)
		}
	})

	t.Run("CreateLocalStorage", func(t *testing.T) {
		tempDir := t.TempDir()

		storage, err := factory.Create(ctx, &StorageConfig{Type: "LOCAL", BasePath: tempDir})
		if err != nil {
			t.Fatalf("Failed to create local storage: %v", err)
		}
		defer storage.Close()

		if err := storage.Store(ctx, "functions/hello.zip", []byte("zip"), nil); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(tempDir, "functions", "hello.zip")); err != nil {
			t.Errorf("File should exist on disk: %v", err)
		}
	})

	t.Run("S3RequiresBucket", func(t *testing.T) {
		if _, err := factory.Create(ctx, &StorageConfig{Type: "s3", Region: "us-east-1"}); err == nil {
			t.Error("Expected error for missing bucket")
		}
	})

	t.Run("CreateS3Storage", func(t *testing.T) {
		storage, err := NewFactory(nil).Create(ctx, &StorageConfig{
			Type:            "s3",
			Bucket:          "artifacts",
			Region:          "us-east-1",
			Endpoint:        "http://localhost:9000",
			AccessKeyID:     "minio",
			SecretAccessKey: "minio123",
		})
		if err != nil {
			t.Fatalf("Failed to create s3 storage: %v", err)
		}
		if _, ok := storage.(*S3FileStorage); !ok {
			t.Errorf("Expected *S3FileStorage without retry wrapper, got %T", storage)
		}
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		if _, err := factory.Create(ctx, &StorageConfig{Type: "gcs"}); err == nil {
			t.Error("Expected error for unsupported storage type")
		}
	})

	t.Run("NilConfig", func(t *testing.T) {
		if _, err := factory.Create(ctx, nil); err == nil {
			t.Error("Expected error for nil config")
		}
	})
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	metadataSuffix = ".metadata.json"
	tempSuffix     = ".tmp"
)

// LocalFileStorage keeps artifacts under a directory, with custom metadata in
// a JSON sidecar next to each file
type LocalFileStorage struct {
	root string
}

// NewLocalFileStorage creates root if needed
func NewLocalFileStorage(root string) (*LocalFileStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, NewStorageError("Open", "", err, false)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, NewStorageError("Open", "", err, false)
	}
	return &LocalFileStorage{root: abs}, nil
}

// Store writes data atomically: readers never observe a partial archive
func (l *LocalFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if opts == nil {
		opts = &StoreOptions{}
	}

	target := l.path(key)
	if !opts.Overwrite {
		if _, err := os.Stat(target); err == nil {
			return NewStorageError("Store", key, ErrFileAlreadyExists, false)
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return NewStorageError("Store", key, err, true)
	}
	if err := os.WriteFile(target+tempSuffix, data, 0644); err != nil {
		return NewStorageError("Store", key, err, true)
	}
	if err := os.Rename(target+tempSuffix, target); err != nil {
		_ = os.Remove(target + tempSuffix)
		return NewStorageError("Store", key, err, true)
	}

	// A replaced archive must not inherit stale metadata
	_ = os.Remove(target + metadataSuffix)
	if len(opts.Metadata) > 0 {
		encoded, err := json.Marshal(opts.Metadata)
		if err != nil {
			return NewStorageError("Store", key, err, false)
		}
		if err := os.WriteFile(target+metadataSuffix, encoded, 0644); err != nil {
			return NewStorageError("Store", key, fmt.Errorf("metadata: %w", err), true)
		}
	}
	return nil
}

// Exists reports whether key is stored
func (l *LocalFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := l.GetMetadata(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// GetMetadata stats the artifact and loads its sidecar
func (l *LocalFileStorage) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("GetMetadata", key, err, false)
	}

	info, err := os.Stat(l.path(key))
	if err != nil {
		return nil, localError("GetMetadata", key, err)
	}
	return l.describe(key, info), nil
}

// List walks the root and returns artifacts under the prefix, ordered by key
func (l *LocalFileStorage) List(ctx context.Context, opts *ListOptions) (*ListResult, error) {
	prefix := opts.prefix()

	var files []FileMetadata
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, metadataSuffix) || strings.HasSuffix(p, tempSuffix) {
			return nil
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, *l.describe(key, info))
		return nil
	})
	if err != nil {
		return nil, NewStorageError("List", prefix, err, true)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return page(files, opts.limit()), nil
}

// Delete removes the artifact and its sidecar
func (l *LocalFileStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Delete", key, err, false)
	}

	target := l.path(key)
	if err := os.Remove(target); err != nil {
		return localError("Delete", key, err)
	}
	_ = os.Remove(target + metadataSuffix)
	return nil
}

func (l *LocalFileStorage) Close() error {
	return nil
}

func (l *LocalFileStorage) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

func (l *LocalFileStorage) describe(key string, info fs.FileInfo) *FileMetadata {
	md := &FileMetadata{
		Key:          key,
		Size:         info.Size(),
		ContentType:  contentTypeFor(key, ""),
		LastModified: info.ModTime(),
		ETag:         fmt.Sprintf("%x-%x", info.Size(), info.ModTime().UnixNano()),
	}
	if raw, err := os.ReadFile(l.path(key) + metadataSuffix); err == nil {
		_ = json.Unmarshal(raw, &md.Metadata)
	}
	return md
}

// localError maps a missing file onto ErrFileNotFound; other I/O errors are retryable
func localError(op, key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return NewStorageError(op, key, ErrFileNotFound, false)
	}
	return NewStorageError(op, key, err, true)
}

// page truncates sorted files to limit
func page(files []FileMetadata, limit int) *ListResult {
	if len(files) > limit {
		return &ListResult{Files: files[:limit], IsTruncated: true}
	}
	return &ListResult{Files: files}
}

// validateKey rejects empty, absolute and traversing keys
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return ErrInvalidKey
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

func contentTypeFor(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	ext := strings.ToLower(filepath.Ext(key))
	if ext == ".zip" {
		return "application/zip"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

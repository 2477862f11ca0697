package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileStorage is an in-memory FileStorage for tests
type MockFileStorage struct {
	mu       sync.Mutex
	files    map[string]FileMetadata
	failures int
}

// NewMockFileStorage creates an empty MockFileStorage
func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{files: make(map[string]FileMetadata)}
}

// FailNext makes the next n operations fail with a retryable ErrStorageUnavailable
func (m *MockFileStorage) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

// Count returns the number of stored artifacts
func (m *MockFileStorage) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// Keys returns the stored keys in order
func (m *MockFileStorage) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedKeys("")
}

// begin locks m and consumes an injected failure, if any. The caller must unlock.
func (m *MockFileStorage) begin(op, key string) error {
	m.mu.Lock()
	if m.failures > 0 {
		m.failures--
		return NewStorageError(op, key, ErrStorageUnavailable, true)
	}
	return nil
}

func (m *MockFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("Store", key, err, false)
	}
	if opts == nil {
		opts = &StoreOptions{}
	}

	defer m.mu.Unlock()
	if err := m.begin("Store", key); err != nil {
		return err
	}
	if _, ok := m.files[key]; ok && !opts.Overwrite {
		return NewStorageError("Store", key, ErrFileAlreadyExists, false)
	}

	now := time.Now()
	md := FileMetadata{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  contentTypeFor(key, opts.ContentType),
		LastModified: now,
		ETag:         fmt.Sprintf("%x-%x", len(data), now.UnixNano()),
	}
	if len(opts.Metadata) > 0 {
		md.Metadata = make(map[string]string, len(opts.Metadata))
		for k, v := range opts.Metadata {
			md.Metadata[k] = v
		}
	}
	m.files[key] = md
	return nil
}

func (m *MockFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	defer m.mu.Unlock()
	if err := m.begin("Exists", key); err != nil {
		return false, err
	}
	_, ok := m.files[key]
	return ok, nil
}

func (m *MockFileStorage) GetMetadata(ctx context.Context, key string) (*FileMetadata, error) {
	defer m.mu.Unlock()
	if err := m.begin("GetMetadata", key); err != nil {
		return nil, err
	}
	md, ok := m.files[key]
	if !ok {
		return nil, NewStorageError("GetMetadata", key, ErrFileNotFound, false)
	}
	return &md, nil
}

func (m *MockFileStorage) List(ctx context.Context, opts *ListOptions) (*ListResult, error) {
	defer m.mu.Unlock()
	if err := m.begin("List", opts.prefix()); err != nil {
		return nil, err
	}

	keys := m.sortedKeys(opts.prefix())
	files := make([]FileMetadata, 0, len(keys))
	for _, key := range keys {
		files = append(files, m.files[key])
	}
	return page(files, opts.limit()), nil
}

func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	defer m.mu.Unlock()
	if err := m.begin("Delete", key); err != nil {
		return err
	}
	if _, ok := m.files[key]; !ok {
		return NewStorageError("Delete", key, ErrFileNotFound, false)
	}
	delete(m.files, key)
	return nil
}

func (m *MockFileStorage) Close() error {
	return nil
}

func (m *MockFileStorage) sortedKeys(prefix string) []string {
	keys := make([]string, 0, len(m.files))
	for key := range m.files {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

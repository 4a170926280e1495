package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage records uploads and deletions in memory.
type MemoryStorage struct {
	mu       sync.Mutex
	Uploaded map[string][]byte
	Deleted  []string
	FailNext error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Uploaded: make(map[string][]byte)}
}

func (m *MemoryStorage) UploadImage(_ context.Context, r io.Reader, folder, fileName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.FailNext; err != nil {
		m.FailNext = nil
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf("https://img.test/%s/%d-%s", folder, len(m.Uploaded), fileName)
	m.Uploaded[u] = data
	return u, nil
}

func (m *MemoryStorage) DeleteImage(_ context.Context, fileURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deleted = append(m.Deleted, fileURL)
	delete(m.Uploaded, fileURL)
	return nil
}

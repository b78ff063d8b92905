package views

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the counts in a local JSON document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts, err := s.read()
	if err != nil {
		return 0, err
	}
	return counts[id], nil
}

func (s *FileStore) All(_ context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Increment(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts, err := s.read()
	if err != nil {
		return 0, err
	}
	counts[id]++
	if err := s.write(counts); err != nil {
		return 0, err
	}
	return counts[id], nil
}

func (s *FileStore) Set(_ context.Context, id string, count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts, err := s.read()
	if err != nil {
		return err
	}
	counts[id] = count
	return s.write(counts)
}

func (s *FileStore) read() (map[string]int64, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", s.path, err)
	}
	return decodeCounts(data), nil
}

// write replaces the file through a rename so readers never see a partial document.
func (s *FileStore) write(counts map[string]int64) error {
	data, err := encodeCounts(counts)
	if err != nil {
		return fmt.Errorf("encodeCounts() > %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".views-*.json")
	if err != nil {
		return fmt.Errorf("os.CreateTemp() > %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s > %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s > %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("os.Rename() > %w", err)
	}
	return nil
}

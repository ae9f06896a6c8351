package kvcache

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const kvSeparator = " => "

// FileStore is a MemoryStore backed by an append-only list file with one
// "key => value" entry per line. Later lines win when the file is reloaded.
type FileStore struct {
	mem  MemoryStore
	mu   sync.Mutex
	path string
}

// NewFileStore loads an existing cache file, creating it when absent.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), kvSeparator)
		if !ok {
			continue
		}
		s.mem.m.Store(key, []byte(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	return s, nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.mem.Get(ctx, key)
}

// Set stores the entry and appends it to the list file. Keys and values
// containing a newline cannot be represented and are kept in memory only.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.mem.Set(ctx, key, value); err != nil {
		return err
	}
	if strings.ContainsAny(key, "\n") || strings.ContainsAny(string(value), "\n") || strings.Contains(key, kvSeparator) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open cache file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(key + kvSeparator + string(value) + "\n"); err != nil {
		return fmt.Errorf("append cache file: %w", err)
	}
	return nil
}

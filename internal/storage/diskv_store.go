package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore keeps each key as its own file under a base directory. Key
// segments separated by "/" become subdirectories.
type DiskvStore struct {
	basePath string
	d        *diskv.Diskv
}

func NewDiskvStore(basePath string) *DiskvStore {
	return &DiskvStore{basePath: basePath}
}

func (s *DiskvStore) open() {
	s.d = diskv.New(diskv.Options{
		BasePath:          s.basePath,
		TempDir:           filepath.Join(s.basePath, ".tmp"),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	})
}

func (s *DiskvStore) Init() error {
	if err := os.MkdirAll(s.basePath, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	s.open()
	return nil
}

func (s *DiskvStore) Load() error {
	info, err := os.Stat(s.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to stat store directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store path %s is not a directory", s.basePath)
	}
	s.open()
	return nil
}

func (s *DiskvStore) Close() error {
	return nil
}

func (s *DiskvStore) Get(key string) ([]byte, error) {
	if s.d == nil {
		return nil, ErrNotLoaded
	}
	if !s.d.Has(key) {
		return nil, ErrNotFound
	}
	v, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return v, nil
}

func (s *DiskvStore) Put(key string, value []byte) error {
	if s.d == nil {
		return ErrNotLoaded
	}
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *DiskvStore) Delete(key string) error {
	if s.d == nil {
		return ErrNotLoaded
	}
	if !s.d.Has(key) {
		return ErrNotFound
	}
	return s.d.Erase(key)
}

func (s *DiskvStore) GetConfigPath() string {
	return s.basePath
}

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(pathKey.Path, "/") + "/" + pathKey.FileName
}

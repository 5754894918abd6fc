// Package cache provides a small typed on-disk cache.
package cache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the subdirectory a cache writes to.
type Kind string

// Cache kinds.
const (
	ModelsCache Kind = "models"
)

const cacheExt = ".gob"

var errInvalidID = errors.New("invalid id")

// Cache stores gob encoded values of type T, one file per id.
type Cache[T any] struct {
	dir string
}

// New creates a cache in baseDir for the given kind.
func New[T any](baseDir string, kind Kind) (*Cache[T], error) {
	dir := filepath.Join(baseDir, string(kind))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Cache[T]{dir: dir}, nil
}

func (c *Cache[T]) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", errInvalidID
	}
	return filepath.Join(c.dir, id+cacheExt), nil
}

// Get reads the value stored under id. A missing value returns an error
// matching [os.ErrNotExist].
func (c *Cache[T]) Get(id string) (T, error) {
	var v T
	path, err := c.path(id)
	if err != nil {
		return v, fmt.Errorf("read: %w", err)
	}
	file, err := os.Open(path)
	if err != nil {
		return v, fmt.Errorf("read: %w", err)
	}
	defer file.Close() //nolint:errcheck

	if err := gob.NewDecoder(file).Decode(&v); err != nil {
		return v, fmt.Errorf("read: decode: %w", err)
	}
	return v, nil
}

// Set stores v under id, replacing what was there.
func (c *Cache[T]) Set(id string, v T) error {
	path, err := c.path(id)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	defer file.Close() //nolint:errcheck

	if err := gob.NewEncoder(file).Encode(v); err != nil {
		return fmt.Errorf("write: encode: %w", err)
	}
	return nil
}

// Delete removes the value stored under id.
func (c *Cache[T]) Delete(id string) error {
	path, err := c.path(id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

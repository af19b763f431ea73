// Package storage persists the catalog as a single JSON document. Every
// read and write holds a cross-process lock on "<path>.lock" and writes go
// through a temp file and a rename, so readers never see a partial file.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/simpleshop/types"
)

// Constants for file locking
const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// Document is the JSON file backing a catalog
type Document struct {
	path        string
	fs          FileSystem
	lockFactory FileLockFactory
	fileLock    FileLock
}

// NewDocument creates a document for path. Nothing is read until Load.
func NewDocument(path string, opts ...DocumentOption) *Document {
	d := &Document{path: path}
	for _, opt := range opts {
		opt(d)
	}
	if d.fs == nil {
		d.fs = OSFileSystem{}
	}
	if d.lockFactory == nil {
		d.lockFactory = FlockFactory{}
	}
	d.fileLock = d.lockFactory.New(path + ".lock")
	return d
}

// Path returns the document's file path
func (d *Document) Path() string {
	return d.path
}

// acquireLock tries the file lock up to lockMaxRetries times
func (d *Document) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := d.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

func (d *Document) withLock(fn func() error) error {
	// The lock file lives next to the document, so its directory must exist
	if err := d.fs.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	if err := d.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = d.fileLock.Unlock() }()

	return fn()
}

// Load reads the document. A missing, empty or null document is an empty
// object.
func (d *Document) Load() (*types.Object, error) {
	var obj *types.Object
	err := d.withLock(func() error {
		var err error
		obj, err = d.load()
		return err
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (d *Document) load() (*types.Object, error) {
	if _, err := d.fs.Stat(d.path); errors.Is(err, os.ErrNotExist) {
		return types.NewObject(), nil
	}

	data, err := d.fs.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return types.NewObject(), nil
	}

	obj := types.NewObject()
	if err := json.Unmarshal(data, obj); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return obj, nil
}

// Save overwrites the document with obj
func (d *Document) Save(obj *types.Object) error {
	if obj == nil {
		obj = types.NewObject()
	}
	return d.withLock(func() error {
		return d.save(obj)
	})
}

func (d *Document) save(obj *types.Object) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Unique temp name so concurrent writers never share one
	tmpFile := d.path + "." + uuid.NewString() + ".tmp"
	if err := d.fs.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := d.fs.Rename(tmpFile, d.path); err != nil {
		_ = d.fs.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
